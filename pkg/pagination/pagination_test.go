package pagination

import "testing"

func TestNormalizeDefaults(t *testing.T) {
	n := Params{}.Normalize()
	if n.Page != 1 {
		t.Fatalf("expected page 1, got %d", n.Page)
	}
	if n.PageSize != DefaultPageSize {
		t.Fatalf("expected default page size, got %d", n.PageSize)
	}
}

func TestNormalizeCapsPageSize(t *testing.T) {
	n := Params{Page: 3, PageSize: 5000}.Normalize()
	if n.PageSize != MaxPageSize {
		t.Fatalf("expected capped page size %d, got %d", MaxPageSize, n.PageSize)
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, PageSize: 10}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := (Params{Page: 4, PageSize: 10}).Offset(); got != 30 {
		t.Fatalf("expected offset 30, got %d", got)
	}
}

func TestNewPageTotals(t *testing.T) {
	page := NewPage([]int{1, 2, 3}, Params{Page: 1, PageSize: 10}, 25)
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 total pages, got %d", page.TotalPages)
	}
	if page.TotalCount != 25 {
		t.Fatalf("expected total 25, got %d", page.TotalCount)
	}

	empty := NewPage[int](nil, Params{}, 0)
	if empty.Items == nil {
		t.Fatalf("items should never be nil")
	}
	if empty.TotalPages != 0 {
		t.Fatalf("expected 0 pages for empty set, got %d", empty.TotalPages)
	}
}
