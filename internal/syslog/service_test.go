package syslog

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/db/models"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/enums"
	pkgerrors "github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/errors"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/logger"
	"github.com/Pasidu-Mihiranga/Auditra-CodeCogs/pkg/pagination"
)

type memChainRepo struct {
	mu        sync.Mutex
	entries   []models.SystemLog
	createErr error
}

func (m *memChainRepo) WithTx(tx *gorm.DB) Repository {
	return m
}

func (m *memChainRepo) Create(ctx context.Context, entry *models.SystemLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memChainRepo) FindLast(ctx context.Context) (*models.SystemLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		return nil, nil
	}
	last := m.entries[len(m.entries)-1]
	return &last, nil
}

func (m *memChainRepo) ListAscending(ctx context.Context) ([]models.SystemLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.SystemLog, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *memChainRepo) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.SystemLog, int64, error) {
	entries, err := m.ListAscending(ctx)
	if err != nil {
		return nil, 0, err
	}
	var filtered []models.SystemLog
	for _, entry := range entries {
		if filters.Category != "" && entry.Category.String() != filters.Category {
			continue
		}
		if filters.Action != "" && entry.Action.String() != filters.Action {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered, int64(len(filtered)), nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
	svc, err := NewService(repo, stubTxRunner{}, logg, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAppendBuildsLinkedChain(t *testing.T) {
	repo := &memChainRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()
	actor := uuid.New()

	for i := 0; i < 3; i++ {
		if _, err := svc.Append(ctx, AppendInput{
			Action:      enums.LogActionProjectCreated,
			ActorID:     &actor,
			Description: fmt.Sprintf("project %d created", i),
		}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	if len(repo.entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(repo.entries))
	}
	if repo.entries[0].BlockIndex != 0 || repo.entries[0].PreviousHash != GenesisHash {
		t.Fatalf("genesis entry malformed: index=%d prev=%s", repo.entries[0].BlockIndex, repo.entries[0].PreviousHash)
	}
	for i := 1; i < 3; i++ {
		if repo.entries[i].BlockIndex != int64(i) {
			t.Fatalf("entry %d has index %d", i, repo.entries[i].BlockIndex)
		}
		if repo.entries[i].PreviousHash != repo.entries[i-1].CurrentHash {
			t.Fatalf("entry %d not linked to predecessor", i)
		}
	}
}

func TestAppendDerivesCategoryFromAction(t *testing.T) {
	repo := &memChainRepo{}
	svc := newTestService(t, repo)

	entry, err := svc.Append(context.Background(), AppendInput{
		Action:      enums.LogActionPaymentApproved,
		Description: "payment approved",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if entry.Category != enums.LogCategoryPayment {
		t.Fatalf("expected payment category, got %s", entry.Category)
	}
}

func TestAppendRejectsUnknownAction(t *testing.T) {
	svc := newTestService(t, &memChainRepo{})

	_, err := svc.Append(context.Background(), AppendInput{Action: enums.LogAction("SOMETHING_ELSE")})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestComputeHashDeterministic(t *testing.T) {
	actor := uuid.New()
	ts := time.Date(2025, 9, 1, 10, 30, 0, 0, time.UTC)

	first := ComputeHash(4, enums.LogActionUserLogin, &actor, "login ok", ts, GenesisHash)
	second := ComputeHash(4, enums.LogActionUserLogin, &actor, "login ok", ts, GenesisHash)
	if first != second {
		t.Fatalf("hash not deterministic: %s vs %s", first, second)
	}
	if len(first) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(first))
	}

	system := ComputeHash(4, enums.LogActionUserLogin, nil, "login ok", ts, GenesisHash)
	if system == first {
		t.Fatalf("nil actor should hash as system actor")
	}
}

func TestVerifyChainEmpty(t *testing.T) {
	repo := &memChainRepo{}
	svc := newTestService(t, repo)

	result, err := svc.VerifyChain(context.Background(), nil)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.IsValid || result.TotalBlocks != 0 {
		t.Fatalf("empty chain should be valid: %+v", result)
	}
}

func TestVerifyChainValidAndSelfAppends(t *testing.T) {
	repo := &memChainRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := svc.Append(ctx, AppendInput{
			Action:      enums.LogActionValuationSubmitted,
			Description: fmt.Sprintf("valuation %d submitted", i),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	result, err := svc.VerifyChain(ctx, nil)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected valid chain: %+v", result)
	}
	if result.TotalBlocks != 4 {
		t.Fatalf("result should cover the pre-verification chain, got %d blocks", result.TotalBlocks)
	}

	// The verification run itself lands on the chain afterwards.
	if len(repo.entries) != 5 {
		t.Fatalf("expected CHAIN_VERIFIED entry appended, have %d entries", len(repo.entries))
	}
	tail := repo.entries[4]
	if tail.Action != enums.LogActionChainVerified {
		t.Fatalf("expected CHAIN_VERIFIED tail, got %s", tail.Action)
	}
	if tail.PreviousHash != repo.entries[3].CurrentHash {
		t.Fatalf("CHAIN_VERIFIED entry not linked to prior tail")
	}

	// And a second verification still passes, covering the new tail.
	again, err := svc.VerifyChain(ctx, nil)
	if err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if !again.IsValid || again.TotalBlocks != 5 {
		t.Fatalf("expected 5 valid blocks, got %+v", again)
	}
}

func TestVerifyChainDetectsTamperedData(t *testing.T) {
	repo := &memChainRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := svc.Append(ctx, AppendInput{
			Action:      enums.LogActionProjectUpdated,
			Description: fmt.Sprintf("update %d", i),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	repo.entries[2].Description = "rewritten after the fact"

	result, err := svc.VerifyChain(ctx, nil)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.IsValid {
		t.Fatalf("expected broken chain")
	}
	if result.BrokenAt == nil || *result.BrokenAt != 2 {
		t.Fatalf("expected break at block 2, got %+v", result.BrokenAt)
	}
	if result.Message != "Chain broken at block 2: hash mismatch (data tampered)." {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestVerifyChainDetectsBrokenLink(t *testing.T) {
	repo := &memChainRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := svc.Append(ctx, AppendInput{
			Action:      enums.LogActionProjectUpdated,
			Description: fmt.Sprintf("update %d", i),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	// Re-pointing an entry at a forged predecessor breaks the link even
	// though its own hash would need recomputing too; the link check
	// fires first.
	repo.entries[3].PreviousHash = GenesisHash

	result, err := svc.VerifyChain(ctx, nil)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.IsValid {
		t.Fatalf("expected broken chain")
	}
	if result.BrokenAt == nil || *result.BrokenAt != 3 {
		t.Fatalf("expected break at block 3, got %+v", result.BrokenAt)
	}
	if result.Message != "Chain broken at block 3: previous_hash mismatch." {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestConcurrentAppendsStayLinear(t *testing.T) {
	repo := &memChainRepo{}
	svc := newTestService(t, repo)
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			if _, err := svc.Append(ctx, AppendInput{
				Action:      enums.LogActionUserLogin,
				Description: fmt.Sprintf("login %d", n),
			}); err != nil {
				t.Errorf("append %d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	if len(repo.entries) != writers {
		t.Fatalf("expected %d entries, got %d", writers, len(repo.entries))
	}
	seen := make(map[int64]bool, writers)
	for _, entry := range repo.entries {
		if seen[entry.BlockIndex] {
			t.Fatalf("duplicate block index %d", entry.BlockIndex)
		}
		seen[entry.BlockIndex] = true
	}
	for i := int64(0); i < writers; i++ {
		if !seen[i] {
			t.Fatalf("missing block index %d", i)
		}
	}

	if result := verifyEntries(repo.entries); !result.IsValid {
		t.Fatalf("concurrently built chain failed verification: %+v", result)
	}
}

func TestRecorderSwallowsFailures(t *testing.T) {
	repo := &memChainRepo{createErr: fmt.Errorf("db down")}
	svc := newTestService(t, repo)
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})

	rec := NewRecorder(svc, logg)
	rec.Record(context.Background(), AppendInput{
		Action:      enums.LogActionUserLogout,
		Description: "logout",
	})
	// No panic, no error surfaced: best effort by contract.
}
