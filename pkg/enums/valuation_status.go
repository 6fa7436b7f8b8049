package enums

import "fmt"

// ValuationStatus is the review state of a valuation report.
type ValuationStatus string

const (
	ValuationStatusDraft      ValuationStatus = "draft"
	ValuationStatusSubmitted  ValuationStatus = "submitted"
	ValuationStatusReviewed   ValuationStatus = "reviewed"
	ValuationStatusApproved   ValuationStatus = "approved"
	ValuationStatusMDApproved ValuationStatus = "md_approved"
	ValuationStatusRejected   ValuationStatus = "rejected"
)

var validValuationStatuses = []ValuationStatus{
	ValuationStatusDraft,
	ValuationStatusSubmitted,
	ValuationStatusReviewed,
	ValuationStatusApproved,
	ValuationStatusMDApproved,
	ValuationStatusRejected,
}

// String implements fmt.Stringer.
func (s ValuationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ValuationStatus.
func (s ValuationStatus) IsValid() bool {
	for _, candidate := range validValuationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseValuationStatus converts raw input into a ValuationStatus.
func ParseValuationStatus(value string) (ValuationStatus, error) {
	for _, candidate := range validValuationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid valuation status %q", value)
}
