package enums

import "fmt"

// ValuationHistoryAction records who moved a valuation and how.
type ValuationHistoryAction string

const (
	ValuationHistorySubmitted          ValuationHistoryAction = "submitted"
	ValuationHistoryResubmitted        ValuationHistoryAction = "resubmitted"
	ValuationHistoryReviewed           ValuationHistoryAction = "reviewed"
	ValuationHistoryRejectedByAccessor ValuationHistoryAction = "rejected_by_accessor"
	ValuationHistoryApprovedBySV       ValuationHistoryAction = "approved_by_sv"
	ValuationHistoryRejectedBySV       ValuationHistoryAction = "rejected_by_sv"
	ValuationHistoryMDApproved         ValuationHistoryAction = "md_approved"
	ValuationHistoryRejectedByMDGM     ValuationHistoryAction = "rejected_by_mdgm"
)

var validValuationHistoryActions = []ValuationHistoryAction{
	ValuationHistorySubmitted,
	ValuationHistoryResubmitted,
	ValuationHistoryReviewed,
	ValuationHistoryRejectedByAccessor,
	ValuationHistoryApprovedBySV,
	ValuationHistoryRejectedBySV,
	ValuationHistoryMDApproved,
	ValuationHistoryRejectedByMDGM,
}

// String implements fmt.Stringer.
func (a ValuationHistoryAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ValuationHistoryAction.
func (a ValuationHistoryAction) IsValid() bool {
	for _, candidate := range validValuationHistoryActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseValuationHistoryAction converts raw input into a ValuationHistoryAction.
func ParseValuationHistoryAction(value string) (ValuationHistoryAction, error) {
	for _, candidate := range validValuationHistoryActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid valuation history action %q", value)
}
