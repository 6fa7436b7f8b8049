package enums

import "fmt"

// LogCategory groups audit entries for filtered listing.
type LogCategory string

const (
	LogCategoryAuth      LogCategory = "auth"
	LogCategoryUser      LogCategory = "user"
	LogCategoryProject   LogCategory = "project"
	LogCategoryPayment   LogCategory = "payment"
	LogCategoryValuation LogCategory = "valuation"
	LogCategorySystem    LogCategory = "system"
)

var validLogCategories = []LogCategory{
	LogCategoryAuth,
	LogCategoryUser,
	LogCategoryProject,
	LogCategoryPayment,
	LogCategoryValuation,
	LogCategorySystem,
}

// String implements fmt.Stringer.
func (c LogCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known LogCategory.
func (c LogCategory) IsValid() bool {
	for _, candidate := range validLogCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseLogCategory converts raw input into a LogCategory.
func ParseLogCategory(value string) (LogCategory, error) {
	for _, candidate := range validLogCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid log category %q", value)
}

// CategoryForAction maps a chain action onto its listing category.
func CategoryForAction(action LogAction) LogCategory {
	switch action {
	case LogActionUserLogin, LogActionUserLogout:
		return LogCategoryAuth
	case LogActionUserRegistered, LogActionUserRoleChanged:
		return LogCategoryUser
	case LogActionProjectCreated, LogActionProjectUpdated, LogActionProjectApproved,
		LogActionProjectRejected, LogActionProjectStarted, LogActionProjectCompleted,
		LogActionCancellationRequested, LogActionCancellationApproved, LogActionCancellationRejected:
		return LogCategoryProject
	case LogActionPaymentRequestSent, LogActionBankSlipUploaded,
		LogActionPaymentApproved, LogActionPaymentRejected:
		return LogCategoryPayment
	case LogActionValuationCreated, LogActionValuationUpdated, LogActionValuationSubmitted,
		LogActionValuationReviewed, LogActionValuationApproved, LogActionValuationRejected,
		LogActionValuationMDApproved:
		return LogCategoryValuation
	default:
		return LogCategorySystem
	}
}
