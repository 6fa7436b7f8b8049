package enums

import "fmt"

// LogAction identifies the kind of event recorded on the audit chain.
type LogAction string

const (
	LogActionUserLogin             LogAction = "USER_LOGIN"
	LogActionUserLogout            LogAction = "USER_LOGOUT"
	LogActionUserRegistered        LogAction = "USER_REGISTERED"
	LogActionUserRoleChanged       LogAction = "USER_ROLE_CHANGED"
	LogActionProjectCreated        LogAction = "PROJECT_CREATED"
	LogActionProjectUpdated        LogAction = "PROJECT_UPDATED"
	LogActionProjectApproved       LogAction = "PROJECT_APPROVED"
	LogActionProjectRejected       LogAction = "PROJECT_REJECTED"
	LogActionProjectStarted        LogAction = "PROJECT_STARTED"
	LogActionProjectCompleted      LogAction = "PROJECT_COMPLETED"
	LogActionPaymentRequestSent    LogAction = "PAYMENT_REQUEST_SENT"
	LogActionBankSlipUploaded      LogAction = "BANK_SLIP_UPLOADED"
	LogActionPaymentApproved       LogAction = "PAYMENT_APPROVED"
	LogActionPaymentRejected       LogAction = "PAYMENT_REJECTED"
	LogActionCancellationRequested LogAction = "CANCELLATION_REQUESTED"
	LogActionCancellationApproved  LogAction = "CANCELLATION_APPROVED"
	LogActionCancellationRejected  LogAction = "CANCELLATION_REJECTED"
	LogActionValuationCreated      LogAction = "VALUATION_CREATED"
	LogActionValuationUpdated      LogAction = "VALUATION_UPDATED"
	LogActionValuationSubmitted    LogAction = "VALUATION_SUBMITTED"
	LogActionValuationReviewed     LogAction = "VALUATION_REVIEWED"
	LogActionValuationApproved     LogAction = "VALUATION_APPROVED"
	LogActionValuationRejected     LogAction = "VALUATION_REJECTED"
	LogActionValuationMDApproved   LogAction = "VALUATION_MD_APPROVED"
	LogActionChainVerified         LogAction = "CHAIN_VERIFIED"
)

var validLogActions = []LogAction{
	LogActionUserLogin,
	LogActionUserLogout,
	LogActionUserRegistered,
	LogActionUserRoleChanged,
	LogActionProjectCreated,
	LogActionProjectUpdated,
	LogActionProjectApproved,
	LogActionProjectRejected,
	LogActionProjectStarted,
	LogActionProjectCompleted,
	LogActionPaymentRequestSent,
	LogActionBankSlipUploaded,
	LogActionPaymentApproved,
	LogActionPaymentRejected,
	LogActionCancellationRequested,
	LogActionCancellationApproved,
	LogActionCancellationRejected,
	LogActionValuationCreated,
	LogActionValuationUpdated,
	LogActionValuationSubmitted,
	LogActionValuationReviewed,
	LogActionValuationApproved,
	LogActionValuationRejected,
	LogActionValuationMDApproved,
	LogActionChainVerified,
}

// String implements fmt.Stringer.
func (a LogAction) String() string {
	return string(a)
}

// IsValid reports whether the value is a known LogAction.
func (a LogAction) IsValid() bool {
	for _, candidate := range validLogActions {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseLogAction converts raw input into a LogAction.
func ParseLogAction(value string) (LogAction, error) {
	for _, candidate := range validLogActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid log action %q", value)
}
