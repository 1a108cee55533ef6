package workflow

import "github.com/weisyn/zkverify/client/core/zkerrors"

// AlertMessage 把错误转换为面向用户的提示文本
func AlertMessage(err error) string {
	reason := failureReason(err)
	switch zkerrors.KindOf(err) {
	case zkerrors.KindProviderUnavailable:
		return "wallet connecting failed. Install a wallet."
	case zkerrors.KindUserRejected:
		return "wallet request rejected: " + reason
	case zkerrors.KindNotConnected:
		return "connect a wallet before submitting"
	case zkerrors.KindSubmissionInFlight:
		return "a submission is already in progress"
	case zkerrors.KindInvalidProofEncoding:
		return "invalid proof: " + reason
	case zkerrors.KindInvalidPublicInput:
		return "invalid public input: " + reason
	case zkerrors.KindInvalidInterface:
		return "contract interface mismatch: " + reason
	case zkerrors.KindSubmissionFailed:
		return "submission failed: " + reason
	case zkerrors.KindTransactionReverted:
		return "transaction reverted: " + reason
	case zkerrors.KindConfirmationFailed:
		return "transaction not confirmed: " + reason
	default:
		return "verification failed: " + reason
	}
}
