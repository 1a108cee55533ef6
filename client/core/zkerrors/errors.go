// Package zkerrors 定义验证工作流中各组件共享的错误类别
package zkerrors

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind string

const (
	KindProviderUnavailable  Kind = "ProviderUnavailable"  // 未检测到钱包提供者
	KindUserRejected         Kind = "UserRejected"         // 用户拒绝了钱包授权
	KindSubmissionFailed     Kind = "SubmissionFailed"     // 交易在上链前被拒绝
	KindTransactionReverted  Kind = "TransactionReverted"  // 交易上链后执行失败
	KindConfirmationFailed   Kind = "ConfirmationFailed"   // 交易已提交但未等到回执
	KindInvalidProofEncoding Kind = "InvalidProofEncoding" // 证明文本无法编码
	KindInvalidPublicInput   Kind = "InvalidPublicInput"   // 公开输入无法解析
	KindNotConnected         Kind = "NotConnected"         // 未连接账户时提交
	KindSubmissionInFlight   Kind = "SubmissionInFlight"   // 已有提交正在进行
	KindInvalidInterface     Kind = "InvalidInterface"     // 合约接口描述不符合要求
)

// 类别哨兵，供 errors.Is 比较
var (
	ErrProviderUnavailable  = &Error{Kind: KindProviderUnavailable}
	ErrUserRejected         = &Error{Kind: KindUserRejected}
	ErrSubmissionFailed     = &Error{Kind: KindSubmissionFailed}
	ErrTransactionReverted  = &Error{Kind: KindTransactionReverted}
	ErrConfirmationFailed   = &Error{Kind: KindConfirmationFailed}
	ErrInvalidProofEncoding = &Error{Kind: KindInvalidProofEncoding}
	ErrInvalidPublicInput   = &Error{Kind: KindInvalidPublicInput}
	ErrNotConnected         = &Error{Kind: KindNotConnected}
	ErrSubmissionInFlight   = &Error{Kind: KindSubmissionInFlight}
	ErrInvalidInterface     = &Error{Kind: KindInvalidInterface}
)

// Error 带类别的错误
type Error struct {
	Kind   Kind   // 错误类别
	Op     string // 出错的操作，如 "wallet.requestConnection"
	Reason string // 面向用户的原因（如合约 revert 原因）
	Err    error  // 底层错误
}

// New 创建带类别的错误
func New(kind Kind, op string, reason string, err error) *Error {
	return &Error{Kind: kind, Op: op, Reason: reason, Err: err}
}

// Error 实现 error 接口
func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap 返回底层错误
func (e *Error) Unwrap() error {
	return e.Err
}

// Is 按类别比较
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf 提取错误链中第一个类别，没有则返回空
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ReasonOf 提取错误链中第一个非空原因
func ReasonOf(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Reason != "" {
			return e.Reason
		}
		err = e.Err
	}
	return ""
}

// Wrapf 为已有错误附加类别
func Wrapf(kind Kind, op string, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Reason: fmt.Sprintf(format, args...), Err: err}
}
