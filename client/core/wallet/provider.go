// Package wallet 提供钱包提供者抽象、授权网关与签名器
//
// 钱包提供者沿用 EIP-1193 的请求形状：request({method, params})。
// 网关和签名器只依赖 Provider 接口，提供者由调用方显式注入。
package wallet

import (
	"context"
	"encoding/json"
	"fmt"
)

// 钱包提供者方法名
const (
	MethodAccounts        = "eth_accounts"
	MethodRequestAccounts = "eth_requestAccounts"
	MethodSendTransaction = "eth_sendTransaction"
	MethodCall            = "eth_call"
	MethodGetReceipt      = "eth_getTransactionReceipt"
	MethodChainID         = "eth_chainId"
)

// EIP-1193 与 JSON-RPC 错误码
const (
	CodeUserRejected      = 4001   // 用户拒绝请求
	CodeUnauthorized      = 4100   // 账户未授权
	CodeUnsupportedMethod = 4200   // 提供者不支持该方法
	CodeDisconnected      = 4900   // 提供者与所有链断开
	CodeChainDisconnected = 4901   // 提供者与当前链断开
	CodeMethodNotFound    = -32601 // JSON-RPC 方法不存在
	CodeInvalidParams     = -32602 // JSON-RPC 参数错误
)

// RequestArguments 钱包请求参数
type RequestArguments struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params,omitempty"`
}

// Provider 钱包提供者接口
// result 为指向结果的指针，nil 表示忽略结果
type Provider interface {
	Request(ctx context.Context, args RequestArguments, result interface{}) error
}

// ProviderError 提供者返回的错误（EIP-1193 ProviderRpcError）
type ProviderError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Error 实现 error 接口
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// ErrorCode 返回错误码，与 go-ethereum rpc.Error 接口一致
func (e *ProviderError) ErrorCode() int {
	return e.Code
}

// ErrorData 返回附加数据，与 go-ethereum rpc.DataError 接口一致
func (e *ProviderError) ErrorData() interface{} {
	return e.Data
}

// assignResult 把值按 JSON 语义写入 result 指针
func assignResult(result interface{}, value interface{}) error {
	if result == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("unmarshal result: %w", err)
	}
	return nil
}

// decodeParam 把第 i 个请求参数解码到 out
func decodeParam(args RequestArguments, i int, out interface{}) error {
	if i >= len(args.Params) {
		return &ProviderError{Code: CodeInvalidParams, Message: fmt.Sprintf("missing param %d for %s", i, args.Method)}
	}
	data, err := json.Marshal(args.Params[i])
	if err != nil {
		return fmt.Errorf("marshal param: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ProviderError{Code: CodeInvalidParams, Message: fmt.Sprintf("invalid param %d for %s: %v", i, args.Method, err)}
	}
	return nil
}
