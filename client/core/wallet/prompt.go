package wallet

import (
	"context"
	"errors"
)

// ErrPromptDismissed 用户关闭了授权提示
var ErrPromptDismissed = errors.New("prompt dismissed")

// Prompter 本地钱包的授权提示
// 相当于浏览器钱包的弹窗：阻塞直到用户响应，没有超时
type Prompter interface {
	// Passphrase 请求用户为 account 输入解锁口令
	// 用户拒绝时返回 ErrPromptDismissed
	Passphrase(ctx context.Context, account string) (string, error)
}

// PrompterFunc 函数形式的 Prompter
type PrompterFunc func(ctx context.Context, account string) (string, error)

// Passphrase 实现 Prompter
func (f PrompterFunc) Passphrase(ctx context.Context, account string) (string, error) {
	return f(ctx, account)
}
