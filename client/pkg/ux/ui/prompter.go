package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/weisyn/zkverify/client/core/wallet"
)

// TerminalPrompter 终端中的钱包授权提示
// 先确认授权，再以不回显方式读取口令
type TerminalPrompter struct {
	ui  Components
	in  *os.File
	out io.Writer
}

// NewTerminalPrompter 创建终端授权提示，in/out 为 nil 时使用标准输入输出
func NewTerminalPrompter(components Components, in *os.File, out io.Writer) *TerminalPrompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &TerminalPrompter{ui: components, in: in, out: out}
}

// Passphrase 实现 wallet.Prompter
func (p *TerminalPrompter) Passphrase(ctx context.Context, account string) (string, error) {
	ok, err := p.ui.ShowConfirmDialog("Wallet authorization", fmt.Sprintf("Authorize account %s for zkverify?", account), true)
	if err != nil {
		if errors.Is(err, ErrCanceled) {
			return "", wallet.ErrPromptDismissed
		}
		return "", err
	}
	if !ok {
		return "", wallet.ErrPromptDismissed
	}

	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("passphrase prompt requires a terminal")
	}

	fmt.Fprint(p.out, "Passphrase: ")
	type result struct {
		passphrase []byte
		err        error
	}
	ch := make(chan result, 1)
	go func() {
		b, err := term.ReadPassword(fd)
		ch <- result{b, err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.out)
		return "", ctx.Err()
	case r := <-ch:
		fmt.Fprintln(p.out)
		if r.err != nil {
			return "", fmt.Errorf("read passphrase: %w", r.err)
		}
		return string(r.passphrase), nil
	}
}

var _ wallet.Prompter = (*TerminalPrompter)(nil)
