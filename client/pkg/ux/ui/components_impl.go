package ui

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
)

// ErrCanceled 用户取消了交互
var ErrCanceled = errors.New("canceled by user")

type components struct {
	out   io.Writer
	theme *ThemeConfig
}

// NewComponents 创建UI组件实例，out 为 nil 时输出到标准输出
func NewComponents(out io.Writer) Components {
	if out == nil {
		out = os.Stdout
	}
	return &components{out: out, theme: GetDefaultTheme()}
}

// ShowTable 显示表格
func (c *components) ShowTable(title string, data [][]string) error {
	if len(data) == 0 {
		return fmt.Errorf("table data is empty")
	}
	if title != "" {
		c.header(title, c.theme.PrimaryColor)
	}
	rendered, err := pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	_, err = fmt.Fprintln(c.out, rendered)
	return err
}

// ShowKeyValuePairs 显示键值对
func (c *components) ShowKeyValuePairs(title string, keys []string, pairs map[string]string) error {
	data := make([][]string, 0, len(keys)+1)
	data = append(data, []string{"Field", "Value"})
	for _, k := range keys {
		data = append(data, []string{k, pairs[k]})
	}
	return c.ShowTable(title, data)
}

// ShowMenu 显示菜单选择
func (c *components) ShowMenu(title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("menu has no options")
	}
	if title != "" {
		c.header(title, c.theme.PrimaryColor)
	}

	result, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithDefaultText("Select an option").
		WithMaxHeight(10).
		WithFilter(false).
		Show()
	if err != nil {
		return -1, interactiveError("menu", err)
	}
	for i, option := range options {
		if option == result {
			return i, nil
		}
	}
	return -1, fmt.Errorf("unknown menu option %q", result)
}

// ShowConfirmDialog 显示确认对话框
func (c *components) ShowConfirmDialog(title, message string, defaultValue bool) (bool, error) {
	if title != "" {
		c.header(title, c.theme.WarningColor)
	}
	result, err := pterm.DefaultInteractiveConfirm.
		WithDefaultText(message).
		WithDefaultValue(defaultValue).
		Show()
	if err != nil {
		return false, interactiveError("confirm dialog", err)
	}
	return result, nil
}

// ShowInputDialog 显示输入对话框
func (c *components) ShowInputDialog(title, prompt string) (string, error) {
	if title != "" {
		c.header(title, c.theme.InfoColor)
	}
	result, err := pterm.DefaultInteractiveTextInput.WithDefaultText(prompt).Show()
	if err != nil {
		return "", interactiveError("input dialog", err)
	}
	return result, nil
}

// ShowSuccess 显示成功消息
func (c *components) ShowSuccess(message string) error {
	return c.println(pterm.Success.WithPrefix(pterm.Prefix{Text: "SUCCESS", Style: pterm.NewStyle(c.theme.SuccessColor)}), message)
}

// ShowError 显示错误消息
func (c *components) ShowError(message string) error {
	return c.println(pterm.Error.WithPrefix(pterm.Prefix{Text: "ERROR", Style: pterm.NewStyle(c.theme.ErrorColor)}), message)
}

// ShowWarning 显示警告消息
func (c *components) ShowWarning(message string) error {
	return c.println(pterm.Warning.WithPrefix(pterm.Prefix{Text: "WARNING", Style: pterm.NewStyle(c.theme.WarningColor)}), message)
}

// ShowInfo 显示信息消息
func (c *components) ShowInfo(message string) error {
	return c.println(pterm.Info.WithPrefix(pterm.Prefix{Text: "INFO", Style: pterm.NewStyle(c.theme.InfoColor)}), message)
}

// ShowLoadingMessage 显示加载消息
func (c *components) ShowLoadingMessage(message string) error {
	return c.println(pterm.Info.WithPrefix(pterm.Prefix{Text: "LOADING", Style: pterm.NewStyle(c.theme.InfoColor)}), message)
}

// ShowHeader 显示标题
func (c *components) ShowHeader(text string) error {
	c.header(text, c.theme.PrimaryColor)
	return nil
}

func (c *components) header(text string, color pterm.Color) {
	fmt.Fprintln(c.out, pterm.DefaultSection.WithStyle(pterm.NewStyle(color)).Sprint(text))
}

func (c *components) println(printer *pterm.PrefixPrinter, message string) error {
	_, err := fmt.Fprint(c.out, printer.Sprintln(message))
	return err
}

// interactiveError 统一交互组件的错误，Ctrl+C 视为取消
func interactiveError(what string, err error) error {
	if err.Error() == "interrupt" {
		return ErrCanceled
	}
	return fmt.Errorf("%s failed: %w", what, err)
}
