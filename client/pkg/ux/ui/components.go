// Package ui 提供基础 UI 组件库
package ui

import (
	"time"

	"github.com/pterm/pterm"
)

// Components UI组件接口
type Components interface {
	// === 数据展示组件 ===

	// ShowTable 显示表格数据，第一行为表头
	ShowTable(title string, data [][]string) error

	// ShowKeyValuePairs 按 keys 的顺序显示键值对
	ShowKeyValuePairs(title string, keys []string, pairs map[string]string) error

	// === 交互选择组件 ===

	// ShowMenu 显示菜单供用户选择，返回选中的索引
	ShowMenu(title string, options []string) (int, error)

	// ShowConfirmDialog 显示确认对话框
	ShowConfirmDialog(title, message string, defaultValue bool) (bool, error)

	// ShowInputDialog 显示输入对话框
	ShowInputDialog(title, prompt string) (string, error)

	// === 状态显示组件 ===

	ShowSuccess(message string) error
	ShowError(message string) error
	ShowWarning(message string) error
	ShowInfo(message string) error
	ShowLoadingMessage(message string) error

	// ShowHeader 显示标题
	ShowHeader(text string) error
}

// ThemeConfig 主题配置
type ThemeConfig struct {
	PrimaryColor pterm.Color // 主色调
	SuccessColor pterm.Color // 成功色
	WarningColor pterm.Color // 警告色
	ErrorColor   pterm.Color // 错误色
	InfoColor    pterm.Color // 信息色
}

// GetDefaultTheme 获取默认主题配置
func GetDefaultTheme() *ThemeConfig {
	return &ThemeConfig{
		PrimaryColor: pterm.FgLightBlue,
		SuccessColor: pterm.FgGreen,
		WarningColor: pterm.FgYellow,
		ErrorColor:   pterm.FgRed,
		InfoColor:    pterm.FgCyan,
	}
}

// FormatDuration 格式化时间段
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return pterm.Sprintf("%dms", d.Milliseconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	if minutes > 0 {
		return pterm.Sprintf("%dm %ds", minutes, seconds)
	}
	return pterm.Sprintf("%ds", seconds)
}

// TruncateString 截断字符串
func TruncateString(str string, maxLen int) string {
	if len(str) <= maxLen || maxLen < 4 {
		return str
	}
	return str[:maxLen-3] + "..."
}
