// Package output provides output formatting functionality for client commands.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Format 输出格式
type Format string

const (
	// FormatText 对齐的键值文本（默认）
	FormatText Format = "text"
	// FormatJSON 单行JSON
	FormatJSON Format = "json"
	// FormatPretty 美化JSON
	FormatPretty Format = "pretty"
)

// ParseFormat 解析输出格式，空为 text
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatPretty:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or pretty)", s)
	}
}

// Formatter 命令结果格式化器
// 结果写入 writer，提示文字由界面组件负责
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter 创建格式化器
func NewFormatter(format Format, writer io.Writer) *Formatter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Formatter{format: format, writer: writer}
}

// Machine 是否为机器可读格式
func (f *Formatter) Machine() bool {
	return f.format == FormatJSON || f.format == FormatPretty
}

// Print 以 JSON 输出 data；text 格式下按 fmt 默认格式输出
func (f *Formatter) Print(data interface{}) error {
	switch f.format {
	case FormatJSON:
		return f.printJSON(data, false)
	case FormatPretty:
		return f.printJSON(data, true)
	default:
		if _, err := fmt.Fprintln(f.writer, data); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
}

// PrintRecord 输出键值记录：text 格式按 keys 顺序对齐，JSON 格式输出 data
func (f *Formatter) PrintRecord(keys []string, pairs map[string]string, data interface{}) error {
	if f.Machine() {
		return f.Print(data)
	}
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", k, pairs[k]); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (f *Formatter) printJSON(data interface{}, pretty bool) error {
	var out []byte
	var err error
	if pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := fmt.Fprintln(f.writer, string(out)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
