package workflow

import "fmt"

// 表单字段名
const (
	FieldProof = "proof"
	FieldInput = "input"
)

// FormData 用户编辑的两个文本字段
// 提交后不会清空
type FormData struct {
	Proof string `json:"proof"`
	Input string `json:"input"`
}

// set 按字段名更新
func (f *FormData) set(name, value string) error {
	switch name {
	case FieldProof:
		f.Proof = value
	case FieldInput:
		f.Input = value
	default:
		return fmt.Errorf("unknown form field %q", name)
	}
	return nil
}
