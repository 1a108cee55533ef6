package proof

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/weisyn/zkverify/client/core/zkerrors"
)

// ParseInputs 解析公开输入文本为有序的 uint256 列表
// 支持逗号/空白分隔的十进制或0x十六进制，也支持 snarkjs public.json 的 JSON 数组
func ParseInputs(text string) ([]*big.Int, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, invalidInput("public input is empty", nil)
	}

	var tokens []string
	if strings.HasPrefix(trimmed, "[") {
		var raw []json.RawMessage
		if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
			return nil, invalidInput("malformed public input JSON array", err)
		}
		for _, r := range raw {
			tokens = append(tokens, strings.Trim(strings.TrimSpace(string(r)), `"`))
		}
	} else {
		tokens = strings.FieldsFunc(trimmed, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
	}

	if len(tokens) == 0 {
		return nil, invalidInput("public input is empty", nil)
	}

	values := make([]*big.Int, 0, len(tokens))
	for i, tok := range tokens {
		v, err := parseWord(tok)
		if err != nil {
			return nil, invalidInput(fmt.Sprintf("public input %d: %v", i, err), nil)
		}
		values = append(values, v)
	}
	return values, nil
}

func invalidInput(reason string, err error) error {
	return zkerrors.New(zkerrors.KindInvalidPublicInput, "proof.parseInputs", reason, err)
}
