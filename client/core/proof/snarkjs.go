package proof

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/math"
)

// snarkJSProof snarkjs 输出的 Groth16 证明结构
type snarkJSProof struct {
	PiA      []string   `json:"pi_a"`
	PiB      [][]string `json:"pi_b"`
	PiC      []string   `json:"pi_c"`
	Protocol string     `json:"protocol"`
}

// encodeSnarkJS 将 snarkjs proof.json 编码为 8 个 uint256 字（256 字节）
// 顺序为 a.x a.y b.x1 b.x0 b.y1 b.y0 c.x c.y，G2 坐标按 Solidity 验证器约定交换
func encodeSnarkJS(data []byte) ([]byte, error) {
	var p snarkJSProof
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, invalidProof("malformed snarkjs proof JSON", err)
	}
	if p.Protocol != "" && !strings.EqualFold(p.Protocol, "groth16") {
		return nil, invalidProof(fmt.Sprintf("unsupported proof protocol %q", p.Protocol), nil)
	}
	if len(p.PiA) < 2 || len(p.PiC) < 2 || len(p.PiB) < 2 || len(p.PiB[0]) < 2 || len(p.PiB[1]) < 2 {
		return nil, invalidProof("snarkjs proof is missing curve points", nil)
	}

	words := []string{
		p.PiA[0], p.PiA[1],
		p.PiB[0][1], p.PiB[0][0],
		p.PiB[1][1], p.PiB[1][0],
		p.PiC[0], p.PiC[1],
	}

	out := make([]byte, 0, 32*len(words))
	for i, w := range words {
		v, err := parseWord(w)
		if err != nil {
			return nil, invalidProof(fmt.Sprintf("proof element %d: %v", i, err), nil)
		}
		out = append(out, math.U256Bytes(v)...)
	}
	return out, nil
}

// parseWord 解析十进制或0x十六进制的 uint256
func parseWord(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty value")
	}
	v, ok := math.ParseBig256(s)
	if !ok {
		return nil, fmt.Errorf("%q is not a uint256", s)
	}
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%q is negative", s)
	}
	return v, nil
}
