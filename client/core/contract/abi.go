package contract

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/weisyn/zkverify/client/core/zkerrors"
)

// DefaultVerifyMethod 验证合约默认的验证方法名
const DefaultVerifyMethod = "verifyTx"

//go:embed abi/verifier.json
var verifierABI string

// DefaultABI 内置的验证合约接口：verifyTx(bytes proof, uint256[] input) returns (bool)
func DefaultABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(verifierABI))
	if err != nil {
		panic(fmt.Sprintf("embedded verifier abi: %v", err))
	}
	return parsed
}

// ParseABI 解析 JSON 格式的合约接口描述
func ParseABI(r io.Reader) (abi.ABI, error) {
	parsed, err := abi.JSON(r)
	if err != nil {
		return abi.ABI{}, zkerrors.New(zkerrors.KindInvalidInterface, "contract.parseABI", "malformed contract interface", err)
	}
	return parsed, nil
}

// LoadABI 从文件加载合约接口描述，path 为空时返回内置接口
func LoadABI(path string) (abi.ABI, error) {
	if path == "" {
		return DefaultABI(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("open abi file: %w", err)
	}
	defer f.Close()
	return ParseABI(f)
}

// checkVerifyMethod 校验验证方法的参数为 (bytes, uint256[]) 或 (bytes, uint256[N])
func checkVerifyMethod(contractABI abi.ABI, name string) (abi.Method, error) {
	const op = "contract.bind"
	method, ok := contractABI.Methods[name]
	if !ok {
		return abi.Method{}, zkerrors.New(zkerrors.KindInvalidInterface, op, "contract interface has no method "+name, nil)
	}
	if len(method.Inputs) != 2 {
		return abi.Method{}, zkerrors.New(zkerrors.KindInvalidInterface, op,
			fmt.Sprintf("%s takes %d arguments, want (bytes, uint256[])", name, len(method.Inputs)), nil)
	}
	if method.Inputs[0].Type.T != abi.BytesTy {
		return abi.Method{}, zkerrors.New(zkerrors.KindInvalidInterface, op,
			fmt.Sprintf("%s first argument is %s, want bytes", name, method.Inputs[0].Type.String()), nil)
	}
	input := method.Inputs[1].Type
	isList := input.T == abi.SliceTy || input.T == abi.ArrayTy
	if !isList || input.Elem.T != abi.UintTy || input.Elem.Size != 256 {
		return abi.Method{}, zkerrors.New(zkerrors.KindInvalidInterface, op,
			fmt.Sprintf("%s second argument is %s, want uint256[]", name, input.String()), nil)
	}
	return method, nil
}
