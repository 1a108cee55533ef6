package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verifyFlags struct {
	proof     string
	proofFile string
	input     string
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "提交证明和公开输入到验证合约并等待确认",
	Long: `提交证明和公开输入到验证合约并等待确认

证明格式（proof_format=auto 时按内容识别）:
  0x 开头        十六进制字节
  { 开头         snarkjs groth16 proof.json
  其他           原始 UTF-8 文本

公开输入为十进制或 0x 十六进制整数，多个用逗号分隔。

示例:
  zkverify verify --proof 0x1234 --input 7
  zkverify verify --proof-file proof.json --input 3,11`,
	RunE: func(cmd *cobra.Command, args []string) error {
		proofText, err := readProofText()
		if err != nil {
			return err
		}

		a, err := startApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.Stop()

		wf := a.Workflow()
		if wf.Account() == "" {
			if _, err := wf.Connect(cmd.Context()); err != nil {
				return err
			}
		}
		wf.SetProof(proofText)
		wf.SetInput(verifyFlags.input)

		outcome, err := wf.Submit(cmd.Context())
		if outcome != nil && formatter.Machine() {
			if perr := formatter.Print(outcome); perr != nil {
				return perr
			}
		}
		if err != nil {
			return err
		}
		if !formatter.Machine() {
			return formatter.Print(outcome.TxHash)
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyFlags.proof, "proof", "", "证明文本")
	verifyCmd.Flags().StringVar(&verifyFlags.proofFile, "proof-file", "", "从文件读取证明文本")
	verifyCmd.Flags().StringVar(&verifyFlags.input, "input", "", "公开输入")
	verifyCmd.MarkFlagsMutuallyExclusive("proof", "proof-file")
}

func readProofText() (string, error) {
	if verifyFlags.proofFile == "" {
		return verifyFlags.proof, nil
	}
	//nolint:gosec // G304: 证明文件路径由用户指定
	data, err := os.ReadFile(verifyFlags.proofFile)
	if err != nil {
		return "", fmt.Errorf("read proof file: %w", err)
	}
	return string(data), nil
}
