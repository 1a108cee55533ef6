package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weisyn/zkverify/client/core/contract"
	"github.com/weisyn/zkverify/internal/app"
)

var deployFlags struct {
	bytecode string
	file     string
	save     bool
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "部署验证合约（需要已编译的字节码）",
	Long: `部署验证合约并输出合约地址

字节码可以是 0x 十六进制文本，也可以是带 bytecode 字段的编译产物 JSON。
使用 --save 将合约地址写入配置文件。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := deployFlags.bytecode
		if deployFlags.file != "" {
			//nolint:gosec // G304: 产物路径由用户指定
			data, err := os.ReadFile(deployFlags.file)
			if err != nil {
				return fmt.Errorf("read bytecode file: %w", err)
			}
			text = string(data)
		}
		bytecode, err := contract.ParseBytecode(text)
		if err != nil {
			return err
		}

		a, err := startApp(cmd.Context(), false, app.WithoutObserver(), app.WithoutExistingCheck())
		if err != nil {
			return err
		}
		defer a.Stop()

		account, err := a.Workflow().Connect(cmd.Context())
		if err != nil {
			return err
		}
		signer, err := a.Gateway().Signer(account)
		if err != nil {
			return err
		}

		_ = a.Components().ShowLoadingMessage("deploying verifier contract")
		result, err := contract.Deploy(cmd.Context(), signer, bytecode,
			contract.WithPollInterval(cfg.PollInterval.Std()),
			contract.WithLogger(a.Logger()),
		)
		if err != nil {
			_ = a.Components().ShowError("deploy failed: " + err.Error())
			return err
		}
		a.Logger().With("tx_hash", result.TxHash.Hex()).Infof("verifier deployed at %s", result.Address.Hex())
		_ = a.Components().ShowSuccess("Verifier deployed to: " + result.Address.Hex())

		if deployFlags.save {
			cfg.ContractAddress = result.Address.Hex()
			if err := cfg.Save(globalFlags.ConfigPath); err != nil {
				return err
			}
		}
		if formatter.Machine() {
			return formatter.Print(map[string]interface{}{
				"address":      result.Address.Hex(),
				"tx_hash":      result.TxHash.Hex(),
				"block_number": result.Receipt.BlockNumber,
			})
		}
		return formatter.Print(result.Address.Hex())
	},
}

func init() {
	deployCmd.Flags().StringVar(&deployFlags.bytecode, "bytecode", "", "合约字节码（0x 十六进制）")
	deployCmd.Flags().StringVar(&deployFlags.file, "bytecode-file", "", "从文件读取字节码或编译产物")
	deployCmd.Flags().BoolVar(&deployFlags.save, "save", false, "将合约地址写入配置文件")
	deployCmd.MarkFlagsMutuallyExclusive("bytecode", "bytecode-file")
	deployCmd.MarkFlagsOneRequired("bytecode", "bytecode-file")
}
