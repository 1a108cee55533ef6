package main

import (
	"github.com/spf13/cobra"

	"github.com/weisyn/zkverify/internal/app"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "请求钱包授权账户",
	RunE: func(cmd *cobra.Command, args []string) error {
		// 直接请求授权，已授权的钱包会立即返回账户
		a, err := startApp(cmd.Context(), false, app.WithoutObserver(), app.WithoutExistingCheck())
		if err != nil {
			return err
		}
		defer a.Stop()

		// 失败已由工作流提示
		_, err = a.Workflow().Connect(cmd.Context())
		return err
	},
}
