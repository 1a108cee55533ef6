package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/weisyn/zkverify/client/pkg/ux/flows"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "交互式会话：编辑证明和输入，连接钱包并提交验证",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := startApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.Stop()

		if addr := a.ObserverAddr(); addr != "" {
			_ = a.Components().ShowInfo("observer api: http://" + addr + "/status")
		}
		return flows.NewVerifyFlow(a.Components(), a.Workflow()).Run(ctx)
	},
}
