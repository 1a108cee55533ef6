package main

import (
	"github.com/spf13/cobra"

	"github.com/weisyn/zkverify/client/pkg/ux/flows"
	"github.com/weisyn/zkverify/internal/app"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "查看钱包连接状态（不会弹出授权）",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := startApp(cmd.Context(), false, app.WithoutObserver())
		if err != nil {
			return err
		}
		defer a.Stop()

		snap := a.Workflow().Snapshot()
		return formatter.PrintRecord(flows.StatusKeys(snap), flows.StatusPairs(snap), snap)
	},
}
