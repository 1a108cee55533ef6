package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weisyn/zkverify/internal/app/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
		return nil
	},
}
