package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weisyn/zkverify/client/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "配置文件管理",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示生效的配置（含环境变量和参数覆盖）",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "写入配置文件（已存在的字段保留）",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := globalFlags.ConfigPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := cfg.Validate(false); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
