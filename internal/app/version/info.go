// Package version provides version information for the application.
package version

import (
	"fmt"
	"runtime"
	"time"
)

// 构建时注入的变量，通过ldflags设置
var (
	Version   = "v0.1.0"
	BuildTime = "unknown" // RFC3339
	BuildEnv  = "development"
)

// BuildInfo 构建信息
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	BuildEnv  string `json:"build_env"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetBuildInfo 获取完整构建信息
func GetBuildInfo() *BuildInfo {
	return &BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		BuildEnv:  BuildEnv,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// GetFullVersion 获取完整版本信息（用于详细输出）
func GetFullVersion() string {
	info := GetBuildInfo()

	s := fmt.Sprintf("zkverify %s", info.Version)
	if info.BuildTime != "unknown" {
		if t, err := time.Parse(time.RFC3339, info.BuildTime); err == nil {
			s += fmt.Sprintf("\nbuilt: %s", t.Format("2006-01-02 15:04:05 MST"))
		} else {
			s += fmt.Sprintf("\nbuilt: %s", info.BuildTime)
		}
	}
	s += fmt.Sprintf("\nenv: %s", info.BuildEnv)
	s += fmt.Sprintf("\ngo: %s", info.GoVersion)
	s += fmt.Sprintf("\nplatform: %s", info.Platform)
	return s
}
