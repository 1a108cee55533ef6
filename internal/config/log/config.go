// Package log 提供日志配置：级别、控制台输出、文件轮转与编码器
package log

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// LogOptions 日志配置选项
type LogOptions struct {
	// === 基础配置 ===
	Level     string `json:"level"`      // 日志级别 (debug, info, warn, error, fatal)
	ToConsole bool   `json:"to_console"` // 是否输出到控制台(stderr)
	FilePath  string `json:"file_path"`  // 日志文件路径，为空表示不写文件

	// === 基础轮转配置 ===
	MaxSize    int  `json:"max_size"`    // 单个日志文件最大大小(MB)
	MaxBackups int  `json:"max_backups"` // 最大备份文件数
	MaxAge     int  `json:"max_age"`     // 日志文件最大保留天数
	Compress   bool `json:"compress"`    // 是否压缩历史日志文件

	// === 调试配置 ===
	EnableCaller     bool `json:"enable_caller"`     // 是否启用调用者信息
	EnableStacktrace bool `json:"enable_stacktrace"` // 是否启用堆栈跟踪
}

// Config 日志配置实现
type Config struct {
	options *LogOptions
}

// New 创建日志配置
// userOptions 为 nil 时使用全部默认值；非 nil 时零值字段回落到默认值
func New(userOptions *LogOptions) *Config {
	options := DefaultOptions()
	if userOptions != nil {
		applyUserOptions(options, userOptions)
	}
	return &Config{options: options}
}

// DefaultOptions 返回默认日志配置
func DefaultOptions() *LogOptions {
	return &LogOptions{
		Level:            defaultLogLevel,
		ToConsole:        defaultToConsole,
		FilePath:         defaultFilePath,
		MaxSize:          defaultMaxSize,
		MaxBackups:       defaultMaxBackups,
		MaxAge:           defaultMaxAge,
		Compress:         defaultCompress,
		EnableCaller:     defaultEnableCaller,
		EnableStacktrace: defaultEnableStacktrace,
	}
}

// applyUserOptions 应用用户配置覆盖默认值
func applyUserOptions(options *LogOptions, user *LogOptions) {
	if user.Level != "" {
		options.Level = strings.ToLower(user.Level)
	}
	options.ToConsole = user.ToConsole
	options.FilePath = user.FilePath
	if user.MaxSize > 0 {
		options.MaxSize = user.MaxSize
	}
	if user.MaxBackups > 0 {
		options.MaxBackups = user.MaxBackups
	}
	if user.MaxAge > 0 {
		options.MaxAge = user.MaxAge
	}
	options.Compress = user.Compress
	options.EnableCaller = user.EnableCaller
	options.EnableStacktrace = user.EnableStacktrace
}

// GetOptions 获取完整的日志配置选项
func (c *Config) GetOptions() *LogOptions {
	return c.options
}

// GetZapLevel 获取zap日志级别，未知级别返回Info
func (c *Config) GetZapLevel() zapcore.Level {
	if level, exists := defaultLevelMap[c.options.Level]; exists {
		return level
	}
	return zapcore.InfoLevel
}

// IsConsoleEnabled 是否启用控制台输出
func (c *Config) IsConsoleEnabled() bool {
	return c.options.ToConsole
}

// GetFilePath 获取日志文件路径
func (c *Config) GetFilePath() string {
	return c.options.FilePath
}

// GetMaxSize 获取单个文件最大大小(MB)
func (c *Config) GetMaxSize() int {
	return c.options.MaxSize
}

// GetMaxBackups 获取最大备份文件数
func (c *Config) GetMaxBackups() int {
	return c.options.MaxBackups
}

// GetMaxAge 获取最大保留天数
func (c *Config) GetMaxAge() int {
	return c.options.MaxAge
}

// IsCompressionEnabled 是否启用压缩
func (c *Config) IsCompressionEnabled() bool {
	return c.options.Compress
}

// IsCallerEnabled 是否启用调用者信息
func (c *Config) IsCallerEnabled() bool {
	return c.options.EnableCaller
}

// IsStacktraceEnabled 是否启用堆栈跟踪
func (c *Config) IsStacktraceEnabled() bool {
	return c.options.EnableStacktrace
}

// CreateFileEncoder 创建文件编码器(JSON)
func (c *Config) CreateFileEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
	})
}

// CreateConsoleEncoder 创建控制台编码器
func (c *Config) CreateConsoleEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.TimeEncoderOfLayout("15:04:05.000"),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	})
}
