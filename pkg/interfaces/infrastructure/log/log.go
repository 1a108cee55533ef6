// Package log 定义客户端各模块共用的日志接口
package log

import "go.uber.org/zap"

// LogLevel 日志级别
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	FatalLevel LogLevel = "fatal"
)

// Logger 定义日志记录器接口
type Logger interface {
	// Debug 记录调试级别的日志
	Debug(msg string)

	// Debugf 使用格式化字符串记录调试级别的日志
	Debugf(format string, args ...interface{})

	// Info 记录信息级别的日志
	Info(msg string)

	// Infof 使用格式化字符串记录信息级别的日志
	Infof(format string, args ...interface{})

	// Warn 记录警告级别的日志
	Warn(msg string)

	// Warnf 使用格式化字符串记录警告级别的日志
	Warnf(format string, args ...interface{})

	// Error 记录错误级别的日志
	Error(msg string)

	// Errorf 使用格式化字符串记录错误级别的日志
	Errorf(format string, args ...interface{})

	// With 返回一个带有额外字段的Logger
	// 参数按键值对提供：key1, value1, key2, value2, ...
	With(args ...interface{}) Logger

	// Sync 同步日志缓冲区到输出
	Sync() error

	// GetZapLogger 获取原始的zap日志记录器
	GetZapLogger() *zap.Logger
}
