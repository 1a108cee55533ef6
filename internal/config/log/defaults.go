package log

import (
	"go.uber.org/zap/zapcore"
)

// 日志配置默认值
const (
	// defaultLogLevel 默认日志级别
	defaultLogLevel = "info"

	// defaultToConsole 默认输出到控制台（stderr，避免污染 stdout 上的结果输出）
	defaultToConsole = true

	// defaultFilePath 默认不写文件
	defaultFilePath = ""

	// defaultMaxSize 单个日志文件最大大小(MB)
	defaultMaxSize = 20

	// defaultMaxBackups 最大备份文件数
	defaultMaxBackups = 5

	// defaultMaxAge 日志文件最大保留天数
	defaultMaxAge = 14

	// defaultCompress 默认压缩历史日志
	defaultCompress = true

	// defaultEnableCaller 默认不输出调用者信息，CLI 输出保持简洁
	defaultEnableCaller = false

	// defaultEnableStacktrace Error 级别附带堆栈
	defaultEnableStacktrace = false
)

// 默认的日志级别映射
var defaultLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"fatal": zapcore.FatalLevel,
}
