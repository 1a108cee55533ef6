// Package log 提供基于zap的日志实现
// 支持控制台输出、lumberjack 文件轮转与结构化字段
package log

import (
	"fmt"
	"os"
	"path/filepath"

	logconfig "github.com/weisyn/zkverify/internal/config/log"
	logInterface "github.com/weisyn/zkverify/pkg/interfaces/infrastructure/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 是日志记录器的结构体，实现了log.Logger接口
type Logger struct {
	zapLogger *zap.Logger
	sugar     *zap.SugaredLogger
}

// createFileWriter 创建日志文件写入器
func createFileWriter(logPath string, config *logconfig.Config) (zapcore.WriteSyncer, error) {
	// 确保日志目录存在
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	// 配置日志轮转
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    config.GetMaxSize(),           // megabytes
		MaxBackups: config.GetMaxBackups(),        // 最多保留文件数
		MaxAge:     config.GetMaxAge(),            // days
		Compress:   config.IsCompressionEnabled(), // 是否压缩
	}), nil
}

// New 根据配置创建新的日志记录器
func New(config *logconfig.Config) (logInterface.Logger, error) {
	if config == nil {
		config = logconfig.New(nil)
	}
	level := zap.NewAtomicLevelAt(config.GetZapLevel())

	var cores []zapcore.Core

	// 1. 控制台输出写到 stderr，stdout 留给命令结果
	if config.IsConsoleEnabled() {
		cores = append(cores, zapcore.NewCore(config.CreateConsoleEncoder(), zapcore.AddSync(os.Stderr), level))
	}

	// 2. 文件输出
	if path := config.GetFilePath(); path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve log file path: %w", err)
		}
		writer, err := createFileWriter(absPath, config)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(config.CreateFileEncoder(), writer, level))
	}

	if len(cores) == 0 {
		return NewNop(), nil
	}

	zapOptions := []zap.Option{}
	if config.IsCallerEnabled() {
		// 跳过一层日志封装，使调用位置指向真实业务代码位置
		zapOptions = append(zapOptions, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if config.IsStacktraceEnabled() {
		zapOptions = append(zapOptions, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return NewFromZap(zap.New(zapcore.NewTee(cores...), zapOptions...)), nil
}

// NewFromZap 包装已有的zap日志记录器
func NewFromZap(zapLogger *zap.Logger) logInterface.Logger {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &Logger{
		zapLogger: zapLogger,
		sugar:     zapLogger.Sugar(),
	}
}

// NewNop 创建不输出任何内容的日志记录器
func NewNop() logInterface.Logger {
	return NewFromZap(zap.NewNop())
}

// GetZapLogger 获取底层的zap日志记录器
func (l *Logger) GetZapLogger() *zap.Logger {
	return l.zapLogger
}

// 将可变参数转换为zap字段
// 参数必须是偶数个，按键值对形式提供：key1, value1, key2, value2, ...
func toZapFields(args ...interface{}) []zap.Field {
	if len(args)%2 != 0 {
		// 参数不是偶数个，忽略最后一个参数以确保键值对的完整性
		args = args[:len(args)-1]
	}

	fields := make([]zap.Field, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields = append(fields, zap.Any(key, args[i+1]))
	}
	return fields
}

// Debug 记录调试级别的日志
func (l *Logger) Debug(msg string) {
	l.sugar.Debug(msg)
}

// Debugf 使用格式化字符串记录调试级别的日志
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info 记录信息级别的日志
func (l *Logger) Info(msg string) {
	l.sugar.Info(msg)
}

// Infof 使用格式化字符串记录信息级别的日志
func (l *Logger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn 记录警告级别的日志
func (l *Logger) Warn(msg string) {
	l.sugar.Warn(msg)
}

// Warnf 使用格式化字符串记录警告级别的日志
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error 记录错误级别的日志
func (l *Logger) Error(msg string) {
	l.sugar.Error(msg)
}

// Errorf 使用格式化字符串记录错误级别的日志
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// With 返回一个带有额外字段的Logger
func (l *Logger) With(args ...interface{}) logInterface.Logger {
	zapLogger := l.zapLogger.With(toZapFields(args...)...)
	return &Logger{
		zapLogger: zapLogger,
		sugar:     zapLogger.Sugar(),
	}
}

// Sync 同步日志缓冲区到输出
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}
