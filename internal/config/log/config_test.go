package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

// TestNew 测试配置创建
func TestNew(t *testing.T) {
	t.Run("创建默认配置", func(t *testing.T) {
		config := New(nil)
		assert.Equal(t, defaultLogLevel, config.GetOptions().Level)
		assert.True(t, config.IsConsoleEnabled())
		assert.Empty(t, config.GetFilePath())
		assert.Equal(t, defaultMaxSize, config.GetMaxSize())
		assert.Equal(t, zapcore.InfoLevel, config.GetZapLevel())
	})

	t.Run("用户配置覆盖默认值", func(t *testing.T) {
		config := New(&LogOptions{Level: "DEBUG", FilePath: "/tmp/x.log", MaxBackups: 2})
		assert.Equal(t, zapcore.DebugLevel, config.GetZapLevel())
		assert.False(t, config.IsConsoleEnabled())
		assert.Equal(t, "/tmp/x.log", config.GetFilePath())
		assert.Equal(t, 2, config.GetMaxBackups())
		assert.Equal(t, defaultMaxAge, config.GetMaxAge())
	})

	t.Run("未知级别回落到Info", func(t *testing.T) {
		config := New(&LogOptions{Level: "verbose"})
		assert.Equal(t, zapcore.InfoLevel, config.GetZapLevel())
	})
}
