package xlog

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/SamJulson/RBTree/lib/infra"
)

type testMemOutWriter struct {
	data []byte
}

func (w *testMemOutWriter) Write(p []byte) (n int, err error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *testMemOutWriter) Reset() {
	w.data = make([]byte, 0, 4096)
}

func (w *testMemOutWriter) lines() []map[string]any {
	res := make([]map[string]any, 0, 8)
	for _, line := range strings.Split(strings.TrimSpace(string(w.data)), "\n") {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		if err := json.Unmarshal([]byte(line), &m); err == nil {
			res = append(res, m)
		}
	}
	return res
}

func newTestMemLogger(t *testing.T, opts ...XLoggerOption) (XLogger, *testMemOutWriter) {
	w := &testMemOutWriter{data: make([]byte, 0, 4096)}
	registerOutWriter(testMemAsOut, zapcore.AddSync(w))
	opts = append([]XLoggerOption{WithXLoggerWriter(testMemAsOut)}, opts...)
	logger := NewXLogger(opts...)
	require.NotNil(t, logger)
	return logger, w
}

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
}

func TestGetLogLevelOrDefault(t *testing.T) {
	testcases := []struct {
		env      string
		expected zapcore.Level
	}{
		{"", zapcore.DebugLevel},
		{"  ", zapcore.DebugLevel},
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"Error", zapcore.ErrorLevel},
		{"unknown", zapcore.DebugLevel},
	}
	for _, tc := range testcases {
		t.Run(tc.env, func(tt *testing.T) {
			require.Equal(tt, tc.expected, getLogLevelOrDefault(tc.env))
		})
	}
}

func TestXLogger_JSON(t *testing.T) {
	logger, w := newTestMemLogger(t, WithXLoggerLevel(LogLevelDebug))
	require.Equal(t, "debug", logger.Level())

	logger.Debug("debug msg", zap.Int("n", 1))
	logger.Info("info msg")
	logger.Warn("warn msg")
	logger.Error(errors.New("plain"), "error msg")
	logger.Logf(zapcore.InfoLevel, "logf %d", 42)
	require.NoError(t, logger.Sync())

	lines := w.lines()
	require.Len(t, lines, 5)
	require.Equal(t, "debug msg", lines[0]["msg"])
	require.Equal(t, "DEBUG", lines[0]["lvl"])
	require.Equal(t, float64(1), lines[0]["n"])
	require.Equal(t, "INFO", lines[1]["lvl"])
	require.Equal(t, "WARN", lines[2]["lvl"])
	require.Equal(t, "plain", lines[3]["error"])
	require.Equal(t, "logf 42", lines[4]["msg"])
	require.True(t, strings.HasPrefix(lines[0]["callAt"].(string), "xlog/xlog_test.go:"))

	w.Reset()
	logger.IncreaseLogLevel(zapcore.WarnLevel)
	require.Equal(t, "warn", logger.Level())
	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())
	lines = w.lines()
	require.Len(t, lines, 1)
	require.Equal(t, "kept", lines[0]["msg"])
}

func TestXLogger_ErrorStack(t *testing.T) {
	logger, w := newTestMemLogger(t, WithXLoggerLevel(LogLevelError))

	logger.ErrorStack(infra.NewErrorStack("with frames"), "stack msg")
	logger.ErrorStack(errors.New("without frames"), "plain msg")
	logger.ErrorStack(nil, "nil msg")
	require.NoError(t, logger.Sync())

	lines := w.lines()
	require.Len(t, lines, 3)
	require.Equal(t, "with frames", lines[0]["error"])
	stack, ok := lines[0]["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, stack)
	require.Contains(t, stack[0], "TestXLogger_ErrorStack")

	require.Equal(t, "without frames", lines[1]["error"])
	require.Nil(t, lines[1]["errorStack"])
	require.Nil(t, lines[2]["error"])
}

func TestXLogger_Options(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(_writerMax))
	})

	logger, w := newTestMemLogger(t,
		nil,
		WithXLoggerEncoder(PlainText),
		WithXLoggerLevel(LogLevelInfo),
		WithXLoggerLevelEncoder(nil),
		WithXLoggerTimeEncoder(nil),
	)
	logger.Info("plain text")
	require.NoError(t, logger.Sync())
	require.Contains(t, string(w.data), "plain text")
	require.Contains(t, string(w.data), "INFO")
}

func TestNopXLogger(t *testing.T) {
	logger := NewNopXLogger()
	require.Equal(t, "fatal", logger.Level())
	require.NotNil(t, logger.zap())
	logger.Debug("nop")
	logger.Error(errors.New("nop"), "nop")
	logger.ErrorStack(infra.NewErrorStack("nop"), "nop")
	require.NoError(t, logger.Sync())
}

func TestConsoleCore(t *testing.T) {
	lvlEnabler := zap.NewAtomicLevelAt(LogLevelDebug.zapLevel())
	cc := newConsoleCore(
		&lvlEnabler,
		JSON,
		_writerMax,
		zapcore.CapitalLevelEncoder,
		zapcore.ISO8601TimeEncoder,
	)
	require.Nil(t, cc)

	cc = newConsoleCore(
		&lvlEnabler,
		JSON,
		StdOut,
		zapcore.CapitalLevelEncoder,
		zapcore.ISO8601TimeEncoder,
	)
	require.NotNil(t, cc.outEncoder())
	require.NotNil(t, cc.writeSyncer())
	require.NotNil(t, cc.levelEncoder())
	require.NotNil(t, cc.timeEncoder())

	require.True(t, cc.Enabled(zapcore.DebugLevel))
	lvlEnabler.SetLevel(zapcore.ErrorLevel)
	require.False(t, cc.Enabled(zapcore.DebugLevel))
	require.False(t, cc.Enabled(zapcore.WarnLevel))
	require.True(t, cc.Enabled(zapcore.ErrorLevel))
}
