package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the minimum level and the encoder ("console" or "json").
type Config struct {
	Level  LogLevel
	Format string
}

// New builds a Logger writing to stdout.
func New(cfg Config) *Logger {
	level := zap.NewAtomicLevelAt(zapLevels[cfg.Level])

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
		EncodeDuration: zapcore.MillisDurationEncoder,
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	return &Logger{level: level, base: zap.New(core)}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{level: zap.NewAtomicLevelAt(zapcore.ErrorLevel), base: zap.NewNop()}
}

// SetLogLevel sets the minimum log level
func (l *Logger) SetLogLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level.SetLevel(zapLevels[level])
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	_ = l.base.Sync()
}

func (l *Logger) log(level zapcore.Level, component, message string, args ...interface{}) {
	if !l.level.Enabled(level) {
		return
	}

	s := l.base.Sugar()
	if component != "" {
		s = s.With("component", component)
	}
	s.Logf(level, message, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(component, message string, args ...interface{}) {
	l.log(zapcore.DebugLevel, component, message, args...)
}

// Info logs an info message
func (l *Logger) Info(component, message string, args ...interface{}) {
	l.log(zapcore.InfoLevel, component, message, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(component, message string, args ...interface{}) {
	l.log(zapcore.WarnLevel, component, message, args...)
}

// Error logs an error message
func (l *Logger) Error(component, message string, args ...interface{}) {
	l.log(zapcore.ErrorLevel, component, message, args...)
}

// Fatal logs an error message and exits
func (l *Logger) Fatal(component, message string, args ...interface{}) {
	l.log(zapcore.ErrorLevel, component, message, args...)
	l.Sync()
	os.Exit(1)
}
