// Package logging provides the leveled, field-carrying logger used across
// docxir. It is backed by zap; an optional file sink is rotated by lumberjack.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
	LogOff
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "DEBUG"
	case LogInfo:
		return "INFO"
	case LogWarn:
		return "WARN"
	case LogError:
		return "ERROR"
	case LogOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogDebug:
		return zapcore.DebugLevel
	case LogInfo:
		return zapcore.InfoLevel
	case LogWarn:
		return zapcore.WarnLevel
	case LogError:
		return zapcore.ErrorLevel
	default:
		// above fatal: nothing is enabled
		return zapcore.FatalLevel + 1
	}
}

// ParseLevel maps a config string to a level. Unknown values yield LogInfo.
func ParseLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LogDebug
	case "info":
		return LogInfo
	case "warn", "warning":
		return LogWarn
	case "error":
		return LogError
	case "off", "none":
		return LogOff
	default:
		return LogInfo
	}
}

type Fields map[string]interface{}

// Options configures a Logger built by New.
type Options struct {
	Level LogLevel
	// Format is "console" (default) or "json".
	Format string
	// Writer receives log lines; defaults to os.Stderr.
	Writer io.Writer
	// FilePath, when set, adds a rotated JSON file sink.
	FilePath string
}

type Logger struct {
	z      *zap.Logger
	level  zap.AtomicLevel
	fields Fields
}

// New builds a logger from opts.
func New(opts Options) *Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := zap.NewAtomicLevelAt(opts.Level.zapLevel())

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.MessageKey = "message"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var enc zapcore.Encoder
	if opts.Format == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.AddSync(w), level)}

	if opts.FilePath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), level))
	}

	return &Logger{
		z:      zap.New(zapcore.NewTee(cores...)),
		level:  level,
		fields: make(Fields),
	}
}

// NewLogger creates a console logger writing to w.
func NewLogger(w io.Writer, level LogLevel) *Logger {
	if w == nil {
		w = io.Discard
	}
	return New(Options{Writer: w, Level: level})
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop(), level: zap.NewAtomicLevelAt(LogOff.zapLevel()), fields: make(Fields)}
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level.SetLevel(level.zapLevel())
}

func (l *Logger) IsDebugMode() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(Fields{key: value})
}

func (l *Logger) WithFields(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		merged[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)
	zf := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		zf = append(zf, zap.Any(k, fields[k]))
	}
	return &Logger{z: l.z.With(zf...), level: l.level, fields: merged}
}

// Fields returns a copy of the fields attached to the logger.
func (l *Logger) Fields() Fields {
	out := make(Fields, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}
	return out
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if ce := l.z.Check(zapcore.DebugLevel, ""); ce != nil {
		ce.Message = fmt.Sprintf(format, args...)
		ce.Write()
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.z.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.z.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.z.Error(fmt.Sprintf(format, args...))
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

var (
	globalMu     sync.RWMutex
	globalLogger = NewLogger(os.Stderr, LogWarn)
)

// Global logging functions
func SetLogger(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()
}

func GetLogger() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

func Debug(format string, args ...interface{}) {
	GetLogger().Debug(format, args...)
}

func Info(format string, args ...interface{}) {
	GetLogger().Info(format, args...)
}

func Warn(format string, args ...interface{}) {
	GetLogger().Warn(format, args...)
}

func Error(format string, args ...interface{}) {
	GetLogger().Error(format, args...)
}

func WithField(key string, value interface{}) *Logger {
	return GetLogger().WithField(key, value)
}

func WithFields(fields Fields) *Logger {
	return GetLogger().WithFields(fields)
}
