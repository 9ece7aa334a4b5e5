package markup

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// LogLevel 日志级别
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelNone
)

// Logger 结构化日志记录器
type Logger struct {
	mu      sync.RWMutex
	level   LogLevel
	logger  *log.Logger
	enabled bool
}

var (
	defaultLogger *Logger
	loggerOnce    sync.Once
)

// GetLogger 获取默认日志记录器（单例）
func GetLogger() *Logger {
	loggerOnce.Do(func() {
		defaultLogger = NewLogger(LogLevelWarn, os.Stderr)
	})
	return defaultLogger
}

// NewLogger 创建新的日志记录器
func NewLogger(level LogLevel, output io.Writer) *Logger {
	return &Logger{
		level:   level,
		logger:  log.New(output, "[markup] ", log.LstdFlags),
		enabled: true,
	}
}

// SetLevel 设置日志级别
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetEnabled 启用或禁用日志
func (l *Logger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// Debug 记录调试信息
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(LogLevelDebug, "DEBUG", format, v...)
}

// Info 记录信息
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(LogLevelInfo, "INFO", format, v...)
}

// Warn 记录警告
func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(LogLevelWarn, "WARN", format, v...)
}

// Error 记录错误
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(LogLevelError, "ERROR", format, v...)
}

// log 内部日志记录方法
func (l *Logger) log(level LogLevel, levelStr, format string, v ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.enabled || level < l.level {
		return
	}
	l.logger.Printf("[%s] %s", levelStr, fmt.Sprintf(format, v...))
}

// 渲染与事件追踪用的轻量调试输出，默认关闭

// debugOutput 调试输出目标
var debugOutput io.Writer = os.Stdout

// debugEnabled 是否启用调试输出
var debugEnabled = false

// SetDebugOutput 设置调试输出目标
func SetDebugOutput(w io.Writer) {
	debugOutput = w
	debugEnabled = true
}

// EnableDebug 启用调试输出
func EnableDebug() {
	debugEnabled = true
}

// DisableDebug 禁用调试输出
func DisableDebug() {
	debugEnabled = false
}

// debugPrintf 调试输出函数
func debugPrintf(format string, args ...interface{}) {
	if debugEnabled && debugOutput != nil {
		fmt.Fprintf(debugOutput, format, args...)
	}
}
