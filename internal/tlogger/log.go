// Package tlogger is the process-wide leveled logfmt logger.
package tlogger

import (
	"io"
	"os"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

var (
	mu     sync.RWMutex
	out    io.Writer = os.Stderr
	option           = level.AllowInfo()
	hlog   log.Logger
)

func init() {
	rebuild()
}

// rebuild must be called with mu held for writing, or from init.
func rebuild() {
	l := log.NewLogfmtLogger(log.NewSyncWriter(out))
	l = log.With(l, "ts", log.DefaultTimestampUTC, "caller", log.Caller(6))
	hlog = level.NewFilter(l, option)
}

// ApplyLogLevel sets the minimum level: "debug", "warn", "error", "all" or
// anything else for info.
func ApplyLogLevel(lvl string) {
	mu.Lock()
	defer mu.Unlock()
	switch lvl {
	case "debug":
		option = level.AllowDebug()
	case "warn":
		option = level.AllowWarn()
	case "error":
		option = level.AllowError()
	case "all":
		option = level.AllowAll()
	default:
		option = level.AllowInfo()
	}
	rebuild()
}

// ApplyVerbose maps a -v counter onto a level.
func ApplyVerbose(v int) {
	switch v {
	case 0:
		ApplyLogLevel("info")
	case 1:
		ApplyLogLevel("debug")
	default:
		ApplyLogLevel("all")
	}
}

// SetOutput redirects log lines to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	rebuild()
}

func logger() log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return hlog
}

// Debug add a log entry w/ Debug level
func Debug(keyvals ...interface{}) {
	_ = level.Debug(logger()).Log(keyvals...)
}

// Info add a log entry w/ Info level
func Info(keyvals ...interface{}) {
	_ = level.Info(logger()).Log(keyvals...)
}

// Warn add a log entry w/ Warn level
func Warn(keyvals ...interface{}) {
	_ = level.Warn(logger()).Log(keyvals...)
}

// Error add a log entry w/ Error level
func Error(keyvals ...interface{}) {
	_ = level.Error(logger()).Log(keyvals...)
}
