// Package logger provides the package-level structured logger used across
// waycore. Level is controlled by WAYCORE_LOG_LEVEL; default is info.
package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Logger is the shared logger instance. Components should prefer the
// package-level helpers below, or call Logger.With(...) to attach fields
// scoped to a seat, resource id, or subsystem.
var Logger *log.Logger

func init() {
	Logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	SetLevel(os.Getenv("WAYCORE_LOG_LEVEL"))
}

// SetLevel sets the log level from a string (trace/debug/info/warn/error/fatal).
// Unrecognized or empty values fall back to info.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "TRACE":
		Logger.SetLevel(log.DebugLevel - 1)
	case "DEBUG":
		Logger.SetLevel(log.DebugLevel)
	case "WARN", "WARNING":
		Logger.SetLevel(log.WarnLevel)
	case "ERROR":
		Logger.SetLevel(log.ErrorLevel)
	case "FATAL":
		Logger.SetLevel(log.FatalLevel)
	default:
		Logger.SetLevel(log.InfoLevel)
	}
}

// With returns a derived logger carrying the given key/value fields,
// mirroring charmbracelet/log's structured-field convention.
func With(keyvals ...interface{}) *log.Logger {
	return Logger.With(keyvals...)
}

func Trace(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(fmt.Sprintf("trace: %v", msg), keyvals...)
}
func Debug(msg interface{}, keyvals ...interface{}) { Logger.Debug(msg, keyvals...) }
func Info(msg interface{}, keyvals ...interface{})  { Logger.Info(msg, keyvals...) }
func Warn(msg interface{}, keyvals ...interface{})  { Logger.Warn(msg, keyvals...) }
func Error(msg interface{}, keyvals ...interface{}) { Logger.Error(msg, keyvals...) }

func Debugf(format string, args ...interface{}) { Logger.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { Logger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { Logger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { Logger.Errorf(format, args...) }
