package log

import (
	"fmt"
	"os"

	"github.com/v2rayA/beego/v2/logs"
)

var Log *logs.BeeLogger

func init() {
	Log = logs.NewLogger(200)
	Log.EnableFuncCallDepth(true)
	Log.SetLogFuncCallDepth(Log.GetLogFuncCallDepth() + 1)
	_ = Log.SetLogger("console")
}

func InitLog(logWay string, logFile string, logLevel string, maxDays int64, disableColor bool) {
	SetLogFile(logWay, logFile, maxDays, disableColor)
	SetLogLevel(logLevel)
}

// SetLogFile: logWay should be "console" or "file"
func SetLogFile(logWay string, logFile string, maxDays int64, disableColor bool) {
	if logWay == "console" {
		params := fmt.Sprintf(`{"color": %v}`, !disableColor)
		_ = Log.SetLogger("console", params)
	} else {
		params := fmt.Sprintf(`{"filename": "%s", "maxdays": %d}`, logFile, maxDays)
		_ = Log.SetLogger("file", params)
	}
}

// SetLogLevel: logLevel should be one of trace, debug, info, warn or error
func SetLogLevel(logLevel string) {
	level := 4 // warning
	switch logLevel {
	case "error":
		level = 3
	case "warn":
		level = 4
	case "info":
		level = 6
	case "debug":
		level = 7
	case "trace":
		level = 8
	default:
		level = 6
	}
	Log.SetLevel(level)
}

func Trace(format string, v ...interface{}) {
	Log.Trace(format, v...)
}

func Debug(format string, v ...interface{}) {
	Log.Debug(format, v...)
}

func Info(format string, v ...interface{}) {
	Log.Info(format, v...)
}

func Warn(format string, v ...interface{}) {
	Log.Warn(format, v...)
}

func Error(format string, v ...interface{}) {
	Log.Error(format, v...)
}

func Fatal(format string, v ...interface{}) {
	Log.Error(format, v...)
	os.Exit(1)
}
