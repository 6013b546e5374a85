package core

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

type LogLevel int8

const (
	DebugLevel LogLevel = LogLevel(log.DebugLevel)
	InfoLevel  LogLevel = LogLevel(log.InfoLevel)
	WarnLevel  LogLevel = LogLevel(log.WarnLevel)
	ErrorLevel LogLevel = LogLevel(log.ErrorLevel)
	FatalLevel LogLevel = LogLevel(log.FatalLevel)
)

// ParseLogLevel maps the config spelling of a level. Unknown names fall back to info.
func ParseLogLevel(name string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

var once sync.Once

type logger struct {
	*log.Logger
}

var singleton *logger

func getLogger() *logger {
	once.Do(
		func() {
			l := log.NewWithOptions(os.Stderr, log.Options{
				ReportCaller:    true,
				ReportTimestamp: true,
				TimeFormat:      time.RFC3339,
				Prefix:          "Anima 🎨 ",
				// the Log* wrappers add one frame
				CallerOffset: 1,
			})
			l.SetLevel(log.DebugLevel)
			singleton = &logger{l}
		})
	return singleton
}

func SetLogLevel(level LogLevel) {
	getLogger().SetLevel(log.Level(level))
}

// Logger returns a child logger carrying the given key/value pairs on every line.
func Logger(keyvals ...interface{}) *log.Logger {
	return getLogger().With(keyvals...)
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
