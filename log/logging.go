// SPDX-License-Identifier: GPL-3.0-or-later
package log

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggers   map[string]*logrus.Logger
	loggersMu sync.RWMutex
)

func NewPrefixLogger(prefix string) *PrefixLogger {
	stringPrefix := fmt.Sprintf("%s:\t", prefix)

	formatter := &logrus.TextFormatter{}
	formatter.FullTimestamp = true
	formatter.TimestampFormat = "15:04:05"
	formatter.DisableColors = strings.Contains(runtime.GOOS, "windows")
	return &PrefixLogger{
		formatter,
		[]byte(stringPrefix),
	}
}

type PrefixLogger struct {
	formatter logrus.Formatter
	prefix    []byte
}

func (f *PrefixLogger) Format(entry *logrus.Entry) ([]byte, error) {
	text, err := f.formatter.Format(entry)
	if err != nil {
		return nil, err
	}
	return append(append([]byte{}, f.prefix...), text...), nil
}

const (
	LOG_MAIN        = "MA"
	LOG_FORWARDER   = "FW"
	LOG_THREADING   = "TH"
	LOG_MAIL        = "ML"
	LOG_PERSISTENCE = "PI"
	LOG_GMAIL       = "GM"
	LOG_IMAP        = "IM"
	LOG_DISCORD     = "DC"
)

var prefixes = []string{
	LOG_MAIN,
	LOG_FORWARDER,
	LOG_THREADING,
	LOG_MAIL,
	LOG_PERSISTENCE,
	LOG_GMAIL,
	LOG_IMAP,
	LOG_DISCORD,
}

func init() {
	InitLogging("info")
}

func getLevel(loglevel string) logrus.Level {
	switch strings.ToLower(loglevel) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "panic":
		return logrus.PanicLevel
	case "fatal":
		return logrus.FatalLevel
	}

	// Info is default
	return logrus.InfoLevel
}

func newLogger(prefix, loglevel string) *logrus.Logger {
	l := logrus.New()
	l.Level = getLevel(loglevel)
	l.Formatter = NewPrefixLogger(prefix)
	return l
}

// InitLogging (re)creates all subsystem loggers with the given level.
func InitLogging(loglevel string) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	loggers = make(map[string]*logrus.Logger)
	for _, prefix := range prefixes {
		loggers[prefix] = newLogger(prefix, loglevel)
	}
}

func SetLogLevel(loglevel string) {
	loggersMu.RLock()
	defer loggersMu.RUnlock()

	for _, v := range loggers {
		v.SetLevel(getLevel(loglevel))
	}
}

func Logger(logger string) *logrus.Logger {
	loggersMu.RLock()
	defer loggersMu.RUnlock()

	l, ok := loggers[logger]
	if !ok {
		panic("Logger " + logger + " unknown")
	}

	return l
}
