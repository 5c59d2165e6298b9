// SPDX-License-Identifier: GPL-3.0-or-later
package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestGetLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"trace", logrus.TraceLevel},
		{"", logrus.InfoLevel},
		{"nonsense", logrus.InfoLevel},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, getLevel(tc.input))
		})
	}
}

func TestLoggerInitializedOnLoad(t *testing.T) {
	for _, prefix := range prefixes {
		assert.NotNil(t, Logger(prefix))
	}
}

func TestSetLogLevel(t *testing.T) {
	InitLogging("info")
	SetLogLevel("error")
	assert.Equal(t, logrus.ErrorLevel, Logger(LOG_THREADING).Level)
	InitLogging("info")
}

func TestLoggerUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { Logger("XX") })
}

func TestPrefixLogger(t *testing.T) {
	f := NewPrefixLogger("TH")
	out, err := f.Format(logrus.NewEntry(logrus.New()).WithField("a", 1))
	assert.NoError(t, err)
	assert.Contains(t, string(out), "TH:\t")
	assert.Contains(t, string(out), "a=1")
}
