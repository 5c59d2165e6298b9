// SPDX-License-Identifier: GPL-3.0-or-later
package forwarder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDryRun(t *testing.T) {
	cfg := &configuration{}
	err := DryRun()(cfg)

	assert.Equal(t, cfg, &configuration{DryRun: true})
	assert.Nil(t, err)
}

func TestOnlyBuildCache(t *testing.T) {
	cfg := &configuration{}
	err := OnlyBuildCache()(cfg)

	assert.Equal(t, cfg, &configuration{OnlyBuildCache: true})
	assert.Nil(t, err)
}

func TestStripHistory(t *testing.T) {
	cfg := defaultConfiguration()
	err := StripHistory(false)(cfg)

	assert.False(t, cfg.StripHistory)
	assert.Nil(t, err)
}

func TestMaxPostLength(t *testing.T) {
	tests := []struct {
		name          string
		input         int
		expected      *configuration
		expectedError error
	}{
		{"ok", 500, &configuration{MaxPostLength: 500}, nil},
		{"minimum", 16, &configuration{MaxPostLength: 16}, nil},
		{"tooshort", 15, nil, fmt.Errorf("MaxPostLength must be at least 16")},
		{"negative", -1, nil, fmt.Errorf("MaxPostLength must be at least 16")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &configuration{}
			err := MaxPostLength(tc.input)(cfg)
			if tc.expected != nil {
				assert.Equal(t, tc.expected, cfg)
				assert.Nil(t, err)
			} else {
				assert.Equal(t, tc.expectedError, err)
			}
		})
	}
}

func TestBatchSize(t *testing.T) {
	tests := []struct {
		name          string
		input         int
		expected      *configuration
		expectedError error
	}{
		{"ok", 10, &configuration{BatchSize: 10}, nil},
		{"zero", 0, nil, fmt.Errorf("BatchSize must be positive")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &configuration{}
			err := BatchSize(tc.input)(cfg)
			if tc.expected != nil {
				assert.Equal(t, tc.expected, cfg)
				assert.Nil(t, err)
			} else {
				assert.Equal(t, tc.expectedError, err)
			}
		})
	}
}
