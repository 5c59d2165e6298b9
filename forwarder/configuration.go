// SPDX-License-Identifier: GPL-3.0-or-later
package forwarder

import "fmt"

const (
	DefaultMaxPostLength = 2000
	DefaultBatchSize     = 50

	// a post must at least hold a "(nn/nn)" marker and some text
	minPostLength = 16
)

type ConfigFunc func(c *configuration) error

func DryRun() ConfigFunc {
	return func(c *configuration) error {
		c.DryRun = true

		return nil
	}
}

func OnlyBuildCache() ConfigFunc {
	return func(c *configuration) error {
		c.OnlyBuildCache = true

		return nil
	}
}

func StripHistory(strip bool) ConfigFunc {
	return func(c *configuration) error {
		c.StripHistory = strip

		return nil
	}
}

func MaxPostLength(length int) ConfigFunc {
	return func(c *configuration) error {
		if length < minPostLength {
			return fmt.Errorf("MaxPostLength must be at least %d", minPostLength)
		}

		c.MaxPostLength = length
		return nil
	}
}

func BatchSize(size int) ConfigFunc {
	return func(c *configuration) error {
		if size < 1 {
			return fmt.Errorf("BatchSize must be positive")
		}

		c.BatchSize = size
		return nil
	}
}

type configuration struct {
	DryRun         bool
	OnlyBuildCache bool
	StripHistory   bool

	MaxPostLength int
	BatchSize     int
}

func defaultConfiguration() *configuration {
	return &configuration{
		StripHistory:  true,
		MaxPostLength: DefaultMaxPostLength,
		BatchSize:     DefaultBatchSize,
	}
}
