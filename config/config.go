// SPDX-License-Identifier: GPL-3.0-or-later
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	SourceGmail = "gmail"
	SourceImap  = "imap"
)

// Duration is a time.Duration read from a string such as "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type Gmail struct {
	CredentialsPath string
	TokenPath       string
	User            string
}

type Imap struct {
	Host           string
	User           string
	Password       string
	ReceivedFolder string
	SentFolder     string
}

type Config struct {
	Database string

	Source string
	Gmail  Gmail
	Imap   Imap

	WebhookUrl        string
	RequestsPerSecond float64
	RetryAttempts     int
	RetryDelay        Duration

	FetchInterval    Duration
	FetchConcurrency int

	MaxPostLength int
	StripHistory  bool

	DryRun         bool
	OnlyBuildCache bool

	Loglevel *string
}

// ReadConfig reads and validates a config file. Overrides are applied
// before validation, for values taken from the command line.
func ReadConfig(filename string, overrides ...func(c *Config)) (*Config, error) {
	config := &Config{
		Database: "persistence.db",
		Source:   SourceGmail,
		Gmail: Gmail{
			CredentialsPath: "credentials.json",
			TokenPath:       "token.json",
			User:            "me",
		},
		Imap: Imap{
			ReceivedFolder: "INBOX",
			SentFolder:     "Sent",
		},
		RequestsPerSecond: 1,
		RetryAttempts:     3,
		RetryDelay:        Duration{5 * time.Second},
		FetchInterval:     Duration{5 * time.Minute},
		FetchConcurrency:  8,
		MaxPostLength:     2000,
		StripHistory:      true,
	}

	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	for _, override := range overrides {
		override(config)
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if err := validateNonEmptyStringField(c.Database, "Database name must not be empty, set to a filename for the sqlite database"); err != nil {
		return err
	}

	switch c.Source {
	case SourceGmail:
		if err := validateNonEmptyStringField(c.Gmail.CredentialsPath, "Gmail.CredentialsPath must not be empty, set to the OAuth client secrets file"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.Gmail.TokenPath, "Gmail.TokenPath must not be empty, set to a file to cache the OAuth token in"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.Gmail.User, `Gmail.User must not be empty, set to "me" or the mail address of the account`); err != nil {
			return err
		}
	case SourceImap:
		if err := validateNonEmptyStringField(c.Imap.Host, "Imap.Host must not be empty, set to host:port of the imap server"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.Imap.User, "Imap.User must not be empty, set to username on the imap server"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.Imap.Password, "Imap.Password must not be empty, set to password of Imap.User on the imap server"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.Imap.ReceivedFolder, "Imap.ReceivedFolder must not be empty"); err != nil {
			return err
		}
		if err := validateNonEmptyStringField(c.Imap.SentFolder, "Imap.SentFolder must not be empty"); err != nil {
			return err
		}
	default:
		return fmt.Errorf(`Source must be either "%s" or "%s"`, SourceGmail, SourceImap)
	}

	if !c.OnlyBuildCache {
		if err := validateNonEmptyStringField(c.WebhookUrl, "WebhookUrl must not be empty, set to the webhook of the forum channel"); err != nil {
			return err
		}
		if _, err := url.ParseRequestURI(c.WebhookUrl); err != nil {
			return fmt.Errorf("WebhookUrl is not a valid url: %w", err)
		}
	}

	if c.FetchInterval.Duration <= 0 {
		return fmt.Errorf("FetchInterval must be positive")
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FetchConcurrency must be positive")
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RetryAttempts must be positive")
	}
	if c.RetryDelay.Duration < 0 {
		return fmt.Errorf("RetryDelay must not be negative")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("RequestsPerSecond must not be negative")
	}

	return nil
}

func validateNonEmptyStringField(field string, err string) error {
	if len(strings.TrimSpace(field)) == 0 {
		return errors.New(err)
	}

	return nil
}
