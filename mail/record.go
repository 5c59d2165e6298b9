// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"fmt"
	stdmail "net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/CrawX/go-mail-forwarder/log"
	"github.com/sirupsen/logrus"
)

// zone annotations some senders append after the numeric offset
var zoneAnnotations = regexp.MustCompile(`\((UTC|GMT|PDT|CEST|CET)\)`)

var fallbackDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"2 Jan 2006 15:04:05 -0700",
	time.RFC3339,
}

// NewRecord decodes and validates an envelope. The returned record is
// invalid (and carries no content) when a required header is missing, the
// date cannot be parsed or no body part could be decoded.
func NewRecord(env *domain.RawEnvelope) *domain.MessageRecord {
	logger := log.Logger(log.LOG_MAIL).WithFields(logrus.Fields{"mailid": env.MailId, "type": env.MailType})

	invalid := func(reason string) *domain.MessageRecord {
		logger.WithField("reason", reason).Debug("Invalid mail")
		return &domain.MessageRecord{
			MailId:    env.MailId,
			MailType:  env.MailType,
			MessageId: strings.TrimSpace(env.MessageId),
			Subject:   env.Subject,
		}
	}

	if env.MailType == domain.NotSet {
		return invalid("mail type not set")
	}
	if isBlank(env.From) {
		return invalid("missing From")
	}
	if isBlank(env.To) && env.MailType == domain.Sent {
		return invalid("missing To on sent mail")
	}
	if isBlank(env.Date) {
		return invalid("missing Date")
	}
	if isBlank(env.MessageId) {
		return invalid("missing Message-Id")
	}

	date, err := parseDate(env.Date)
	if err != nil {
		return invalid(err.Error())
	}

	content := []domain.ContentPart{}
	for _, part := range env.Parts {
		kind := domain.ParseMimeKind(part.ContentType)
		if kind == domain.MimeNone {
			logger.WithField("contenttype", part.ContentType).Warn("Skipping body part with unknown content type")
			continue
		}

		text := DecodeBody(part.Data)
		if len(text) == 0 {
			logger.WithField("contenttype", part.ContentType).Warn("Could not decode body part")
			continue
		}
		content = append(content, domain.ContentPart{Kind: kind, Text: text})
	}

	if len(content) == 0 {
		return invalid("no decodable body part")
	}

	return &domain.MessageRecord{
		MailId:     env.MailId,
		MessageId:  strings.TrimSpace(env.MessageId),
		InReplyTo:  strings.TrimSpace(env.InReplyTo),
		From:       env.From,
		To:         env.To,
		Subject:    env.Subject,
		ReturnPath: env.ReturnPath,
		Date:       date,
		MailType:   env.MailType,
		Content:    content,
		IsValid:    true,
	}
}

func parseDate(date string) (time.Time, error) {
	t, err := stdmail.ParseDate(date)
	if err == nil {
		return t, nil
	}

	stripped := strings.TrimSpace(zoneAnnotations.ReplaceAllString(date, ""))
	if t, retryErr := stdmail.ParseDate(stripped); retryErr == nil {
		return t, nil
	}
	for _, layout := range fallbackDateLayouts {
		if t, layoutErr := time.Parse(layout, stripped); layoutErr == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("could not parse date %q: %w", date, err)
}
