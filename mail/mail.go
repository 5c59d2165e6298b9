// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/CrawX/go-mail-forwarder/log"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	gomail "github.com/emersion/go-message/mail"
)

const (
	maxTitleLength = 100
	noSubjectTitle = "(no subject)"
)

var titleReplacer = strings.NewReplacer(
	"@", "",
	"#", "",
	"\"", "",
	"/", "",
	"\\", "",
	"<", "",
	">", "",
	":", ";",
)

// ParseRawMail reads an RFC 5322 message into an envelope. Inline text parts
// are decoded from their transfer encoding and charset and handed on in the
// URL-safe base64 form a provider API would deliver. MailId and MailType are
// left to the caller.
func ParseRawMail(rawMail []byte) (*domain.RawEnvelope, error) {
	logger := log.Logger(log.LOG_MAIL)

	mr, err := gomail.CreateReader(bytes.NewReader(rawMail))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("could not parse mail: %w", err)
	}
	if err != nil {
		logger.WithField("error", err).Debug("Mail uses an unknown charset")
	}
	defer mr.Close()

	env := &domain.RawEnvelope{
		MessageId:  mr.Header.Get("Message-Id"),
		InReplyTo:  mr.Header.Get("In-Reply-To"),
		Date:       mr.Header.Get("Date"),
		ReturnPath: mr.Header.Get("Return-Path"),
	}
	env.From = headerText(&mr.Header, "From")
	env.To = headerText(&mr.Header, "To")
	env.Subject = headerText(&mr.Header, "Subject")

	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return nil, fmt.Errorf("unexpected error while reading parts: %w", err)
		}
		if p == nil {
			continue
		}

		h, ok := p.Header.(*gomail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := h.ContentType()
		if len(h.Get("Content-Type")) == 0 {
			contentType, err = "text/plain", nil
		}
		if err != nil || !strings.HasPrefix(contentType, "text/") {
			continue
		}

		body, err := io.ReadAll(p.Body)
		if err != nil {
			logger.WithField("error", err).Warn("Could not read body part")
			continue
		}
		env.Parts = append(env.Parts, domain.RawPart{
			ContentType: contentType,
			Data:        base64.URLEncoding.EncodeToString(body),
		})
	}

	return env, nil
}

func headerText(h *gomail.Header, key string) string {
	text, err := h.Text(key)
	if err != nil {
		return h.Get(key)
	}
	return text
}

func ShortSubject(subject string) string {
	if utf8.RuneCountInString(subject) > 30 {
		subject = string([]rune(subject)[:30]) + "..."
	}
	return subject
}

// SanitizeTitle turns a subject into a conversation title accepted by the
// chat platform.
func SanitizeTitle(subject string) string {
	title := strings.TrimSpace(titleReplacer.Replace(subject))
	if utf8.RuneCountInString(title) > maxTitleLength {
		title = strings.TrimSpace(string([]rune(title)[:maxTitleLength]))
	}
	if len(title) == 0 {
		return noSubjectTitle
	}
	return title
}
