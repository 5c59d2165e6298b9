// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import (
	"strings"
	"time"
)

type MailType int

const (
	NotSet   = MailType(0)
	Sent     = MailType(1)
	Received = MailType(2)
)

func (t MailType) String() string {
	switch t {
	case Sent:
		return "sent"
	case Received:
		return "received"
	}
	return "notset"
}

type MimeKind string

const (
	MimeNone        = MimeKind("")
	MimeTextPlain   = MimeKind("text/plain")
	MimeTextHtml    = MimeKind("text/html")
	MimeTextAmpHtml = MimeKind("text/x-amp-html")
)

// ParseMimeKind maps a content type (parameters allowed) to a known kind.
// Unknown types map to MimeNone.
func ParseMimeKind(contentType string) MimeKind {
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}

	switch MimeKind(mediaType) {
	case MimeTextPlain, MimeTextHtml, MimeTextAmpHtml:
		return MimeKind(mediaType)
	}
	return MimeNone
}

// RawPart is one body part as delivered by the provider, still in its
// transport encoding.
type RawPart struct {
	ContentType string
	Data        string
}

// RawEnvelope is a message as fetched from a MailSource, before decoding.
// Header values are empty when the header is absent.
type RawEnvelope struct {
	MailId     string
	MailType   MailType
	MessageId  string
	InReplyTo  string
	From       string
	To         string
	Subject    string
	Date       string
	ReturnPath string
	Parts      []RawPart
}

type ContentPart struct {
	Kind MimeKind
	Text string
}

// MessageRecord is a decoded message. Records are never modified after
// construction.
type MessageRecord struct {
	MailId     string
	MessageId  string
	InReplyTo  string
	From       string
	To         string
	Subject    string
	ReturnPath string
	Date       time.Time
	MailType   MailType
	Content    []ContentPart
	IsValid    bool
}

func (m *MessageRecord) HasParent() bool {
	return len(m.InReplyTo) > 0
}
