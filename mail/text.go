// SPDX-License-Identifier: GPL-3.0-or-later
package mail

import (
	"html"

	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/CrawX/go-mail-forwarder/log"
	"github.com/microcosm-cc/bluemonday"
)

var ampPolicy = bluemonday.StrictPolicy()

// PlainText returns the readable text of a record, preferring text/plain
// over text/html over AMP html.
func PlainText(record *domain.MessageRecord, stripHistory bool) string {
	var text string
	if part, ok := firstPart(record, domain.MimeTextPlain); ok {
		text = part.Text
	} else if part, ok := firstPart(record, domain.MimeTextHtml); ok {
		text = HtmlToPlainText(part.Text, stripHistory)
	} else if part, ok := firstPart(record, domain.MimeTextAmpHtml); ok {
		log.Logger(log.LOG_MAIL).WithField("messageid", record.MessageId).Debug("Only AMP html available, stripping markup")
		text = html.UnescapeString(ampPolicy.Sanitize(part.Text))
	}

	return TrimContent(text, stripHistory)
}

func firstPart(record *domain.MessageRecord, kind domain.MimeKind) (domain.ContentPart, bool) {
	for _, part := range record.Content {
		if part.Kind == kind {
			return part, true
		}
	}
	return domain.ContentPart{}, false
}
