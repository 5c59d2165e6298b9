// SPDX-License-Identifier: GPL-3.0-or-later
package gmail

import (
	"context"
	"fmt"
	"strings"

	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/CrawX/go-mail-forwarder/log"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	labelReceived = "INBOX"
	labelSent     = "SENT"
	pageSize      = 500
)

type Gmail struct {
	service     *gmail.Service
	user        string
	concurrency int
	l           *logrus.Logger
}

// NewGmail connects to the Gmail API for user ("me" for the authorized
// account). opts usually carries option.WithHTTPClient with a client from
// NewHttpClient.
func NewGmail(ctx context.Context, user string, concurrency int, opts ...option.ClientOption) (*Gmail, error) {
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create gmail service: %w", err)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	return &Gmail{
		service:     service,
		user:        user,
		concurrency: concurrency,
		l:           log.Logger(log.LOG_GMAIL),
	}, nil
}

func label(mailType domain.MailType) (string, error) {
	switch mailType {
	case domain.Received:
		return labelReceived, nil
	case domain.Sent:
		return labelSent, nil
	}
	return "", fmt.Errorf("no label for mail type %s", mailType)
}

func (g *Gmail) ListIds(ctx context.Context, mailType domain.MailType) ([]string, error) {
	labelId, err := label(mailType)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	pageToken := ""
	for {
		call := g.service.Users.Messages.List(g.user).LabelIds(labelId).MaxResults(pageSize).Context(ctx)
		if len(pageToken) > 0 {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("could not list messages with label %s: %w", labelId, err)
		}
		for _, m := range resp.Messages {
			ids = append(ids, m.Id)
		}

		pageToken = resp.NextPageToken
		if len(pageToken) == 0 {
			break
		}
	}

	g.l.WithFields(logrus.Fields{"label": labelId, "count": len(ids)}).Debug("Listed messages")
	return ids, nil
}

// Fetch loads the given messages. Messages that cannot be loaded after a
// retry are skipped and will show up again in the next listing.
func (g *Gmail) Fetch(ctx context.Context, mailType domain.MailType, ids []string) ([]*domain.RawEnvelope, error) {
	results := fetchAll(ctx, ids, g.concurrency, func(ctx context.Context, id string) (*gmail.Message, error) {
		return g.service.Users.Messages.Get(g.user, id).Format("full").Context(ctx).Do()
	})
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch aborted: %w", err)
	}

	envelopes := []*domain.RawEnvelope{}
	for idx, result := range results {
		if result.err != nil {
			g.l.WithFields(logrus.Fields{"id": ids[idx], "error": result.err}).Warn("Could not fetch message, skipping")
			continue
		}
		envelopes = append(envelopes, envelope(result.msg, mailType))
	}

	return envelopes, nil
}

func (g *Gmail) Close() error {
	return nil
}

func envelope(msg *gmail.Message, mailType domain.MailType) *domain.RawEnvelope {
	env := &domain.RawEnvelope{
		MailId:   msg.Id,
		MailType: mailType,
	}
	if msg.Payload == nil {
		return env
	}

	for _, h := range msg.Payload.Headers {
		var field *string
		switch strings.ToLower(h.Name) {
		case "message-id":
			field = &env.MessageId
		case "in-reply-to":
			field = &env.InReplyTo
		case "from":
			field = &env.From
		case "to":
			field = &env.To
		case "subject":
			field = &env.Subject
		case "date":
			field = &env.Date
		case "return-path":
			field = &env.ReturnPath
		default:
			continue
		}
		// first occurrence wins
		if len(*field) == 0 {
			*field = h.Value
		}
	}

	if len(msg.Payload.Parts) == 0 {
		if msg.Payload.Body != nil && len(msg.Payload.Body.Data) > 0 {
			env.Parts = append(env.Parts, domain.RawPart{ContentType: msg.Payload.MimeType, Data: msg.Payload.Body.Data})
		}
		return env
	}
	env.Parts = leafParts(msg.Payload.Parts, env.Parts)

	return env
}

func leafParts(parts []*gmail.MessagePart, collected []domain.RawPart) []domain.RawPart {
	for _, p := range parts {
		if len(p.Parts) > 0 {
			collected = leafParts(p.Parts, collected)
			continue
		}
		if len(p.Filename) > 0 || !strings.HasPrefix(p.MimeType, "text/") {
			continue
		}
		if p.Body == nil || len(p.Body.Data) == 0 {
			continue
		}
		collected = append(collected, domain.RawPart{ContentType: p.MimeType, Data: p.Body.Data})
	}
	return collected
}
