// SPDX-License-Identifier: GPL-3.0-or-later
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/CrawX/go-mail-forwarder/log"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const DiscordTimeout = 20 * time.Second

// ErrPermanent marks webhook failures that a retry cannot fix.
var ErrPermanent = errors.New("permanent webhook failure")

// Discord posts into a forum channel through a webhook. A conversation is a
// forum thread, created by the first post with a thread name.
type Discord struct {
	client        *http.Client
	webhook       *url.URL
	limiter       *rate.Limiter
	retryAttempts int
	retryDelay    time.Duration
	l             *logrus.Logger
}

type webhookMessage struct {
	Content    string `json:"content"`
	ThreadName string `json:"thread_name,omitempty"`
}

type webhookResponse struct {
	Id        string `json:"id"`
	ChannelId string `json:"channel_id"`
}

// NewDiscord creates a webhook client. requestsPerSecond <= 0 disables
// pacing, retryAttempts is the total number of attempts per request.
func NewDiscord(webhook string, requestsPerSecond float64, retryAttempts int, retryDelay time.Duration) (*Discord, error) {
	u, err := url.Parse(webhook)
	if err != nil {
		return nil, fmt.Errorf("could not parse webhook url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported webhook url scheme %q", u.Scheme)
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	if retryAttempts < 1 {
		retryAttempts = 1
	}

	return &Discord{
		client: &http.Client{
			Timeout: DiscordTimeout,
		},
		webhook:       u,
		limiter:       rate.NewLimiter(limit, 1),
		retryAttempts: retryAttempts,
		retryDelay:    retryDelay,
		l:             log.Logger(log.LOG_DISCORD),
	}, nil
}

func (d *Discord) CreateConversation(ctx context.Context, title, content string) (string, error) {
	resp, err := d.execute(ctx, url.Values{"wait": {"true"}}, &webhookMessage{Content: content, ThreadName: title})
	if err != nil {
		return "", fmt.Errorf("could not create conversation: %w", err)
	}

	conversationId := resp.ChannelId
	if len(conversationId) == 0 {
		conversationId = resp.Id
	}
	if len(conversationId) == 0 {
		return "", fmt.Errorf("webhook response does not contain a conversation id")
	}

	d.l.WithFields(logrus.Fields{"title": title, "conversationid": conversationId}).Debug("Created conversation")
	return conversationId, nil
}

func (d *Discord) Post(ctx context.Context, conversationId, content string) error {
	_, err := d.execute(ctx, url.Values{"wait": {"true"}, "thread_id": {conversationId}}, &webhookMessage{Content: content})
	if err != nil {
		return fmt.Errorf("could not post to conversation %s: %w", conversationId, err)
	}
	return nil
}

func (d *Discord) execute(ctx context.Context, params url.Values, msg *webhookMessage) (*webhookResponse, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("could not serialize message: %w", err)
	}

	target := *d.webhook
	query := target.Query()
	for k, v := range params {
		query[k] = v
	}
	target.RawQuery = query.Encode()

	var lastErr error
	for attempt := 1; attempt <= d.retryAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(d.retryDelay):
			}
		}

		err := d.limiter.Wait(ctx)
		if err != nil {
			return nil, fmt.Errorf("could not wait for rate limiter: %w", err)
		}

		resp, err := d.do(ctx, target.String(), payload)
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, ErrPermanent) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("webhook request aborted: %w", ctx.Err())
		}

		lastErr = err
		d.l.WithFields(logrus.Fields{"attempt": attempt, "error": err}).Warn("Webhook request failed")
	}

	return nil, fmt.Errorf("giving up after %d attempts: %w", d.retryAttempts, lastErr)
}

func (d *Discord) do(ctx context.Context, target string, payload []byte) (*webhookResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: could not create request: %v", ErrPermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not perform webhook request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read webhook response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("unexpected status %d from webhook", resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d from webhook: %s", ErrPermanent, resp.StatusCode, bytes.TrimSpace(body))
	}

	result := &webhookResponse{}
	if len(bytes.TrimSpace(body)) == 0 {
		return result, nil
	}
	err = json.Unmarshal(body, result)
	if err != nil {
		return nil, fmt.Errorf("could not deserialize webhook response: %w", err)
	}

	return result, nil
}
