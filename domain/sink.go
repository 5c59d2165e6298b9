// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "context"

//go:generate mockgen -destination=mocks/sink.go -package=mocks . Sink

// Sink is the destination conversations are forwarded to.
type Sink interface {
	CreateConversation(ctx context.Context, title string, content string) (string, error)
	Post(ctx context.Context, conversationId string, content string) error
}
