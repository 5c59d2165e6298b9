// SPDX-License-Identifier: GPL-3.0-or-later
package domain

import "context"

//go:generate mockgen -destination=mocks/source.go -package=mocks . MailSource

// MailSource lists and fetches messages from a mail provider. Ids are
// provider-local and stable across runs.
type MailSource interface {
	ListIds(ctx context.Context, mailType MailType) ([]string, error)
	Fetch(ctx context.Context, mailType MailType, ids []string) ([]*RawEnvelope, error)
	Close() error
}
