// SPDX-License-Identifier: GPL-3.0-or-later
package domain

//go:generate mockgen -destination=mocks/persistence.go -package=mocks . Persistence
type Persistence interface {
	Close() error
	AllRecords() ([]*MessageRecord, error)
	KnownMailIds(mailType MailType) (map[string]bool, error)
	SaveRecords(records []*MessageRecord) error
	ConversationId(messageId string) (string, bool, error)
	SaveConversationId(messageId string, conversationId string) error
}
