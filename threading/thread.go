// SPDX-License-Identifier: GPL-3.0-or-later
package threading

import "github.com/CrawX/go-mail-forwarder/domain"

// Thread is a linear chain of messages. The first message is the root and
// never changes, new messages are only appended after the current leaf.
type Thread struct {
	messages []*domain.MessageRecord
}

func newThread(root *domain.MessageRecord) *Thread {
	return &Thread{messages: []*domain.MessageRecord{root}}
}

func (t *Thread) Root() *domain.MessageRecord {
	return t.messages[0]
}

func (t *Thread) RootId() string {
	return t.messages[0].MessageId
}

func (t *Thread) Leaf() *domain.MessageRecord {
	return t.messages[len(t.messages)-1]
}

func (t *Thread) CurrentLeafId() string {
	return t.Leaf().MessageId
}

func (t *Thread) Len() int {
	return len(t.messages)
}

// Messages returns the chain from root to leaf.
func (t *Thread) Messages() []*domain.MessageRecord {
	return append([]*domain.MessageRecord{}, t.messages...)
}

func (t *Thread) append(m *domain.MessageRecord) {
	t.messages = append(t.messages, m)
}
