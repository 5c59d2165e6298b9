// SPDX-License-Identifier: GPL-3.0-or-later
package threading

import (
	"sort"

	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/CrawX/go-mail-forwarder/log"
	"github.com/sirupsen/logrus"
)

// Index holds all threads and the standalone pool. A message is either in
// exactly one thread, in the pool or unknown. The index is not safe for
// concurrent use; Initialize and Classify are expected to run sequentially.
type Index struct {
	threads    []*Thread
	leaves     map[string]*Thread
	members    map[string]*Thread
	standalone map[string]*domain.MessageRecord

	l *logrus.Logger
}

func NewIndex() *Index {
	return &Index{
		leaves:     map[string]*Thread{},
		members:    map[string]*Thread{},
		standalone: map[string]*domain.MessageRecord{},
		l:          log.Logger(log.LOG_THREADING),
	}
}

func (i *Index) Threads() []*Thread {
	return append([]*Thread{}, i.threads...)
}

// Standalone returns the pool ordered by date.
func (i *Index) Standalone() []*domain.MessageRecord {
	records := make([]*domain.MessageRecord, 0, len(i.standalone))
	for _, r := range i.standalone {
		records = append(records, r)
	}
	sort.Slice(records, func(a, b int) bool {
		if records[a].Date.Equal(records[b].Date) {
			return records[a].MessageId < records[b].MessageId
		}
		return records[a].Date.Before(records[b].Date)
	})
	return records
}

func (i *Index) ThreadOf(messageId string) (*Thread, bool) {
	t, ok := i.members[messageId]
	return t, ok
}

func (i *Index) IsStandalone(messageId string) bool {
	_, ok := i.standalone[messageId]
	return ok
}

func (i *Index) Knows(messageId string) bool {
	_, member := i.members[messageId]
	return member || i.IsStandalone(messageId)
}

func (i *Index) addThread(t *Thread) {
	i.threads = append(i.threads, t)
	for _, m := range t.messages {
		delete(i.standalone, m.MessageId)
		i.members[m.MessageId] = t
	}
	i.leaves[t.CurrentLeafId()] = t
}

func (i *Index) appendToThread(t *Thread, m *domain.MessageRecord) {
	delete(i.leaves, t.CurrentLeafId())
	delete(i.standalone, m.MessageId)
	t.append(m)
	i.members[m.MessageId] = t
	i.leaves[m.MessageId] = t
}

// addStandalone adds a record to the pool unless its message id is already
// known.
func (i *Index) addStandalone(m *domain.MessageRecord) bool {
	if i.Knows(m.MessageId) {
		return false
	}
	i.standalone[m.MessageId] = m
	return true
}
