// SPDX-License-Identifier: GPL-3.0-or-later
package threading

import (
	"sort"

	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/sirupsen/logrus"
)

// Classify places newly fetched records into the index in date order and
// returns what happened to each of them, in the order it happened. Records
// with equal dates keep their order in the batch. Replies whose parent is
// not placed yet are retried once after the rest of the batch; if the
// parent is still unknown the reply is kept standalone.
func (i *Index) Classify(records []*domain.MessageRecord) []Event {
	batch := make([]*domain.MessageRecord, 0, len(records))
	for _, r := range records {
		if r.IsValid && !i.Knows(r.MessageId) {
			batch = append(batch, r)
		}
	}
	sort.SliceStable(batch, func(a, b int) bool {
		return batch[a].Date.Before(batch[b].Date)
	})

	events := []Event{}
	deferred := []*domain.MessageRecord{}
	pending := map[string]bool{}
	for _, r := range batch {
		if i.Knows(r.MessageId) || pending[r.MessageId] {
			continue
		}
		if e, ok := i.place(r); ok {
			events = append(events, e)
			continue
		}
		pending[r.MessageId] = true
		deferred = append(deferred, r)
	}

	for _, r := range deferred {
		if i.Knows(r.MessageId) {
			continue
		}
		if e, ok := i.place(r); ok {
			events = append(events, e)
			continue
		}

		i.l.WithFields(logrus.Fields{"messageid": r.MessageId, "inreplyto": r.InReplyTo}).Warn("Reply refers to unknown parent, keeping mail standalone")
		i.addStandalone(r)
		events = append(events, Event{Kind: NewStandalone, RootId: r.MessageId, Root: r, Message: r})
	}

	return events
}

func (i *Index) place(r *domain.MessageRecord) (Event, bool) {
	if !r.HasParent() {
		i.addStandalone(r)
		return Event{Kind: NewStandalone, RootId: r.MessageId, Root: r, Message: r}, true
	}

	if t, ok := i.leaves[r.InReplyTo]; ok {
		i.appendToThread(t, r)
		return Event{Kind: AppendedToThread, RootId: t.RootId(), Root: t.Root(), Message: r}, true
	}

	if parent, ok := i.standalone[r.InReplyTo]; ok {
		t := newThread(parent)
		t.append(r)
		i.addThread(t)
		return Event{Kind: NewThread, RootId: t.RootId(), Root: parent, Message: r}, true
	}

	return Event{}, false
}
