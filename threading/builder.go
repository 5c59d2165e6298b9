// SPDX-License-Identifier: GPL-3.0-or-later
package threading

import (
	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/sirupsen/logrus"
)

type walkEnd int

const (
	walkRoot walkEnd = iota
	walkLeaf
	walkMissing
	walkClaimed
	walkCycle
)

type walkResult struct {
	end walkEnd
	// root is set for walkRoot, thread for walkLeaf
	root   *domain.MessageRecord
	thread *Thread
	// ancestors between the record and where the walk ended, nearest first
	ancestors []*domain.MessageRecord
}

// Initialize reconciles a bulk set of records into threads by following
// in-reply-to references backwards. Records that do not end up in a thread
// are added to the standalone pool. Invalid records and records already in
// the index are ignored, so running it again on the same set changes
// nothing.
func (i *Index) Initialize(records []*domain.MessageRecord) {
	known := map[string]*domain.MessageRecord{}
	for id, r := range i.standalone {
		known[id] = r
	}
	for _, r := range records {
		if !r.IsValid {
			continue
		}
		if _, ok := known[r.MessageId]; !ok {
			known[r.MessageId] = r
		}
	}

	processed := map[string]bool{}
	for id := range i.members {
		processed[id] = true
	}
	for id := range i.standalone {
		processed[id] = true
	}

	threadsBefore := len(i.threads)
	for _, r := range records {
		if !r.IsValid || processed[r.MessageId] || !r.HasParent() {
			continue
		}
		// duplicates of a message id are resolved first-seen-wins
		if known[r.MessageId] != r {
			continue
		}

		if t, ok := i.leaves[r.InReplyTo]; ok {
			i.appendToThread(t, r)
			processed[r.MessageId] = true
			continue
		}

		res := i.walk(r, known, processed)
		logger := i.l.WithFields(logrus.Fields{"messageid": r.MessageId, "inreplyto": r.InReplyTo})

		var chain []*domain.MessageRecord
		switch {
		case res.end == walkRoot:
			chain = append([]*domain.MessageRecord{res.root}, reversed(res.ancestors)...)
		case res.end == walkLeaf:
			for _, a := range reversed(res.ancestors) {
				i.appendToThread(res.thread, a)
				processed[a.MessageId] = true
			}
			i.appendToThread(res.thread, r)
			processed[r.MessageId] = true
			continue
		case res.end == walkCycle:
			logger.Warn("Reply chain contains a cycle, keeping mail standalone")
			i.addStandalone(r)
			processed[r.MessageId] = true
			continue
		case res.end == walkMissing && len(res.ancestors) > 0:
			logger.WithField("root", res.ancestors[len(res.ancestors)-1].MessageId).Debug("Reply chain is broken, using topmost known ancestor as root")
			chain = reversed(res.ancestors)
		case res.end == walkMissing:
			logger.Debug("Parent unknown, starting thread at reply")
		case res.end == walkClaimed && len(res.ancestors) > 0:
			// a side branch with replies of its own becomes a thread rooted
			// at the first reply of the branch
			fork := res.ancestors[len(res.ancestors)-1]
			logger.WithFields(logrus.Fields{"root": fork.MessageId, "forkedfrom": fork.InReplyTo}).Info("Reply chain forks off a message already in a thread, starting new thread at the fork")
			chain = reversed(res.ancestors)
		default:
			logger.Warn("Parent already has a reply, keeping mail standalone")
			i.addStandalone(r)
			processed[r.MessageId] = true
			continue
		}

		var t *Thread
		if len(chain) > 0 {
			t = newThread(chain[0])
			for _, m := range chain[1:] {
				t.append(m)
			}
			t.append(r)
		} else {
			t = newThread(r)
		}
		i.addThread(t)
		for _, m := range t.messages {
			processed[m.MessageId] = true
		}
	}

	standaloneBefore := len(i.standalone)
	for _, r := range records {
		if !r.IsValid || processed[r.MessageId] {
			continue
		}
		if i.addStandalone(r) {
			processed[r.MessageId] = true
		}
	}

	i.l.WithFields(logrus.Fields{
		"records":    len(records),
		"threads":    len(i.threads) - threadsBefore,
		"standalone": len(i.standalone) - standaloneBefore,
	}).Info("Initialized threads")
}

// walk follows in-reply-to references from r until it reaches a message
// without parent, the leaf of an existing thread, a message that is not
// known or not available, or a message it already visited.
func (i *Index) walk(r *domain.MessageRecord, known map[string]*domain.MessageRecord, processed map[string]bool) walkResult {
	visited := map[string]bool{r.MessageId: true}
	res := walkResult{}

	current := r
	for {
		parentId := current.InReplyTo
		if visited[parentId] {
			res.end = walkCycle
			return res
		}
		if t, ok := i.leaves[parentId]; ok {
			res.end = walkLeaf
			res.thread = t
			return res
		}

		parent, ok := known[parentId]
		if !ok {
			res.end = walkMissing
			if _, member := i.members[parentId]; member {
				res.end = walkClaimed
			}
			return res
		}
		if processed[parentId] && !i.IsStandalone(parentId) {
			res.end = walkClaimed
			return res
		}
		visited[parentId] = true

		if !parent.HasParent() {
			res.end = walkRoot
			res.root = parent
			return res
		}
		res.ancestors = append(res.ancestors, parent)
		current = parent
	}
}

func reversed(records []*domain.MessageRecord) []*domain.MessageRecord {
	out := make([]*domain.MessageRecord, len(records))
	for idx, r := range records {
		out[len(records)-1-idx] = r
	}
	return out
}
