// SPDX-License-Identifier: GPL-3.0-or-later
package forwarder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/CrawX/go-mail-forwarder/log"
	"github.com/CrawX/go-mail-forwarder/mail"
	"github.com/CrawX/go-mail-forwarder/paginator"
	"github.com/CrawX/go-mail-forwarder/threading"

	"github.com/sirupsen/logrus"
)

var mailTypes = []domain.MailType{domain.Received, domain.Sent}

type Forwarder struct {
	persistence domain.Persistence
	source      domain.MailSource
	sink        domain.Sink
	index       *threading.Index

	configuration *configuration

	// serializes everything sent to the sink
	postMu sync.Mutex

	// mail ids fetched during a dry run, which are not cached
	dryRunSeen map[domain.MailType]map[string]bool

	l *logrus.Logger
}

func NewForwarder(persistence domain.Persistence, source domain.MailSource, sink domain.Sink, configFunc ...ConfigFunc) (*Forwarder, error) {
	config := defaultConfiguration()
	for _, f := range configFunc {
		err := f(config)
		if err != nil {
			return nil, fmt.Errorf("error applying configuration: %w", err)
		}
	}

	return &Forwarder{
		persistence:   persistence,
		source:        source,
		sink:          sink,
		index:         threading.NewIndex(),
		configuration: config,
		dryRunSeen:    map[domain.MailType]map[string]bool{},
		l:             log.Logger(log.LOG_FORWARDER),
	}, nil
}

func (fw *Forwarder) Index() *threading.Index {
	return fw.index
}

// WarmStart loads the cache, fetches everything the cache does not know yet
// and builds the thread index from all of it. Nothing is forwarded: mail
// present at start-up counts as already handled.
func (fw *Forwarder) WarmStart(ctx context.Context) error {
	start := time.Now()

	cached, err := fw.persistence.AllRecords()
	if err != nil {
		return fmt.Errorf("could not load cached records: %w", err)
	}
	fw.l.WithFields(logrus.Fields{"records": len(cached)}).Info("Loaded cache")

	fresh, err := fw.fetchNew(ctx)
	if err != nil {
		return fmt.Errorf("could not fetch new mails: %w", err)
	}

	valid := make([]*domain.MessageRecord, 0, len(cached)+len(fresh))
	for _, r := range append(cached, fresh...) {
		if r.IsValid {
			valid = append(valid, r)
		}
	}
	fw.index.Initialize(valid)

	fw.l.WithFields(logrus.Fields{
		"duration":   time.Since(start),
		"records":    len(valid),
		"threads":    len(fw.index.Threads()),
		"standalone": len(fw.index.Standalone()),
	}).Info("Built thread index")

	return nil
}

// Poll fetches new mails, places them into the index and forwards the
// resulting events. Mails cached before a fetch error are still forwarded,
// the fetch error is returned together with any dispatch errors.
func (fw *Forwarder) Poll(ctx context.Context) error {
	fresh, fetchErr := fw.fetchNew(ctx)
	if fetchErr != nil {
		fetchErr = fmt.Errorf("could not fetch new mails: %w", fetchErr)
		fw.l.WithFields(logrus.Fields{"fetched": len(fresh), "error": fetchErr}).Warn("Fetch incomplete, forwarding what was fetched")
	}
	if len(fresh) == 0 {
		if fetchErr == nil {
			fw.l.Debug("No new mails")
		}
		return fetchErr
	}

	events := fw.index.Classify(fresh)
	fw.l.WithFields(logrus.Fields{"records": len(fresh), "events": len(events)}).Info("Classified new mails")

	return errors.Join(fetchErr, fw.Dispatch(ctx, events))
}

// Run polls every interval until ctx is cancelled.
func (fw *Forwarder) Run(ctx context.Context, interval time.Duration) error {
	if fw.configuration.OnlyBuildCache {
		fw.l.Info("Cache built, not polling")
		return nil
	}
	if interval <= 0 {
		return fmt.Errorf("invalid poll interval %v", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fw.l.WithFields(logrus.Fields{"interval": interval}).Info("Polling for new mails")
	for {
		select {
		case <-ctx.Done():
			fw.l.Info("Stopped polling")
			return nil
		case <-ticker.C:
			err := fw.Poll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					fw.l.Info("Stopped polling")
					return nil
				}
				fw.l.WithField("error", err).Error("Poll failed")
			}
		}
	}
}

// Dispatch forwards events in order. A failing event does not stop the
// ones after it; all failures are returned together.
func (fw *Forwarder) Dispatch(ctx context.Context, events []threading.Event) error {
	fw.postMu.Lock()
	defer fw.postMu.Unlock()

	var errs []error
	for _, e := range events {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		err := fw.dispatch(ctx, e)
		if err != nil {
			fw.l.WithFields(logrus.Fields{
				"event":     e.Kind,
				"messageid": e.Message.MessageId,
				"subject":   mail.ShortSubject(e.Message.Subject),
				"error":     err,
			}).Error("Could not forward mail")
			errs = append(errs, fmt.Errorf(`could not forward "%s" (%s): %w`, mail.ShortSubject(e.Message.Subject), e.Message.MessageId, err))
		}
	}

	return errors.Join(errs...)
}

func (fw *Forwarder) dispatch(ctx context.Context, e threading.Event) error {
	switch e.Kind {
	case threading.NewStandalone:
		_, found, err := fw.persistence.ConversationId(e.Message.MessageId)
		if err != nil {
			return fmt.Errorf("could not look up conversation: %w", err)
		}
		if found {
			fw.l.WithFields(logrus.Fields{"messageid": e.Message.MessageId}).Warn("Mail already has a conversation, skipping")
			return nil
		}

		_, err = fw.createConversation(ctx, e.Message)
		return err
	case threading.NewThread, threading.AppendedToThread:
		conversationId, err := fw.ensureConversation(ctx, e.Root)
		if err != nil {
			return err
		}

		return fw.post(ctx, conversationId, e.Message, fw.segments(e.Message))
	}

	return fmt.Errorf("unsupported event kind %v", e.Kind)
}

func (fw *Forwarder) ensureConversation(ctx context.Context, root *domain.MessageRecord) (string, error) {
	conversationId, found, err := fw.persistence.ConversationId(root.MessageId)
	if err != nil {
		return "", fmt.Errorf("could not look up conversation: %w", err)
	}
	if found {
		return conversationId, nil
	}

	fw.l.WithFields(logrus.Fields{"messageid": root.MessageId, "subject": mail.ShortSubject(root.Subject)}).Info("Thread root has no conversation yet, creating one")
	return fw.createConversation(ctx, root)
}

func (fw *Forwarder) createConversation(ctx context.Context, record *domain.MessageRecord) (string, error) {
	title := mail.SanitizeTitle(record.Subject)
	segments := fw.segments(record)

	if fw.configuration.DryRun {
		fw.l.WithFields(logrus.Fields{"title": title, "messageid": record.MessageId, "posts": len(segments)}).Info("Not creating conversation due to dry-run")
		return "", nil
	}

	conversationId, err := fw.sink.CreateConversation(ctx, title, segments[0])
	if err != nil {
		return "", fmt.Errorf("could not create conversation: %w", err)
	}

	err = fw.persistence.SaveConversationId(record.MessageId, conversationId)
	if err != nil {
		return "", fmt.Errorf("could not save conversation id %s: %w", conversationId, err)
	}
	fw.l.WithFields(logrus.Fields{"title": title, "conversation": conversationId, "posts": len(segments)}).Info("Created conversation")

	return conversationId, fw.post(ctx, conversationId, record, segments[1:])
}

func (fw *Forwarder) post(ctx context.Context, conversationId string, record *domain.MessageRecord, segments []string) error {
	if len(segments) == 0 {
		return nil
	}

	if fw.configuration.DryRun {
		fw.l.WithFields(logrus.Fields{"conversation": conversationId, "messageid": record.MessageId, "posts": len(segments)}).Info("Not posting due to dry-run")
		return nil
	}

	for i, segment := range segments {
		err := fw.sink.Post(ctx, conversationId, segment)
		if err != nil {
			return fmt.Errorf("could not post %d/%d into %s: %w", i+1, len(segments), conversationId, err)
		}
	}
	fw.l.WithFields(logrus.Fields{"conversation": conversationId, "subject": mail.ShortSubject(record.Subject), "posts": len(segments)}).Info("Posted mail")

	return nil
}

func (fw *Forwarder) segments(record *domain.MessageRecord) []string {
	header := fmt.Sprintf(
		"**From:** %s\n**To:** %s\n**Date:** %s\n\n",
		record.From,
		record.To,
		record.Date.Format(time.RFC1123Z),
	)
	body := mail.PlainText(record, fw.configuration.StripHistory)

	return paginator.Segment(header, body, fw.configuration.MaxPostLength)
}

// fetchNew fetches and caches every mail the cache does not know yet. On
// error the records cached so far are returned along with it.
func (fw *Forwarder) fetchNew(ctx context.Context) ([]*domain.MessageRecord, error) {
	records := []*domain.MessageRecord{}
	for _, mailType := range mailTypes {
		newIds, err := fw.newMailIds(ctx, mailType)
		if err != nil {
			return records, fmt.Errorf("could not determine new %s mails: %w", mailType, err)
		}

		if len(newIds) == 0 {
			fw.l.WithFields(logrus.Fields{"type": mailType}).Debug("No new mails")
			continue
		}

		batches := partitionIds(newIds, fw.configuration.BatchSize)
		fw.l.WithFields(logrus.Fields{"type": mailType, "newmails": len(newIds), "batches": len(batches)}).Info("Found new mails")

		for _, batch := range batches {
			start := time.Now()
			envelopes, err := fw.source.Fetch(ctx, mailType, batch)
			if err != nil {
				return records, fmt.Errorf("could not fetch mail batch: %w", err)
			}

			batchRecords := make([]*domain.MessageRecord, 0, len(envelopes))
			invalid := 0
			for _, env := range envelopes {
				r := mail.NewRecord(env)
				if !r.IsValid {
					invalid++
				}
				batchRecords = append(batchRecords, r)
			}

			if fw.configuration.DryRun {
				fw.l.WithFields(logrus.Fields{"batchsize": len(batchRecords)}).Debug("Not caching batch due to dry-run")
				fw.markDryRunSeen(mailType, batchRecords)
			} else {
				err = fw.persistence.SaveRecords(batchRecords)
				if err != nil {
					return records, fmt.Errorf("could not save records: %w", err)
				}
			}

			records = append(records, batchRecords...)
			fw.l.WithFields(logrus.Fields{"type": mailType, "duration": time.Since(start), "batchsize": len(batch), "invalid": invalid}).Info("Fetched batch")
		}
	}

	return records, nil
}

func (fw *Forwarder) newMailIds(ctx context.Context, mailType domain.MailType) ([]string, error) {
	ids, err := fw.source.ListIds(ctx, mailType)
	if err != nil {
		return nil, fmt.Errorf("could not list mail ids: %w", err)
	}

	known, err := fw.persistence.KnownMailIds(mailType)
	if err != nil {
		return nil, fmt.Errorf("could not list known mail ids: %w", err)
	}
	fw.l.WithFields(logrus.Fields{"type": mailType, "mails": len(ids), "known": len(known)}).Debug("Listed mail ids")

	newIds := []string{}
	for _, id := range ids {
		if !known[id] && !fw.dryRunSeen[mailType][id] {
			newIds = append(newIds, id)
		}
	}
	return newIds, nil
}

func (fw *Forwarder) markDryRunSeen(mailType domain.MailType, records []*domain.MessageRecord) {
	if fw.dryRunSeen == nil {
		fw.dryRunSeen = map[domain.MailType]map[string]bool{}
	}
	seen, ok := fw.dryRunSeen[mailType]
	if !ok {
		seen = map[string]bool{}
		fw.dryRunSeen[mailType] = seen
	}
	for _, r := range records {
		seen[r.MailId] = true
	}
}

// taken from https://github.com/golang/go/wiki/SliceTricks
func partitionIds(ids []string, partitionSize int) [][]string {
	batches := make([][]string, 0, (len(ids)+partitionSize-1)/partitionSize)

	for partitionSize < len(ids) {
		ids, batches = ids[partitionSize:], append(batches, ids[0:partitionSize:partitionSize])
	}
	batches = append(batches, ids)

	return batches
}
