// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/CrawX/go-mail-forwarder/log"
	"github.com/CrawX/go-mail-forwarder/mail"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/sirupsen/logrus"
)

// ImapConnection reads mails from one folder per mail type. Mail ids have
// the form "<uidvalidity>:<uid>" so they change when the server resets the
// folder's uids.
type ImapConnection struct {
	connection mailboxClient
	folders    map[domain.MailType]string

	// one connection, one selected folder at a time
	mu sync.Mutex

	l *logrus.Logger
}

func NewImapConnection(server, user, password string, folders map[domain.MailType]string) (*ImapConnection, error) {
	imapClient, err := client.DialTLS(server, nil)
	if err != nil {
		return nil, fmt.Errorf("could not dial to imap: %w", err)
	}

	err = imapClient.Login(user, password)
	if err != nil {
		return nil, fmt.Errorf("could not login to imap: %w", err)
	}

	conn := newImapConnection(imapClient, folders)
	conn.l.WithFields(logrus.Fields{"server": server}).Debug("Logged in to server")

	return conn, nil
}

func newImapConnection(c mailboxClient, folders map[domain.MailType]string) *ImapConnection {
	return &ImapConnection{
		connection: c,
		folders:    folders,
		l:          log.Logger(log.LOG_IMAP),
	}
}

func (ic *ImapConnection) selectFolder(mailType domain.MailType) (string, uint32, error) {
	folder, ok := ic.folders[mailType]
	if !ok {
		return "", 0, fmt.Errorf("no folder configured for mail type %s", mailType)
	}

	m, err := ic.connection.Select(folder, true)
	if err != nil {
		return "", 0, fmt.Errorf("could not select folder %s: %w", folder, err)
	}

	return folder, m.UidValidity, nil
}

func (ic *ImapConnection) ListIds(ctx context.Context, mailType domain.MailType) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ic.mu.Lock()
	defer ic.mu.Unlock()

	folder, uidValidity, err := ic.selectFolder(mailType)
	if err != nil {
		return nil, err
	}

	// Get all UIDs in folder (empty search criteria)
	uids, err := ic.connection.UidSearch(imap.NewSearchCriteria())
	if err != nil {
		return nil, fmt.Errorf("could not list folder: %w", err)
	}

	ids := make([]string, 0, len(uids))
	for _, uid := range uids {
		ids = append(ids, mailId(uidValidity, uid))
	}

	ic.l.WithFields(logrus.Fields{"folder": folder, "count": len(ids)}).Debug("Listed mails")
	return ids, nil
}

func (ic *ImapConnection) Fetch(ctx context.Context, mailType domain.MailType, ids []string) ([]*domain.RawEnvelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ic.mu.Lock()
	defer ic.mu.Unlock()

	folder, uidValidity, err := ic.selectFolder(mailType)
	if err != nil {
		return nil, err
	}

	seqset := &imap.SeqSet{}
	for _, id := range ids {
		validity, uid, err := parseMailId(id)
		if err != nil {
			return nil, err
		}
		if validity != uidValidity {
			ic.l.WithFields(logrus.Fields{"folder": folder, "id": id}).Warn("Mail id from an older uidvalidity, skipping")
			continue
		}
		seqset.AddNum(uid)
	}
	if seqset.Empty() {
		return []*domain.RawEnvelope{}, nil
	}

	fullBodySection := &imap.BodySectionName{
		Peek: true,
	}
	fetchItems := []imap.FetchItem{imap.FetchUid, fullBodySection.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- ic.connection.UidFetch(seqset, fetchItems, messages)
	}()

	envelopes := []*domain.RawEnvelope{}
	for msg := range messages {
		r := msg.GetBody(fullBodySection)
		if r == nil {
			ic.l.WithField("uid", msg.Uid).Warn("Server did not return a body")
			continue
		}
		rawBody, err := io.ReadAll(r)
		if err != nil {
			ic.l.WithFields(logrus.Fields{"uid": msg.Uid, "error": err}).Warn("Could not read mail body")
			continue
		}

		env, err := mail.ParseRawMail(rawBody)
		if err != nil {
			ic.l.WithFields(logrus.Fields{"uid": msg.Uid, "error": err}).Warn("Could not parse mail")
			continue
		}
		env.MailId = mailId(uidValidity, msg.Uid)
		env.MailType = mailType
		envelopes = append(envelopes, env)
	}

	err = <-done
	if err != nil {
		return nil, fmt.Errorf("could not fetch mails: %w", err)
	}

	return envelopes, nil
}

func (ic *ImapConnection) Close() error {
	return ic.connection.Logout()
}

func mailId(uidValidity, uid uint32) string {
	return fmt.Sprintf("%d:%d", uidValidity, uid)
}

func parseMailId(id string) (uint32, uint32, error) {
	validity, uid, ok := strings.Cut(id, ":")
	if !ok {
		return 0, 0, fmt.Errorf("malformed mail id %q", id)
	}

	v, err := strconv.ParseUint(validity, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed uidvalidity in mail id %q: %w", id, err)
	}
	u, err := strconv.ParseUint(uid, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed uid in mail id %q: %w", id, err)
	}

	return uint32(v), uint32(u), nil
}
