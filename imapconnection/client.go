// SPDX-License-Identifier: GPL-3.0-or-later
package imapconnection

import "github.com/emersion/go-imap"

//go:generate mockgen -destination=client_mocks_test.go -package=imapconnection -source client.go

// mailboxClient is the part of the imap client used by ImapConnection.
type mailboxClient interface {
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	UidSearch(criteria *imap.SearchCriteria) ([]uint32, error)
	UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	Logout() error
}
