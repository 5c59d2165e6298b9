// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/CrawX/go-mail-forwarder/log"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPersistence(t *testing.T) *Persistence {
	log.InitLogging("error")

	p, err := NewPersistence(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func testRecords() []*domain.MessageRecord {
	return []*domain.MessageRecord{
		{
			MailId:     "r1",
			MessageId:  "<a@example.com>",
			From:       "a@example.com",
			To:         "b@example.com",
			Subject:    "Hello",
			ReturnPath: "a@example.com",
			Date:       time.Date(2022, 10, 21, 11, 50, 42, 0, time.UTC),
			MailType:   domain.Received,
			Content: []domain.ContentPart{
				{Kind: domain.MimeTextPlain, Text: "plain"},
				{Kind: domain.MimeTextHtml, Text: "<p>html</p>"},
			},
			IsValid: true,
		},
		{
			MailId:    "s1",
			MessageId: "<b@example.com>",
			InReplyTo: "<a@example.com>",
			From:      "b@example.com",
			To:        "a@example.com",
			Subject:   "Re: Hello",
			Date:      time.Date(2022, 10, 21, 12, 0, 0, 0, time.UTC),
			MailType:  domain.Sent,
			Content:   []domain.ContentPart{{Kind: domain.MimeTextPlain, Text: "reply"}},
			IsValid:   true,
		},
		{
			MailId:   "r2",
			MailType: domain.Received,
		},
	}
}

func TestSaveRecords(t *testing.T) {
	p := newTestPersistence(t)

	records := testRecords()
	require.NoError(t, p.SaveRecords(records))

	loaded, err := p.AllRecords()
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	for idx, expected := range records {
		actual := loaded[idx]
		assert.True(t, expected.Date.Equal(actual.Date), "date of %s", expected.MailId)
		actual.Date = expected.Date
		assert.Equal(t, expected, actual)
	}
}

func TestSaveRecordsIgnoresDuplicates(t *testing.T) {
	p := newTestPersistence(t)

	require.NoError(t, p.SaveRecords(testRecords()))

	changed := testRecords()
	changed[0].Subject = "Changed"
	changed[0].Content = []domain.ContentPart{{Kind: domain.MimeTextPlain, Text: "changed"}}
	require.NoError(t, p.SaveRecords(changed))

	loaded, err := p.AllRecords()
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "Hello", loaded[0].Subject)
	assert.Len(t, loaded[0].Content, 2)
}

func TestSameMailIdDifferentType(t *testing.T) {
	p := newTestPersistence(t)

	records := []*domain.MessageRecord{
		{MailId: "1", MailType: domain.Received},
		{MailId: "1", MailType: domain.Sent},
	}
	require.NoError(t, p.SaveRecords(records))

	loaded, err := p.AllRecords()
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestKnownMailIds(t *testing.T) {
	p := newTestPersistence(t)

	received, err := p.KnownMailIds(domain.Received)
	require.NoError(t, err)
	assert.Empty(t, received)

	require.NoError(t, p.SaveRecords(testRecords()))

	received, err = p.KnownMailIds(domain.Received)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"r1": true, "r2": true}, received)

	sent, err := p.KnownMailIds(domain.Sent)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"s1": true}, sent)
}

func TestConversationIds(t *testing.T) {
	p := newTestPersistence(t)

	id, ok, err := p.ConversationId("<a@example.com>")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, id)

	require.NoError(t, p.SaveConversationId("<a@example.com>", "1001"))
	require.NoError(t, p.SaveConversationId("<b@example.com>", "1002"))

	id, ok, err = p.ConversationId("<a@example.com>")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1001", id)

	require.NoError(t, p.SaveConversationId("<a@example.com>", "2001"))
	id, _, err = p.ConversationId("<a@example.com>")
	require.NoError(t, err)
	assert.Equal(t, "2001", id)
}

func TestReopen(t *testing.T) {
	log.InitLogging("error")

	file := filepath.Join(t.TempDir(), "reopen.db")
	p, err := NewPersistence(file)
	require.NoError(t, err)
	require.NoError(t, p.SaveRecords(testRecords()))
	require.NoError(t, p.SaveConversationId("<a@example.com>", "1001"))
	require.NoError(t, p.Close())

	p, err = NewPersistence(file)
	require.NoError(t, err)
	defer p.Close()

	loaded, err := p.AllRecords()
	require.NoError(t, err)
	assert.Len(t, loaded, 3)

	id, ok, err := p.ConversationId("<a@example.com>")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1001", id)
}

func TestNewPersistenceMigrationFailureClosesDb(t *testing.T) {
	log.InitLogging("error")

	file := filepath.Join(t.TempDir(), "conflict.db")
	db, err := sqlx.Connect("sqlite3", file)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE messages (unrelated TEXT)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	p, err := NewPersistence(file)
	assert.Nil(t, p)
	assert.ErrorContains(t, err, "could not migrate to newest version")

	// the last connection to a WAL database removes the -wal file on close
	assert.NoFileExists(t, file+"-wal")
}
