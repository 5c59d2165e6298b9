// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/CrawX/go-mail-forwarder/log"
	"github.com/CrawX/go-mail-forwarder/persistence/migrations"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

type Persistence struct {
	db *sqlx.DB
	l  *logrus.Logger
}

type dbMessage struct {
	Id         int64
	MailId     string `db:"mail_id"`
	MailType   int    `db:"mail_type"`
	MessageId  string `db:"message_id"`
	InReplyTo  string `db:"in_reply_to"`
	From       string `db:"from_addr"`
	To         string `db:"to_addr"`
	Subject    string
	ReturnPath string `db:"return_path"`
	Date       time.Time
	IsValid    bool `db:"is_valid"`
}

type dbPart struct {
	MessageRowId int64 `db:"message_row_id"`
	Position     int
	Kind         string
	Content      string
}

func NewPersistence(datasource string) (*Persistence, error) {
	db, err := sqlx.Connect("sqlite3", datasource)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	l := log.Logger(log.LOG_PERSISTENCE)
	l.WithField("file", datasource).Info("Connected")

	migrationSource := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations.FS,
		Root:       "sql",
	}

	appliedMigrations, err := setup(db, migrationSource)
	if err != nil {
		db.Close()
		return nil, err
	}

	l.WithField("migrations", appliedMigrations).Debug("Executed migrations")

	return &Persistence{
		db: db,
		l:  l,
	}, nil
}

func setup(db *sqlx.DB, migrationSource migrate.MigrationSource) (int, error) {
	_, err := db.Exec(`PRAGMA journal_mode=WAL`)
	if err != nil {
		return 0, fmt.Errorf("could not set journal mode: %w", err)
	}
	_, err = db.Exec(`PRAGMA synchronous=normal`)
	if err != nil {
		return 0, fmt.Errorf("could not set synchronous mode: %w", err)
	}
	_, err = db.Exec(`PRAGMA foreign_keys=on`)
	if err != nil {
		return 0, fmt.Errorf("could not enable foreign keys: %w", err)
	}

	appliedMigrations, err := migrate.Exec(db.DB, "sqlite3", migrationSource, migrate.Up)
	if err != nil {
		return 0, fmt.Errorf("could not migrate to newest version: %w", err)
	}

	return appliedMigrations, nil
}

func (p *Persistence) Close() error {
	err := p.db.Close()
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}
	p.l.Info("Disconnected")
	return nil
}

// AllRecords returns every cached record, invalid ones included, in the
// order they were saved.
func (p *Persistence) AllRecords() ([]*domain.MessageRecord, error) {
	dbMessages := []dbMessage{}
	err := p.db.Select(
		&dbMessages,
		`SELECT id, mail_id, mail_type, message_id, in_reply_to, from_addr, to_addr, subject, return_path, date, is_valid FROM messages ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	dbParts := []dbPart{}
	err = p.db.Select(
		&dbParts,
		`SELECT message_row_id, position, kind, content FROM message_parts ORDER BY message_row_id, position`,
	)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	parts := map[int64][]domain.ContentPart{}
	for _, part := range dbParts {
		parts[part.MessageRowId] = append(parts[part.MessageRowId], domain.ContentPart{
			Kind: domain.MimeKind(part.Kind),
			Text: part.Content,
		})
	}

	records := []*domain.MessageRecord{}
	for _, m := range dbMessages {
		records = append(
			records,
			&domain.MessageRecord{
				MailId:     m.MailId,
				MessageId:  m.MessageId,
				InReplyTo:  m.InReplyTo,
				From:       m.From,
				To:         m.To,
				Subject:    m.Subject,
				ReturnPath: m.ReturnPath,
				Date:       m.Date,
				MailType:   domain.MailType(m.MailType),
				Content:    parts[m.Id],
				IsValid:    m.IsValid,
			},
		)
	}

	p.l.WithField("count", len(records)).Debug("Loaded records")

	return records, nil
}

func (p *Persistence) KnownMailIds(mailType domain.MailType) (map[string]bool, error) {
	mailIds := []string{}
	err := p.db.Select(
		&mailIds,
		`SELECT mail_id FROM messages WHERE mail_type = ?`,
		int(mailType),
	)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	result := map[string]bool{}
	for _, id := range mailIds {
		result[id] = true
	}

	return result, nil
}

// SaveRecords stores records and their content. Records already stored for
// the same mail type and mail id are left untouched.
func (p *Persistence) SaveRecords(records []*domain.MessageRecord) error {
	tx, err := p.db.BeginTxx(context.TODO(), nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	msgStmt, err := tx.Prepare(
		"INSERT OR IGNORE INTO messages(mail_id, mail_type, message_id, in_reply_to, from_addr, to_addr, subject, return_path, date, is_valid) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not prepare statement: %w", err))
	}
	defer msgStmt.Close()

	partStmt, err := tx.Prepare(
		"INSERT INTO message_parts(message_row_id, position, kind, content) VALUES(?, ?, ?, ?)",
	)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not prepare statement: %w", err))
	}
	defer partStmt.Close()

	saved := 0
	for _, r := range records {
		result, err := msgStmt.Exec(
			r.MailId, int(r.MailType), r.MessageId, r.InReplyTo, r.From, r.To, r.Subject, r.ReturnPath, r.Date, r.IsValid,
		)
		if err != nil {
			return txEnd(tx, fmt.Errorf("could not save record: %w", err))
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return txEnd(tx, fmt.Errorf("could not get num of affected rows: %w", err))
		}
		if affected == 0 {
			continue
		}
		saved++

		rowId, err := result.LastInsertId()
		if err != nil {
			return txEnd(tx, fmt.Errorf("could not get row id: %w", err))
		}

		for position, part := range r.Content {
			_, err := partStmt.Exec(rowId, position, string(part.Kind), part.Text)
			if err != nil {
				return txEnd(tx, fmt.Errorf("could not save content part: %w", err))
			}
		}
	}

	err = txEnd(tx, nil)
	if err != nil {
		return err
	}

	p.l.WithFields(logrus.Fields{"records": len(records), "saved": saved}).Debug("Persisted records")
	return nil
}

func (p *Persistence) ConversationId(messageId string) (string, bool, error) {
	conversationId := ""
	err := p.db.Get(
		&conversationId,
		"SELECT conversation_id FROM conversations WHERE message_id = ?",
		messageId,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("could not query db: %w", err)
	}

	return conversationId, true, nil
}

func (p *Persistence) SaveConversationId(messageId, conversationId string) error {
	_, err := p.db.Exec(
		"INSERT OR REPLACE INTO conversations (message_id, conversation_id) VALUES (?, ?)",
		messageId,
		conversationId,
	)
	if err != nil {
		return fmt.Errorf("could not save conversation id: %w", err)
	}

	p.l.WithFields(logrus.Fields{"messageid": messageId, "conversationid": conversationId}).Debug("Persisted conversation id")
	return nil
}

func txEnd(tx *sqlx.Tx, err error) error {
	if err == nil {
		err = tx.Commit()
		if err != nil {
			return fmt.Errorf("could not commit tx: %w", err)
		}
	} else {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			errStr := err.Error()
			return fmt.Errorf("%s, could not rollback tx: %w", errStr, rollbackErr)
		} else {
			return err
		}
	}

	return nil
}
