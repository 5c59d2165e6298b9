// SPDX-License-Identifier: GPL-3.0-or-later
package gmail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"testing"

	"github.com/CrawX/go-mail-forwarder/domain"
	"github.com/CrawX/go-mail-forwarder/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

func multipartMessage(id string) *gmail.Message {
	return &gmail.Message{
		Id: id,
		Payload: &gmail.MessagePart{
			MimeType: "multipart/mixed",
			Headers: []*gmail.MessagePartHeader{
				{Name: "From", Value: "a@example.com"},
				{Name: "to", Value: "b@example.com"},
				{Name: "SUBJECT", Value: "Hello"},
				{Name: "Date", Value: "Fri, 21 Oct 2022 13:50:42 +0200"},
				{Name: "Message-ID", Value: "<" + id + "@example.com>"},
				{Name: "In-Reply-To", Value: "<root@example.com>"},
				{Name: "Return-Path", Value: "<a@example.com>"},
				{Name: "Received", Value: "somewhere"},
			},
			Parts: []*gmail.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*gmail.MessagePart{
						{MimeType: "text/plain", Body: &gmail.MessagePartBody{Data: "TWFu"}},
						{MimeType: "text/html", Body: &gmail.MessagePartBody{Data: "PHA-TWFuPC9wPg"}},
					},
				},
				{MimeType: "text/plain", Filename: "notes.txt", Body: &gmail.MessagePartBody{AttachmentId: "att"}},
				{MimeType: "image/png", Body: &gmail.MessagePartBody{Data: "iVBO"}},
			},
		},
	}
}

func TestEnvelope(t *testing.T) {
	env := envelope(multipartMessage("1"), domain.Received)

	assert.Equal(t, &domain.RawEnvelope{
		MailId:     "1",
		MailType:   domain.Received,
		MessageId:  "<1@example.com>",
		InReplyTo:  "<root@example.com>",
		From:       "a@example.com",
		To:         "b@example.com",
		Subject:    "Hello",
		Date:       "Fri, 21 Oct 2022 13:50:42 +0200",
		ReturnPath: "<a@example.com>",
		Parts: []domain.RawPart{
			{ContentType: "text/plain", Data: "TWFu"},
			{ContentType: "text/html", Data: "PHA-TWFuPC9wPg"},
		},
	}, env)
}

func TestEnvelopeSinglePart(t *testing.T) {
	msg := &gmail.Message{
		Id: "2",
		Payload: &gmail.MessagePart{
			MimeType: "text/html",
			Body:     &gmail.MessagePartBody{Data: "PHA-"},
		},
	}

	env := envelope(msg, domain.Sent)
	assert.Equal(t, []domain.RawPart{{ContentType: "text/html", Data: "PHA-"}}, env.Parts)
	assert.Equal(t, domain.Sent, env.MailType)
}

func TestEnvelopeNoPayload(t *testing.T) {
	env := envelope(&gmail.Message{Id: "3"}, domain.Sent)
	assert.Equal(t, &domain.RawEnvelope{MailId: "3", MailType: domain.Sent}, env)
}

func newTestServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		resp := &gmail.ListMessagesResponse{}
		switch r.URL.Query().Get("labelIds") {
		case labelReceived:
			switch r.URL.Query().Get("pageToken") {
			case "":
				resp.Messages = []*gmail.Message{{Id: "1"}, {Id: "2"}}
				resp.NextPageToken = "page2"
			case "page2":
				resp.Messages = []*gmail.Message{{Id: "3"}}
			}
		case labelSent:
			resp.Messages = []*gmail.Message{{Id: "s1"}}
		default:
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/", func(w http.ResponseWriter, r *http.Request) {
		id := path.Base(r.URL.Path)
		if id == "missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		assert.Equal(t, "full", r.URL.Query().Get("format"))
		json.NewEncoder(w).Encode(multipartMessage(id))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGmail(t *testing.T) *Gmail {
	log.InitLogging("error")

	srv := newTestServer(t)
	g, err := NewGmail(context.Background(), "me", 2, option.WithHTTPClient(srv.Client()), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return g
}

func TestListIds(t *testing.T) {
	g := newTestGmail(t)

	ids, err := g.ListIds(context.Background(), domain.Received)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids)

	ids, err = g.ListIds(context.Background(), domain.Sent)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	_, err = g.ListIds(context.Background(), domain.NotSet)
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	g := newTestGmail(t)

	envelopes, err := g.Fetch(context.Background(), domain.Received, []string{"1", "missing", "2"})
	require.NoError(t, err)
	require.Len(t, envelopes, 2)
	assert.Equal(t, "1", envelopes[0].MailId)
	assert.Equal(t, "<1@example.com>", envelopes[0].MessageId)
	assert.Equal(t, "2", envelopes[1].MailId)
	assert.Equal(t, domain.Received, envelopes[1].MailType)
	assert.Len(t, envelopes[1].Parts, 2)
}

func TestFetchCancelled(t *testing.T) {
	g := newTestGmail(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Fetch(ctx, domain.Received, []string{"1"})
	assert.ErrorIs(t, err, context.Canceled)
}
