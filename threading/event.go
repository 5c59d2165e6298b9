// SPDX-License-Identifier: GPL-3.0-or-later
package threading

import "github.com/CrawX/go-mail-forwarder/domain"

type EventKind int

const (
	NewStandalone = EventKind(iota + 1)
	NewThread
	AppendedToThread
)

func (k EventKind) String() string {
	switch k {
	case NewStandalone:
		return "standalone"
	case NewThread:
		return "newthread"
	case AppendedToThread:
		return "appended"
	}
	return "unknown"
}

// Event is the result of classifying one message. For NewStandalone the
// root is the message itself.
type Event struct {
	Kind    EventKind
	RootId  string
	Root    *domain.MessageRecord
	Message *domain.MessageRecord
}
