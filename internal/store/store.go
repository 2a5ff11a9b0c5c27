// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"strings"

	"github.com/jeranaias/parley-tui/internal/model"
)

// =============================================================================
// STORE TYPE
// =============================================================================

// Store is the client-side chat state machine.
type Store struct {
	chats        []model.ChatSummary
	activeChatID string
	messages     []model.Message
	draft        string

	// One flag per operation kind; they are independent so the sidebar
	// can refresh while a reply streams.
	loadingChats    bool
	loadingMessages bool
	sending         bool
	deleting        bool

	// Generation tokens. A result tagged with an older token than the
	// counter is stale and gets dropped.
	listGen   uint64
	fetchGen  uint64
	sendGen   uint64
	deleteGen uint64

	// Send pipeline state.
	pendingID string          // ID of the model message receiving chunks
	snapshot  []model.Message // messages as they were before the optimistic append

	errText string
}

// SendIntent describes the network work a successful BeginSend requires.
type SendIntent struct {
	Gen       uint64
	ChatID    string // empty: no open chat, a new one must be created
	Message   model.Message
	PendingID string
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Chats returns the sidebar entries in server order.
func (s *Store) Chats() []model.ChatSummary { return s.chats }

// ActiveChatID returns the open chat's ID, or "" at the root screen.
func (s *Store) ActiveChatID() string { return s.activeChatID }

// ActiveChat returns the open chat's summary, or nil.
func (s *Store) ActiveChat() *model.ChatSummary {
	for i := range s.chats {
		if s.chats[i].ID == s.activeChatID {
			return &s.chats[i]
		}
	}
	return nil
}

// Messages returns the open chat's messages, oldest first.
func (s *Store) Messages() []model.Message { return s.messages }

// Draft returns the composer draft.
func (s *Store) Draft() string { return s.draft }

// SetDraft replaces the composer draft. Ignored while a send is in
// flight; the composer is disabled then.
func (s *Store) SetDraft(text string) {
	if s.sending {
		return
	}
	s.draft = text
}

func (s *Store) LoadingChats() bool    { return s.loadingChats }
func (s *Store) LoadingMessages() bool { return s.loadingMessages }
func (s *Store) Sending() bool         { return s.sending }
func (s *Store) Deleting() bool        { return s.deleting }

// PendingMessageID returns the ID of the model message currently
// receiving streamed text, or "" when no send is in flight.
func (s *Store) PendingMessageID() string { return s.pendingID }

// =============================================================================
// CHAT LIST
// =============================================================================

// BeginLoadChats marks a chat list refresh as in flight and returns its
// generation token.
func (s *Store) BeginLoadChats() uint64 {
	s.listGen++
	s.loadingChats = true
	return s.listGen
}

// ApplyChats installs a fetched chat list. Stale results are dropped.
func (s *Store) ApplyChats(gen uint64, chats []model.ChatSummary) {
	if gen != s.listGen {
		return
	}
	s.loadingChats = false
	s.chats = chats
}

// FailLoadChats records a failed refresh. The previous list stays.
func (s *Store) FailLoadChats(gen uint64, err error) {
	if gen != s.listGen {
		return
	}
	s.loadingChats = false
	s.errText = errorText(err)
}

// =============================================================================
// OPENING A CHAT
// =============================================================================

// OpenChat navigates to a chat and marks its history load as in flight.
// The previous chat's messages are dropped immediately so a slow fetch
// never shows another chat's history. An in-flight send belonged to the
// chat being left and is orphaned.
func (s *Store) OpenChat(chatID string) uint64 {
	s.cancelSend()
	s.activeChatID = chatID
	s.messages = nil
	s.fetchGen++
	s.loadingMessages = true
	return s.fetchGen
}

// CloseChat navigates back to the root screen.
func (s *Store) CloseChat() {
	s.cancelSend()
	s.activeChatID = ""
	s.messages = nil
	s.loadingMessages = false
	s.fetchGen++ // orphan any in-flight history fetch
}

// ApplyMessages installs a fetched history. Stale results are dropped.
func (s *Store) ApplyMessages(gen uint64, messages []model.Message) {
	if gen != s.fetchGen {
		return
	}
	s.loadingMessages = false
	s.messages = messages
}

// FailLoadMessages records a failed history fetch. The thread is left
// explicitly empty rather than showing stale messages.
func (s *Store) FailLoadMessages(gen uint64, err error) {
	if gen != s.fetchGen {
		return
	}
	s.loadingMessages = false
	s.messages = nil
	s.errText = errorText(err)
}

// =============================================================================
// SEND PIPELINE
// =============================================================================

// BeginSend starts the send pipeline from the current draft.
//
// The trimmed draft must be non-empty and no other send may be in
// flight, otherwise nothing changes and ok is false. On success the
// user message and an empty pending model message are appended, the
// draft is cleared, and the returned intent tells the caller what to
// put on the wire. The untrimmed text is what gets sent.
func (s *Store) BeginSend() (intent SendIntent, ok bool) {
	if s.sending || strings.TrimSpace(s.draft) == "" {
		return SendIntent{}, false
	}

	// Snapshot before the optimistic append; FailSend restores it.
	s.snapshot = make([]model.Message, len(s.messages))
	copy(s.snapshot, s.messages)

	userMsg := model.NewUserMessage(s.draft)
	pending := model.NewPendingModelMessage()
	s.messages = append(s.messages, userMsg, pending)
	s.pendingID = pending.ID
	s.draft = ""
	s.sending = true
	s.sendGen++

	return SendIntent{
		Gen:       s.sendGen,
		ChatID:    s.activeChatID,
		Message:   userMsg,
		PendingID: pending.ID,
	}, true
}

// AppendChunk adds streamed reply text to the pending model message.
func (s *Store) AppendChunk(gen uint64, chunk string) {
	if gen != s.sendGen || !s.sending {
		return
	}
	if m := s.pendingMessage(); m != nil {
		m.Append(chunk)
	}
}

// CompleteSend finishes a send into an existing chat. The full reply is
// authoritative: the done result can arrive ahead of chunks still queued
// behind it, so the streamed buffer may hold only a prefix of the reply.
func (s *Store) CompleteSend(gen uint64, fullReply string) {
	if gen != s.sendGen || !s.sending {
		return
	}
	if m := s.pendingMessage(); m != nil {
		m.FinalizeWith(fullReply)
	}
	s.finishSend()
}

// CompleteSendNewChat finishes a send that created a chat: the server's
// chat replaces the optimistic thread and becomes the open chat, and
// its summary enters the sidebar at the top.
func (s *Store) CompleteSendNewChat(gen uint64, chat *model.FullChat) {
	if gen != s.sendGen || !s.sending {
		return
	}
	s.activeChatID = chat.ID
	s.messages = chat.Messages
	s.chats = append([]model.ChatSummary{chat.Summary()}, s.chats...)
	s.finishSend()
}

// FailSend rolls the thread back to the pre-send snapshot. The draft
// stays cleared; the user message that was not delivered is gone from
// the thread and the composer alike.
func (s *Store) FailSend(gen uint64, err error) {
	if gen != s.sendGen || !s.sending {
		return
	}
	s.messages = s.snapshot
	s.errText = errorText(err)
	s.finishSend()
}

func (s *Store) finishSend() {
	s.sending = false
	s.pendingID = ""
	s.snapshot = nil
}

// cancelSend orphans an in-flight send. Navigation drops the thread it
// was streaming into, so its completion, failure, and remaining chunks
// must all be ignored; the bumped token takes care of that.
func (s *Store) cancelSend() {
	if !s.sending {
		return
	}
	s.sendGen++
	s.finishSend()
}

// pendingMessage locates the streaming model message by its stable ID.
// Identity by ID, not position: history may be mutated around it.
func (s *Store) pendingMessage() *model.Message {
	for i := range s.messages {
		if s.messages[i].ID == s.pendingID {
			return &s.messages[i]
		}
	}
	return nil
}

// =============================================================================
// DELETE
// =============================================================================

// BeginDelete marks a chat deletion as in flight.
func (s *Store) BeginDelete() uint64 {
	s.deleteGen++
	s.deleting = true
	return s.deleteGen
}

// CompleteDelete removes the chat locally. Deleting the open chat
// navigates back to the root screen.
func (s *Store) CompleteDelete(gen uint64, chatID string) {
	if gen != s.deleteGen {
		return
	}
	s.deleting = false

	kept := s.chats[:0]
	for _, c := range s.chats {
		if c.ID != chatID {
			kept = append(kept, c)
		}
	}
	s.chats = kept

	if s.activeChatID == chatID {
		s.CloseChat()
	}
}

// FailDelete records a failed deletion; the chat stays listed.
func (s *Store) FailDelete(gen uint64, err error) {
	if gen != s.deleteGen {
		return
	}
	s.deleting = false
	s.errText = errorText(err)
}

// =============================================================================
// ERROR LINE
// =============================================================================

// LastError returns the dismissible error line, or "".
func (s *Store) LastError() string { return s.errText }

// DismissError clears the error line.
func (s *Store) DismissError() { s.errText = "" }
