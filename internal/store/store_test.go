// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/parley-tui/internal/api"
	"github.com/jeranaias/parley-tui/internal/model"
)

func summaries(ids ...string) []model.ChatSummary {
	out := make([]model.ChatSummary, len(ids))
	for i, id := range ids {
		out[i] = model.ChatSummary{ID: id, Title: "Chat " + id, Timestamp: model.Now()}
	}
	return out
}

// =============================================================================
// SEND PIPELINE TESTS
// =============================================================================

func TestBeginSendEmptyDraftIsNoOp(t *testing.T) {
	for _, draft := range []string{"", "   ", "\n\t "} {
		s := New()
		s.SetDraft(draft)

		if _, ok := s.BeginSend(); ok {
			t.Errorf("BeginSend with draft %q should be a no-op", draft)
		}
		if len(s.Messages()) != 0 {
			t.Errorf("No-op send appended messages for draft %q", draft)
		}
		if s.Draft() != draft {
			t.Errorf("No-op send mutated draft %q to %q", draft, s.Draft())
		}
		if s.Sending() {
			t.Error("No-op send left sending flag set")
		}
	}
}

func TestBeginSendOptimisticAppend(t *testing.T) {
	s := New()
	s.SetDraft("  hello there  ")

	intent, ok := s.BeginSend()
	if !ok {
		t.Fatal("BeginSend should succeed with non-blank draft")
	}

	// Untrimmed text goes on the wire.
	if intent.Message.Text != "  hello there  " {
		t.Errorf("Intent carries trimmed text %q", intent.Message.Text)
	}
	if intent.ChatID != "" {
		t.Errorf("Expected new-chat intent, got chat %q", intent.ChatID)
	}

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Expected user + pending messages, got %d", len(msgs))
	}
	if msgs[0].Sender != model.SenderUser || msgs[1].Sender != model.SenderModel {
		t.Error("Optimistic messages have wrong senders")
	}
	if !msgs[1].Pending() {
		t.Error("Model message should be pending")
	}
	if msgs[1].ID != intent.PendingID {
		t.Error("Intent pending ID does not match appended message")
	}
	if s.Draft() != "" {
		t.Errorf("Draft should be cleared on submit, got %q", s.Draft())
	}
	if !s.Sending() {
		t.Error("Sending flag should be set")
	}
}

func TestBeginSendBlockedWhileSending(t *testing.T) {
	s := New()
	s.SetDraft("first")
	if _, ok := s.BeginSend(); !ok {
		t.Fatal("First send should start")
	}

	s.SetDraft("second") // ignored while sending
	if s.Draft() != "" {
		t.Error("Draft edits should be ignored while sending")
	}
	if _, ok := s.BeginSend(); ok {
		t.Error("Second send should be blocked while one is in flight")
	}
}

func TestStreamingAppendAndComplete(t *testing.T) {
	s := New()
	s.ApplyMessages(s.OpenChat("c1"), []model.Message{model.NewUserMessage("old")})
	s.SetDraft("question")

	intent, _ := s.BeginSend()
	before := len(s.Messages())

	for _, chunk := range []string{"The ", "answer ", "is 42."} {
		s.AppendChunk(intent.Gen, chunk)
	}
	s.CompleteSend(intent.Gen, "The answer is 42.")

	msgs := s.Messages()
	// Net effect of one send: exactly two new messages.
	if len(msgs) != before {
		t.Fatalf("Expected %d messages after completion, got %d", before, len(msgs))
	}
	last := msgs[len(msgs)-1]
	if last.Pending() {
		t.Error("Reply should be finalized")
	}
	if last.Text != "The answer is 42." {
		t.Errorf("Reply text doubled or lost: %q", last.Text)
	}
	if s.Sending() {
		t.Error("Sending flag should clear on completion")
	}
}

func TestCompleteSendWithoutChunks(t *testing.T) {
	// Non-streamed responses deliver the reply only at completion.
	s := New()
	s.ApplyMessages(s.OpenChat("c1"), nil)
	s.SetDraft("hi")

	intent, _ := s.BeginSend()
	s.CompleteSend(intent.Gen, "full reply")

	msgs := s.Messages()
	if got := msgs[len(msgs)-1].Text; got != "full reply" {
		t.Errorf("Expected fallback to full reply, got %q", got)
	}
}

func TestCompleteSendSupersedesBufferedPrefix(t *testing.T) {
	// The done result can overtake chunks still queued behind it, so
	// completion must install the full reply even when the streamed
	// buffer holds only a prefix.
	s := New()
	s.ApplyMessages(s.OpenChat("c1"), nil)
	s.SetDraft("question")

	intent, _ := s.BeginSend()
	s.AppendChunk(intent.Gen, "Hello ")
	s.CompleteSend(intent.Gen, "Hello world")
	s.AppendChunk(intent.Gen, "world") // straggler after completion

	msgs := s.Messages()
	last := msgs[len(msgs)-1]
	if last.Text != "Hello world" {
		t.Errorf("Reply truncated to the buffered prefix: %q", last.Text)
	}
	if last.Pending() {
		t.Error("Reply should be finalized")
	}
}

func TestFailSendRollsBackAndKeepsDraftCleared(t *testing.T) {
	s := New()
	history := []model.Message{model.NewUserMessage("old"), {Text: "reply", Sender: model.SenderModel}}
	s.ApplyMessages(s.OpenChat("c1"), history)
	s.SetDraft("doomed")

	intent, _ := s.BeginSend()
	s.AppendChunk(intent.Gen, "partial rep")
	s.FailSend(intent.Gen, errors.New("connection refused"))

	msgs := s.Messages()
	if len(msgs) != len(history) {
		t.Fatalf("Expected rollback to %d messages, got %d", len(history), len(msgs))
	}
	for i := range history {
		if msgs[i].Text != history[i].Text {
			t.Errorf("Message %d changed: %q", i, msgs[i].Text)
		}
	}
	if s.Draft() != "" {
		t.Errorf("Draft must not be restored on failure, got %q", s.Draft())
	}
	if s.Sending() {
		t.Error("Sending flag should clear on failure")
	}
	if s.LastError() == "" {
		t.Error("Failure should surface an error line")
	}
}

func TestCompleteSendNewChatNavigates(t *testing.T) {
	s := New()
	s.ApplyChats(s.BeginLoadChats(), summaries("a", "b"))
	s.SetDraft("start a chat")

	intent, _ := s.BeginSend()
	if intent.ChatID != "" {
		t.Fatal("Send from root should request chat creation")
	}

	chat := &model.FullChat{
		ID:        "fresh",
		Title:     "Start a chat",
		Timestamp: model.Now(),
		Messages: []model.Message{
			model.NewUserMessage("start a chat"),
			{Text: "hello!", Sender: model.SenderModel},
		},
	}
	s.CompleteSendNewChat(intent.Gen, chat)

	if s.ActiveChatID() != "fresh" {
		t.Errorf("Expected navigation to new chat, active = %q", s.ActiveChatID())
	}
	if len(s.Messages()) != 2 {
		t.Errorf("Expected server thread installed, got %d messages", len(s.Messages()))
	}
	if chats := s.Chats(); len(chats) != 3 || chats[0].ID != "fresh" {
		t.Errorf("New chat should lead the sidebar: %+v", chats)
	}
}

// =============================================================================
// STALE RESULT TESTS
// =============================================================================

func TestStaleResultsAreDiscarded(t *testing.T) {
	s := New()

	oldGen := s.BeginLoadChats()
	newGen := s.BeginLoadChats()
	s.ApplyChats(oldGen, summaries("stale"))
	if len(s.Chats()) != 0 {
		t.Error("Stale chat list applied")
	}
	s.ApplyChats(newGen, summaries("fresh"))
	if len(s.Chats()) != 1 || s.Chats()[0].ID != "fresh" {
		t.Error("Current chat list not applied")
	}

	firstFetch := s.OpenChat("a")
	secondFetch := s.OpenChat("b")
	s.ApplyMessages(firstFetch, []model.Message{model.NewUserMessage("from chat a")})
	if len(s.Messages()) != 0 {
		t.Error("Stale history applied to the wrong chat")
	}
	s.ApplyMessages(secondFetch, []model.Message{model.NewUserMessage("from chat b")})
	if len(s.Messages()) != 1 {
		t.Error("Current history not applied")
	}
}

func TestStaleStreamChunksDiscarded(t *testing.T) {
	s := New()
	s.ApplyMessages(s.OpenChat("c1"), nil)
	s.SetDraft("first")
	intent, _ := s.BeginSend()
	s.FailSend(intent.Gen, errors.New("dropped"))

	// Late chunks from the failed attempt must not resurrect anything.
	s.AppendChunk(intent.Gen, "ghost text")
	s.CompleteSend(intent.Gen, "ghost text")
	if len(s.Messages()) != 0 {
		t.Errorf("Stale stream mutated the thread: %d messages", len(s.Messages()))
	}
}

func TestNavigateDuringSendOrphansIt(t *testing.T) {
	s := New()
	s.ApplyMessages(s.OpenChat("a"), []model.Message{model.NewUserMessage("old a msg")})
	s.SetDraft("to chat a")
	intent, _ := s.BeginSend()

	// Open another chat before the send resolves.
	fetch := s.OpenChat("b")
	bHistory := []model.Message{model.NewUserMessage("from chat b")}
	s.ApplyMessages(fetch, bHistory)

	if s.Sending() {
		t.Error("Navigation should clear the sending flag")
	}
	if s.PendingMessageID() != "" {
		t.Error("Navigation should drop the pending message handle")
	}

	// The orphaned send's late failure must not restore chat a's
	// snapshot into chat b's thread.
	s.FailSend(intent.Gen, errors.New("connection reset"))
	s.AppendChunk(intent.Gen, "ghost")
	s.CompleteSend(intent.Gen, "ghost")

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Text != "from chat b" {
		t.Errorf("Orphaned send mutated the new chat's thread: %+v", msgs)
	}
}

func TestCloseChatOrphansInFlightFetch(t *testing.T) {
	s := New()
	gen := s.OpenChat("c1")
	s.CloseChat()

	s.ApplyMessages(gen, []model.Message{model.NewUserMessage("late")})
	if len(s.Messages()) != 0 {
		t.Error("Fetch result applied after navigating away")
	}
	if s.ActiveChatID() != "" {
		t.Errorf("Expected root screen, active = %q", s.ActiveChatID())
	}
}

// =============================================================================
// HISTORY LOAD TESTS
// =============================================================================

func TestFailLoadMessagesClearsThread(t *testing.T) {
	s := New()
	s.ApplyMessages(s.OpenChat("c1"), []model.Message{model.NewUserMessage("visible")})

	gen := s.OpenChat("c2")
	s.FailLoadMessages(gen, errors.New("boom"))

	if len(s.Messages()) != 0 {
		t.Error("Failed history load must leave the thread empty, not stale")
	}
	if s.LoadingMessages() {
		t.Error("Loading flag should clear on failure")
	}
	if s.LastError() == "" {
		t.Error("Failure should surface an error line")
	}
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestDeleteRemovesChat(t *testing.T) {
	s := New()
	s.ApplyChats(s.BeginLoadChats(), summaries("a", "b", "c"))

	gen := s.BeginDelete()
	s.CompleteDelete(gen, "b")

	chats := s.Chats()
	if len(chats) != 2 || chats[0].ID != "a" || chats[1].ID != "c" {
		t.Errorf("Unexpected chats after delete: %+v", chats)
	}
}

func TestDeleteActiveChatNavigatesToRoot(t *testing.T) {
	s := New()
	s.ApplyChats(s.BeginLoadChats(), summaries("a", "b"))
	s.ApplyMessages(s.OpenChat("a"), []model.Message{model.NewUserMessage("hi")})

	gen := s.BeginDelete()
	s.CompleteDelete(gen, "a")

	if s.ActiveChatID() != "" {
		t.Errorf("Deleting the open chat should navigate to root, active = %q", s.ActiveChatID())
	}
	if len(s.Messages()) != 0 {
		t.Error("Deleted chat's messages still shown")
	}
}

func TestFailDeleteKeepsChat(t *testing.T) {
	s := New()
	s.ApplyChats(s.BeginLoadChats(), summaries("a"))

	gen := s.BeginDelete()
	s.FailDelete(gen, &api.APIError{Status: 500, Body: "oops"})

	if len(s.Chats()) != 1 {
		t.Error("Failed delete removed the chat anyway")
	}
	if !strings.Contains(s.LastError(), "500") {
		t.Errorf("Error line should carry the status, got %q", s.LastError())
	}
}

// =============================================================================
// ERROR LINE TESTS
// =============================================================================

func TestErrorTextDistinguishesFailureKinds(t *testing.T) {
	rejected := errorText(&api.APIError{Status: 503, Body: "overloaded"})
	unreachable := errorText(errors.New("dial tcp: connection refused"))

	if rejected == unreachable {
		t.Error("Rejected and unreachable should read differently")
	}
	if !strings.Contains(rejected, "503") {
		t.Errorf("Rejection text should carry status, got %q", rejected)
	}
}

func TestDismissError(t *testing.T) {
	s := New()
	s.FailLoadChats(s.BeginLoadChats(), errors.New("nope"))
	if s.LastError() == "" {
		t.Fatal("Expected error line")
	}
	s.DismissError()
	if s.LastError() != "" {
		t.Error("Dismiss should clear the error line")
	}
}
