// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/store"
	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

func newTestChat(t *testing.T) (Model, *store.Store) {
	t.Helper()
	st := store.New()
	m := New(st, styles.NewTheme(true), false)
	m.Focus()
	m.SetSize(80, 24)
	return m, st
}

func TestEnterEmitsSubmit(t *testing.T) {
	m, st := newTestChat(t)
	st.SetDraft("hello")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected a command from enter")
	}
	if _, ok := cmd().(SubmitMsg); !ok {
		t.Fatalf("Expected SubmitMsg, got %T", cmd())
	}
}

func TestEscEmitsBack(t *testing.T) {
	m, _ := newTestChat(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("Expected a command from esc")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Fatalf("Expected BackMsg, got %T", cmd())
	}
}

func TestTypingUpdatesDraft(t *testing.T) {
	m, st := newTestChat(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	if st.Draft() != "hi" {
		t.Errorf("Expected draft 'hi', got %q", st.Draft())
	}
	_ = m
}

func TestTypingIgnoredWhileSending(t *testing.T) {
	m, st := newTestChat(t)
	st.SetDraft("msg")
	if _, ok := st.BeginSend(); !ok {
		t.Fatal("Send should start")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if st.Draft() != "" {
		t.Errorf("Draft changed during send: %q", st.Draft())
	}
	_ = m
}

func TestUnfocusedChatIgnoresKeys(t *testing.T) {
	m, st := newTestChat(t)
	m.Blur()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Blurred chat should not emit commands")
	}
	if st.Draft() != "" {
		t.Errorf("Blurred chat mutated draft: %q", st.Draft())
	}
	_ = m
}

func TestSyncThreadRestoresClearedDraft(t *testing.T) {
	m, st := newTestChat(t)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("send me")})
	if _, ok := st.BeginSend(); !ok {
		t.Fatal("Send should start")
	}

	// The store cleared the draft on submit; the composer follows.
	m.SyncThread()
	if m.textarea.Value() != "" {
		t.Errorf("Composer should clear on submit, got %q", m.textarea.Value())
	}
}
