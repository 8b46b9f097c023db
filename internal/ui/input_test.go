package ui

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

func typeText(f *inputField, text string) {
	for _, r := range text {
		f.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestInputFieldTypingReplacesSelection(t *testing.T) {
	f := newInputField(40)
	f.Focus()
	f.SetValue("old draft")
	f.SelectAll()
	if !f.Selected() {
		t.Fatalf("expected selection after SelectAll")
	}
	typeText(f, "new")
	if got := f.Value(); got != "new" {
		t.Fatalf("expected selection to be replaced, got %q", got)
	}
	if f.Selected() {
		t.Fatalf("selection should end after typing")
	}
}

func TestInputFieldBackspaceClearsSelection(t *testing.T) {
	f := newInputField(40)
	f.Focus()
	f.SetValue("old draft")
	f.SelectAll()
	f.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	if got := f.Value(); got != "" {
		t.Fatalf("expected empty field, got %q", got)
	}
}

func TestInputFieldNavigationDropsSelection(t *testing.T) {
	f := newInputField(40)
	f.Focus()
	f.SetValue("keep me")
	f.SelectAll()
	f.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if f.Selected() {
		t.Fatalf("expected selection to be dropped")
	}
	if got := f.Value(); got != "keep me" {
		t.Fatalf("value should be untouched, got %q", got)
	}
}

func TestInputFieldSelectAllOnEmptyIsNoop(t *testing.T) {
	f := newInputField(40)
	f.SelectAll()
	if f.Selected() {
		t.Fatalf("empty field cannot be selected")
	}
}
