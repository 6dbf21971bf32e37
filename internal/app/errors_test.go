package app

import (
	"errors"
	"testing"
)

func TestInitError(t *testing.T) {
	inner := errors.New("bad file")
	err := &InitError{Component: "config", Err: inner}

	if got := err.Error(); got != "init config: bad file" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to match wrapped error")
	}
	if !errors.Is(err, ErrInitialization) {
		t.Error("expected errors.Is to match ErrInitialization")
	}
}

func TestScriptError(t *testing.T) {
	inner := errors.New("boom")
	err := &ScriptError{Source: "build.lua", Err: inner}

	if got := err.Error(); got != "script build.lua: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to match wrapped error")
	}

	var nilErr *ScriptError
	if nilErr.Error() != "" || nilErr.Unwrap() != nil {
		t.Error("nil ScriptError should be empty")
	}
}

func TestErrorList(t *testing.T) {
	list := NewErrorList()
	if list.HasErrors() || list.AsError() != nil {
		t.Fatal("new list should be empty")
	}

	list.Add(nil)
	if list.Len() != 0 {
		t.Error("nil errors should be ignored")
	}

	first := errors.New("first")
	list.Add(first)
	if got := list.Error(); got != "first" {
		t.Errorf("Error() = %q, want %q", got, "first")
	}

	list.Add(ErrClosed)
	if got := list.Error(); got != "2 errors: first: first" {
		t.Errorf("Error() = %q", got)
	}

	err := list.AsError()
	if !errors.Is(err, first) || !errors.Is(err, ErrClosed) {
		t.Error("expected errors.Is to match every collected error")
	}
}
