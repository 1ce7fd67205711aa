package domain

import (
	"errors"
	"testing"
)

func TestUserMessage(t *testing.T) {
	if got := UserMessage(&BackendError{StatusCode: 400, Message: "Email already exists"}, "fallback"); got != "Email already exists" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("dial tcp: refused"), "fallback"); got != "fallback" {
		t.Errorf("UserMessage = %q", got)
	}
}
