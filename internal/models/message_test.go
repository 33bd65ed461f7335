package models

import (
	"testing"

	"github.com/shoenig/test/must"
)

func TestMessageInvolves(t *testing.T) {
	msg := Message{Content: "hi", From: "u1", To: "u2"}

	must.True(t, msg.Involves("u1"))
	must.True(t, msg.Involves("u2"))
	must.False(t, msg.Involves("u3"))
}

func TestNewSessionID(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()

	must.NotEq(t, "", a)
	must.NotEq(t, a, b)
}
