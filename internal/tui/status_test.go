package tui

import "testing"

func TestStatusChannelSingleSlot(t *testing.T) {
	var s StatusChannel

	s.Set("first", SeverityInfo)
	s.Set("second", SeverityError)

	msg, sev := s.Message()
	if msg != "second" || sev != SeverityError {
		t.Fatalf("Message() = %q/%v, want the latest message only", msg, sev)
	}
}

func TestStatusChannelClear(t *testing.T) {
	var s StatusChannel

	s.Set("something happened", SeverityWarning)
	s.Clear()

	if msg, _ := s.Message(); msg != "" {
		t.Fatalf("Message() = %q after Clear, want empty", msg)
	}

	// Clearing an already empty channel is a no-op.
	s.Clear()
	if msg, _ := s.Message(); msg != "" {
		t.Fatalf("Message() = %q after double Clear, want empty", msg)
	}
}
