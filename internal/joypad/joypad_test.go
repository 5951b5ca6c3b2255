package joypad

import "testing"

func TestInitialMaskAllReleased(t *testing.T) {
	s := New()
	if got := s.Mask(); got != 0xFF {
		t.Fatalf("initial mask got %02x want FF", got)
	}
}

func TestPressRelease(t *testing.T) {
	s := New()
	s.Press(Start)
	if got := s.Mask(); got != 0x7F {
		t.Fatalf("mask after Start press got %02x want 7F", got)
	}
	s.Press(Right)
	if got := s.Mask(); got != 0x7E {
		t.Fatalf("mask after Right press got %02x want 7E", got)
	}
	s.Release(Start)
	if got := s.Mask(); got != 0xFE {
		t.Fatalf("mask after Start release got %02x want FE", got)
	}
	// Releasing an unpressed button is a no-op.
	s.Release(A)
	if got := s.Mask(); got != 0xFE {
		t.Fatalf("mask got %02x want FE", got)
	}
}

func TestSet(t *testing.T) {
	s := New()
	s.Set(0xF0)
	if got := s.Mask(); got != 0xF0 {
		t.Fatalf("mask got %02x want F0", got)
	}
}
