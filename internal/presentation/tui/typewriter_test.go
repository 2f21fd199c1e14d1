package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tendhq/tend/pkg/ports"
)

func TestTypewriter_RevealCompletes(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTypewriter(&buf, 0)

	var doneCalled bool
	tw.Reveal(context.Background(), "hello there", func() { doneCalled = true })

	if !doneCalled {
		t.Fatal("done callback never fired")
	}
	if !strings.Contains(buf.String(), "hello there") {
		t.Errorf("message not written: %q", buf.String())
	}
}

func TestTypewriter_CancelFlushes(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTypewriter(&buf, time.Hour) // would never finish naturally

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var doneCalled bool
	tw.Reveal(ctx, "flush me", func() { doneCalled = true })

	if !doneCalled {
		t.Fatal("done must fire even when cancelled")
	}
	if !strings.Contains(buf.String(), "flush me") {
		t.Errorf("remainder not flushed: %q", buf.String())
	}
}

func TestTypewriter_Segments(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTypewriter(&buf, 0)

	tw.Play(ports.SegmentThinking)
	tw.Play(ports.SegmentIdle)
	tw.Play(ports.SegmentTalking)

	out := buf.String()
	if !strings.Contains(out, "thinking") || !strings.Contains(out, "coach:") {
		t.Errorf("segment lines missing: %q", out)
	}
}
