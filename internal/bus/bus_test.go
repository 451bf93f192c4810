package bus

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"netbot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestPublishSubscribe(t *testing.T) {
	b := New(4, testLogger())
	defer b.Close()

	b.Publish(domain.InboundMessage{Channel: "cli", Content: "show version"})

	select {
	case msg := <-b.Subscribe():
		if msg.Content != "show version" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestOutboundRouting(t *testing.T) {
	b := New(4, testLogger())
	defer b.Close()

	got := make(chan domain.OutboundMessage, 1)
	b.OnOutbound("cli", func(msg domain.OutboundMessage) { got <- msg })

	b.SendOutbound(domain.OutboundMessage{Channel: "cli", Content: "15.2(4)M3"})

	select {
	case msg := <-got:
		if msg.Content != "15.2(4)M3" {
			t.Fatalf("unexpected outbound: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for outbound")
	}
}

func TestOutboundUnknownChannelIsDropped(t *testing.T) {
	b := New(4, testLogger())
	defer b.Close()
	// Must not panic or block.
	b.SendOutbound(domain.OutboundMessage{Channel: "nope", Content: "x"})
}

func TestPublishAfterClose(t *testing.T) {
	b := New(4, testLogger())
	b.Close()
	// Must not panic on closed bus.
	b.Publish(domain.InboundMessage{Channel: "cli", Content: "late"})
}

func TestCloseTwice(t *testing.T) {
	b := New(4, testLogger())
	b.Close()
	b.Close()
}
