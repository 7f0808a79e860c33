// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"errors"
	"testing"
)

func TestFramerChunkBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   string
	}{
		{
			name:   "single chunk",
			chunks: []string{"OK\r\n"},
			want:   "OK",
		},
		{
			name:   "byte by byte",
			chunks: []string{"O", "K", "\r", "\n"},
			want:   "OK",
		},
		{
			name:   "terminator split across chunks",
			chunks: []string{"OK\r", "\n"},
			want:   "OK",
		},
		{
			name:   "surrounding whitespace trimmed",
			chunks: []string{"  +012.300, .500  \r\n"},
			want:   "+012.300, .500",
		},
		{
			name:   "empty line",
			chunks: []string{"\r\n"},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFramer()
			ch, err := f.Expect()
			if err != nil {
				t.Fatalf("Expect failed: %v", err)
			}

			for _, chunk := range tt.chunks {
				f.Feed([]byte(chunk))
			}

			select {
			case got := <-ch:
				if got != tt.want {
					t.Errorf("delivered %q, want %q", got, tt.want)
				}
			default:
				t.Fatal("no response delivered")
			}
		})
	}
}

func TestFramerCarriesRemainder(t *testing.T) {
	f := NewFramer()

	// Two responses and the start of a third, in one chunk.
	f.Feed([]byte("A\r\nB\r\nPAR"))
	f.Feed([]byte("TIAL\r\n"))

	for _, want := range []string{"A", "B", "PARTIAL"} {
		ch, err := f.Expect()
		if err != nil {
			t.Fatalf("Expect failed: %v", err)
		}
		select {
		case got := <-ch:
			if got != want {
				t.Errorf("delivered %q, want %q", got, want)
			}
		default:
			t.Fatalf("response %q not delivered", want)
		}
	}
}

func TestFramerOnlyOneConsumer(t *testing.T) {
	f := NewFramer()

	if _, err := f.Expect(); err != nil {
		t.Fatalf("first Expect failed: %v", err)
	}
	if _, err := f.Expect(); !errors.Is(err, ErrProtocolViolation) {
		t.Errorf("second Expect = %v, want ErrProtocolViolation", err)
	}
}

func TestFramerCancelFreesSlot(t *testing.T) {
	f := NewFramer()

	if _, err := f.Expect(); err != nil {
		t.Fatalf("Expect failed: %v", err)
	}
	f.Cancel()
	if _, err := f.Expect(); err != nil {
		t.Errorf("Expect after Cancel = %v, want nil", err)
	}
}

func TestFramerCloseRejectsWaiter(t *testing.T) {
	f := NewFramer()

	ch, err := f.Expect()
	if err != nil {
		t.Fatalf("Expect failed: %v", err)
	}
	f.Close()

	if _, ok := <-ch; ok {
		t.Error("waiter channel should be closed without a value")
	}
	if _, err := f.Expect(); !errors.Is(err, ErrDisconnected) {
		t.Errorf("Expect after Close = %v, want ErrDisconnected", err)
	}

	// Feeding after close is a no-op, not a panic.
	f.Feed([]byte("late\r\n"))
}

func TestFramerQueuesUnclaimedResponses(t *testing.T) {
	f := NewFramer()

	f.Feed([]byte("FIRST\r\n"))

	ch, err := f.Expect()
	if err != nil {
		t.Fatalf("Expect failed: %v", err)
	}
	select {
	case got := <-ch:
		if got != "FIRST" {
			t.Errorf("delivered %q, want FIRST", got)
		}
	default:
		t.Fatal("queued response not delivered")
	}
}
