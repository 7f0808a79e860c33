// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"bytes"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

// getFuzzRounds returns the number of fuzz rounds from FUZZ_ROUNDS env var, default 1000
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 1000
}

// getFuzzSeed returns the seed from FUZZ_SEED env var, or generates one from current time
func getFuzzSeed() int64 {
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if seed, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			return seed
		}
	}
	return time.Now().UnixNano()
}

// newFuzzRng creates a new random number generator and logs the seed for reproducibility
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := getFuzzSeed()
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

// drainFramer collects every response already queued in the framer.
// It stops at the first Expect that would block and cancels it.
func drainFramer(t *testing.T, f *Framer) []string {
	t.Helper()
	var got []string
	for {
		ch, err := f.Expect()
		if err != nil {
			t.Fatalf("Expect failed: %v", err)
		}
		select {
		case line := <-ch:
			got = append(got, line)
		default:
			f.Cancel()
			return got
		}
	}
}

// randomResponseLine builds a line of random printable content without
// terminator bytes, possibly empty or whitespace-only.
func randomResponseLine(rng *rand.Rand) string {
	const charset = " +-.,0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	length := rng.Intn(13)
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rng.Intn(len(charset))]
	}
	return string(b)
}

// feedInRandomChunks pushes data through Feed split at random
// boundaries, including splits inside the CR-LF terminator.
func feedInRandomChunks(rng *rand.Rand, f *Framer, data []byte) {
	for len(data) > 0 {
		n := rng.Intn(5) + 1
		if n > len(data) {
			n = len(data)
		}
		f.Feed(data[:n])
		data = data[n:]
	}
}

// TestFuzzFramer_RandomChunking feeds well-formed response streams
// split at random chunk boundaries and verifies every terminated line
// is delivered exactly once, trimmed, in order, while an unterminated
// tail is carried over until its terminator arrives.
func TestFuzzFramer_RandomChunking(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		f := NewFramer()

		numLines := rng.Intn(8) + 1
		lines := make([]string, numLines)
		var stream []byte
		for j := range lines {
			lines[j] = randomResponseLine(rng)
			stream = append(stream, lines[j]...)
			stream = append(stream, terminator...)
		}
		tail := randomResponseLine(rng)
		stream = append(stream, tail...)

		feedInRandomChunks(rng, f, stream)

		got := drainFramer(t, f)
		if len(got) != numLines {
			t.Fatalf("Round %d: delivered %d responses, want %d", i, len(got), numLines)
		}
		for j, line := range lines {
			if got[j] != strings.TrimSpace(line) {
				t.Fatalf("Round %d: response %d = %q, want %q", i, j, got[j], strings.TrimSpace(line))
			}
		}

		// The tail must still be buffered: terminating it now yields
		// exactly the carried-over remainder.
		ch, err := f.Expect()
		if err != nil {
			t.Fatalf("Round %d: Expect for tail failed: %v", i, err)
		}
		f.Feed([]byte(terminator))
		select {
		case line := <-ch:
			if line != strings.TrimSpace(tail) {
				t.Fatalf("Round %d: tail = %q, want %q", i, line, strings.TrimSpace(tail))
			}
		default:
			t.Fatalf("Round %d: terminated tail was not delivered", i)
		}
		f.Close()
	}
}

// TestFuzzFramer_RandomBytes feeds arbitrary random bytes, terminator
// fragments included, and verifies the framer delivers exactly one
// trimmed response per CR-LF in the stream and never panics.
func TestFuzzFramer_RandomBytes(t *testing.T) {
	rounds := getFuzzRounds()
	rng := newFuzzRng(t)
	t.Logf("Running %d fuzz rounds", rounds)

	for i := 0; i < rounds; i++ {
		f := NewFramer()

		length := rng.Intn(256) + 1
		data := make([]byte, length)
		rng.Read(data)
		// Sprinkle in terminator bytes so complete lines actually occur.
		for j := 0; j < len(data)/8; j++ {
			data[rng.Intn(len(data))] = '\r'
			data[rng.Intn(len(data))] = '\n'
		}

		feedInRandomChunks(rng, f, data)

		parts := bytes.Split(data, []byte(terminator))
		want := parts[:len(parts)-1]

		got := drainFramer(t, f)
		if len(got) != len(want) {
			t.Fatalf("Round %d: delivered %d responses, want %d", i, len(got), len(want))
		}
		for j := range want {
			if got[j] != strings.TrimSpace(string(want[j])) {
				t.Fatalf("Round %d: response %d = %q, want %q", i, j, got[j], strings.TrimSpace(string(want[j])))
			}
		}
		f.Close()
	}
}
