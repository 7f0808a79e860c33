// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"io"
	"strings"
	"sync"
)

// fakeTransport is an in-memory Transport. Written commands are
// recorded without their terminator; an optional respond hook scripts
// replies, which are delivered through the same read path a serial
// port would use.
type fakeTransport struct {
	mu       sync.Mutex
	wrote    []string
	writeErr error
	respond  func(cmd string) (string, bool)

	incoming chan []byte
	closed   bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{incoming: make(chan []byte, 16)}
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	b, ok := <-f.incoming
	if !ok {
		return 0, io.EOF
	}
	return copy(p, b), nil
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	f.mu.Lock()
	if f.writeErr != nil {
		err := f.writeErr
		f.mu.Unlock()
		return 0, err
	}
	cmd := strings.TrimSuffix(string(p), terminator)
	f.wrote = append(f.wrote, cmd)
	respond := f.respond
	f.mu.Unlock()

	if respond != nil {
		if reply, ok := respond(cmd); ok {
			f.push(reply + terminator)
		}
	}
	return len(p), nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.incoming)
	}
	return nil
}

func (f *fakeTransport) push(s string) {
	f.incoming <- []byte(s)
}

func (f *fakeTransport) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.wrote))
	copy(out, f.wrote)
	return out
}

func respondWith(m map[string]string) func(string) (string, bool) {
	return func(cmd string) (string, bool) {
		reply, ok := m[cmd]
		return reply, ok
	}
}
