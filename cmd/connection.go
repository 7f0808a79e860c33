// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/max-hans/movemaster-lib/pkg/movemaster"
)

// WebSocketTransport adapts a serial-over-websocket bridge to the
// movemaster.Transport interface. The bridge relays raw serial bytes
// as binary frames; a frame larger than the caller's buffer is held
// back and drained across subsequent reads.
type WebSocketTransport struct {
	conn   *websocket.Conn
	rest   []byte
	closed bool
}

func (w *WebSocketTransport) Read(p []byte) (int, error) {
	if w.closed {
		return 0, movemaster.ErrDisconnected
	}

	if len(w.rest) > 0 {
		n := copy(p, w.rest)
		w.rest = w.rest[n:]
		return n, nil
	}

	for {
		frameType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.closed = true
			return 0, err
		}

		// Bridges may interleave text or control frames; only binary
		// frames carry serial bytes.
		if frameType != websocket.BinaryMessage {
			continue
		}

		n := copy(p, data)
		w.rest = data[n:]
		return n, nil
	}
}

func (w *WebSocketTransport) Write(p []byte) (int, error) {
	err := w.conn.WriteMessage(websocket.BinaryMessage, p)
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *WebSocketTransport) Close() error {
	return w.conn.Close()
}

// OpenWebSocketTransport connects to a serial-over-websocket bridge
func OpenWebSocketTransport(wsURL string, skipSSLVerify bool) (movemaster.Transport, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	switch u.Scheme {
	case "ws", "wss":
		// OK
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %v", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %v", err)
	}

	return &WebSocketTransport{conn: conn}, nil
}

// openTransport opens either a serial or WebSocket transport based on flags
func openTransport() (movemaster.Transport, string, error) {
	switch {
	case wsURL != "":
		tr, err := OpenWebSocketTransport(wsURL, wsNoSSLVerify)
		if err != nil {
			return nil, "", err
		}
		return tr, fmt.Sprintf("WebSocket: %s", wsURL), nil

	case portName != "":
		tr, err := movemaster.OpenSerial(portName)
		if err != nil {
			return nil, "", err
		}
		return tr, fmt.Sprintf("Serial: %s @ 9600 7E2", portName), nil

	default:
		return nil, "", fmt.Errorf("either --port or --url must be specified")
	}
}

// openRobot opens the selected transport, taps it with the capture
// recorder when requested, and wraps it into a protocol engine.
func openRobot(opts ...movemaster.Option) (*movemaster.Robot, string, error) {
	tr, info, err := openTransport()
	if err != nil {
		return nil, "", err
	}

	if capturePath != "" {
		tapped, err := newCaptureTransport(tr, capturePath)
		if err != nil {
			tr.Close()
			return nil, "", err
		}
		tr = tapped
		info += fmt.Sprintf(" (capturing to %s)", capturePath)
	}

	return movemaster.New(tr, opts...), info, nil
}

// withRobot runs fn against a freshly opened engine. Connection errors
// exit with code 2, matching the other tooling around the controller.
func withRobot(fn func(ctx context.Context, r *movemaster.Robot) error) error {
	robot, info, err := openRobot()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Connection error: %v\n", err)
		os.Exit(2)
	}
	defer robot.Close()

	fmt.Fprintf(os.Stderr, "Connection: %s\n", info)
	return fn(context.Background(), robot)
}
