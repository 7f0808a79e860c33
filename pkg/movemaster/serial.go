// SPDX-License-Identifier: Apache-2.0

package movemaster

import (
	"fmt"
	"sync"

	"go.bug.st/serial"
)

// XON/XOFF flow-control bytes the controller emits.
const (
	xon  = 0x11
	xoff = 0x13
)

// DefaultMode returns the line configuration the controller ships
// with: 9600 baud, 7 data bits, even parity, 2 stop bits, RTS and
// DTR asserted. This must be reproduced exactly or the controller
// stays silent.
func DefaultMode() *serial.Mode {
	return &serial.Mode{
		BaudRate: 9600,
		DataBits: 7,
		Parity:   serial.EvenParity,
		StopBits: serial.TwoStopBits,
		InitialStatusBits: &serial.ModemOutputBits{
			RTS: true,
			DTR: true,
		},
	}
}

// SerialTransport wraps a serial port. The controller uses XON/XOFF
// software flow control, which serial.Mode does not model, so the
// gate lives here: incoming flow-control bytes are stripped from the
// stream and pause or resume writes.
type SerialTransport struct {
	port serial.Port

	mu     sync.Mutex
	paused bool
	resume *sync.Cond
}

// OpenSerial opens portName with the controller's line configuration.
func OpenSerial(portName string) (*SerialTransport, error) {
	port, err := serial.Open(portName, DefaultMode())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", portName, err)
	}
	t := &SerialTransport{port: port}
	t.resume = sync.NewCond(&t.mu)
	return t, nil
}

// Read passes port data through, stripping XON/XOFF bytes and toggling
// the write gate. A chunk consisting only of flow-control bytes is
// absorbed and the read continues.
func (t *SerialTransport) Read(p []byte) (int, error) {
	for {
		n, err := t.port.Read(p)
		if n > 0 {
			n = t.filterFlowControl(p[:n])
		}
		if err != nil {
			return n, err
		}
		if n > 0 {
			return n, nil
		}
	}
}

func (t *SerialTransport) filterFlowControl(p []byte) int {
	out := p[:0]
	t.mu.Lock()
	for _, b := range p {
		switch b {
		case xoff:
			t.paused = true
		case xon:
			t.paused = false
			t.resume.Broadcast()
		default:
			out = append(out, b)
		}
	}
	t.mu.Unlock()
	return len(out)
}

// Write blocks while the controller has signalled XOFF.
func (t *SerialTransport) Write(p []byte) (int, error) {
	t.mu.Lock()
	for t.paused {
		t.resume.Wait()
	}
	t.mu.Unlock()
	return t.port.Write(p)
}

// Close releases a blocked writer and closes the port.
func (t *SerialTransport) Close() error {
	t.mu.Lock()
	t.paused = false
	t.resume.Broadcast()
	t.mu.Unlock()
	return t.port.Close()
}

// ListPorts returns the serial port addresses visible on this host.
// Discovery helper only; the protocol core never enumerates ports.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
