// SPDX-License-Identifier: GPL-2.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/max-hans/movemaster-lib/pkg/movemaster"
	"github.com/spf13/cobra"
)

// captureRecord is one tapped transfer. Integer keys keep the records
// compact on disk.
type captureRecord struct {
	Time time.Time `cbor:"1,keyasint"`
	Dir  string    `cbor:"2,keyasint"` // "tx" or "rx"
	Data []byte    `cbor:"3,keyasint"`
}

// captureTransport taps a Transport, appending every transfer to a
// CBOR capture file. Reads and writes pass through unmodified.
type captureTransport struct {
	inner movemaster.Transport

	mu   sync.Mutex
	file *os.File
	enc  *cbor.Encoder
}

func newCaptureTransport(inner movemaster.Transport, path string) (*captureTransport, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open capture file: %v", err)
	}
	return &captureTransport{
		inner: inner,
		file:  f,
		enc:   cbor.NewEncoder(f),
	}, nil
}

func (t *captureTransport) Read(p []byte) (int, error) {
	n, err := t.inner.Read(p)
	if n > 0 {
		t.record("rx", p[:n])
	}
	return n, err
}

func (t *captureTransport) Write(p []byte) (int, error) {
	n, err := t.inner.Write(p)
	if n > 0 {
		t.record("tx", p[:n])
	}
	return n, err
}

func (t *captureTransport) Close() error {
	err := t.inner.Close()
	t.mu.Lock()
	t.file.Close()
	t.mu.Unlock()
	return err
}

func (t *captureTransport) record(dir string, data []byte) {
	rec := captureRecord{
		Time: time.Now(),
		Dir:  dir,
		Data: append([]byte(nil), data...),
	}
	t.mu.Lock()
	// Capture failures must never disturb the live connection.
	_ = t.enc.Encode(rec)
	t.mu.Unlock()
}

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Inspect wire traffic captures",
	Long: `Work with CBOR capture files written via the global --capture flag.

Example:
  movemaster pose --port /dev/ttyUSB0 --capture session.cbor
  movemaster capture dump session.cbor`,
}

var captureDumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Print a capture file in human-readable form",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaptureDump,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.AddCommand(captureDumpCmd)
}

func runCaptureDump(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	dec := cbor.NewDecoder(f)
	count := 0
	for {
		var rec captureRecord
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("record %d: %v", count+1, err)
		}
		fmt.Printf("%s %-2s %q\n", rec.Time.Format("15:04:05.000"), rec.Dir, rec.Data)
		count++
	}
	fmt.Printf("\n%d records\n", count)
	return nil
}
