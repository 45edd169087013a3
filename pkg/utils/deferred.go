// Package utils holds small helpers shared by the CLI entrypoint.
package utils

import (
	"io"
	"sync"
)

// DeferredWriter buffers writes until Flush is called. Each Write is kept as a
// separate record so line-oriented writers such as zerolog.ConsoleWriter see
// the same boundaries they would have seen live.
type DeferredWriter struct {
	mu      sync.Mutex
	records [][]byte
}

func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.records = append(d.records, append([]byte(nil), p...))
	return len(p), nil
}

// Flush writes every buffered record to w in order and empties the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	records := d.records
	d.records = nil
	d.mu.Unlock()

	for _, r := range records {
		if _, err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of buffered records.
func (d *DeferredWriter) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.records)
}
