// Package sse reads Server-Sent Events payloads from upstream model responses.
package sse

import (
	"bufio"
	"bytes"
	"io"
)

// DoneMarker terminates OpenAI-compatible streams.
var DoneMarker = []byte("[DONE]")

var dataPrefix = []byte("data:")

// Reader yields the data payload of each SSE event line.
// Comments, event names and blank separators are skipped.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader wraps r with a line scanner sized for large model chunks.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	// Set a larger buffer for potentially large chunks
	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	return &Reader{scanner: scanner}
}

// Next returns the next data payload, or io.EOF at the end of the stream.
// The returned slice is only valid until the following call.
func (r *Reader) Next() ([]byte, error) {
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if !bytes.HasPrefix(line, dataPrefix) {
			continue
		}
		data := bytes.TrimPrefix(line, dataPrefix)
		data = bytes.TrimPrefix(data, []byte(" "))
		if len(data) == 0 {
			continue
		}
		return data, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// IsDone reports whether data is the [DONE] marker.
func IsDone(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), DoneMarker)
}
