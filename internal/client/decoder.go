// Package client implements the streaming consumer of the relay: it POSTs a
// request, decodes the response body incrementally and publishes the growing
// text after every chunk.
package client

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder turns a sequence of byte chunks into UTF-8 text. A multi-byte
// character split across chunks is held back until its remaining bytes
// arrive. Invalid sequences decode to U+FFFD.
type Decoder struct {
	t       transform.Transformer
	pending []byte
}

// NewDecoder returns a decoder with no buffered state.
func NewDecoder() *Decoder {
	return &Decoder{t: unicode.UTF8.NewDecoder()}
}

// Decode returns the text completed by chunk. When final is true any held-back
// bytes are flushed as replacement characters and the decoder is reset.
func (d *Decoder) Decode(chunk []byte, final bool) (string, error) {
	src := make([]byte, 0, len(d.pending)+len(chunk))
	src = append(src, d.pending...)
	src = append(src, chunk...)
	d.pending = nil

	if final {
		defer d.t.Reset()
	}

	var out strings.Builder
	dst := make([]byte, len(src)*3+utf8.UTFMax)
	for {
		nDst, nSrc, err := d.t.Transform(dst, src, final)
		out.Write(dst[:nDst])
		src = src[nSrc:]

		switch {
		case err == nil:
			return out.String(), nil
		case errors.Is(err, transform.ErrShortSrc):
			// Incomplete trailing character, wait for the next chunk
			d.pending = append(d.pending, src...)
			return out.String(), nil
		case errors.Is(err, transform.ErrShortDst):
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, len(dst)*2)
			}
		default:
			return out.String(), err
		}
	}
}

// Pending reports how many bytes are held back waiting for a continuation.
func (d *Decoder) Pending() int {
	return len(d.pending)
}
