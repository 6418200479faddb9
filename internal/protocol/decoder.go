package protocol

import (
	"bytes"
	"encoding/json"
)

// DefaultMaxFrameBytes bounds how far the decoder will scan for a closing
// brace before giving up on the current opening brace. A stray '{' in the
// stream would otherwise swallow every message that follows it.
const DefaultMaxFrameBytes = 1024 * 1024

// Decoder carves complete JSON frames out of an arbitrarily-chunked byte
// stream. The server does not length-prefix or newline-delimit its messages,
// so frame boundaries are recovered structurally: a frame is a balanced
// brace span that parses as JSON. The decoder tracks string and escape state
// while scanning, so braces inside string values (e.g. a filename containing
// '}') do not terminate a frame early.
type Decoder struct {
	buf      []byte
	maxFrame int
}

// NewDecoder creates a frame decoder with the default frame size limit.
func NewDecoder() *Decoder {
	return &Decoder{maxFrame: DefaultMaxFrameBytes}
}

// NewDecoderWithLimit creates a frame decoder with a custom frame size limit.
func NewDecoderWithLimit(maxFrame int) *Decoder {
	return &Decoder{maxFrame: maxFrame}
}

// Feed appends p to the internal buffer and returns every complete frame
// that can now be extracted. Bytes before an opening brace are discarded as
// noise. A balanced span that is not valid JSON costs only its opening
// brace: the scan resumes at the next brace, so malformed input never
// blocks later frames. Incomplete trailing data is retained for the next
// call; Feed makes no assumption about chunk boundaries.
func (d *Decoder) Feed(p []byte) [][]byte {
	d.buf = append(d.buf, p...)

	var frames [][]byte
	for {
		start := bytes.IndexByte(d.buf, '{')
		if start == -1 {
			// No frame can start; drop pure noise.
			d.buf = d.buf[:0]
			break
		}
		if start > 0 {
			d.buf = d.buf[start:]
		}

		end, ok := scanBalanced(d.buf)
		if !ok {
			if len(d.buf) > d.maxFrame {
				// The opening brace never closed within the limit;
				// treat it as noise and rescan.
				d.buf = d.buf[1:]
				continue
			}
			break // await more bytes
		}

		candidate := d.buf[:end+1]
		if !json.Valid(candidate) {
			d.buf = d.buf[1:]
			continue
		}

		frame := make([]byte, len(candidate))
		copy(frame, candidate)
		frames = append(frames, frame)
		d.buf = d.buf[end+1:]
	}
	return frames
}

// HasPending reports whether the decoder is holding bytes that have not yet
// formed a complete frame.
func (d *Decoder) HasPending() bool {
	return len(d.buf) > 0
}

// scanBalanced scans buf, which must start with '{', for the matching
// closing brace. It returns the index of that brace and true, or false if
// the span is still incomplete. Braces inside JSON strings are ignored and
// backslash escapes (including an escaped quote) are honored.
func scanBalanced(buf []byte) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i, b := range buf {
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
