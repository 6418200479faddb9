package protocol

import (
	"bytes"
	"testing"
)

func feedAll(d *Decoder, chunks [][]byte) [][]byte {
	var frames [][]byte
	for _, chunk := range chunks {
		frames = append(frames, d.Feed(chunk)...)
	}
	return frames
}

func splitEvery(data []byte, n int) [][]byte {
	var chunks [][]byte
	for len(data) > 0 {
		end := n
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[:end])
		data = data[end:]
	}
	return chunks
}

func TestFeedSingleFrame(t *testing.T) {
	d := NewDecoder()
	frames := d.Feed([]byte(`{"status":"success","filename":"a.bin"}`))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if d.HasPending() {
		t.Fatalf("expected no pending bytes")
	}
}

func TestFeedChunkIndependence(t *testing.T) {
	stream := []byte(`noise{"status":"downloading","message":"ok"}{"status":"progress",` +
		`"progress":42,"filename":"a.bin","received":100,"total":200}garbage` +
		`{"status":"success","filename":"a.bin","size":200,"path":"/tmp/a.bin"}`)

	whole := feedAll(NewDecoder(), [][]byte{stream})

	for _, size := range []int{1, 2, 3, 7, 16, len(stream)} {
		got := feedAll(NewDecoder(), splitEvery(stream, size))
		if len(got) != len(whole) {
			t.Fatalf("chunk size %d: expected %d frames, got %d", size, len(whole), len(got))
		}
		for i := range got {
			if !bytes.Equal(got[i], whole[i]) {
				t.Fatalf("chunk size %d: frame %d mismatch: %q vs %q", size, i, got[i], whole[i])
			}
		}
	}
}

func TestFeedAwaitsIncompleteFrame(t *testing.T) {
	d := NewDecoder()
	if frames := d.Feed([]byte(`{"status":"prog`)); len(frames) != 0 {
		t.Fatalf("expected no frames from partial input, got %d", len(frames))
	}
	if !d.HasPending() {
		t.Fatalf("expected pending bytes")
	}
	frames := d.Feed([]byte(`ress","progress":5}`))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame after completion, got %d", len(frames))
	}
}

func TestFeedDiscardsLeadingNoise(t *testing.T) {
	d := NewDecoder()
	frames := d.Feed([]byte("\r\nhello world{\"status\":\"error\",\"message\":\"nope\"}"))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if !bytes.HasPrefix(frames[0], []byte(`{"status"`)) {
		t.Fatalf("unexpected frame: %q", frames[0])
	}
}

func TestFeedBracesInsideStrings(t *testing.T) {
	d := NewDecoder()
	raw := `{"status":"progress","progress":42,"filename":"weird}{name.bin"}`
	frames := d.Feed([]byte(raw))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if string(frames[0]) != raw {
		t.Fatalf("frame truncated: %q", frames[0])
	}
}

func TestFeedEscapedQuoteInsideString(t *testing.T) {
	d := NewDecoder()
	raw := `{"status":"progress","filename":"a\"}b.bin","progress":1}`
	frames := d.Feed([]byte(raw))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if string(frames[0]) != raw {
		t.Fatalf("frame truncated: %q", frames[0])
	}
}

func TestFeedNestedObject(t *testing.T) {
	d := NewDecoder()
	raw := `{"status":"heartbeat","detail":{"load":{"cpu":1}}}`
	frames := d.Feed([]byte(raw))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if string(frames[0]) != raw {
		t.Fatalf("frame truncated: %q", frames[0])
	}
}

func TestFeedSkipsMalformedCandidate(t *testing.T) {
	d := NewDecoder()
	frames := d.Feed([]byte(`{oops}{"status":"success"}`))
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if string(frames[0]) != `{"status":"success"}` {
		t.Fatalf("unexpected frame: %q", frames[0])
	}
}

func TestFeedStrayBraceBoundedByFrameLimit(t *testing.T) {
	d := NewDecoderWithLimit(16)

	// A stray opening brace swallows everything behind it until the pending
	// span exceeds the limit; later frames must still come out.
	if frames := d.Feed([]byte(`{` + `{"a":1}`)); len(frames) != 0 {
		t.Fatalf("expected no frames yet, got %d", len(frames))
	}
	frames := d.Feed([]byte(`{"b":2}{"c":3}`))
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames after limit kicked in, got %d", len(frames))
	}
	if string(frames[0]) != `{"a":1}` || string(frames[2]) != `{"c":3}` {
		t.Fatalf("unexpected frames: %q", frames)
	}
}

func TestHasPendingAfterNoiseOnly(t *testing.T) {
	d := NewDecoder()
	if frames := d.Feed([]byte("no delimiters here")); len(frames) != 0 {
		t.Fatalf("expected no frames, got %d", len(frames))
	}
	if d.HasPending() {
		t.Fatalf("pure noise should not be retained")
	}
}
