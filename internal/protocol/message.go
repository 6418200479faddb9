package protocol

import (
	"encoding/json"
	"fmt"
)

// Request is the payload sent to the server once after connecting.
type Request struct {
	BotName      string `json:"bot_name"`
	PackNumber   string `json:"pack_number"`
	SendProgress bool   `json:"send_progress"`
}

// EncodeRequest serializes a Request for transmission.
func EncodeRequest(req Request) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}
	return data, nil
}

// Kind identifies the variant of a decoded status message.
type Kind int

const (
	// KindAccepted means the server accepted the request and started the transfer.
	KindAccepted Kind = iota
	// KindProgress carries a periodic progress snapshot.
	KindProgress
	// KindSuccess means the transfer finished and the file was saved.
	KindSuccess
	// KindFailure means the transfer failed server-side.
	KindFailure
	// KindUnrecognized covers well-formed messages with an unknown status.
	KindUnrecognized
)

func (k Kind) String() string {
	switch k {
	case KindAccepted:
		return "accepted"
	case KindProgress:
		return "progress"
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	default:
		return "unrecognized"
	}
}

// StatusMessage is one classified server message. Kind selects the variant;
// only the fields belonging to that variant are meaningful.
type StatusMessage struct {
	Kind Kind

	// KindAccepted
	Info string

	// KindProgress
	Percent       int
	Filename      string
	BytesReceived int64
	BytesTotal    int64

	// KindSuccess (Filename is shared with KindProgress)
	SizeBytes int64
	SavedPath string

	// KindFailure
	Reason string

	// KindUnrecognized
	RawFields map[string]any
}

// Classify parses a frame into a typed status message. An unknown or missing
// status value yields KindUnrecognized, never an error; an error is returned
// only when the frame does not decode as a JSON object at all, so the caller
// can skip it and keep reading.
func Classify(frame []byte) (StatusMessage, error) {
	var fields map[string]any
	if err := json.Unmarshal(frame, &fields); err != nil {
		return StatusMessage{}, fmt.Errorf("failed to parse status message: %w", err)
	}

	status, _ := fields["status"].(string)
	switch status {
	case "downloading":
		return StatusMessage{
			Kind: KindAccepted,
			Info: stringField(fields, "message", ""),
		}, nil
	case "progress":
		return StatusMessage{
			Kind:          KindProgress,
			Percent:       intField(fields, "progress"),
			Filename:      stringField(fields, "filename", "unknown"),
			BytesReceived: intField64(fields, "received"),
			BytesTotal:    intField64(fields, "total"),
		}, nil
	case "success":
		return StatusMessage{
			Kind:      KindSuccess,
			Filename:  stringField(fields, "filename", "unknown"),
			SizeBytes: intField64(fields, "size"),
			SavedPath: stringField(fields, "path", "unknown"),
		}, nil
	case "error":
		return StatusMessage{
			Kind:   KindFailure,
			Reason: stringField(fields, "message", "Unknown error"),
		}, nil
	default:
		return StatusMessage{Kind: KindUnrecognized, RawFields: fields}, nil
	}
}

func stringField(fields map[string]any, key, fallback string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return fallback
}

func intField(fields map[string]any, key string) int {
	if f, ok := fields[key].(float64); ok {
		return int(f)
	}
	return 0
}

func intField64(fields map[string]any, key string) int64 {
	if f, ok := fields[key].(float64); ok {
		return int64(f)
	}
	return 0
}
