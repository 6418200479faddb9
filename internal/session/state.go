package session

import (
	"xdccget/internal/protocol"
)

// State is the transfer session's lifecycle state.
type State int

const (
	// StateConnecting is the initial state, before the request has been sent.
	StateConnecting State = iota
	// StateAwaitingResponse means the request was sent and no status message
	// has arrived yet.
	StateAwaitingResponse
	// StateInProgress means the server has acknowledged the transfer.
	StateInProgress
	// StateCompletedSuccess is terminal: the server reported success.
	StateCompletedSuccess
	// StateCompletedFailure is terminal: the server reported an error, the
	// transport failed, or the session was cancelled.
	StateCompletedFailure
	// StateCompletedAmbiguous is terminal: the server closed the stream after
	// making progress but before any explicit terminal message.
	StateCompletedAmbiguous
	// StateTimedOut is terminal: no data arrived within the read timeout.
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateInProgress:
		return "in_progress"
	case StateCompletedSuccess:
		return "completed_success"
	case StateCompletedFailure:
		return "completed_failure"
	case StateCompletedAmbiguous:
		return "completed_ambiguous"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions can occur from s.
func (s State) Terminal() bool {
	switch s {
	case StateCompletedSuccess, StateCompletedFailure, StateCompletedAmbiguous, StateTimedOut:
		return true
	}
	return false
}

// Machine tracks the transfer state across classified messages and
// connection-level signals. Terminal states are absorbing: every input is a
// no-op once one is reached. The server's percent values are recorded as
// reported and are not required to be monotonic.
type Machine struct {
	state       State
	lastPercent int
	filename    string
	sizeBytes   int64
	savedPath   string
	reason      string
}

// NewMachine creates a machine in the Connecting state.
func NewMachine() *Machine {
	return &Machine{state: StateConnecting}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// LastPercent returns the most recently reported progress percentage, or 0
// if none was observed.
func (m *Machine) LastPercent() int { return m.lastPercent }

// RequestSent records that the outbound request was delivered.
func (m *Machine) RequestSent() {
	if m.state == StateConnecting {
		m.state = StateAwaitingResponse
	}
}

// Apply feeds one classified message into the machine. Unrecognized
// messages cause no transition.
func (m *Machine) Apply(msg protocol.StatusMessage) {
	if m.state.Terminal() {
		return
	}

	switch msg.Kind {
	case protocol.KindAccepted:
		if m.state == StateAwaitingResponse {
			m.state = StateInProgress
		}
	case protocol.KindProgress:
		m.lastPercent = msg.Percent
		m.filename = msg.Filename
		if m.state == StateAwaitingResponse {
			m.state = StateInProgress
		}
	case protocol.KindSuccess:
		m.filename = msg.Filename
		m.sizeBytes = msg.SizeBytes
		m.savedPath = msg.SavedPath
		m.state = StateCompletedSuccess
	case protocol.KindFailure:
		m.reason = msg.Reason
		m.state = StateCompletedFailure
	case protocol.KindUnrecognized:
		// Ignored; the session keeps reading.
	}
}

// Timeout records that the read deadline expired with no data.
func (m *Machine) Timeout() {
	if m.state.Terminal() {
		return
	}
	m.state = StateTimedOut
}

// CleanClose records that the server closed the connection without an
// explicit terminal message. With progress observed the outcome is
// ambiguous; with none it is a failure.
func (m *Machine) CleanClose() {
	if m.state.Terminal() {
		return
	}
	if m.lastPercent > 0 {
		m.state = StateCompletedAmbiguous
	} else {
		m.reason = "server closed connection without any progress updates"
		m.state = StateCompletedFailure
	}
}

// TransportError records a connection-level failure.
func (m *Machine) TransportError(err error) {
	if m.state.Terminal() {
		return
	}
	m.reason = err.Error()
	m.state = StateCompletedFailure
}

// Cancel records an external interrupt.
func (m *Machine) Cancel() {
	if m.state.Terminal() {
		return
	}
	m.reason = "operation cancelled"
	m.state = StateCompletedFailure
}
