package session

import (
	"fmt"

	"xdccget/pkg/utils"
)

// Result is the terminal outcome of a transfer session.
type Result struct {
	State       State
	LastPercent int
	Filename    string
	SizeBytes   int64
	SavedPath   string
	Reason      string
}

// Succeeded reports whether the outcome maps to exit code 0. A clean close
// after partial progress counts as success only above the configured
// threshold, since the server may well have finished the transfer on its
// own side.
func (r Result) Succeeded(ambiguousSuccessPercent int) bool {
	switch r.State {
	case StateCompletedSuccess:
		return true
	case StateCompletedAmbiguous:
		return r.LastPercent > ambiguousSuccessPercent
	}
	return false
}

// ExitCode maps the outcome to a process exit status.
func (r Result) ExitCode(ambiguousSuccessPercent int) int {
	if r.Succeeded(ambiguousSuccessPercent) {
		return 0
	}
	return 1
}

// Summary renders the final status line for the user, keeping the distinct
// outcomes distinguishable rather than collapsing them into done/error.
func (r Result) Summary(ambiguousSuccessPercent int) string {
	switch r.State {
	case StateCompletedSuccess:
		return fmt.Sprintf("Download completed successfully: %s (%s), saved to %s",
			r.Filename, utils.FormatFileSize(r.SizeBytes), r.SavedPath)
	case StateCompletedFailure:
		if r.Reason != "" {
			return fmt.Sprintf("Download failed: %s", r.Reason)
		}
		return "Download failed"
	case StateTimedOut:
		if r.LastPercent > 0 {
			return fmt.Sprintf("Timed out waiting for server; download reached %d%% and may be continuing server-side", r.LastPercent)
		}
		return "Timed out waiting for server response"
	case StateCompletedAmbiguous:
		if r.LastPercent > ambiguousSuccessPercent {
			return fmt.Sprintf("Server closed the connection at %d%%; download likely completed", r.LastPercent)
		}
		return fmt.Sprintf("Server closed the connection at %d%%; download may still be in progress server-side", r.LastPercent)
	default:
		return fmt.Sprintf("Session ended in unexpected state %s", r.State)
	}
}
