package session

import (
	"strings"
	"testing"
)

const threshold = 90

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		name   string
		result Result
		want   int
	}{
		{"success", Result{State: StateCompletedSuccess}, 0},
		{"failure", Result{State: StateCompletedFailure, Reason: "nope"}, 1},
		{"timeout without progress", Result{State: StateTimedOut}, 1},
		{"timeout with progress", Result{State: StateTimedOut, LastPercent: 50}, 1},
		{"clean close at 95", Result{State: StateCompletedAmbiguous, LastPercent: 95}, 0},
		{"clean close at 40", Result{State: StateCompletedAmbiguous, LastPercent: 40}, 1},
		{"clean close exactly at threshold", Result{State: StateCompletedAmbiguous, LastPercent: threshold}, 1},
	}
	for _, tc := range cases {
		if got := tc.result.ExitCode(threshold); got != tc.want {
			t.Fatalf("%s: expected exit %d, got %d", tc.name, tc.want, got)
		}
	}
}

func TestSummaryDistinguishesOutcomes(t *testing.T) {
	summaries := map[string]string{
		"success":   Result{State: StateCompletedSuccess, Filename: "a.bin", SizeBytes: 100, SavedPath: "/tmp/a.bin"}.Summary(threshold),
		"failure":   Result{State: StateCompletedFailure, Reason: "pack not found"}.Summary(threshold),
		"timeout":   Result{State: StateTimedOut, LastPercent: 50}.Summary(threshold),
		"ambiguous": Result{State: StateCompletedAmbiguous, LastPercent: 95}.Summary(threshold),
		"uncertain": Result{State: StateCompletedAmbiguous, LastPercent: 40}.Summary(threshold),
	}

	seen := make(map[string]string)
	for name, s := range summaries {
		if s == "" {
			t.Fatalf("%s: summary must not be empty", name)
		}
		if prev, ok := seen[s]; ok {
			t.Fatalf("summaries for %s and %s collapsed into %q", name, prev, s)
		}
		seen[s] = name
	}

	if !strings.Contains(summaries["failure"], "pack not found") {
		t.Fatalf("failure summary should carry the reason: %q", summaries["failure"])
	}
	if !strings.Contains(summaries["ambiguous"], "likely") {
		t.Fatalf("ambiguous summary above threshold should say likely: %q", summaries["ambiguous"])
	}
}
