// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"

	"depex-cli/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev when no build info", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "dev"
		Commit = "unknown"
		BuildDate = "unknown"

		got := getVersionString()
		want := "dev (built from source)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()

		got := formatErrorForDisplay(errors.New("boom"), false)
		if got != "boom" {
			t.Errorf("formatErrorForDisplay() = %q, want %q", got, "boom")
		}
	})

	t.Run("actionable error uses Format", func(t *testing.T) {
		t.Parallel()

		err := issue.NewErrorContext().
			WithOperation("expand dependency").
			WithResource("serde").
			WithSuggestion("Check the dependency name").
			Wrap(errors.New("not in graph")).
			BuildError()

		got := formatErrorForDisplay(err, false)
		if got == "not in graph" {
			t.Error("formatErrorForDisplay() used Error(), want ActionableError.Format()")
		}
	})
}
