package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	defer func() {
		Version, Commit, Date = origVersion, origCommit, origDate
	}()

	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{name: "dev build", version: "dev", commit: "unknown", date: "unknown", want: "layertint version dev ("},
		{name: "release build", version: "1.2.0", commit: "0123456789abcdef", date: "2025-01-02T03:04:05Z", want: "layertint version 1.2.0 (commit: 01234567, built: 2025-01-02T03:04:05Z"},
		{name: "short commit", version: "1.2.0", commit: "abc", date: "2025-01-02T03:04:05Z", want: "(commit: abc,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, Date = tt.version, tt.commit, tt.date
			if got := String(); !strings.Contains(got, tt.want) {
				t.Errorf("String() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestShort(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "9.9.9"
	if got := Short(); got != "9.9.9" {
		t.Errorf("Short() = %q", got)
	}
}
