package buildinfo

import (
	"strings"
	"testing"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestGet(t *testing.T) {
	tests := []struct {
		name                string
		version, commit, dt string
		want                Info
	}{
		{"unstamped", "dev", "none", "unknown", Info{Version: "dev"}},
		{
			"release",
			"v1.2.0", "0123456789abcdef0123", "2026-01-02T03:04:05Z",
			Info{Version: "v1.2.0", Commit: "0123456789ab", Date: "2026-01-02T03:04:05Z"},
		},
		{"short commit", "v0.1.0", "abc123", "unknown", Info{Version: "v0.1.0", Commit: "abc123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stamp(t, tt.version, tt.commit, tt.dt)
			if got := Get(); got != tt.want {
				t.Errorf("Get() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTemplateAndProducer(t *testing.T) {
	stamp(t, "v2.0.0", "feedface", "2026-03-01")
	tpl := Template()
	for _, want := range []string{"{{.Name}}", "v2.0.0", "feedface", "2026-03-01"} {
		if !strings.Contains(tpl, want) {
			t.Errorf("Template() = %q, missing %q", tpl, want)
		}
	}
	if got := Producer(); got != "cardpress v2.0.0" {
		t.Errorf("Producer() = %q", got)
	}
}
