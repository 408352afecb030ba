// Package buildinfo carries the version stamped into the binary at link time:
//
//	go build -ldflags "-X github.com/matzehuels/cardpress/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/cardpress/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/cardpress/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"strings"
)

// Set via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the build stamp as reported by the HTTP API.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"built,omitempty"`
}

// Get returns the build stamp. Unset commit and date are left empty.
func Get() Info {
	info := Info{Version: Version}
	if Commit != "none" {
		info.Commit = shortCommit(Commit)
	}
	if Date != "unknown" {
		info.Date = Date
	}
	return info
}

// Producer names the software in document metadata, e.g. "cardpress v1.2.0".
func Producer() string {
	return "cardpress " + Version
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, shortCommit(Commit), Date)
}

func shortCommit(c string) string {
	c = strings.TrimSpace(c)
	if len(c) > 12 {
		return c[:12]
	}
	return c
}
