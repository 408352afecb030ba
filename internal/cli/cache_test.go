package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	c := &CLI{}
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirOverrides(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	c := &CLI{}
	if dir, _ := c.cacheDir(); dir != filepath.Join(xdg, appName) {
		t.Errorf("cacheDir() = %q, want under XDG_CACHE_HOME", dir)
	}

	c.Config.CacheDir = "/tmp/cards-cache"
	if dir, _ := c.cacheDir(); dir != "/tmp/cards-cache" {
		t.Errorf("cacheDir() = %q, want configured directory", dir)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvCacheDir, dir)
	cardsFile := writeCards(t, `[{"name": "Ana"}]`)

	if err := runCLI(t, "generate", cardsFile, "-o", filepath.Join(t.TempDir(), "a.json"), "-f", "json"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if n := countEntries(t, dir); n == 0 {
		t.Fatal("generate did not populate the cache")
	}

	if err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if n := countEntries(t, dir); n != 0 {
		t.Errorf("cache still holds %d entries", n)
	}
}

func countEntries(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() && strings.HasSuffix(path, ".entry") {
			n++
		}
		return err
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}
