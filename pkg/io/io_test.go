package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/errors"
)

func TestReadRecords(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"array", `[{"name": "Ana", "crmNumber": 123456}]`, false},
		{"empty array", `[]`, false},
		{"object", `{"name": "Ana"}`, false},
		{"malformed", `[{"name": "Ana",]`, true},
		{"empty", ``, true},
		{"trailing value", `[] []`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRecords(strings.NewReader(tt.input))
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("ReadRecords() error = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ReadRecords() error: %v", err)
			}
		})
	}
}

func TestReadRecordsKeepsNumbers(t *testing.T) {
	raw, err := ReadRecords(strings.NewReader(`[{"name": "Ana", "crmNumber": 123456, "crmRegion": "BA"}]`))
	if err != nil {
		t.Fatalf("ReadRecords() error: %v", err)
	}
	item := raw.([]any)[0].(map[string]any)
	if n, ok := item["crmNumber"].(json.Number); !ok || n.String() != "123456" {
		t.Errorf("crmNumber = %#v, want json.Number 123456", item["crmNumber"])
	}

	recs, err := cards.ValidateAll(raw)
	if err != nil {
		t.Fatalf("ValidateAll() error: %v", err)
	}
	if recs[0].CRMNumber != "123456" {
		t.Errorf("CRMNumber = %q, want 123456", recs[0].CRMNumber)
	}
}

func TestImportRecordsMissing(t *testing.T) {
	_, err := ImportRecords(filepath.Join(t.TempDir(), "cards.json"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("ImportRecords() error = %v, want NOT_FOUND", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	want := cards.SampleRecords()

	if err := ExportRecords(want, path); err != nil {
		t.Fatalf("ExportRecords() error: %v", err)
	}
	raw, err := ImportRecords(path)
	if err != nil {
		t.Fatalf("ImportRecords() error: %v", err)
	}
	got, err := cards.ValidateAll(raw)
	if err != nil {
		t.Fatalf("ValidateAll() error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestWriteRecordsNil(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecords(nil, &buf); err != nil {
		t.Fatalf("WriteRecords() error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("WriteRecords(nil) = %q, want []", got)
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.pdf")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := WriteAtomic(path, func(w io.Writer) error {
		fmt.Fprint(w, "partial")
		return errors.New(errors.ErrCodeIO, "render failed")
	})
	if err == nil {
		t.Fatal("WriteAtomic() should return the write error")
	}
	if data, _ := os.ReadFile(path); string(data) != "old" {
		t.Errorf("target = %q after failure, want untouched", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the target", len(entries))
	}

	if err := WriteAtomic(path, func(w io.Writer) error {
		_, err := fmt.Fprint(w, "new")
		return err
	}); err != nil {
		t.Fatalf("WriteAtomic() error: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "new" {
		t.Errorf("target = %q, want new", data)
	}
}
