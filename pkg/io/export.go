package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/errors"
)

// WriteRecords encodes records as an indented JSON array. The output can be
// read back with [ReadRecords].
func WriteRecords(records []cards.Record, w io.Writer) error {
	if records == nil {
		records = []cards.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode cards")
	}
	return nil
}

// ExportRecords writes records to a JSON file at path.
func ExportRecords(records []cards.Record, path string) error {
	return WriteAtomic(path, func(w io.Writer) error {
		return WriteRecords(records, w)
	})
}

// WriteAtomic calls write with a temporary file next to path and renames it
// to path when write succeeds. On any failure the temporary file is removed
// and path is left untouched.
func WriteAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create temporary file in %s", dir)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "close %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "chmod %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "rename to %s", path)
	}
	return nil
}
