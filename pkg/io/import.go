package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/cardpress/pkg/errors"
)

// ReadRecords decodes one JSON value from r without interpreting it. Numbers
// are kept as json.Number. ReadRecords does not close r.
func ReadRecords(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode cards")
	}
	if dec.More() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "decode cards: unexpected data after the top-level value")
	}
	return raw, nil
}

// ImportRecords reads the JSON file at path with [ReadRecords]. A missing
// file is a NOT_FOUND error; other read failures are IO_ERROR.
func ImportRecords(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "cards file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()
	return ReadRecords(f)
}
