package template

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cardpress/pkg/errors"
)

// Load reads a TOML template file. Keys the file does not name keep their
// Default values. The result is validated.
func Load(path string) (Template, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Template{}, errors.Wrap(errors.ErrCodeNotFound, err, "template %s", path)
		}
		return Template{}, errors.Wrap(errors.ErrCodeIO, err, "open template %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a TOML template from r over Default and validates it.
func Decode(r io.Reader) (Template, error) {
	t := Default()
	md, err := toml.NewDecoder(r).Decode(&t)
	if err != nil {
		return Template{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode template")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Template{}, errors.New(errors.ErrCodeInvalidConfig, "unknown template key %q", undecoded[0].String())
	}
	t = t.resolved()
	if err := t.Validate(); err != nil {
		return Template{}, err
	}
	return t, nil
}

// Encode writes t as TOML.
func Encode(w io.Writer, t Template) error {
	if err := toml.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("encode template: %w", err)
	}
	return nil
}

// Fingerprint returns a stable serialization of t for cache keys.
func (t Template) Fingerprint() []byte {
	data, _ := json.Marshal(t)
	return data
}
