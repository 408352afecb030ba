package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys. Implementations must be deterministic: equal
// inputs always give equal keys.
type Keyer interface {
	// ArtifactKey returns the key for a rendered document.
	ArtifactKey(opts ArtifactKeyOpts) string

	// CodedImageKey returns the key for a generated QR image.
	CodedImageKey(content string, opts CodedImageKeyOpts) string
}

// ArtifactKeyOpts holds every input that changes a rendered document.
type ArtifactKeyOpts struct {
	RecordsHash  string   `json:"records"`
	TemplateHash string   `json:"template"`
	Format       string   `json:"format"`
	Duplicate    int      `json:"duplicate"`
	Scale        float64  `json:"scale,omitempty"`  // PNG pixels per point
	Title        string   `json:"title,omitempty"`  // PDF metadata
	Author       string   `json:"author,omitempty"` // PDF metadata
	Assets       []string `json:"assets,omitempty"` // asset fingerprints in card order
}

// CodedImageKeyOpts holds the encoder settings of a QR image.
type CodedImageKeyOpts struct {
	Encoder    string `json:"encoder"`
	Size       int    `json:"size"`
	Level      string `json:"level"`
	Color      string `json:"color,omitempty"`
	Background string `json:"background,omitempty"`
	Sharpen    bool   `json:"sharpen,omitempty"`
}

// Key kinds, used as the first segment of every key.
const (
	KindArtifact   = "artifact"
	KindCodedImage = "qr"
)

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return hashKey(KindArtifact, opts)
}

// CodedImageKey implements Keyer.
func (DefaultKeyer) CodedImageKey(content string, opts CodedImageKeyOpts) string {
	return hashKey(KindCodedImage, content, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
