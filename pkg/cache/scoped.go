package cache

// ScopedKeyer wraps a Keyer with a prefix so several front ends can share
// one backing store without reading each other's entries.
//
// Example usage:
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ArtifactKey generates a prefixed key for a rendered document.
func (k *ScopedKeyer) ArtifactKey(opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(opts)
}

// CodedImageKey generates a prefixed key for a QR image.
func (k *ScopedKeyer) CodedImageKey(content string, opts CodedImageKeyOpts) string {
	return k.prefix + k.inner.CodedImageKey(content, opts)
}
