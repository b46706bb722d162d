package prfcdc

import (
	"github.com/sirupsen/logrus"
)

// Variant selects which Fingerprinter implementation a ChunkMaker drives.
// All three produce the same polynomial state sequence for the same
// input; they differ only in how Eval() decides a cut.
type Variant int

const (
	// VariantPolyOnly evaluates the raw masked polynomial state.
	VariantPolyOnly Variant = iota
	// VariantAES post-mixes with AES-128 via the direct block-cipher path.
	VariantAES
	// VariantAESAlt post-mixes with AES-128 via the CBC-streaming path;
	// an alternate implementation of the same function as VariantAES.
	VariantAESAlt
)

func (v Variant) String() string {
	switch v {
	case VariantPolyOnly:
		return "poly-only"
	case VariantAES:
		return "poly+aes128"
	case VariantAESAlt:
		return "poly+aes128-alt"
	default:
		return "unknown"
	}
}

func newFingerprinter(v Variant, master Key) Fingerprinter {
	switch v {
	case VariantAES:
		return NewAESFingerprinter(master)
	case VariantAESAlt:
		return NewAESAltFingerprinter(master)
	default:
		return NewPolyFingerprinter(master)
	}
}

// config holds ChunkMaker construction-time options.
type config struct {
	variant          Variant
	log              *logrus.Entry
	discardOnReadErr bool
}

func defaultConfig() config {
	return config{
		variant: VariantPolyOnly,
		log:     logrus.NewEntry(logrus.StandardLogger()),
	}
}

// Option configures a ChunkMaker at construction time.
type Option func(*config)

// WithVariant selects which Fingerprinter implementation to drive. The
// default is VariantPolyOnly.
func WithVariant(v Variant) Option {
	return func(c *config) { c.variant = v }
}

// WithLogger overrides the logrus entry used for diagnostic logging
// (notably the read-error path in Chunkify).
func WithLogger(entry *logrus.Entry) Option {
	return func(c *config) { c.log = entry }
}

// WithDiscardOnReadError selects the discard-and-surface read-error
// policy instead of the default flush-then-surface policy.
func WithDiscardOnReadError() Option {
	return func(c *config) { c.discardOnReadErr = true }
}
