package magicsig

import "errors"

// Format errors.
var (
	// ErrFormat is returned when an envelope, key token or content document
	// is malformed. Ambiguous input is rejected, never guessed.
	ErrFormat = errors.New("magicsig: malformed input")
)

// Algorithm errors.
var (
	// ErrUnsupportedAlgorithm is returned when an envelope names an
	// algorithm other than RSA-SHA1 or RSA-SHA256.
	ErrUnsupportedAlgorithm = errors.New("magicsig: unsupported algorithm")

	// ErrUnsupportedPadding is returned for an unknown Padding value.
	ErrUnsupportedPadding = errors.New("magicsig: unsupported padding")
)

// Key material errors.
var (
	// ErrInvalidKey is returned when key material is invalid (nil, missing
	// private exponent, modulus too small for the padding, etc.).
	ErrInvalidKey = errors.New("magicsig: invalid key material")
)

// Protocol errors.
var (
	// ErrAuthorMismatch is returned when the signer is not the first author
	// of the content being signed.
	ErrAuthorMismatch = errors.New("magicsig: signer is not the first author")

	// ErrAuthorMissing is returned when signed content declares no author.
	ErrAuthorMissing = errors.New("magicsig: content has no author")

	// ErrNoResolver is returned when Protocol has no KeyResolver configured.
	ErrNoResolver = errors.New("magicsig: key resolver must not be nil")
)
