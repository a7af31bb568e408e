package magicsig

import (
	"crypto/sha1" //nolint:gosec // RSA-SHA1 is part of the Magic Signatures algorithm set
	"crypto/sha256"
	"fmt"
)

// Algorithm identifies the Magic Signature algorithm written into the alg
// element of an envelope.
type Algorithm string

const (
	// AlgorithmRSASHA256 is RSA over a SHA-256 digest.
	AlgorithmRSASHA256 Algorithm = "RSA-SHA256"

	// AlgorithmRSASHA1 is RSA over a SHA-1 digest. Kept for envelopes
	// produced by older deployments.
	AlgorithmRSASHA1 Algorithm = "RSA-SHA1"
)

// String returns the algorithm name as it appears on the wire.
func (a Algorithm) String() string {
	return string(a)
}

// ParseAlgorithm maps an alg element value to an Algorithm. Any value other
// than RSA-SHA1 or RSA-SHA256 yields ErrUnsupportedAlgorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case AlgorithmRSASHA256:
		return AlgorithmRSASHA256, nil
	case AlgorithmRSASHA1:
		return AlgorithmRSASHA1, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
}

// digest hashes data with the algorithm's hash function.
func (a Algorithm) digest(data []byte) ([]byte, error) {
	switch a {
	case AlgorithmRSASHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case AlgorithmRSASHA1:
		sum := sha1.Sum(data) //nolint:gosec
		return sum[:], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, string(a))
	}
}

// digestInfoPrefix returns the DER encoding of the DigestInfo header that
// precedes the digest in an EMSA-PKCS1-v1_5 encoded message.
func (a Algorithm) digestInfoPrefix() ([]byte, error) {
	switch a {
	case AlgorithmRSASHA256:
		return []byte{
			0x30, 0x31, 0x30, 0x0d, 0x06, 0x09, 0x60, 0x86, 0x48, 0x01,
			0x65, 0x03, 0x04, 0x02, 0x01, 0x05, 0x00, 0x04, 0x20,
		}, nil
	case AlgorithmRSASHA1:
		return []byte{
			0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b, 0x0e, 0x03, 0x02,
			0x1a, 0x05, 0x00, 0x04, 0x14,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, string(a))
	}
}

// Padding selects how the digest is turned into the integer that the RSA
// primitive is applied to.
type Padding int

const (
	// PaddingPKCS1v15 encodes the digest as EMSA-PKCS1-v1_5 (DigestInfo
	// plus 0xFF padding) and emits signatures at modulus length.
	PaddingPKCS1v15 Padding = iota

	// PaddingNone applies the RSA primitive to the bare digest and emits the
	// signature integer at minimal byte length. Only for bit-for-bit interop
	// with deployments that signed this way.
	PaddingNone
)

// String returns the configuration name of the padding.
func (p Padding) String() string {
	switch p {
	case PaddingPKCS1v15:
		return "pkcs1v15"
	case PaddingNone:
		return "none"
	default:
		return fmt.Sprintf("Padding(%d)", int(p))
	}
}

// ParsePadding maps a configuration name ("pkcs1v15", "none") to a Padding.
// The empty string selects PaddingPKCS1v15.
func ParsePadding(name string) (Padding, error) {
	switch name {
	case "", "pkcs1v15":
		return PaddingPKCS1v15, nil
	case "none":
		return PaddingNone, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedPadding, name)
	}
}

// Signer creates Magic Signatures over the encoded data of an envelope.
type Signer interface {
	// Sign produces the base64url signature token for data.
	Sign(data []byte) (string, error)

	// Algorithm returns the algorithm identifier for this signer.
	Algorithm() Algorithm
}

// Verifier validates Magic Signatures over the encoded data of an envelope.
type Verifier interface {
	// Verify reports whether sig is a valid signature token for data.
	// Malformed tokens are reported as false, never as an error.
	Verify(data []byte, sig string) bool

	// Algorithm returns the algorithm identifier for this verifier.
	Algorithm() Algorithm
}
