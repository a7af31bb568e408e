package magicsig

import (
	"crypto/subtle"
	"fmt"
	"math/big"
)

// Minimum number of 0xFF bytes in an EMSA-PKCS1-v1_5 encoding (RFC 8017
// Section 9.2).
const minPKCS1PaddingBytes = 8

// The RSA primitive is applied with math/big because key tokens carry only
// (n, e, d): no primes, so crypto/rsa's CRT signing path is unavailable.

type rsaSigner struct {
	alg     Algorithm
	key     *KeyMaterial
	padding Padding
}

// NewSigner creates a Signer for alg using the private exponent of key.
func NewSigner(alg Algorithm, key *KeyMaterial, padding Padding) (Signer, error) {
	if _, err := ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}

	if err := key.validate(true); err != nil {
		return nil, err
	}

	if err := checkPaddingFits(alg, key, padding); err != nil {
		return nil, err
	}

	return &rsaSigner{alg: alg, key: key, padding: padding}, nil
}

func (s *rsaSigner) Sign(data []byte) (string, error) {
	digest, err := s.alg.digest(data)
	if err != nil {
		return "", err
	}

	k := modulusLen(s.key)

	switch s.padding {
	case PaddingPKCS1v15:
		em, err := encodePKCS1v15(s.alg, digest, k)
		if err != nil {
			return "", err
		}

		sig := new(big.Int).Exp(new(big.Int).SetBytes(em), s.key.PrivateExponent, s.key.Modulus)

		return encodeB64(sig.FillBytes(make([]byte, k))), nil
	case PaddingNone:
		m := new(big.Int).SetBytes(digest)
		if m.Cmp(s.key.Modulus) >= 0 {
			return "", fmt.Errorf("%w: digest does not fit the modulus", ErrInvalidKey)
		}

		return encodeInt(new(big.Int).Exp(m, s.key.PrivateExponent, s.key.Modulus)), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPadding, s.padding)
	}
}

func (s *rsaSigner) Algorithm() Algorithm { return s.alg }

type rsaVerifier struct {
	alg     Algorithm
	key     *KeyMaterial
	padding Padding
}

// NewVerifier creates a Verifier for alg using the public part of key.
func NewVerifier(alg Algorithm, key *KeyMaterial, padding Padding) (Verifier, error) {
	if _, err := ParseAlgorithm(string(alg)); err != nil {
		return nil, err
	}

	if err := key.validate(false); err != nil {
		return nil, err
	}

	if err := checkPaddingFits(alg, key, padding); err != nil {
		return nil, err
	}

	return &rsaVerifier{alg: alg, key: key.Public(), padding: padding}, nil
}

func (v *rsaVerifier) Verify(data []byte, sig string) bool {
	digest, err := v.alg.digest(data)
	if err != nil {
		return false
	}

	raw, err := decodeB64(sig)
	if err != nil || len(raw) == 0 {
		return false
	}

	s := new(big.Int).SetBytes(raw)
	if s.Cmp(v.key.Modulus) >= 0 {
		return false
	}

	m := new(big.Int).Exp(s, v.key.PublicExponent, v.key.Modulus)

	switch v.padding {
	case PaddingPKCS1v15:
		k := modulusLen(v.key)

		expected, err := encodePKCS1v15(v.alg, digest, k)
		if err != nil {
			return false
		}

		return subtle.ConstantTimeCompare(m.FillBytes(make([]byte, k)), expected) == 1
	case PaddingNone:
		if m.BitLen() > 8*len(digest) {
			return false
		}

		return subtle.ConstantTimeCompare(m.FillBytes(make([]byte, len(digest))), digest) == 1
	default:
		return false
	}
}

func (v *rsaVerifier) Algorithm() Algorithm { return v.alg }

// encodePKCS1v15 builds EM = 0x00 || 0x01 || PS || 0x00 || DigestInfo || H
// of length k.
func encodePKCS1v15(alg Algorithm, digest []byte, k int) ([]byte, error) {
	prefix, err := alg.digestInfoPrefix()
	if err != nil {
		return nil, err
	}

	tLen := len(prefix) + len(digest)
	if k < tLen+minPKCS1PaddingBytes+3 {
		return nil, fmt.Errorf("%w: modulus too short for %s", ErrInvalidKey, alg)
	}

	em := make([]byte, k)
	em[1] = 0x01

	for i := 2; i < k-tLen-1; i++ {
		em[i] = 0xff
	}

	copy(em[k-tLen:], prefix)
	copy(em[k-len(digest):], digest)

	return em, nil
}

// checkPaddingFits rejects keys whose modulus cannot hold the encoded
// message for the chosen padding.
func checkPaddingFits(alg Algorithm, key *KeyMaterial, padding Padding) error {
	switch padding {
	case PaddingPKCS1v15:
		digest, err := alg.digest(nil)
		if err != nil {
			return err
		}

		_, err = encodePKCS1v15(alg, digest, modulusLen(key))

		return err
	case PaddingNone:
		digest, err := alg.digest(nil)
		if err != nil {
			return err
		}

		if key.Modulus.BitLen() <= 8*len(digest) {
			return fmt.Errorf("%w: modulus too short for %s", ErrInvalidKey, alg)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedPadding, padding)
	}
}

// modulusLen returns the modulus size in bytes.
func modulusLen(key *KeyMaterial) int {
	return (key.Modulus.BitLen() + 7) / 8
}
