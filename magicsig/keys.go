package magicsig

import (
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// keyPrefix is the only key type the token format defines.
const keyPrefix = "RSA."

// KeyMaterial is an RSA key in the form carried by Magic Signature key
// tokens. PrivateExponent is nil for public keys.
type KeyMaterial struct {
	Modulus         *big.Int
	PublicExponent  *big.Int
	PrivateExponent *big.Int
}

// NewKeyMaterial converts an RSA private key. The primes are dropped: the
// token format only carries the modulus and the two exponents.
func NewKeyMaterial(key *rsa.PrivateKey) (*KeyMaterial, error) {
	if key == nil || key.N == nil || key.D == nil {
		return nil, fmt.Errorf("%w: rsa private key must not be nil", ErrInvalidKey)
	}

	return &KeyMaterial{
		Modulus:         new(big.Int).Set(key.N),
		PublicExponent:  big.NewInt(int64(key.E)),
		PrivateExponent: new(big.Int).Set(key.D),
	}, nil
}

// NewPublicKeyMaterial converts an RSA public key.
func NewPublicKeyMaterial(key *rsa.PublicKey) (*KeyMaterial, error) {
	if key == nil || key.N == nil {
		return nil, fmt.Errorf("%w: rsa public key must not be nil", ErrInvalidKey)
	}

	return &KeyMaterial{
		Modulus:        new(big.Int).Set(key.N),
		PublicExponent: big.NewInt(int64(key.E)),
	}, nil
}

// HasPrivate reports whether the private exponent is present.
func (k *KeyMaterial) HasPrivate() bool {
	return k != nil && k.PrivateExponent != nil && k.PrivateExponent.Sign() > 0
}

// Public returns a copy of k without the private exponent.
func (k *KeyMaterial) Public() *KeyMaterial {
	return &KeyMaterial{
		Modulus:        new(big.Int).Set(k.Modulus),
		PublicExponent: new(big.Int).Set(k.PublicExponent),
	}
}

// RSAPublicKey returns k as a crypto/rsa public key.
func (k *KeyMaterial) RSAPublicKey() (*rsa.PublicKey, error) {
	if err := k.validate(false); err != nil {
		return nil, err
	}

	if !k.PublicExponent.IsInt64() || k.PublicExponent.Int64() > int64(^uint32(0)>>1) {
		return nil, fmt.Errorf("%w: public exponent too large", ErrInvalidKey)
	}

	return &rsa.PublicKey{
		N: new(big.Int).Set(k.Modulus),
		E: int(k.PublicExponent.Int64()),
	}, nil
}

// Serialize returns the key token
//
//	RSA.<b64url(modulus)>.<b64url(public exponent)>[.<b64url(private exponent)>]
//
// The private exponent is included only when includePrivate is set and the
// key has one.
func (k *KeyMaterial) Serialize(includePrivate bool) string {
	var b strings.Builder

	b.WriteString(keyPrefix)
	b.WriteString(encodeInt(k.Modulus))
	b.WriteByte('.')
	b.WriteString(encodeInt(k.PublicExponent))

	if includePrivate && k.HasPrivate() {
		b.WriteByte('.')
		b.WriteString(encodeInt(k.PrivateExponent))
	}

	return b.String()
}

// String returns the public key token.
func (k *KeyMaterial) String() string {
	return k.Serialize(false)
}

// ParseKey parses a key token produced by Serialize. Whitespace anywhere in
// the token is ignored, so line-wrapped tokens are accepted.
func ParseKey(token string) (*KeyMaterial, error) {
	token = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, token)

	rest, ok := strings.CutPrefix(token, keyPrefix)
	if !ok {
		return nil, fmt.Errorf("%w: key token must start with %q", ErrFormat, keyPrefix)
	}

	groups := strings.Split(rest, ".")
	if len(groups) != 2 && len(groups) != 3 {
		return nil, fmt.Errorf("%w: key token must have 2 or 3 components, got %d", ErrFormat, len(groups))
	}

	values := make([]*big.Int, len(groups))
	for i, group := range groups {
		if group == "" {
			return nil, fmt.Errorf("%w: empty key component %d", ErrFormat, i)
		}

		n, err := decodeInt(group)
		if err != nil {
			return nil, fmt.Errorf("%w: key component %d: %v", ErrFormat, i, err)
		}

		values[i] = n
	}

	key := &KeyMaterial{
		Modulus:        values[0],
		PublicExponent: values[1],
	}
	if len(values) == 3 {
		key.PrivateExponent = values[2]
	}

	return key, nil
}

// validate checks the structural soundness of the key.
func (k *KeyMaterial) validate(needPrivate bool) error {
	if k == nil || k.Modulus == nil || k.PublicExponent == nil {
		return fmt.Errorf("%w: key material must not be nil", ErrInvalidKey)
	}

	if k.Modulus.Sign() <= 0 || k.PublicExponent.Sign() <= 0 {
		return fmt.Errorf("%w: modulus and public exponent must be positive", ErrInvalidKey)
	}

	if needPrivate && !k.HasPrivate() {
		return fmt.Errorf("%w: private exponent required for signing", ErrInvalidKey)
	}

	return nil
}

// encodeB64 returns padded URL-safe base64, the alphabet the Magic
// Signatures wire formats use.
func encodeB64(data []byte) string {
	return base64.URLEncoding.EncodeToString(data)
}

// decodeB64 decodes URL-safe base64 with or without trailing padding.
func decodeB64(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}

// encodeInt encodes n as base64url of its minimal big-endian bytes.
func encodeInt(n *big.Int) string {
	return encodeB64(n.Bytes())
}

// decodeInt decodes base64url into an unsigned big-endian integer.
func decodeInt(s string) (*big.Int, error) {
	raw, err := decodeB64(s)
	if err != nil {
		return nil, err
	}

	return new(big.Int).SetBytes(raw), nil
}
