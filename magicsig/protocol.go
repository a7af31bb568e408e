package magicsig

import (
	"context"
	"fmt"
)

// KeyResolver returns the public key of the signer identified by an
// account URI. It is called during envelope verification.
type KeyResolver func(ctx context.Context, signerURI string) (*KeyMaterial, error)

// StaticKey returns a KeyResolver that answers every lookup with key.
func StaticKey(key *KeyMaterial) KeyResolver {
	return func(context.Context, string) (*KeyMaterial, error) {
		return key, nil
	}
}

// Protocol signs content into envelopes and verifies envelopes against keys
// obtained from Resolver. The zero value signs with RSA-SHA256 and
// PKCS#1 v1.5 padding.
type Protocol struct {
	// Resolver looks up signer public keys. Required for Verify.
	Resolver KeyResolver

	// Algorithm used by SignMessage. Defaults to AlgorithmRSASHA256.
	Algorithm Algorithm

	// Padding used for both signing and verification.
	Padding Padding
}

// SignMessage wraps content of the given media type into a signed envelope.
// The signer must be the first author of content.
func (p *Protocol) SignMessage(content []byte, dataType, signerURI string, key *KeyMaterial) (*Envelope, error) {
	ok, err := CheckAuthorship(content, signerURI)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAuthorMismatch, Normalize(signerURI))
	}

	alg := p.Algorithm
	if alg == "" {
		alg = AlgorithmRSASHA256
	}

	signer, err := NewSigner(alg, key, p.Padding)
	if err != nil {
		return nil, err
	}

	data := encodeB64(content)

	sig, err := signer.Sign([]byte(data))
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Data:     data,
		Encoding: EncodingBase64URL,
		DataType: dataType,
		Alg:      signer.Algorithm().String(),
		Sig:      sig,
	}, nil
}

// Signer returns the account URI of the first author of the envelope
// content, the identity the signature is checked against.
func (p *Protocol) Signer(env *Envelope) (string, error) {
	content, err := env.Content()
	if err != nil {
		return "", err
	}

	author, err := FirstAuthor(content)
	if err != nil {
		return "", err
	}

	if author == "" {
		return "", ErrAuthorMissing
	}

	return author, nil
}

// Verify checks the envelope signature against the key of the content's
// first author. A signature that does not match is reported as false with
// a nil error; errors are reserved for envelopes that cannot be checked.
func (p *Protocol) Verify(ctx context.Context, env *Envelope) (bool, error) {
	if p.Resolver == nil {
		return false, ErrNoResolver
	}

	alg, err := ParseAlgorithm(env.Alg)
	if err != nil {
		return false, err
	}

	signerURI, err := p.Signer(env)
	if err != nil {
		return false, err
	}

	key, err := p.Resolver(ctx, signerURI)
	if err != nil {
		return false, fmt.Errorf("resolve key for %s: %w", signerURI, err)
	}

	verifier, err := NewVerifier(alg, key, p.Padding)
	if err != nil {
		return false, err
	}

	return verifier.Verify([]byte(env.Data), env.Sig), nil
}
