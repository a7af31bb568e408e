// Package magicsig implements Magic Signatures: RSA signing of content
// documents and the Magic Envelope format that carries the signed content
// together with its signature.
//
// # Supported Algorithms
//
// Two signature algorithms are supported:
//
//   - RSA-SHA256
//   - RSA-SHA1 (verification of older envelopes)
//
// Each can be used with PKCS#1 v1.5 padding (the default) or with
// PaddingNone, which applies the RSA primitive to the bare digest the way
// early deployments did.
//
// # Keys
//
// Keys travel as text tokens:
//
//	RSA.<b64url modulus>.<b64url public exponent>[.<b64url private exponent>]
//
// Use ParseKey and KeyMaterial.Serialize to convert:
//
//	key, err := magicsig.ParseKey(token)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(key.Serialize(false)) // public part only
//
// # Signing
//
// Protocol.SignMessage checks that the signer is the first author of an
// Atom entry and wraps the entry into an envelope:
//
//	p := &magicsig.Protocol{}
//	env, err := p.SignMessage(entry, magicsig.AtomMediaType, "acct:bob@example.org", key)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	os.Stdout.Write(env.Marshal())
//
// # Verifying
//
// Protocol.Verify extracts the author from the envelope content and asks a
// KeyResolver for the author's public key:
//
//	p := &magicsig.Protocol{Resolver: resolver}
//	env, err := magicsig.Parse(body)
//	if err != nil {
//	    return err
//	}
//
//	ok, err := p.Verify(ctx, env)
//
// # Envelope Forms
//
// Parse accepts both the standalone me:env document and an Atom entry with
// an embedded me:provenance element. Unfold turns an envelope into the
// latter.
package magicsig
