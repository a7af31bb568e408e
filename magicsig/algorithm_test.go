package magicsig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Algorithm
		wantErr bool
	}{
		{name: "rsa-sha256", input: "RSA-SHA256", want: AlgorithmRSASHA256},
		{name: "rsa-sha1", input: "RSA-SHA1", want: AlgorithmRSASHA1},
		{name: "lowercase is not accepted", input: "rsa-sha256", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "http signature name", input: "rsa-v1_5-sha256", wantErr: true},
		{name: "hmac", input: "HMAC-SHA256", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestAlgorithmDigest(t *testing.T) {
	sha256Digest, err := AlgorithmRSASHA256.digest([]byte("abc"))
	require.NoError(t, err)
	assert.Len(t, sha256Digest, 32)

	sha1Digest, err := AlgorithmRSASHA1.digest([]byte("abc"))
	require.NoError(t, err)
	assert.Len(t, sha1Digest, 20)

	_, err = Algorithm("RSA-MD5").digest([]byte("abc"))
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestParsePadding(t *testing.T) {
	tests := []struct {
		input   string
		want    Padding
		wantErr bool
	}{
		{input: "", want: PaddingPKCS1v15},
		{input: "pkcs1v15", want: PaddingPKCS1v15},
		{input: "none", want: PaddingNone},
		{input: "pss", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePadding(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedPadding)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "pkcs1v15", PaddingPKCS1v15.String())
	assert.Equal(t, "none", PaddingNone.String())
	assert.Equal(t, "Padding(7)", Padding(7).String())
}
