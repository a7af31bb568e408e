package webfinger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccount(t *testing.T) {
	t.Run("valid identifiers", func(t *testing.T) {
		tests := []struct {
			name   string
			input  string
			id     string
			local  string
			domain string
		}{
			{"bare", "alice@example.com", "alice@example.com", "alice", "example.com"},
			{"acct scheme", "acct:alice@example.com", "alice@example.com", "alice", "example.com"},
			{"acct double slash", "acct://alice@example.com", "alice@example.com", "alice", "example.com"},
			{"surrounding whitespace", "  acct:alice@example.com\n", "alice@example.com", "alice", "example.com"},
			{"dotted local part", "alice.smith+tag@mail.example.org", "alice.smith+tag@mail.example.org", "alice.smith+tag", "mail.example.org"},
			{"upper-case domain", "alice@Example.COM", "alice@Example.COM", "alice", "example.com"},
			{"internationalized domain", "alice@bücher.example", "alice@bücher.example", "alice", "xn--bcher-kva.example"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				account, err := ParseAccount(tt.input)
				require.NoError(t, err)

				assert.Equal(t, tt.id, account.ID)
				assert.Equal(t, tt.local, account.LocalPart)
				assert.Equal(t, tt.domain, account.Domain)
			})
		}
	})

	t.Run("invalid identifiers", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
		}{
			{"empty", ""},
			{"no domain", "alice"},
			{"trailing at", "alice@"},
			{"leading at", "@example.com"},
			{"two ats", "alice@@example.com"},
			{"space in domain", "alice@exa mple.com"},
			{"empty dot-atom", "a..b@example.com"},
			{"trailing dot", "alice@example.com."},
			{"url", "http://example.com/alice"},
			{"bad hyphen", "alice@-example.com"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseAccount(tt.input)
				assert.ErrorIs(t, err, ErrParse)
			})
		}
	})
}

func TestInterpolate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		id       string
		expected string
	}{
		{
			name:     "uri placeholder",
			template: "https://example.com/describe?uri={uri}",
			id:       "alice@example.com",
			expected: "https://example.com/describe?uri=alice%40example.com",
		},
		{
			name:     "percent placeholders",
			template: "https://example.com/{%id}/{%uri}",
			id:       "alice@example.com",
			expected: "https://example.com/alice%40example.com/alice%40example.com",
		},
		{
			name:     "id placeholder repeated",
			template: "https://example.com/{id}?q={id}",
			id:       "bob@example.org",
			expected: "https://example.com/bob%40example.org?q=bob%40example.org",
		},
		{
			name:     "spaces and slashes",
			template: "https://example.com/{id}",
			id:       "a b/c@example.com",
			expected: "https://example.com/a%20b/c%40example.com",
		},
		{
			name:     "no placeholder",
			template: "https://example.com/static.xrd",
			id:       "alice@example.com",
			expected: "https://example.com/static.xrd",
		},
		{
			name:     "unknown placeholder untouched",
			template: "https://example.com/{user}",
			id:       "alice@example.com",
			expected: "https://example.com/{user}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Interpolate(tt.template, tt.id))
		})
	}
}
