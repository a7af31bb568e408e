package magicsig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testKeyToken is a fixed 2048-bit keypair used across the package tests.
const testKeyToken = "RSA.20jOTkczLlr5VuH3VVVzBa6mt101geiVP_NGT3BoML1ob29gNrcASLc-wGlN" +
	"iY6YOy0mKhzD2kc8GBJ2eG47ZmA-WDmtenNC_d_Kf04nVILCba7sx-ZOomDJJRuG" +
	"HEOtUfkks8CmWtoNyqg9Cyogo56tzWviC15R0oEVZ2s1w2SL5g3A64SNY_XQPrTY" +
	"dcqtrE-ookf9klwZbVin38_a1d87U9XcFubmBLyAbr05ZrfDXulBlS1Jp23g3EvK" +
	"kJQwPbBc5Cb1e5v8cuY4bBJxHtbgZbjAFduz8k8nxB37JPGYia1_GWbLbqw_8H6J" +
	"6G3o7IhLC6iyd2Yaz56PufZhNw==.AQAB.ICObmSgg_Y-ihnQNUW8ksesseX4qdC" +
	"Un5XzntoeTExGvrNAgxI7YdnqPspkRyYd3aF-a_bEZmMm3_7nfreb6GGx4DBY9XC" +
	"UTPIJVpjLzhhS5dQ9I75jMYvWB2vPIbtFnJbc5BIodLP5TPHtL9xxFjGBFY5uG6y" +
	"5NGmfbledwtHen-MASOxSBENRLx8Cq4dwdcZuRTCIaV573l_mvHNczaKvaH1GrJ7" +
	"IKoJtiyOKZP-a35wcqIwCO2t6hzUIOzCrYX9LdoCWvcBduj7_jiYI8U5fXvaVkPu" +
	"kTqA48ClID-AMAqG7NJldGvtrFmf9NwnoaxEq6BqL_gLzGwJUPAryXAQ=="

// legacyKeyToken is the 512-bit keypair shipped with early Salmon demos.
const legacyKeyToken = "RSA.mVgY8RN6URBTstndvmUUPb4UZTdwvwmddSKE5z_jvKUEK6yk1" +
	"u3rrC9yN8k6FilGj9K0eeUPe2hf4Pj-5CmHww==" +
	".AQAB" +
	".Lgy_yL3hsLBngkFdDw1Jy9TmSRMiH6yihYetQ8jy-jZXdsZXd8V5" +
	"ub3kuBHHk4M39i3TduIkcrjcsiWQb77D8Q=="

const testAtom = `<?xml version='1.0' encoding='UTF-8'?>
<entry xmlns='http://www.w3.org/2005/Atom'>
  <id>tag:example.com,2009:cmt-0.44775718</id>
  <author><name>test@example.com</name><uri>acct:test@example.com</uri>
  </author>
  <content>Salmon swim upstream!</content>
  <title>Salmon swim upstream!</title>
  <updated>2009-12-18T20:04:03Z</updated>
</entry>
`

const testAtomMultiAuthor = `<?xml version='1.0' encoding='UTF-8'?>
<entry xmlns='http://www.w3.org/2005/Atom'>
  <id>tag:example.com,2009:cmt-0.44775718</id>
  <author><name>alice@example.com</name><uri>acct:alice@example.com</uri>
  </author>
  <author><name>bob@example.com</name><uri>acct:bob@example.com</uri>
  </author>
  <content>Salmon swim upstream!</content>
  <title>Salmon swim upstream!</title>
  <updated>2009-12-18T20:04:03Z</updated>
</entry>
`

func mustParseKey(t *testing.T, token string) *KeyMaterial {
	t.Helper()

	key, err := ParseKey(token)
	require.NoError(t, err)

	return key
}
