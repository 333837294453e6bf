package mutate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/llmsec/mutation-engine/pkg/prng"
)

// DeriveRNG implements spec.md §4.2's normative RNG derivation: encode
// "{seedBase}:{testcaseID}" as UTF-8, SHA-256 it, take the first 8 hex
// characters (32 bits) as an unsigned integer, and seed an
// MT19937-equivalent generator from it. Reference snapshots depend on
// this exact derivation, including the single-colon separator.
func DeriveRNG(seedBase int64, testcaseID string) *prng.Rand {
	msg := fmt.Sprintf("%d:%s", seedBase, testcaseID)
	digest := sha256.Sum256([]byte(msg))
	hexDigest := hex.EncodeToString(digest[:])
	seedInt, err := strconv.ParseUint(hexDigest[:8], 16, 32)
	if err != nil {
		// hexDigest[:8] is always 8 valid hex characters from a
		// SHA-256 digest; this cannot fail.
		panic(fmt.Sprintf("mutate: unreachable seed parse failure: %v", err))
	}
	return prng.New(uint32(seedInt))
}

// TestcaseID builds the per-child identifier used both for RNG derivation
// and for metadata attached to the child's context.
func TestcaseID(seedID string, childIndex int) string {
	if seedID == "" {
		seedID = "seed"
	}
	return fmt.Sprintf("%s:%d", seedID, childIndex)
}
