package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProofFingerprint_StableOverBytes(t *testing.T) {
	raw := `{"tx_hash":"0xabc123"}`

	assert.Equal(t, ProofFingerprint(raw), ProofFingerprint(raw))
	assert.Len(t, ProofFingerprint(raw), 64)

	// Any byte difference, even whitespace, is a different proof.
	assert.NotEqual(t, ProofFingerprint(raw), ProofFingerprint(`{"tx_hash": "0xabc123"}`))
}

func TestMD5Hash(t *testing.T) {
	assert.Equal(t, MD5Hash("plumber|Austin, TX|4.00"), MD5Hash("plumber|Austin, TX|4.00"))
	assert.NotEqual(t, MD5Hash("a"), MD5Hash("b"))
}

func TestGenerateRandomID(t *testing.T) {
	a := GenerateRandomID(16)
	b := GenerateRandomID(16)
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)
}
