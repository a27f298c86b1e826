package legacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicUUID_Consistency(t *testing.T) {
	// Same input always produces same UUID
	id1 := DeterministicUUID("player", "10384")
	id2 := DeterministicUUID("player", "10384")
	assert.Equal(t, id1, id2)
}

func TestDeterministicUUID_DifferentInputs(t *testing.T) {
	id1 := DeterministicUUID("player", "10384")
	id2 := DeterministicUUID("player", "10385")
	assert.NotEqual(t, id1, id2)
}

func TestDeterministicUUID_DifferentNamespaces(t *testing.T) {
	id1 := DeterministicUUID("player", "123")
	id2 := DeterministicUUID("pet", "123")
	assert.NotEqual(t, id1, id2)
}

func TestDeterministicUUID_ValidVersion(t *testing.T) {
	id := DeterministicUUID("player", "test-id")
	// Version should be 5 (SHA-based)
	version := id[6] >> 4
	assert.Equal(t, byte(5), version)
}

func TestDeterministicUUID_ValidVariant(t *testing.T) {
	id := DeterministicUUID("player", "test-id")
	// Variant should be RFC4122 (10xx xxxx)
	variant := id[8] >> 6
	assert.Equal(t, byte(2), variant)
}

func TestSHA256Hex(t *testing.T) {
	hex := SHA256Hex("player", "test-123")
	assert.Len(t, hex, 64) // SHA256 = 32 bytes = 64 hex chars
}

func TestSHA256Hex_Consistent(t *testing.T) {
	h1 := SHA256Hex("player", "test-123")
	h2 := SHA256Hex("player", "test-123")
	assert.Equal(t, h1, h2)
}
