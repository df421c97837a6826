package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignature(t *testing.T) {
	// Vectors computed independently with sha1sum.
	assert.Equal(t,
		"d9f8472769a0b8a0dcde28700572c4423cb22891",
		Signature(1700000000, "ecoai_media", "secret123"))
	assert.Equal(t,
		"cbc718ea882d8ca11b4c70b6ab5741fee13a20a1",
		Signature(1741942800, "wastesnap", "shhh"))
}

func TestSignatureDependsOnAllInputs(t *testing.T) {
	base := Signature(1700000000, "ecoai_media", "secret123")
	assert.NotEqual(t, base, Signature(1700000001, "ecoai_media", "secret123"))
	assert.NotEqual(t, base, Signature(1700000000, "other_preset", "secret123"))
	assert.NotEqual(t, base, Signature(1700000000, "ecoai_media", "secret124"))
	assert.Len(t, base, 40)
}
