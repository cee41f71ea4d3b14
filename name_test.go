package passquiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "bBob/b", SanitizeName("<b>Bob</b>"))
	assert.Equal(t, "Tom  Jerry", SanitizeName(`  Tom & "Jerry'  `))
	assert.Equal(t, "রহিম", SanitizeName(" রহিম "))
}

func TestNormalizeName(t *testing.T) {
	name, err := NormalizeName("  Alice ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	_, err = NormalizeName("<>&'\"")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NormalizeName("   ")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = NormalizeName(strings.Repeat("a", 41))
	assert.ErrorIs(t, err, ErrInvalidName)

	name, err = NormalizeName(strings.Repeat("a", 40))
	require.NoError(t, err)
	assert.Len(t, name, 40)

	// Limit is in characters, not bytes
	_, err = NormalizeName(strings.Repeat("é", 40))
	assert.NoError(t, err)

	// Stripped characters do not count
	_, err = NormalizeName(strings.Repeat("a", 40) + "<>")
	assert.NoError(t, err)
}
