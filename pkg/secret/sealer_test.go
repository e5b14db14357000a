package secret

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealerRoundTrip(t *testing.T) {
	s := NewSealer("chave-de-teste")

	sealed, err := s.Seal("EAAB-token")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, sealedPrefix))
	assert.NotContains(t, sealed, "EAAB-token")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "EAAB-token", plain)
}

func TestSealerEmptyAndLegacyValues(t *testing.T) {
	s := NewSealer("chave-de-teste")

	sealed, err := s.Seal("")
	require.NoError(t, err)
	assert.Equal(t, "", sealed)

	plain, err := s.Open("token-antigo")
	require.NoError(t, err)
	assert.Equal(t, "token-antigo", plain)
}

func TestSealerWrongKey(t *testing.T) {
	sealed, err := NewSealer("chave-a").Seal("segredo")
	require.NoError(t, err)

	_, err = NewSealer("chave-b").Open(sealed)
	assert.ErrorIs(t, err, ErrInvalidSealedValue)

	_, err = NewSealer("").Open(sealed)
	assert.ErrorIs(t, err, ErrInvalidSealedValue)
}

func TestPlainSealer(t *testing.T) {
	s := NewSealer("")

	sealed, err := s.Seal("token")
	require.NoError(t, err)
	assert.Equal(t, "token", sealed)
}
