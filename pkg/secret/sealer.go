package secret

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedPrefix = "sb1:"
	nonceSize    = 24
)

var ErrInvalidSealedValue = errors.New("valor cifrado inválido")

// Sealer cifra e decifra tokens antes de persistir
type Sealer interface {
	Seal(plain string) (string, error)
	Open(value string) (string, error)
}

type boxSealer struct {
	key [32]byte
}

type plainSealer struct{}

// NewSealer deriva a chave a partir de SECRET_KEY. Sem chave os valores são gravados em texto puro.
func NewSealer(secretKey string) Sealer {
	if strings.TrimSpace(secretKey) == "" {
		return plainSealer{}
	}

	s := &boxSealer{}
	derived := argon2.IDKey([]byte(secretKey), []byte("ads-report-dispatcher/tokens"), 1, 64*1024, 2, 32)
	copy(s.key[:], derived)
	return s
}

func (s *boxSealer) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("erro ao gerar nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, &s.key)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open aceita valores antigos gravados sem cifra
func (s *boxSealer) Open(value string) (string, error) {
	if !strings.HasPrefix(value, sealedPrefix) {
		return value, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrInvalidSealedValue
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])

	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrInvalidSealedValue
	}
	return string(plain), nil
}

func (plainSealer) Seal(plain string) (string, error) { return plain, nil }

func (plainSealer) Open(value string) (string, error) {
	if strings.HasPrefix(value, sealedPrefix) {
		return "", fmt.Errorf("%w: SECRET_KEY não configurada", ErrInvalidSealedValue)
	}
	return value, nil
}
