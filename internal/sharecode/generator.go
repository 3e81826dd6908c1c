package sharecode

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"whisper-service/internal/observability"
)

// ErrExhausted is returned when every generation attempt collided with an
// already-issued code. With 128-bit codes this signals a broken random
// source rather than bad luck.
var ErrExhausted = errors.New("share code generation attempts exhausted")

const (
	codeBytes   = 16 // 128 bits of entropy, 22 chars base64url
	maxAttempts = 5
)

// ExistsFunc reports whether a code was already issued.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator mints unguessable share codes that are unique against the store.
type Generator struct {
	exists   ExistsFunc
	attempts int
}

// NewGenerator constructs a Generator checking uniqueness through exists.
func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{exists: exists, attempts: maxAttempts}
}

// Generate returns a fresh unique code, retrying a bounded number of times
// on collision.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	for i := 0; i < g.attempts; i++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		taken, err := g.exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check share code: %w", err)
		}
		if !taken {
			return code, nil
		}
		observability.IncShareCodeRetry()
	}
	return "", ErrExhausted
}

func randomCode() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
