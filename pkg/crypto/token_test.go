package crypto

import (
	"encoding/base64"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHashedToken_CreatePair(t *testing.T) {
	tests := []struct {
		name      string
		length    int
		wantBytes int
	}{
		{name: "default length for zero", length: 0, wantBytes: DefaultTokenLength},
		{name: "default length for negative", length: -1, wantBytes: DefaultTokenLength},
		{name: "custom length", length: 16, wantBytes: 16},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Act
			pair, err := GenerateHashedToken(test.length)

			// Assert
			require.NoError(t, err)
			raw, err := base64.RawURLEncoding.DecodeString(pair.Token)
			require.NoError(t, err)
			assert.Len(t, raw, test.wantBytes)
			assert.Equal(t, HashToken(pair.Token), pair.Hash)
			assert.Len(t, pair.Hash, 64, "sha256 hex digest")
		})
	}
}

func TestGenerateHashedToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pair, err := GenerateHashedToken(DefaultTokenLength)
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			assert.False(t, seen[pair.Token], "duplicate token generated")
			seen[pair.Token] = true
		}()
	}
	wg.Wait()
}

func TestVerifyToken(t *testing.T) {
	pair, err := GenerateHashedToken(DefaultTokenLength)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		hash    string
		wantOk  bool
		wantErr error
	}{
		{name: "matching token", token: pair.Token, hash: pair.Hash, wantOk: true},
		{name: "other token", token: pair.Token + "x", hash: pair.Hash, wantOk: false},
		{name: "empty token", token: "", hash: pair.Hash, wantErr: ErrEmptyToken},
		{name: "empty hash", token: pair.Token, hash: "", wantErr: ErrEmptyToken},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ok, err := VerifyToken(test.token, test.hash)

			if test.wantErr != nil {
				assert.ErrorIs(t, err, test.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.wantOk, ok)
		})
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
}
