package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

var (
	ErrEmptyToken = errors.New("token and hash cannot be empty")
)

const (
	DefaultTokenLength = 32 // 256 bits
)

// TokenPair holds a session token and the digest that is stored in its place
type TokenPair struct {
	Token string // value returned to client
	Hash  string // value in storage
}

// GenerateHashedToken creates a random url-safe token. A non-positive
// byteLength falls back to DefaultTokenLength.
func GenerateHashedToken(byteLength int) (*TokenPair, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenLength
	}

	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}

	token := base64.RawURLEncoding.EncodeToString(b)

	return &TokenPair{
		Token: token,
		Hash:  HashToken(token),
	}, nil
}

// VerifyToken reports whether token hashes to storedHash, in constant time.
func VerifyToken(token, storedHash string) (bool, error) {
	if token == "" || storedHash == "" {
		return false, ErrEmptyToken
	}

	return subtle.ConstantTimeCompare([]byte(HashToken(token)), []byte(storedHash)) == 1, nil
}

// HashToken returns the hex sha256 of token; this is what storage keeps
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
