package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxBcryptPasswordLength is the number of bytes bcrypt actually reads
const MaxBcryptPasswordLength = 72

var _ PasswordHandler = (*Bcrypt)(nil)

// Bcrypt hashes passwords with bcrypt, the scheme PHP's PASSWORD_DEFAULT uses,
// so hashes created by the old site keep verifying.
type Bcrypt struct {
	Cost int
}

func NewBcrypt(cost ...int) *Bcrypt {
	c := bcrypt.DefaultCost
	if len(cost) > 0 && cost[0] != 0 {
		c = cost[0]
	}
	return &Bcrypt{Cost: c}
}

func (b *Bcrypt) Algorithm() string {
	return AlgorithmBcrypt
}

func (b *Bcrypt) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

func (b *Bcrypt) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHashFormat, err)
	}
}
