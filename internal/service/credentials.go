package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost 与原有账号数据保持一致的 bcrypt 成本。
const DefaultHashCost = 10

// Credentials hashes and verifies passwords. It holds no state besides the cost.
type Credentials struct {
	cost int
}

// NewCredentials builds a Credentials with the given bcrypt cost; out-of-range costs fall back to DefaultHashCost.
func NewCredentials(cost int) *Credentials {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	return &Credentials{cost: cost}
}

// Hash returns a salted bcrypt hash of plain.
func (c *Credentials) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), c.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", newFieldError("password", "Password must be no more than 72 bytes long")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plain matches hash. The comparison is constant time.
func (c *Credentials) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
