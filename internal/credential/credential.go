// Package credential decides how a password is written into the users
// record and how a login attempt is checked against it.
//
// Plaintext keeps the historical layout: the password is stored as typed
// and compared with exact string equality. Bcrypt stores a hash instead.
// Accounts written under one scheme cannot log in under the other.
package credential

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/aanand-mishra/attendance-api/internal/config"
)

// Verifier seals passwords for storage and checks attempts against them.
type Verifier interface {
	Seal(password string) (string, error)
	Verify(stored, attempt string) bool
}

// New returns the Verifier for a configured scheme name.
func New(scheme string) (Verifier, error) {
	switch scheme {
	case "", config.SchemePlaintext:
		return Plaintext{}, nil
	case config.SchemeBcrypt:
		return Bcrypt{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("credential.New: unknown scheme %q", scheme)
	}
}

// Plaintext stores passwords unchanged.
type Plaintext struct{}

func (Plaintext) Seal(password string) (string, error) { return password, nil }

func (Plaintext) Verify(stored, attempt string) bool { return stored == attempt }

// Bcrypt stores bcrypt hashes.
type Bcrypt struct {
	Cost int
}

// Seal hashes password at the configured cost.
func (b Bcrypt) Seal(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", fmt.Errorf("Bcrypt.Seal: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether attempt hashes to stored. A stored value that
// is not a bcrypt hash never verifies.
func (Bcrypt) Verify(stored, attempt string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(attempt)) == nil
}
