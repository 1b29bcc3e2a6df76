package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/storefront-service/internal/domain"
)

const RoleAdmin = "admin"

// AdminAuthenticator checks credentials against the single configured admin identity.
type AdminAuthenticator struct {
	Email        string
	PasswordHash string
}

func (a AdminAuthenticator) Authenticate(email, password string) error {
	if a.Email == "" || a.PasswordHash == "" {
		return fmt.Errorf("%w: admin login is disabled", domain.ErrUnauthorized)
	}
	emailOK := subtle.ConstantTimeCompare([]byte(strings.ToLower(strings.TrimSpace(email))), []byte(strings.ToLower(a.Email))) == 1
	// хеш проверяем всегда, чтобы время ответа не выдавало адрес
	pwErr := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	if !emailOK || pwErr != nil {
		return fmt.Errorf("%w: invalid credentials", domain.ErrUnauthorized)
	}
	return nil
}
