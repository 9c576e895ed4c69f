package directory

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret genera el hash bcrypt de una contraseña.
func HashSecret(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash contraseña: %w", err)
	}
	return string(h), nil
}

// VerifySecret compara una contraseña con el valor guardado.
// Las cuentas anteriores al hash guardan texto plano; se comparan en tiempo constante.
func VerifySecret(stored, plain string) bool {
	if stored == "" {
		return false
	}
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}
