package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims identidad de la cuenta que abrió sesión en la terminal, más los claims estándar.
// Nunca incluye la contraseña.
type Claims struct {
	jwt.RegisteredClaims
	AccountID string `json:"account_id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Role      string `json:"role"` // "OWNER" | "CASHIER"
}

// Identity campos de la cuenta que se firman en el blob de sesión.
type Identity struct {
	AccountID string
	Username  string
	Name      string
	Role      string
}

// Generate firma un token HS256 con la identidad indicada.
// ttl == 0 omite la expiración; ttl < 0 produce un token ya expirado.
func Generate(secret, issuer string, id Identity, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.Username,
			IssuedAt: jwt.NewNumericDate(now),
		},
		AccountID: id.AccountID,
		Username:  id.Username,
		Name:      id.Name,
		Role:      id.Role,
	}
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, emisor y expiración y devuelve la identidad firmada.
func Parse(secret, issuer, tokenString string) (Identity, error) {
	if secret == "" {
		return Identity{}, fmt.Errorf("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("claims inválidos")
	}
	if claims.Username == "" {
		return Identity{}, fmt.Errorf("jwt: token sin username")
	}
	return Identity{
		AccountID: claims.AccountID,
		Username:  claims.Username,
		Name:      claims.Name,
		Role:      claims.Role,
	}, nil
}
