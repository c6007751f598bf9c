package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"time"

	"portal/src/config"
	"portal/src/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

func GenerateJWT(email string, name string, userId uuid.UUID, teamId string) (string, error) {
	claims := types.Claims{
		Email: email,
		Name:  name,
		Team:  teamId,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// GeneratePortalSessionToken mints a session for a portal visitor who
// proved ownership of the customer email via login code.
func GeneratePortalSessionToken(portalId string, email string) (string, error) {
	claims := types.PortalClaims{
		PortalID: portalId,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   portalId,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(config.PortalSessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

const portalIdAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewPortalId returns the short alphanumeric id used in portal URLs.
func NewPortalId() (string, error) {
	id := make([]byte, 8)
	for i := range id {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(portalIdAlphabet))))
		if err != nil {
			return "", err
		}
		id[i] = portalIdAlphabet[n.Int64()]
	}
	return string(id), nil
}

// NewLoginCode returns a 6-digit sign-in code.
func NewLoginCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
