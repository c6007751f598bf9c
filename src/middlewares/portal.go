package middlewares

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"portal/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// PortalAuthMiddleware extracts the verified portal session email.
// It only proves which email the caller signed in with; the access
// guard re-checks that email against the customer record on every
// operation.
func PortalAuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims := &types.PortalClaims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("portal token error: %s\n", err.Error())
		if errors.Is(err, jwt.ErrSignatureInvalid) || errors.Is(err, jwt.ErrTokenMalformed) {
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		ctx.AbortWithError(http.StatusUnauthorized, err)
		return
	}
	if !tkn.Valid || claims.Email == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if claims.PortalID != ctx.Param("portalId") {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ctx.Set("portal_email", claims.Email)
	ctx.Set("portal_id", claims.PortalID)
}
