package jwtutil

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/suteetoe/cakeorders/pkg/config"
)

// TenantClaims represents the JWT claims of an authenticated bakery
type TenantClaims struct {
	TenantID    uint   `json:"tenant_id"`
	Username    string `json:"username"`
	IsSuperuser bool   `json:"is_superuser,omitempty"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *config.JWTConfig
	issuer string
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(cfg *config.JWTConfig, issuer string) *JWTUtil {
	return &JWTUtil{config: cfg, issuer: issuer}
}

// GenerateToken creates a signed token for a tenant
func (j *JWTUtil) GenerateToken(tenantID uint, username string, isSuperuser bool) (string, error) {
	if j.config == nil || j.config.SigningKey == "" {
		return "", errors.New("JWT signing key not configured")
	}

	now := time.Now()
	claims := TenantClaims{
		TenantID:    tenantID,
		Username:    username,
		IsSuperuser: isSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(tenantID), 10),
			Issuer:    j.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*TenantClaims, error) {
	if j.config == nil || j.config.SigningKey == "" {
		return nil, errors.New("JWT signing key not configured")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &TenantClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.config.SigningKey), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TenantClaims)
	if !ok || !token.Valid || claims.TenantID == 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
