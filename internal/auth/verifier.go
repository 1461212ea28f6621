// Package auth verifies identity-provider ID tokens.
package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken  = errors.New("missing ID token")
	ErrInvalidToken  = errors.New("invalid ID token")
	ErrNotConfigured = errors.New("token verification is not configured")
)

// Verifier turns an ID token into the stable subject identifier it was issued for.
type Verifier interface {
	Verify(ctx context.Context, idToken string) (string, error)
}

type Options struct {
	// HMACSecret enables HS256/384/512 verification.
	HMACSecret string
	// PublicKeyPEM enables RS256 verification and takes precedence over HMACSecret.
	PublicKeyPEM string
	Issuer       string
	Audience     string
	// ClockSkew is the leeway applied to exp, nbf and iat.
	ClockSkew time.Duration
}

type JWTVerifier struct {
	parser *jwt.Parser
	key    any
	hmac   bool
}

func NewJWTVerifier(opts Options) (*JWTVerifier, error) {
	v := &JWTVerifier{}
	methods := []string{"HS256", "HS384", "HS512"}

	switch {
	case strings.TrimSpace(opts.PublicKeyPEM) != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		v.key = key
		methods = []string{"RS256"}
	case opts.HMACSecret != "":
		v.key = []byte(opts.HMACSecret)
		v.hmac = true
	default:
		return nil, ErrNotConfigured
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithLeeway(opts.ClockSkew),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	v.parser = jwt.NewParser(parserOpts...)
	return v, nil
}

func (v *JWTVerifier) Verify(_ context.Context, idToken string) (string, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return "", ErrMissingToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := v.parser.ParseWithClaims(idToken, claims, v.keyFunc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: subject claim is missing", ErrInvalidToken)
	}
	return claims.Subject, nil
}

func (v *JWTVerifier) keyFunc(token *jwt.Token) (any, error) {
	if v.hmac {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.key, nil
	}
	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return v.key.(*rsa.PublicKey), nil
}
