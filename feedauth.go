package main

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	spectatorTokenTTL = 24 * time.Hour
	spectatorSubject  = "spectator"
)

// FeedAuth issues and checks spectator tokens. A FeedAuth without a secret
// leaves the feed open.
type FeedAuth struct {
	secret []byte
}

// NewFeedAuth creates a FeedAuth signing with secret
func NewFeedAuth(secret string) *FeedAuth {
	return &FeedAuth{secret: []byte(secret)}
}

// Open reports whether the feed accepts spectators without a token
func (a *FeedAuth) Open() bool {
	return a == nil || len(a.secret) == 0
}

// Issue returns a signed spectator token valid for spectatorTokenTTL
func (a *FeedAuth) Issue() (string, error) {
	if a.Open() {
		return "", fmt.Errorf("feed has no secret")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   spectatorSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(spectatorTokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Allow checks tok. Any token passes on an open feed.
func (a *FeedAuth) Allow(tok string) error {
	if a.Open() {
		return nil
	}
	if tok == "" {
		return fmt.Errorf("missing token")
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return err
	}
	if !token.Valid || claims.Subject != spectatorSubject {
		return fmt.Errorf("invalid token")
	}
	return nil
}
