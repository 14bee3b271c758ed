package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	playerCookieName = "player"
	playerTokenTTL   = 180 * 24 * time.Hour
)

var errBadToken = errors.New("invalid player token")

// playerID returns the caller's stable player ID. A missing or invalid token
// gets a fresh identity and a new cookie.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) string {
	if tok := bearerOrCookie(r); tok != "" {
		if id, err := s.parsePlayerToken(tok); err == nil {
			return id
		}
	}
	id := uuid.NewString()
	tok, exp, err := s.signPlayerToken(id)
	if err != nil {
		log.Error().Err(err).Msg("sign player token")
		return id
	}
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: s.sameSite(),
		Expires:  exp,
	})
	return id
}

// sameSite is None for cross-site production deployments (requires Secure).
func (s *Server) sameSite() http.SameSite {
	if s.opts.SecureCookies {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// signPlayerToken creates an HS256 JWT whose subject is the player ID.
func (s *Server) signPlayerToken(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(playerTokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.opts.TokenSecret))
	return ss, exp, err
}

// parsePlayerToken verifies tok and returns its subject.
func (s *Server) parsePlayerToken(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.TokenSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errBadToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errBadToken
	}
	return claims.Subject, nil
}

// bearerOrCookie extracts a token from the Authorization header or the
// player cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(playerCookieName); err == nil {
		return c.Value
	}
	return ""
}
