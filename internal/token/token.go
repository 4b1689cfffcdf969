package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vedran77/fitlog/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the identity claims embedded in an issued token.
type Claims struct {
	jwt.RegisteredClaims
	Username    string   `json:"username"`
	DisplayName string   `json:"display_name,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

// Principal is the verified identity attached to a request after validation.
type Principal struct {
	UserID      uuid.UUID
	Username    string
	DisplayName string
	Roles       []string
}

// Enricher appends extra claims before a token is signed. The identity store
// only knows built-in claims; domain claims like the display name are added here.
type Enricher func(claims *Claims, user *domain.User)

func DisplayNameEnricher(claims *Claims, user *domain.User) {
	claims.DisplayName = user.DisplayName
}

// Service issues and validates signed identity tokens. Tokens are stateless:
// validity is determined entirely by signature, issuer, audience and expiry.
type Service struct {
	secret    []byte
	issuer    string
	audience  string
	ttl       time.Duration
	enrichers []Enricher
}

func NewService(secret, issuer, audience string, ttl time.Duration, enrichers ...Enricher) *Service {
	if len(enrichers) == 0 {
		enrichers = []Enricher{DisplayNameEnricher}
	}
	return &Service{
		secret:    []byte(secret),
		issuer:    issuer,
		audience:  audience,
		ttl:       ttl,
		enrichers: enrichers,
	}
}

func (s *Service) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: user.Username,
	}

	for _, enrich := range s.enrichers {
		enrich(claims, user)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate verifies signature, issuer, audience and expiry. Any failure yields
// ErrInvalidToken; callers treat the request as unauthenticated, never as an error.
func (s *Service) Validate(tokenString string) (*Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Principal{
		UserID:      userID,
		Username:    claims.Username,
		DisplayName: claims.DisplayName,
		Roles:       claims.Roles,
	}, nil
}
