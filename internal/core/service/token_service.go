package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gymcore/gym-api/internal/core/domain"
)

// Claims is the JWT body carried by access tokens.
type Claims struct {
	Email    string      `json:"email"`
	Name     string      `json:"name,omitempty"`
	Role     domain.Role `json:"role"`
	CenterID string      `json:"center_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for user, snapshotting its center assignment.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	id := user.Identity()
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Email:    id.Email,
		Name:     id.Name,
		Role:     id.Role,
		CenterID: id.CenterID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks the signature, expiry and claim shape of token. It never
// touches storage.
func (s *TokenService) Verify(token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	if claims.Subject == "" || claims.Email == "" || !claims.Role.Valid() {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Name:     claims.Name,
		Role:     claims.Role,
		CenterID: claims.CenterID,
	}, nil
}
