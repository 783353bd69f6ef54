package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess     TokenType = "access"
	TokenTypeInvitation TokenType = "staff_invitation"
)

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// UserClaims defines the claims carried by our tokens.
// Subject is the identity-provider user id.
type UserClaims struct {
	Email   string    `json:"email,omitempty"`
	Type    TokenType `json:"type"`
	Roles   []string  `json:"roles,omitempty"`
	StaffID int32     `json:"staff_id,omitempty"` // Invitation tokens only
	jwt.RegisteredClaims
}

// UserID returns the token subject
func (c *UserClaims) UserID() string {
	return c.Subject
}

// HasRole reports whether the claims grant role
func (c *UserClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type TokenManager interface {
	GenerateAccessToken(userID, email string, roles []string) (string, error)
	GenerateInvitationToken(staffID int32, email, role string) (string, error)
	ValidateToken(tokenString string, expected TokenType) (*UserClaims, error)
}

type tokenManager struct {
	secret           []byte
	issuer           string
	accessExpiry     time.Duration
	invitationExpiry time.Duration
	now              func() time.Time
}

func NewTokenManager(secret, issuer string, accessExpiry, invitationExpiry time.Duration) TokenManager {
	return &tokenManager{
		secret:           []byte(secret),
		issuer:           issuer,
		accessExpiry:     accessExpiry,
		invitationExpiry: invitationExpiry,
		now:              time.Now,
	}
}

func (m *tokenManager) GenerateAccessToken(userID, email string, roles []string) (string, error) {
	now := m.now()
	claims := UserClaims{
		Email: email,
		Type:  TokenTypeAccess,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{"api-access"},
			ID:        generateJTI(),
		},
	}
	return m.sign(claims)
}

func (m *tokenManager) GenerateInvitationToken(staffID int32, email, role string) (string, error) {
	now := m.now()
	claims := UserClaims{
		Email:   email,
		Type:    TokenTypeInvitation,
		Roles:   []string{role},
		StaffID: staffID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(staffID)),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.invitationExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{"staff-signup"},
			ID:        generateJTI(),
		},
	}
	return m.sign(claims)
}

func (m *tokenManager) sign(claims UserClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string, expected TokenType) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.Type != expected {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// Simple unique ID generator
func generateJTI() string {
	return strconv.FormatInt(time.Now().UnixNano(), 16)
}
