package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/crowddocs/contribution-service/internal/models"
)

// Purpose restricts a signed token to one functional use. Issuance and
// verification both consume the closed set, so a token kind cannot exist
// without an explicit purpose.
type Purpose string

const (
	PurposeAuth              Purpose = "auth"
	PurposeEmailVerification Purpose = "email_verification"
	PurposePasswordReset     Purpose = "password_reset"
)

const (
	AuthTokenTTL  = 10 * 24 * time.Hour
	ShortTokenTTL = time.Hour
)

var (
	ErrTokenInvalid    = errors.New("token is invalid")
	ErrTokenExpired    = errors.New("token is expired")
	ErrPurposeMismatch = errors.New("token purpose mismatch")
)

// Claims is the validated payload of a contribution-service token.
type Claims struct {
	UserID  uint
	Role    models.Role
	Purpose Purpose
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID  uint        `json:"uid"`
	Role    models.Role `json:"role,omitempty"`
	Purpose Purpose     `json:"purpose"`
}

// Issuer signs and verifies purpose-scoped tokens with a shared secret.
// Now is injectable for expiry tests.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

func NewIssuerWithClock(secret string, now func() time.Time) *Issuer {
	return &Issuer{secret: []byte(secret), now: now}
}

// IssueAuthToken issues a bearer credential carrying the user's role.
func (i *Issuer) IssueAuthToken(userID uint, role models.Role) (string, error) {
	return i.issue(userID, role, PurposeAuth, AuthTokenTTL)
}

// IssueVerificationToken issues the single-purpose email verification token.
func (i *Issuer) IssueVerificationToken(userID uint) (string, error) {
	return i.issue(userID, "", PurposeEmailVerification, ShortTokenTTL)
}

// IssueResetToken issues the single-purpose password reset token.
func (i *Issuer) IssueResetToken(userID uint) (string, error) {
	return i.issue(userID, "", PurposePasswordReset, ShortTokenTTL)
}

func (i *Issuer) issue(userID uint, role models.Role, purpose Purpose, ttl time.Duration) (string, error) {
	now := i.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:  userID,
		Role:    role,
		Purpose: purpose,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, then purpose, then expiry. A cross-purpose token
// fails with ErrPurposeMismatch even when otherwise valid.
func (i *Issuer) Verify(token string, expected Purpose) (Claims, error) {
	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, ErrTokenInvalid
	}

	if parsed.Purpose != expected {
		return Claims{}, ErrPurposeMismatch
	}

	if parsed.ExpiresAt == nil {
		return Claims{}, ErrTokenInvalid
	}
	if !parsed.ExpiresAt.Time.After(i.now()) {
		return Claims{}, ErrTokenExpired
	}

	return Claims{
		UserID:  parsed.UserID,
		Role:    parsed.Role,
		Purpose: parsed.Purpose,
	}, nil
}
