package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/attrigo/asapp/internal/domain"
)

// tokenClaims is the claim set carried by every token this service signs.
type tokenClaims struct {
	Role     string `json:"role"`
	TokenUse string `json:"token_use"`
	jwt.RegisteredClaims
}

// Codec encodes and decodes the compact signed token format. It is stateless:
// a pure function of its inputs and the configured signing secret.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec signing with the given shared secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Issue builds and signs a token. IssuedAt is now (UTC, second precision,
// matching the wire claims); ExpiresAt is IssuedAt plus ttl.
func (c *Codec) Issue(subject string, role domain.Role, use domain.TokenUse, ttl time.Duration) (domain.Token, error) {
	now := time.Now().UTC().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	claims := &tokenClaims{
		Role:     string(role),
		TokenUse: string(use),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["typ"] = use.HeaderType()

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return domain.Token{}, fmt.Errorf("sign %s token: %w", use, err)
	}

	return domain.Token{
		Value:     signed,
		Use:       use,
		Subject:   subject,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}, nil
}

// Decode verifies the signature and parses the claims. Any malformed,
// tampered, or expired token yields domain.ErrInvalidToken; a token whose
// "typ" header disagrees with its token_use claim is likewise invalid.
func (c *Codec) Decode(encoded string) (domain.Token, error) {
	parsed, err := jwt.ParseWithClaims(encoded, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return domain.Token{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return domain.Token{}, fmt.Errorf("%w: unexpected claims shape", domain.ErrInvalidToken)
	}

	use := domain.TokenUse(claims.TokenUse)
	if use != domain.TokenUseAccess && use != domain.TokenUseRefresh {
		return domain.Token{}, fmt.Errorf("%w: unknown token_use %q", domain.ErrInvalidToken, claims.TokenUse)
	}

	typ, _ := parsed.Header["typ"].(string)
	headerUse, ok := domain.TokenUseFromHeaderType(typ)
	if !ok || headerUse != use {
		return domain.Token{}, fmt.Errorf("%w: header type %q disagrees with token_use %q", domain.ErrInvalidToken, typ, claims.TokenUse)
	}

	if !domain.IsValidRole(claims.Role) {
		return domain.Token{}, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidToken, claims.Role)
	}

	if claims.IssuedAt == nil || claims.ExpiresAt == nil || !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		return domain.Token{}, fmt.Errorf("%w: missing or inverted iat/exp", domain.ErrInvalidToken)
	}

	return domain.Token{
		Value:     encoded,
		Use:       use,
		Subject:   claims.Subject,
		Role:      domain.Role(claims.Role),
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
