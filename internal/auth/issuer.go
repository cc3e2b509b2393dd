package auth

import (
	"fmt"
	"time"

	"github.com/attrigo/asapp/internal/domain"
)

// Default token lifetimes, overridable through configuration.
const (
	DefaultAccessTTL  = 5 * time.Minute
	DefaultRefreshTTL = time.Hour
)

// Issuer builds signed access/refresh token pairs.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer creates an issuer with the given codec and token lifetimes.
// Non-positive lifetimes fall back to the defaults.
func NewIssuer(codec *Codec, accessTTL, refreshTTL time.Duration) *Issuer {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &Issuer{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssuePair issues one access and one refresh token sharing subject and role.
// If either issuance fails the pair is aborted; no partial pair is returned.
func (i *Issuer) IssuePair(subject string, role domain.Role) (domain.TokenPair, error) {
	access, err := i.codec.Issue(subject, role, domain.TokenUseAccess, i.accessTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := i.codec.Issue(subject, role, domain.TokenUseRefresh, i.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	return domain.NewTokenPair(access, refresh)
}

// IssuePairFor issues a pair for an authenticated principal.
func (i *Issuer) IssuePairFor(p domain.Principal) (domain.TokenPair, error) {
	return i.IssuePair(p.Username, p.Role)
}
