package session

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
	"github.com/farmersconnect/farmers-connect-ui/internal/pkg/cache"
)

// Claim names issued by the backend. The long forms come from ASP.NET
// Identity; the short forms are tried after them.
const (
	claimNameIdentifier = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier"
	claimName           = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name"
	claimEmail          = "http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress"
	claimRole           = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
)

var (
	idClaims    = []string{claimNameIdentifier, "nameid", "sub"}
	nameClaims  = []string{claimName, "unique_name", "name"}
	emailClaims = []string{claimEmail, "email"}
	roleClaims  = []string{claimRole, "role"}
)

// IdentityDecoder turns a session token into the identity it carries.
type IdentityDecoder interface {
	Decode(token string) (models.Identity, error)
}

// Decoder reads identity claims from a JWT. Without a key the signature is
// not checked and the backend remains the only authority on the token. With
// a key, tokens must carry a valid HMAC signature. Expiry is never checked
// here; the backend rejects expired tokens with a 401.
type Decoder struct {
	key    []byte
	parser *jwt.Parser
	cache  *cache.UnifiedCache[models.Identity]
}

// NewDecoder returns a Decoder. identities may be nil to disable memoisation.
func NewDecoder(verifyKey string, identities *cache.UnifiedCache[models.Identity]) *Decoder {
	d := &Decoder{cache: identities}
	if verifyKey != "" {
		d.key = []byte(verifyKey)
		d.parser = jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			jwt.WithoutClaimsValidation(),
		)
	} else {
		d.parser = jwt.NewParser()
	}
	return d
}

func (d *Decoder) Decode(token string) (models.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return models.Identity{}, fmt.Errorf("%w: empty token", models.ErrInvalidToken)
	}

	var key string
	if d.cache != nil {
		key = cache.Key(token)
		if id, ok := d.cache.Get(key); ok {
			return id, nil
		}
	}

	claims, err := d.claims(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	id := models.Identity{
		ID:    stringClaim(claims, idClaims...),
		Name:  stringClaim(claims, nameClaims...),
		Email: stringClaim(claims, emailClaims...),
		Role:  roleClaim(claims),
	}
	if id.ID == "" {
		return models.Identity{}, fmt.Errorf("%w: no subject claim", models.ErrInvalidToken)
	}

	if d.cache != nil {
		d.cache.Set(key, id)
	}
	return id, nil
}

// Forget drops the memoised identity of a token that is no longer in use.
func (d *Decoder) Forget(token string) {
	if d.cache != nil {
		d.cache.Delete(cache.Key(strings.TrimSpace(token)))
	}
}

func (d *Decoder) claims(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if d.key == nil {
		if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
			return nil, err
		}
		return claims, nil
	}
	_, err := d.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return d.key, nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, names ...string) string {
	for _, name := range names {
		switch v := claims[name].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// roleClaim returns the first recognised role. ASP.NET emits an array when a
// user holds several roles.
func roleClaim(claims jwt.MapClaims) models.Role {
	for _, name := range roleClaims {
		switch v := claims[name].(type) {
		case string:
			if r, err := models.ParseRole(v); err == nil {
				return r
			}
		case float64:
			if r := models.Role(int(v)); r.Valid() {
				return r
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					if r, err := models.ParseRole(s); err == nil {
						return r
					}
				}
			}
		}
	}
	return models.RoleUnknown
}
