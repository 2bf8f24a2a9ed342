// Package sessiontest mints backend-style tokens for tests.
package sessiontest

import (
	"github.com/golang-jwt/jwt/v5"
)

// Key signs tokens minted by Token.
const Key = "sessiontest-signing-key-0123456789abcdef"

// Claims builds the ASP.NET-style claim set the backend issues.
func Claims(id, name, email, role string) jwt.MapClaims {
	return jwt.MapClaims{
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/nameidentifier": id,
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/name":           name,
		"http://schemas.xmlsoap.org/ws/2005/05/identity/claims/emailaddress":   email,
		"http://schemas.microsoft.com/ws/2008/06/identity/claims/role":         role,
		"exp": 1,
	}
}

// Token returns an HS256 token signed with Key. Its exp claim is already in
// the past; decoding ignores expiry.
func Token(id, name, email, role string) string {
	return Sign(Key, Claims(id, name, email, role))
}

// Sign signs claims with HS256 and panics on failure.
func Sign(key string, claims jwt.MapClaims) string {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		panic(err)
	}
	return s
}
