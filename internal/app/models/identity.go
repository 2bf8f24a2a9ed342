package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Role is the backend's user role. The numeric values are the codes the
// admin endpoints exchange.
type Role int

const (
	RoleUnknown Role = iota
	RoleFarmer
	RoleBuyer
	RoleAdmin
	RoleWorker
)

// Roles is the fixed enumeration offered in the admin panel.
var Roles = []Role{RoleFarmer, RoleBuyer, RoleAdmin, RoleWorker}

var roleNames = map[Role]string{
	RoleFarmer: "Farmer",
	RoleBuyer:  "Buyer",
	RoleAdmin:  "Admin",
	RoleWorker: "Worker",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return ""
}

func (r Role) Code() int { return int(r) }

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// ParseRole accepts a role name (any case) or its numeric code.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	if code, err := strconv.Atoi(s); err == nil {
		if r := Role(code); r.Valid() {
			return r, nil
		}
		return RoleUnknown, fmt.Errorf("%w: code %d", ErrInvalidRole, code)
	}
	for r, name := range roleNames {
		if strings.EqualFold(name, s) {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// UnmarshalJSON accepts either the numeric code or the role name. Unknown
// values decode to RoleUnknown rather than failing the whole record.
func (r *Role) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = RoleUnknown
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseRole(s)
		if err != nil {
			*r = RoleUnknown
			return nil
		}
		*r = parsed
		return nil
	}
	var code int
	if err := json.Unmarshal(b, &code); err != nil {
		return err
	}
	*r = Role(code)
	if !r.Valid() {
		*r = RoleUnknown
	}
	return nil
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(r))
}

// Identity is the display projection of a session token's claims.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
