package models

import "encoding/json"

// DefaultAvatar is shown when a user record carries no avatar.
const DefaultAvatar = "/assets/img/default-avatar.svg"

// User is a backend user record as shown in the profile and admin views.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	Avatar      string `json:"avatar"`
	Role        Role   `json:"role"`
}

// UnmarshalJSON accepts "id" or "userId" for the identifier, as string or number.
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var raw struct {
		plain
		ID     json.RawMessage `json:"id"`
		UserID json.RawMessage `json:"userId"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*u = User(raw.plain)

	id := raw.ID
	if len(id) == 0 || string(id) == "null" {
		id = raw.UserID
	}
	u.ID = rawID(id)
	return nil
}

func rawID(b json.RawMessage) string {
	if len(b) == 0 || string(b) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		return n.String()
	}
	return string(b)
}

// AvatarURL returns the avatar or the default one.
func (u User) AvatarURL() string {
	if u.Avatar == "" {
		return DefaultAvatar
	}
	return u.Avatar
}

// UpdateProfileParams is the body of PUT /api/User/{id}.
type UpdateProfileParams struct {
	Name        string `json:"name" form:"name"`
	Email       string `json:"email" form:"email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Address     string `json:"address" form:"address"`
	Avatar      string `json:"avatar" form:"avatar"`
}

// ProfileParams projects a user record onto the editable profile fields.
func ProfileParams(u User) UpdateProfileParams {
	return UpdateProfileParams{
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address:     u.Address,
		Avatar:      u.AvatarURL(),
	}
}
