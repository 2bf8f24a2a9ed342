package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/gateway"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
)

// Doer sends one backend request. *gateway.Client implements it.
type Doer interface {
	Do(ctx context.Context, sess gateway.Session, req gateway.Request, out any) error
}

// Client exposes the backend REST endpoints with typed results.
type Client struct {
	doer Doer
}

func NewClient(doer Doer) *Client {
	return &Client{doer: doer}
}

// Credentials is the body of POST /api/User/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the login response. The backend signals success with
// "flag" here but with "success" on registration.
type LoginResult struct {
	Flag    bool
	Message string
	Token   string
}

// Registration is the body of POST /api/User/register.
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	PhoneNumber     string `json:"phonenumber"`
	Address         string `json:"address"`
}

type RegisterResult struct {
	Success bool
	Message string
}

// PasswordChange is the body of PUT /api/User/{id}/password.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UserEnvelope matches GET /api/User/{id}, which may wrap the record in
// {"user": ...} or return it bare.
type UserEnvelope struct {
	User models.User
}

func (e *UserEnvelope) UnmarshalJSON(b []byte) error {
	var wrapped struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	inner := b
	if len(wrapped.User) > 0 && !bytes.Equal(wrapped.User, []byte("null")) {
		inner = wrapped.User
	}
	return json.Unmarshal(inner, &e.User)
}

// UserList matches GET /api/User: either a bare array or {"users": [...]}.
type UserList []models.User

func (l *UserList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '[' {
		var users []models.User
		if err := json.Unmarshal(b, &users); err != nil {
			return err
		}
		*l = users
		return nil
	}
	var wrapped struct {
		Users *[]models.User `json:"users"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	if wrapped.Users == nil {
		return fmt.Errorf("user list: no users field")
	}
	*l = *wrapped.Users
	return nil
}

// Login carries the current token, if any, so a 401 ends a stale session
// like any other call.
func (c *Client) Login(ctx context.Context, sess gateway.Session, creds Credentials) (LoginResult, error) {
	var raw struct {
		Flag    *bool  `json:"flag"`
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	err := c.doer.Do(ctx, sess, gateway.Request{
		Method:   http.MethodPost,
		Path:     "/api/User/login",
		Body:     creds,
		Endpoint: "login",
	}, &raw)
	if err != nil {
		return LoginResult{}, err
	}
	if raw.Flag == nil {
		return LoginResult{}, fmt.Errorf("%w: login response has no flag", models.ErrUnexpectedShape)
	}
	return LoginResult{Flag: *raw.Flag, Message: raw.Message, Token: raw.Token}, nil
}

func (c *Client) Register(ctx context.Context, sess gateway.Session, r Registration) (RegisterResult, error) {
	var raw struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	err := c.doer.Do(ctx, sess, gateway.Request{
		Method:   http.MethodPost,
		Path:     "/api/User/register",
		Body:     r,
		Endpoint: "register",
	}, &raw)
	if err != nil {
		return RegisterResult{}, err
	}
	if raw.Success == nil {
		return RegisterResult{}, fmt.Errorf("%w: registration response has no success", models.ErrUnexpectedShape)
	}
	return RegisterResult{Success: *raw.Success, Message: raw.Message}, nil
}

func (c *Client) ListUsers(ctx context.Context, sess gateway.Session) ([]models.User, error) {
	var users UserList
	err := c.doer.Do(ctx, sess, gateway.Request{
		Method:   http.MethodGet,
		Path:     "/api/User",
		Endpoint: "list_users",
	}, &users)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, sess gateway.Session, id string) (models.User, error) {
	var env UserEnvelope
	err := c.doer.Do(ctx, sess, gateway.Request{
		Method:   http.MethodGet,
		Path:     userPath(id),
		Endpoint: "get_user",
	}, &env)
	if err != nil {
		return models.User{}, err
	}
	return env.User, nil
}

func (c *Client) UpdateUser(ctx context.Context, sess gateway.Session, id string, p models.UpdateProfileParams) error {
	return c.doer.Do(ctx, sess, gateway.Request{
		Method:   http.MethodPut,
		Path:     userPath(id),
		Body:     p,
		Endpoint: "update_user",
	}, nil)
}

// UpdateRole sends the bare numeric role code as the body.
func (c *Client) UpdateRole(ctx context.Context, sess gateway.Session, id string, role models.Role) error {
	return c.doer.Do(ctx, sess, gateway.Request{
		Method:   http.MethodPut,
		Path:     userPath(id) + "/role",
		Body:     role.Code(),
		Endpoint: "update_role",
	}, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, sess gateway.Session, id string, p PasswordChange) error {
	return c.doer.Do(ctx, sess, gateway.Request{
		Method:   http.MethodPut,
		Path:     userPath(id) + "/password",
		Body:     p,
		Endpoint: "update_password",
	}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, sess gateway.Session, id string) error {
	return c.doer.Do(ctx, sess, gateway.Request{
		Method:   http.MethodDelete,
		Path:     userPath(id),
		Endpoint: "delete_user",
	}, nil)
}

func (c *Client) WeatherForecast(ctx context.Context, sess gateway.Session) ([]models.Forecast, error) {
	var forecasts []models.Forecast
	err := c.doer.Do(ctx, sess, gateway.Request{
		Method:   http.MethodGet,
		Path:     "/WeatherForecast",
		Endpoint: "weather_forecast",
	}, &forecasts)
	if err != nil {
		return nil, err
	}
	return forecasts, nil
}

func userPath(id string) string {
	return "/api/User/" + url.PathEscape(id)
}
