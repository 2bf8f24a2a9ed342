package user

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/domain/domaintest"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/gateway"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
	"github.com/farmersconnect/farmers-connect-ui/internal/app/session/sessiontest"
)

type MockUserAdminAPI struct {
	mock.Mock
}

func (m *MockUserAdminAPI) ListUsers(ctx context.Context, sess gateway.Session) ([]models.User, error) {
	args := m.Called(ctx, sess)
	users, _ := args.Get(0).([]models.User)
	return users, args.Error(1)
}

func (m *MockUserAdminAPI) UpdateRole(ctx context.Context, sess gateway.Session, id string, role models.Role) error {
	return m.Called(ctx, sess, id, role).Error(0)
}

func (m *MockUserAdminAPI) DeleteUser(ctx context.Context, sess gateway.Session, id string) error {
	return m.Called(ctx, sess, id).Error(0)
}

func setup(t *testing.T) (*domaintest.Browser, *MockUserAdminAPI) {
	t.Helper()
	api := new(MockUserAdminAPI)
	h := NewUserHandlers(domain.NewBaseHandler(nil), api)
	b := domaintest.NewBrowser(t, sessiontest.Token("1", "Ada", "ada@example.com", "Admin"))
	b.Router.GET("/admin", h.ShowAdmin)
	b.Router.POST("/admin/users/:id/role", h.UpdateRole)
	b.Router.POST("/admin/users/:id/delete", h.DeleteUser)
	return b, api
}

func users(carolRole models.Role) []models.User {
	return []models.User{
		{ID: "1", Name: "Ada", Email: "ada@example.com", Role: models.RoleAdmin},
		{ID: "2", Name: "Carol", Email: "carol@example.com", Role: carolRole},
	}
}

func selectedRole(doc *goquery.Document, id string) string {
	return strings.TrimSpace(doc.Find("#users tr[data-user-id='" + id + "'] option[selected]").Text())
}

func TestShowAdminListsUsers(t *testing.T) {
	b, api := setup(t)
	api.On("ListUsers", mock.Anything, mock.Anything).Return(users(models.RoleFarmer), nil)

	w := b.Get("/admin")

	assert.Equal(t, http.StatusOK, w.Code)
	doc := domaintest.Doc(t, w)
	assert.Equal(t, 2, doc.Find("#users tbody tr").Length())
	assert.Equal(t, "Farmer", selectedRole(doc, "2"))
	assert.Equal(t, 4, doc.Find("#users tr[data-user-id='2'] option").Length())
	assert.Equal(t, 0, doc.Find("form[action='/admin/users/1/delete']").Length(), "no delete for the signed-in admin")
	assert.Equal(t, 1, doc.Find("form[action='/admin/users/2/delete']").Length())
}

func TestShowAdminEmpty(t *testing.T) {
	b, api := setup(t)
	api.On("ListUsers", mock.Anything, mock.Anything).Return([]models.User{}, nil)

	doc := domaintest.Doc(t, b.Get("/admin"))

	assert.Equal(t, 1, doc.Find("#no-users").Length())
}

func TestShowAdminListFailureMessages(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"400", &gateway.Error{Status: 400, Message: "bad", Err: models.ErrValidation}, "Invalid request. Please check your input."},
		{"404", &gateway.Error{Status: 404, Err: models.ErrNotFound}, "User data not found."},
		{"500", &gateway.Error{Status: 500, Message: "stack trace", Err: models.ErrServer}, "Server error. Please try again later."},
		{"502 with message", &gateway.Error{Status: 502, Message: "Bad gateway", Err: models.ErrServer}, "Bad gateway"},
		{"network", &gateway.Error{Err: models.ErrNetwork}, "An error occurred while fetching users."},
		{"shape", models.ErrUnexpectedShape, "An error occurred while fetching users."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, api := setup(t)
			api.On("ListUsers", mock.Anything, mock.Anything).Return(nil, tt.err)

			doc := domaintest.Doc(t, b.Get("/admin"))

			assert.Equal(t, tt.message, domaintest.Alert(doc))
			assert.Equal(t, 0, doc.Find("#users").Length())
		})
	}
}

func TestShowAdminUnauthorizedNavigatesToLogin(t *testing.T) {
	b, api := setup(t)
	api.On("ListUsers", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(gateway.Session).Invalidate() }).
		Return(nil, &gateway.Error{Status: 401, Err: models.ErrUnauthenticated})

	w := b.Get("/admin")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	_, ok := b.Store.Read()
	assert.False(t, ok)
}

// The backend is the authority: a 403 is honoured even for an Admin identity.
func TestShowAdminForbiddenNavigatesHome(t *testing.T) {
	b, api := setup(t)
	api.On("ListUsers", mock.Anything, mock.Anything).
		Return(nil, &gateway.Error{Status: 403, Err: models.ErrForbidden})

	w := b.Get("/admin")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	flashes, err := b.Store.Flashes()
	require.NoError(t, err)
	require.Len(t, flashes, 1)
	assert.Equal(t, "You do not have permission to access this resource.", flashes[0].Text)
	_, ok := b.Store.Read()
	assert.True(t, ok, "a 403 keeps the session")
}

func TestUpdateRoleSuccessRefetchesList(t *testing.T) {
	b, api := setup(t)
	api.On("UpdateRole", mock.Anything, mock.Anything, "2", models.RoleWorker).Return(nil).Once()
	api.On("ListUsers", mock.Anything, mock.Anything).Return(users(models.RoleWorker), nil).Once()

	doc := domaintest.Doc(t, b.PostForm("/admin/users/2/role", url.Values{"role": {"4"}}))

	assert.Equal(t, "User role updated successfully", domaintest.Alert(doc))
	assert.Equal(t, "Worker", selectedRole(doc, "2"))
	api.AssertExpectations(t)
}

func TestUpdateRoleFailureKeepsList(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"backend message", &gateway.Error{Status: 400, Message: "Cannot demote the last admin", Err: models.ErrValidation}, "Cannot demote the last admin"},
		{"no message", &gateway.Error{Status: 500, Err: models.ErrServer}, "Failed to update user role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, api := setup(t)
			api.On("UpdateRole", mock.Anything, mock.Anything, "2", models.RoleBuyer).Return(tt.err)
			api.On("ListUsers", mock.Anything, mock.Anything).Return(users(models.RoleFarmer), nil)

			doc := domaintest.Doc(t, b.PostForm("/admin/users/2/role", url.Values{"role": {"2"}}))

			assert.Equal(t, tt.message, domaintest.Alert(doc))
			assert.Equal(t, "Farmer", selectedRole(doc, "2"))
		})
	}
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	b, api := setup(t)
	api.On("ListUsers", mock.Anything, mock.Anything).Return(users(models.RoleFarmer), nil)

	doc := domaintest.Doc(t, b.PostForm("/admin/users/2/role", url.Values{"role": {"9"}}))

	assert.Equal(t, "Failed to update user role", domaintest.Alert(doc))
	api.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateRoleRefetchFailureEmptiesList(t *testing.T) {
	b, api := setup(t)
	api.On("UpdateRole", mock.Anything, mock.Anything, "2", models.RoleBuyer).Return(nil)
	api.On("ListUsers", mock.Anything, mock.Anything).Return(nil, &gateway.Error{Status: 500, Err: models.ErrServer})

	doc := domaintest.Doc(t, b.PostForm("/admin/users/2/role", url.Values{"role": {"Buyer"}}))

	assert.Equal(t, "User role updated successfully", domaintest.Alert(doc))
	assert.Equal(t, 1, doc.Find("#no-users").Length())
}

func TestDeleteUser(t *testing.T) {
	b, api := setup(t)
	api.On("DeleteUser", mock.Anything, mock.Anything, "2").Return(nil)
	api.On("ListUsers", mock.Anything, mock.Anything).Return(users(models.RoleFarmer)[:1], nil)

	doc := domaintest.Doc(t, b.PostForm("/admin/users/2/delete", nil))

	assert.Equal(t, "User deleted successfully", domaintest.Alert(doc))
	assert.Equal(t, 1, doc.Find("#users tbody tr").Length())
	api.AssertExpectations(t)
}

func TestDeleteUserFailure(t *testing.T) {
	b, api := setup(t)
	api.On("DeleteUser", mock.Anything, mock.Anything, "2").Return(&gateway.Error{Status: 404, Err: models.ErrNotFound})
	api.On("ListUsers", mock.Anything, mock.Anything).Return(users(models.RoleFarmer), nil)

	doc := domaintest.Doc(t, b.PostForm("/admin/users/2/delete", nil))

	assert.Equal(t, "Failed to delete user", domaintest.Alert(doc))
	assert.Equal(t, 2, doc.Find("#users tbody tr").Length())
}
