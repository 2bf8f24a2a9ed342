package pages

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sb.String()))
	require.NoError(t, err)
	return doc
}

func layout(id *models.Identity, content templ.Component) models.LayoutTempl {
	l := models.LayoutTempl{Title: "Test", Identity: id, Nav: models.MainNav, Content: content}
	if id != nil {
		if item, ok := models.RoleNavItem(id.Role); ok {
			l.RoleLink = &item
		}
	}
	return l
}

func TestLayoutAnonymous(t *testing.T) {
	doc := render(t, LayoutPage(layout(nil, HomePage(nil))))

	assert.Equal(t, 1, doc.Find("#guest-links a[href='/login']").Length())
	assert.Equal(t, 1, doc.Find("#guest-links a[href='/register']").Length())
	assert.Equal(t, 0, doc.Find("#user-menu").Length())
	assert.Equal(t, 1, doc.Find("#main-nav a[href='/weather']").Length())
	assert.Equal(t, 0, doc.Find("#role-link").Length())
	assert.Equal(t, 1, doc.Find("#cta").Length())
}

func TestLayoutRoleLinks(t *testing.T) {
	tests := []struct {
		role      models.Role
		link      string
		adminLink bool
	}{
		{models.RoleFarmer, "/farmer-dashboard", false},
		{models.RoleBuyer, "/marketplace", false},
		{models.RoleWorker, "/work-orders", false},
		{models.RoleAdmin, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			id := &models.Identity{ID: "1", Name: "alice", Role: tt.role}
			doc := render(t, LayoutPage(layout(id, HomePage(id))))

			href, _ := doc.Find("#role-link").Attr("href")
			assert.Equal(t, tt.link, href)
			assert.Equal(t, tt.adminLink, doc.Find("#user-menu a[href='/admin']").Length() == 1)
			assert.Equal(t, "A", doc.Find("#user-initial").Text())
			assert.Equal(t, tt.role.String(), doc.Find("#user-role").Text())
			assert.Equal(t, 1, doc.Find("#user-menu form[action='/logout']").Length())
			assert.Contains(t, doc.Find("#greeting").Text(), "alice")
		})
	}
}

func TestLayoutFlashes(t *testing.T) {
	l := layout(nil, LoginPage(LoginData{}))
	l.Flashes = []models.Flash{{Text: "Session expired. Please login again.", Type: "error"}}

	doc := render(t, LayoutPage(l))

	flash := doc.Find("[data-flash='error']")
	assert.Equal(t, "Session expired. Please login again.", flash.Text())
	class, _ := flash.Attr("class")
	assert.Contains(t, class, "bg-red-50")
}

func TestLoginPage(t *testing.T) {
	doc := render(t, LoginPage(LoginData{Email: "a@example.com", Alert: Error("Login failed")}))

	form := doc.Find("form#login-form")
	action, _ := form.Attr("action")
	assert.Equal(t, "/login", action)
	email, _ := form.Find("input[name='email']").Attr("value")
	assert.Equal(t, "a@example.com", email)
	assert.Equal(t, 1, form.Find("input[name='password']").Length())
	assert.Equal(t, "Login failed", doc.Find("#alert").Text())
}

func TestRegisterPageFieldErrors(t *testing.T) {
	doc := render(t, RegisterPage(RegisterData{
		Values: map[string]string{"name": "Ann", "password": "secret1", "confirmPassword": "secret2"},
		Errors: map[string]string{"confirmPassword": "Passwords do not match"},
		Alert:  Error("Please fix the errors before submitting."),
	}))

	assert.Equal(t, "Passwords do not match", doc.Find("[data-error-for='confirmPassword']").Text())
	assert.Equal(t, 1, doc.Find("[data-error-for]").Length())
	name, _ := doc.Find("input[name='name']").Attr("value")
	assert.Equal(t, "Ann", name)
	pw, _ := doc.Find("input[name='password']").Attr("value")
	assert.Empty(t, pw, "passwords are not echoed back")
	assert.Equal(t, 1, doc.Find("input[name='phonenumber']").Length())
	assert.Equal(t, 1, doc.Find("textarea[name='address']").Length())
	class, _ := doc.Find("input[name='confirmPassword']").Attr("class")
	assert.Contains(t, class, "border-red-500")
}

func TestAdminPage(t *testing.T) {
	doc := render(t, AdminPage(AdminData{
		Users: []models.User{
			{ID: "1", Name: "Root", Role: models.RoleAdmin},
			{ID: "2", Name: "Fay", Role: models.RoleFarmer},
		},
		CurrentID: "1",
	}))

	rows := doc.Find("#users tbody tr")
	assert.Equal(t, 2, rows.Length())
	fay := doc.Find("tr[data-user-id='2']")
	selected, _ := fay.Find("option[selected]").Attr("value")
	assert.Equal(t, "1", selected)
	assert.Equal(t, 4, fay.Find("option").Length())
	assert.Equal(t, 1, fay.Find("form[action='/admin/users/2/delete']").Length())
	assert.Equal(t, 0, doc.Find("form[action='/admin/users/1/delete']").Length(), "no self-delete")
}

func TestAdminPageEmpty(t *testing.T) {
	doc := render(t, AdminPage(AdminData{Alert: Error("Server error. Please try again later.")}))
	assert.Equal(t, 1, doc.Find("#no-users").Length())
	assert.Equal(t, "Server error. Please try again later.", doc.Find("#alert").Text())
}

func TestProfilePage(t *testing.T) {
	u := models.User{ID: "1", Name: "Gus", Email: "g@example.com", PhoneNumber: "555", Address: "Farm Rd"}

	doc := render(t, ProfilePage(ProfileData{User: u, Form: models.ProfileParams(u), Loaded: true}))
	assert.Equal(t, 0, doc.Find("#profile-form").Length())
	assert.Equal(t, "555", doc.Find("[data-field='phoneNumber']").Text())
	src, _ := doc.Find("#avatar").Attr("src")
	assert.Equal(t, models.DefaultAvatar, src)

	doc = render(t, ProfilePage(ProfileData{User: u, Form: models.ProfileParams(u), Loaded: true, Editing: true}))
	name, _ := doc.Find("#profile-form input[name='name']").Attr("value")
	assert.Equal(t, "Gus", name)

	doc = render(t, ProfilePage(ProfileData{Alert: Error("Failed to fetch user data")}))
	assert.Equal(t, 0, doc.Find("#avatar").Length())
	assert.Equal(t, "Failed to fetch user data", doc.Find("#alert").Text())
}

func TestWeatherPage(t *testing.T) {
	doc := render(t, WeatherPage(WeatherData{Forecasts: []models.Forecast{
		{Date: "2025-05-01", TemperatureC: 21, TemperatureF: 69, Summary: "Warm"},
		{Date: "2025-05-02", TemperatureC: -3, TemperatureF: 27, Summary: "Freezing"},
	}}))

	assert.Equal(t, 2, doc.Find("#forecasts [data-date]").Length())
	assert.Contains(t, doc.Find("[data-date='2025-05-02']").Text(), "Freezing")
}

func TestSettingsPage(t *testing.T) {
	doc := render(t, SettingsPage(SettingsData{Alert: Success("Password updated successfully")}))

	action, _ := doc.Find("#password-form").Attr("action")
	assert.Equal(t, "/settings/password", action)
	assert.Equal(t, "success", doc.Find("#alert").AttrOr("data-type", ""))
}

func TestInitial(t *testing.T) {
	assert.Equal(t, "É", Initial("élodie"))
	assert.Equal(t, "?", Initial("  "))
	assert.Equal(t, "B", Initial("bob"))
}
