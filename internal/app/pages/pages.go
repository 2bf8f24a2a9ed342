package pages

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/Oudwins/tailwind-merge-go/pkg/twmerge"
	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var upper = cases.Upper(language.Und)

var funcs = template.FuncMap{
	"cn":      func(classes ...string) string { return twmerge.Merge(classes...) },
	"initial": Initial,
	"alertClass": func(kind string) string {
		return twmerge.Merge("mb-4 rounded-md border p-3 text-sm", alertClasses[kind])
	},
	"fieldClass": func(hasError bool) string {
		base := "mt-1 block w-full rounded-md border border-gray-300 px-3 py-2 shadow-sm sm:text-sm focus:border-green-500 focus:ring-green-500"
		if hasError {
			return twmerge.Merge(base, "border-red-500 focus:border-red-500 focus:ring-red-500")
		}
		return base
	},
	"navClass": func(active bool) string {
		base := "flex items-center rounded-md px-3 py-2 text-sm font-medium text-gray-600 hover:bg-gray-50 hover:text-gray-900"
		if active {
			return twmerge.Merge(base, "bg-green-50 text-green-700 hover:bg-green-50 hover:text-green-700")
		}
		return base
	},
	"roles":  func() []models.Role { return models.Roles },
	"fields": registerFields,
}

var alertClasses = map[string]string{
	"success": "border-green-200 bg-green-50 text-green-700",
	"error":   "border-red-200 bg-red-50 text-red-700",
	"info":    "border-blue-200 bg-blue-50 text-blue-700",
}

var templates = template.Must(template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

// Initial is the upper-cased first letter of name, used for the avatar badge.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return upper.String(string(r))
}

// Alert is a banner message rendered above a form or list.
type Alert struct {
	Text string
	Type string
}

func Success(text string) *Alert { return &Alert{Text: text, Type: "success"} }
func Error(text string) *Alert   { return &Alert{Text: text, Type: "error"} }

func page(name string, data any) templ.Component {
	return templ.FromGoHTML(templates.Lookup(name), data)
}

type layoutView struct {
	models.LayoutTempl
	Body     template.HTML
	RoleName string
}

// LayoutPage renders the navbar shell around l.Content.
func LayoutPage(l models.LayoutTempl) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var body bytes.Buffer
		if l.Content != nil {
			if err := l.Content.Render(ctx, &body); err != nil {
				return err
			}
		}
		view := layoutView{LayoutTempl: l, Body: template.HTML(body.String())} //nolint:gosec // rendered by our own templates
		if l.Identity != nil {
			view.RoleName = l.Identity.Role.String()
		}
		return templates.ExecuteTemplate(w, "layout", view)
	})
}

type HomeData struct {
	Identity *models.Identity
	Features []Feature
}

type Feature struct {
	Name        string
	Description string
	Color       string
}

var features = []Feature{
	{"Connect with Farmers", "Direct communication with local farmers for fresh produce.", "bg-green-100 text-green-800"},
	{"Buy Fresh Products", "Access to fresh, locally sourced agricultural products.", "bg-blue-100 text-blue-800"},
	{"Fast Delivery", "Quick and reliable delivery to your doorstep.", "bg-purple-100 text-purple-800"},
	{"Customer Support", "24/7 support for all your queries and concerns.", "bg-yellow-100 text-yellow-800"},
}

func HomePage(id *models.Identity) templ.Component {
	return page("home", HomeData{Identity: id, Features: features})
}

type LoginData struct {
	Email string
	Alert *Alert
}

func LoginPage(d LoginData) templ.Component { return page("login", d) }

type RegisterData struct {
	Values map[string]string
	Errors map[string]string
	Alert  *Alert
}

func RegisterPage(d RegisterData) templ.Component { return page("register", d) }

// FormField is one input of the registration form.
type FormField struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Error    string
	Secret   bool
	Textarea bool
}

var registerLayout = []FormField{
	{Name: "name", Label: "Name", Type: "text"},
	{Name: "email", Label: "Email", Type: "email"},
	{Name: "password", Label: "Password", Type: "password", Secret: true},
	{Name: "confirmPassword", Label: "Confirm Password", Type: "password", Secret: true},
	{Name: "phonenumber", Label: "Phone Number", Type: "tel"},
	{Name: "address", Label: "Address", Textarea: true},
}

func registerFields(values, errs map[string]string) []FormField {
	out := make([]FormField, len(registerLayout))
	for i, f := range registerLayout {
		f.Value = values[f.Name]
		f.Error = errs[f.Name]
		out[i] = f
	}
	return out
}

type ProfileData struct {
	User    models.User
	Form    models.UpdateProfileParams
	Editing bool
	Loaded  bool
	Alert   *Alert
}

func ProfilePage(d ProfileData) templ.Component { return page("profile", d) }

type SettingsData struct {
	Alert *Alert
}

func SettingsPage(d SettingsData) templ.Component { return page("settings", d) }

type AdminData struct {
	Users     []models.User
	CurrentID string
	Alert     *Alert
}

func AdminPage(d AdminData) templ.Component { return page("admin", d) }

type WeatherData struct {
	Forecasts []models.Forecast
	Alert     *Alert
}

func WeatherPage(d WeatherData) templ.Component { return page("weather", d) }
