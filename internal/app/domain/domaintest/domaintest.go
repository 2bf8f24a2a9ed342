// Package domaintest wires handlers to an in-memory session for tests.
package domaintest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/farmersconnect/farmers-connect-ui/internal/app/session"
)

// Browser is a router whose session store persists across requests, the
// way a cookie would.
type Browser struct {
	Router *gin.Engine
	Store  *session.MemoryStore
}

// NewBrowser returns a Browser already holding token (empty for anonymous).
func NewBrowser(t *testing.T, token string) *Browser {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := session.NewMemoryStore()
	if token != "" {
		require.NoError(t, store.Save(token))
	}
	r := gin.New()
	r.Use(session.Middleware(session.NewDecoder("", nil), nil, session.WithStoreFunc(func(*gin.Context) session.Store {
		return store
	})))
	return &Browser{Router: r, Store: store}
}

func (b *Browser) Get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	b.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (b *Browser) PostForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	b.Router.ServeHTTP(w, req)
	return w
}

// Doc parses a rendered page.
func Doc(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

// Alert returns the text of the page's banner message.
func Alert(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("#alert").Text())
}
