package http_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/kiranfashion/console/internal/application/auth"
	"github.com/kiranfashion/console/internal/application/listview"
	"github.com/kiranfashion/console/internal/application/session"
	"github.com/kiranfashion/console/internal/application/usecase"
	"github.com/kiranfashion/console/internal/domain/entity"
	"github.com/kiranfashion/console/internal/infrastructure/backend"
	"github.com/kiranfashion/console/internal/infrastructure/memory"
	"github.com/kiranfashion/console/internal/infrastructure/pdf"
	apphttp "github.com/kiranfashion/console/internal/interfaces/http"
	"github.com/kiranfashion/console/pkg/jwt"
	"github.com/kiranfashion/console/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake backend
// ──────────────────────────────────────────────────────────────────────────────

const cookieName = "kf_session"

// fakeAPI serves the backend envelope for the endpoints the console calls.
// Handlers registered in respond override the defaults by "METHOD /path".
type fakeAPI struct {
	mu       sync.Mutex
	role     string
	expired  bool
	totals   map[string]int
	respond  map[string]http.HandlerFunc
	requests []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		role:    entity.RoleAdmin,
		totals:  map[string]int{},
		respond: map[string]http.HandlerFunc{},
	}
}

func (f *fakeAPI) on(key string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.respond[key] = h
}

func (f *fakeAPI) setExpired(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expired = v
}

// count number of requests whose "METHOD /path?query" starts with prefix.
func (f *fakeAPI) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeAPI) last(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if strings.HasPrefix(f.requests[i], prefix) {
			return f.requests[i]
		}
	}
	return ""
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	f.mu.Lock()
	f.requests = append(f.requests, key+"?"+r.URL.RawQuery)
	override := f.respond[key]
	expired, role := f.expired, f.role
	f.mu.Unlock()

	if override != nil {
		override(w, r)
		return
	}
	if expired && r.URL.Path != "/auth/login" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Token expired"})
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case key == "POST /auth/login":
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"token": "tok-" + role}})
	case key == "GET /auth/me":
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"_id": "u1", "name": "Asha", "email": "asha@kiranfashion.in", "role": role, "isActive": true,
		}})
	case key == "GET /dashboard":
		writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{
			"totalUsers": 3, "totalProducts": 12, "salesCount": 40, "totalNotes": 2,
			"totalSales": 52000, "totalProfit": 9100,
		}})
	case r.Method == http.MethodGet && len(parts) == 1:
		writeJSON(w, http.StatusOK, map[string]any{"data": f.list(parts[0], r.URL.Query())})
	case r.Method == http.MethodGet && len(parts) == 2:
		writeJSON(w, http.StatusOK, map[string]any{"data": item(parts[0], parts[1])})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
	}
}

func (f *fakeAPI) list(resource string, q url.Values) map[string]any {
	f.mu.Lock()
	total := f.totals[resource]
	f.mu.Unlock()
	page, _ := strconv.Atoi(q.Get("page"))
	rows, _ := strconv.Atoi(q.Get("rows"))
	if page < 1 {
		page = 1
	}
	if rows < 1 {
		rows = 10
	}
	results := []map[string]any{}
	for i := (page-1)*rows + 1; i <= total && i <= page*rows; i++ {
		results = append(results, item(resource, fmt.Sprintf("%c%d", resource[0], i)))
	}
	return map[string]any{"results": results, "total": total}
}

func item(resource, id string) map[string]any {
	switch resource {
	case "products":
		return map[string]any{"_id": id, "name": "Saree " + id, "base_amount": 100, "sell_amount": 150, "remark": "silk"}
	case "sales":
		return map[string]any{
			"_id": id, "product_id": map[string]any{"_id": "p1", "name": "Saree p1"},
			"user_id": map[string]any{"_id": "u1", "name": "Asha"},
			"base_amount": 100, "sell_amount": 150, "discount": 10, "profit": 40,
			"createdAt": "2024-05-01T10:00:00Z",
		}
	case "notes":
		return map[string]any{"_id": id, "title": "Note " + id, "description": "restock"}
	}
	return map[string]any{"_id": id, "name": "User " + id, "email": id + "@kiranfashion.in", "role": entity.RoleUser, "isActive": true}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ──────────────────────────────────────────────────────────────────────────────
// Console under test
// ──────────────────────────────────────────────────────────────────────────────

type testEnv struct {
	app      *fiber.App
	api      *fakeAPI
	store    *memory.TokenStore
	sessions *session.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	api := newFakeAPI()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := backend.New(backend.Config{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		RetryDelay: time.Millisecond,
	}, logger.Nop())
	require.NoError(t, err)

	store := memory.NewTokenStore()
	sessions := session.NewRegistry(store, time.Hour, logger.Nop())
	signer, err := jwt.NewSigner("test-session-secret", "kiran-console-test", time.Hour)
	require.NoError(t, err)
	views, err := apphttp.NewViews("Kiran Fashion")
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(views, logger.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(client, sessions),
		UserUC:      usecase.NewUserUseCase(client),
		ProductUC:   usecase.NewProductUseCase(client),
		SaleUC:      usecase.NewSaleUseCase(client, pdf.NewMarotoReportGenerator("Kiran Fashion")),
		NoteUC:      usecase.NewNoteUseCase(client),
		DashboardUC: usecase.NewDashboardUseCase(client),
		Sessions:    sessions,
		Signer:      signer,
		Cookie:      apphttp.CookieConfig{Name: cookieName, SameSite: "Lax"},
		Views:       views,
		List:        listview.Options{Debounce: 5 * time.Millisecond, FreshFor: time.Minute},
		Log:         logger.Nop(),
		AppName:     "Kiran Fashion",
	})
	return &testEnv{app: app, api: api, store: store, sessions: sessions}
}

// login signs in through the login form with the given backend role and
// returns the session cookie.
func (e *testEnv) login(t *testing.T, role string) *http.Cookie {
	t.Helper()
	e.api.mu.Lock()
	e.api.role = role
	e.api.mu.Unlock()

	resp := e.post(t, "/login", nil, url.Values{"email": {"asha@kiranfashion.in"}, "password": {"secret"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	c := sessionCookie(resp)
	require.NotNil(t, c, "login must issue a session cookie")
	return c
}

func (e *testEnv) get(t *testing.T, target string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) post(t *testing.T, target string, cookie *http.Cookie, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func toasts(html, kind string) int {
	return strings.Count(html, `class="toast toast-`+kind+`"`)
}

var viewAttr = regexp.MustCompile(`data-view="([0-9a-f-]+)"`)

// viewOf returns the list view id rendered into a list page.
func viewOf(t *testing.T, html string) string {
	t.Helper()
	m := viewAttr.FindStringSubmatch(html)
	require.Len(t, m, 2, "list page must carry a view id")
	return m[1]
}

// captureBody records the JSON body of the last matching request and answers
// with message.
func (f *fakeAPI) captureBody(key string, status int, message string) func() map[string]any {
	var (
		mu   sync.Mutex
		last map[string]any
	)
	f.on(key, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		_ = json.NewDecoder(r.Body).Decode(&in)
		mu.Lock()
		last = in
		mu.Unlock()
		writeJSON(w, status, map[string]any{"message": message})
	})
	return func() map[string]any {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}
