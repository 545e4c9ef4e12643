package webui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-watchlist/watchlist/controller"
	"github.com/go-watchlist/watchlist/session"
	"github.com/go-watchlist/watchlist/storage"
)

// browser is a minimal test client keeping cookies and following redirects
type browser struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func newApp(t *testing.T, loginRateLimit int) *browser {
	t.Helper()
	store, err := storage.NewStorage(
		storage.Config{
			Driver: storage.DriverSQLite,
			DSN:    ":memory:",
			UsersHash: storage.Argon2idParams{
				Time:        1,
				MemoryKiB:   1024,
				Parallelism: 1,
				KeyLen:      16,
				SaltLen:     8,
			},
		},
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	mem, err := session.NewMemoryStorage()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mem.Close() })

	backs := store.Backends()
	_, err = backs.Users.Create("test", "123", "Test")
	require.NoError(t, err)
	_, err = backs.Movies.Create("Test Movie Title", "2024")
	require.NoError(t, err)

	env := &controller.Env{
		Sessions: session.NewManager(mem, backs.Users, time.Hour),
		Movies:   backs.Movies,
		Users:    backs.Users,
	}
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(env, "")})
	Register(
		app, env, Options{
			Notices:        session.NewNotices(mem, time.Minute),
			LoginRateLimit: loginRateLimit,
		},
	)
	return &browser{
		t:       t,
		app:     app,
		cookies: map[string]string{},
	}
}

func (b *browser) do(method, path string, form url.Values) (int, string) {
	b.t.Helper()
	for range 5 {
		var body io.Reader
		if form != nil {
			body = strings.NewReader(form.Encode())
		}
		req := httptest.NewRequest(method, path, body)
		if form != nil {
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
		}
		for name, value := range b.cookies {
			req.AddCookie(&http.Cookie{Name: name, Value: value})
		}
		resp, err := b.app.Test(req, -1)
		require.NoError(b.t, err)
		for _, c := range resp.Cookies() {
			if c.Value == "" || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
				delete(b.cookies, c.Name)
				continue
			}
			b.cookies[c.Name] = c.Value
		}
		if resp.StatusCode == fiber.StatusFound {
			_ = resp.Body.Close()
			method, path, form = fiber.MethodGet, resp.Header.Get(fiber.HeaderLocation), nil
			continue
		}
		data, err := io.ReadAll(resp.Body)
		require.NoError(b.t, err)
		_ = resp.Body.Close()
		return resp.StatusCode, string(data)
	}
	b.t.Fatal("too many redirects")
	return 0, ""
}

func (b *browser) get(path string) (int, string) {
	b.t.Helper()
	return b.do(fiber.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) (int, string) {
	b.t.Helper()
	if form == nil {
		form = url.Values{}
	}
	return b.do(fiber.MethodPost, path, form)
}

func (b *browser) login() {
	b.t.Helper()
	_, data := b.post(
		"/login", url.Values{
			"username": {"test"},
			"password": {"123"},
		},
	)
	require.Contains(b.t, data, "Login success.")
}

func TestNotFoundPage(t *testing.T) {
	b := newApp(t, 0)
	for _, path := range []string{"/nothing", "/movie/edit/abc", "/movie/edit/0"} {
		status, data := b.get(path)
		assert.Equal(t, fiber.StatusNotFound, status, path)
		assert.Contains(t, data, "Page Not Found - 404", path)
		assert.Contains(t, data, "Go Back", path)
	}
	b.login()
	status, data := b.get("/movie/edit/42")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Contains(t, data, "Page Not Found - 404")
}

func TestIndexPage(t *testing.T) {
	b := newApp(t, 0)
	status, data := b.get("/")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, data, "Test's Watchlist")
	assert.Contains(t, data, "Test Movie Title")
}

func TestCreateItem(t *testing.T) {
	b := newApp(t, 0)
	b.login()

	_, data := b.post("/", url.Values{"title": {"New Movie"}, "year": {"2024"}})
	assert.Contains(t, data, "Item created.")
	assert.Contains(t, data, "New Movie")

	_, data = b.get("/")
	assert.NotContains(t, data, "Item created.")

	_, data = b.post("/", url.Values{"title": {""}, "year": {"2024"}})
	assert.NotContains(t, data, "Item created.")
	assert.Contains(t, data, "Invalid input.")

	_, data = b.post("/", url.Values{"title": {"New Movie"}, "year": {""}})
	assert.NotContains(t, data, "Item created.")
	assert.Contains(t, data, "Invalid input.")

	status, data := b.post("/", url.Values{"title": {"New Movie"}})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, data, "Bad Request - 400")
}

func TestUpdateItem(t *testing.T) {
	b := newApp(t, 0)
	b.login()

	_, data := b.get("/movie/edit/1")
	assert.Contains(t, data, "Edit item")
	assert.Contains(t, data, "Test Movie Title")
	assert.Contains(t, data, "2024")

	_, data = b.post("/movie/edit/1", url.Values{"title": {"New Movie Edited"}, "year": {"2024"}})
	assert.Contains(t, data, "Item updated.")
	assert.Contains(t, data, "New Movie Edited")

	_, data = b.post("/movie/edit/1", url.Values{"title": {""}, "year": {"2024"}})
	assert.NotContains(t, data, "Item updated.")
	assert.Contains(t, data, "Invalid input.")
	assert.Contains(t, data, "Edit item")

	_, data = b.post("/movie/edit/1", url.Values{"title": {"New Movie Edited Again"}, "year": {""}})
	assert.NotContains(t, data, "Item updated.")
	assert.NotContains(t, data, "New Movie Edited Again")
	assert.Contains(t, data, "Invalid input.")
}

func TestDeleteItem(t *testing.T) {
	b := newApp(t, 0)
	b.login()

	_, data := b.post("/movie/delete/1", nil)
	assert.Contains(t, data, "Item deleted")
	assert.NotContains(t, data, "Test Movie Title")

	status, _ := b.post("/movie/delete/1", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	status, _ = b.post("/movie/edit/1", url.Values{"title": {"x"}, "year": {"2000"}})
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestLoginProtect(t *testing.T) {
	b := newApp(t, 0)
	_, data := b.get("/")
	assert.NotContains(t, data, "Logout")
	assert.NotContains(t, data, "Settings")
	assert.NotContains(t, data, `<form method="post">`)
	assert.NotContains(t, data, "Delete")
	assert.NotContains(t, data, "Edit")

	_, data = b.get("/movie/edit/1")
	assert.Contains(t, data, "Please log in to access this page.")
	assert.Contains(t, data, "<h3>Login</h3>")

	_, data = b.post("/movie/delete/1", nil)
	assert.Contains(t, data, "Please log in to access this page.")
	_, data = b.get("/")
	assert.Contains(t, data, "Test Movie Title")

	_, data = b.post("/movie/edit/1", url.Values{"title": {"Hacked"}, "year": {"2024"}})
	assert.Contains(t, data, "Please log in to access this page.")

	_, data = b.post("/", url.Values{"title": {"Sneaky"}, "year": {"2024"}})
	assert.NotContains(t, data, "Please log in")
	assert.NotContains(t, data, "Sneaky")
	assert.NotContains(t, data, "Hacked")

	_, data = b.get("/settings")
	assert.Contains(t, data, "Please log in to access this page.")
}

func TestLogin(t *testing.T) {
	b := newApp(t, 0)

	_, data := b.post("/login", url.Values{"username": {"test"}, "password": {"123"}})
	assert.Contains(t, data, "Login success.")
	assert.Contains(t, data, "Logout")
	assert.Contains(t, data, "Settings")
	assert.Contains(t, data, "Delete")
	assert.Contains(t, data, "Edit")
	assert.Contains(t, data, `<form method="post">`)

	other := newApp(t, 0)
	_, data = other.post("/login", url.Values{"username": {"test"}, "password": {"456"}})
	assert.NotContains(t, data, "Login success.")
	assert.Contains(t, data, "Invalid username or password.")

	_, data = other.post("/login", url.Values{"username": {"wrong"}, "password": {"123"}})
	assert.Contains(t, data, "Invalid username or password.")

	_, data = other.post("/login", url.Values{"username": {""}, "password": {"123"}})
	assert.Contains(t, data, "Invalid input.")

	_, data = other.post("/login", url.Values{"username": {"test"}, "password": {""}})
	assert.Contains(t, data, "Invalid input.")

	status, _ := other.post("/login", url.Values{"username": {"test"}})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLogout(t *testing.T) {
	b := newApp(t, 0)
	b.login()

	_, data := b.get("/logout")
	assert.Contains(t, data, "Goodbye.")
	assert.NotContains(t, data, "Logout")
	assert.NotContains(t, data, "Settings")
	assert.NotContains(t, data, "Delete")
	assert.NotContains(t, data, "Edit")
	assert.NotContains(t, data, `<form method="post">`)

	_, data = b.get("/logout")
	assert.Contains(t, data, "Please log in to access this page.")
}

func TestSettings(t *testing.T) {
	b := newApp(t, 0)
	b.login()

	_, data := b.get("/settings")
	assert.Contains(t, data, "Settings")
	assert.Contains(t, data, "Your Name")

	_, data = b.post("/settings", url.Values{"name": {"Grey Li"}})
	assert.Contains(t, data, "Settings updated.")
	assert.Contains(t, data, "Grey Li's Watchlist")

	_, data = b.post("/settings", url.Values{"name": {""}})
	assert.NotContains(t, data, "Settings updated.")
	assert.Contains(t, data, "Invalid input.")

	status, _ := b.post("/settings", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestLoginRateLimit(t *testing.T) {
	b := newApp(t, 2)
	form := url.Values{"username": {"test"}, "password": {"456"}}
	for range 2 {
		_, data := b.post("/login", form)
		assert.Contains(t, data, "Invalid username or password.")
	}
	status, data := b.post("/login", form)
	assert.Equal(t, fiber.StatusTooManyRequests, status)
	assert.Contains(t, data, "Too Many Requests - 429")
}

func TestMethodNotAllowed(t *testing.T) {
	b := newApp(t, 0)
	status, data := b.get("/movie/delete/1")
	assert.Equal(t, fiber.StatusMethodNotAllowed, status)
	assert.Contains(t, data, "Go Back")
}
