package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"catalog_system/internal/config"
	"catalog_system/internal/db/dbtest"
	"catalog_system/internal/domain"
	"catalog_system/internal/middleware"
	"catalog_system/internal/service"
	"catalog_system/internal/session"
	"catalog_system/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

type testServer struct {
	router  *gin.Engine
	db      *gorm.DB
	uploads string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := dbtest.Seeded(t)
	uploads := t.TempDir()
	web := t.TempDir()
	for _, page := range []string{"login.html", "index.html", "admin.html"} {
		require.NoError(t, os.WriteFile(filepath.Join(web, page), []byte("<html>"+page+"</html>"), 0o644))
	}
	files, err := storage.NewDiskStore(uploads)
	require.NoError(t, err)

	cfg := &config.Config{UploadDir: uploads, WebDir: web, CORSOrigins: []string{"*"}}
	router := NewRouter(Deps{
		Config:        cfg,
		DB:            gdb,
		Auth:          service.NewAuthService(gdb),
		Sessions:      session.NewManager(session.NewMemoryStore(), "test-secret", time.Hour),
		Categories:    service.NewCategoryService(gdb),
		Logos:         service.NewLogoService(gdb, files),
		PrintSettings: service.NewPrintSettingsService(gdb),
		Products:      service.NewProductService(gdb),
		Metrics:       middleware.NewMetrics(),
		LoginLimiter:  middleware.NewRateLimiter(1000, 1000),
	})
	return &testServer{router: router, db: gdb, uploads: uploads}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": username, "password": password}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func (s *testServer) createUser(t *testing.T, admin *http.Cookie, username, role string) uint {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/users", gin.H{"username": username, "password": "secret", "role": role}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var body struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.ID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestLoginFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "admin", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid username or password"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "admin"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/auth/me", nil, nil).Code)

	cookie := s.login(t, "admin", "admin123")
	assert.True(t, cookie.HttpOnly)

	me := decode[map[string]any](t, s.do(t, http.MethodGet, "/api/auth/me", nil, cookie))
	assert.Equal(t, "admin", me["username"])
	assert.Equal(t, "admin", me["role"])
	assert.NotContains(t, me, "password_hash")

	w = s.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/auth/me", nil, cookie).Code, "ended session is rejected")
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	s := newTestServer(t)
	cookie := s.login(t, "admin", "admin123")
	forged := &http.Cookie{Name: session.CookieName, Value: cookie.Value + "x"}
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/auth/me", nil, forged).Code)
}

func TestDeactivatedAccountCannotLogin(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123")
	id := s.createUser(t, admin, "carol", domain.RoleUser)
	carol := s.login(t, "carol", "secret")

	w := s.do(t, http.MethodPost, "/api/users/"+itoa(id)+"/toggle-status", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["is_active"])

	w = s.do(t, http.MethodPost, "/api/auth/login", gin.H{"username": "carol", "password": "secret"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Account is deactivated"}`, w.Body.String())
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/auth/me", nil, carol).Code, "existing session stops working")
}

func TestUserAdministration(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123")
	id := s.createUser(t, admin, "bob", domain.RoleUser)
	bob := s.login(t, "bob", "secret")

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/users", nil, bob).Code)

	users := decode[[]domain.PublicUser](t, s.do(t, http.MethodGet, "/api/users", nil, admin))
	require.Len(t, users, 2)
	assert.Equal(t, "bob", users[0].Username)

	w := s.do(t, http.MethodPost, "/api/users", gin.H{"username": "bob", "password": "x"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Username already exists"}`, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/users/"+itoa(id), gin.H{"role": "user", "full_name": "Bob B", "password": "changed"}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	s.login(t, "bob", "changed")

	w = s.do(t, http.MethodPut, "/api/users/"+itoa(id), gin.H{"role": "owner"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/users/"+itoa(id), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/auth/me", nil, bob).Code, "deleted user's session is anonymous")

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/users/"+itoa(id), nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/users/abc", nil, admin).Code)
}

func TestSelfTargetIsForbidden(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123")
	me := decode[domain.PublicUser](t, s.do(t, http.MethodGet, "/api/auth/me", nil, admin))
	self := "/api/users/" + itoa(me.ID)

	// A second admin rules out the last-admin protections.
	s.createUser(t, admin, "root2", domain.RoleAdmin)

	w := s.do(t, http.MethodDelete, self, nil, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Cannot delete your own account"}`, w.Body.String())

	w = s.do(t, http.MethodPost, self+"/toggle-status", nil, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Cannot deactivate your own account"}`, w.Body.String())

	w = s.do(t, http.MethodPut, self, gin.H{"role": "user"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Cannot change your own role"}`, w.Body.String())

	w = s.do(t, http.MethodPut, self, gin.H{"role": "admin", "email": "root@example.com"}, admin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLastAdminThroughAPI(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123")
	other := s.createUser(t, admin, "root2", domain.RoleAdmin)
	root2 := s.login(t, "root2", "secret")

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/users/"+itoa(other), nil, admin).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/users", nil, root2).Code)
}

func TestProductEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123")
	s.createUser(t, admin, "viewer", domain.RoleUser)
	viewer := s.login(t, "viewer", "secret")

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/products", nil, nil).Code)

	list := decode[[]domain.ProductView](t, s.do(t, http.MethodGet, "/api/products", nil, viewer))
	assert.Len(t, list, 4)

	w := s.do(t, http.MethodPut, "/api/products/9999", gin.H{"name": "x", "price": 1}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, w.Body.String())

	w = s.do(t, http.MethodPut, "/api/products/9999", gin.H{"name": "x", "price": -1}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/products", gin.H{"code": "2001", "name": "Cable", "price": "99.5"}, viewer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/products", gin.H{"code": "2001", "name": "Cable", "price": "99.5"}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Product created successfully", decode[map[string]any](t, w)["message"])

	got := decode[domain.ProductView](t, s.do(t, http.MethodGet, "/api/products/2001", nil, viewer))
	assert.Equal(t, 99.5, got.Price)
	assert.Equal(t, "logo.png", got.LogoURL)

	w = s.do(t, http.MethodPost, "/api/products", gin.H{"code": "2002", "name": "Cable", "price": "cheap"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Price must be a number"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/products", gin.H{"code": "1001", "name": "Dup", "price": 5}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Product code already exists"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/products", gin.H{"name": "No code", "price": 5}, admin)
	assert.JSONEq(t, `{"error":"Field code is required"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/products", "{not json", admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodPut, "/api/products/2001", gin.H{"name": "Cable v2", "price": 120}, admin).Code)
	got = decode[domain.ProductView](t, s.do(t, http.MethodGet, "/api/products/2001", nil, viewer))
	assert.Equal(t, "Cable v2", got.Name)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/products/2001", nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/products/2001", nil, viewer).Code)
}

func TestCategoryEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123")

	categories := decode[[]domain.Category](t, s.do(t, http.MethodGet, "/api/categories", nil, admin))
	require.Len(t, categories, 5)
	var accessories domain.Category
	for _, c := range categories {
		if c.Name == "Accessories" {
			accessories = c
		}
	}
	require.NotZero(t, accessories.ID)

	w := s.do(t, http.MethodPost, "/api/categories", gin.H{"name": "Laptops"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/categories", gin.H{"name": "Cables"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[domain.Category](t, w)

	w = s.do(t, http.MethodPut, "/api/categories/"+itoa(created.ID), gin.H{"name": "Adapters"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Adapters", decode[domain.Category](t, w).Name)

	w = s.do(t, http.MethodDelete, "/api/categories/"+itoa(accessories.ID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 4, decode[map[string]any](t, w)["detached_products"])

	products := decode[[]domain.ProductView](t, s.do(t, http.MethodGet, "/api/products", nil, admin))
	for _, p := range products {
		assert.Nil(t, p.CategoryID)
		assert.Nil(t, p.CategoryName)
	}

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/categories/9999", nil, admin).Code)
}

func multipartLogo(t *testing.T, filename, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if name != "" {
		require.NoError(t, mw.WriteField("name", name))
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func (s *testServer) upload(t *testing.T, cookie *http.Cookie, filename, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartLogo(t, filename, name, content)
	req := httptest.NewRequest(http.MethodPost, "/api/logos", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestLogoEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123")

	w := s.upload(t, admin, "partner.png", "Partner", []byte("png-bytes"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	logo := decode[domain.Logo](t, w)
	assert.Equal(t, "Partner", logo.Name)
	assert.Equal(t, domain.LogoTypeCustom, logo.Type)

	w = s.do(t, http.MethodGet, "/uploads/"+logo.Filename, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())

	w = s.upload(t, admin, "", "Nothing", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No file uploaded"}`, w.Body.String())

	w = s.upload(t, admin, "notes.txt", "", []byte("text"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	logos := decode[[]domain.Logo](t, s.do(t, http.MethodGet, "/api/logos", nil, admin))
	require.Len(t, logos, 3)
	w = s.do(t, http.MethodDelete, "/api/logos/"+itoa(logos[0].ID), nil, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Cannot delete default logos"}`, w.Body.String())

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, "/api/logos/"+itoa(logo.ID), nil, admin).Code)
	_, err := os.Stat(filepath.Join(s.uploads, logo.Filename))
	assert.True(t, os.IsNotExist(err))
}

func TestPrintSettingsEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123")
	s.createUser(t, admin, "printer", domain.RoleUser)
	user := s.login(t, "printer", "secret")

	view := decode[service.PrintSettingsView](t, s.do(t, http.MethodGet, "/api/print-settings", nil, user))
	require.NotNil(t, view.LogoFilename)
	assert.Equal(t, "logowhite.png", *view.LogoFilename)

	w := s.do(t, http.MethodPost, "/api/print-settings", gin.H{"page_size": "A5", "font_size": 20, "logo_id": nil}, user)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	view = decode[service.PrintSettingsView](t, s.do(t, http.MethodGet, "/api/print-settings", nil, user))
	assert.Equal(t, "A5", view.PageSize)
	assert.Equal(t, 20, view.FontSize)
	assert.Nil(t, view.LogoID)
	assert.Nil(t, view.LogoFilename)

	w = s.do(t, http.MethodPost, "/api/print-settings", gin.H{"logo_id": 9999}, user)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var rows int64
	require.NoError(t, s.db.Model(&domain.PrintSettings{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestPages(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, "admin", "admin123")
	s.createUser(t, admin, "pat", domain.RoleUser)
	user := s.login(t, "pat", "secret")

	w := s.do(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	w = s.do(t, http.MethodGet, "/login", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "login.html")

	w = s.do(t, http.MethodGet, "/login", nil, user)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = s.do(t, http.MethodGet, "/", nil, user)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/admin", nil, user)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = s.do(t, http.MethodGet, "/admin", nil, admin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin.html")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	s.login(t, "admin", "admin123")
	w = s.do(t, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `catalog_auth_logins_total{result="success"} 1`)
}
