package route

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imghost/config"
	"imghost/controller"
	"imghost/kv"
	"imghost/logger"
	"imghost/metadata"
	"imghost/models"
	"imghost/objects"
	"imghost/service"
	"imghost/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testUser     = "admin"
	testPassword = "correct horse"
	cookieName   = "auth_token"
)

type harness struct {
	router  *gin.Engine
	objects objects.Store
	meta    *metadata.Store
}

func newHarness(t *testing.T, secret string, maxSize int64) *harness {
	t.Helper()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	objs, err := objects.NewFSStore(t.TempDir())
	require.NoError(t, err)

	l := logger.Nop()
	meta := metadata.New(kv.NewBadgerBackend(db), l)
	images := service.NewImages(meta, objs, maxSize, l)
	auth := service.NewAuth(
		utils.Credentials{Username: testUser, Password: testPassword},
		utils.NewTokens(secret, 0),
	)

	zl := zerolog.Nop()
	router := NewRouter(
		Handlers{
			Auth:   controller.NewAuthController(auth, controller.CookieConfig{Name: cookieName, Secure: true}, l),
			Images: controller.NewImagesController(images, l),
		},
		auth,
		Options{
			CORS:           config.CORS{AllowedOrigins: []string{"https://img.example.com"}},
			CookieName:     cookieName,
			RequestTimeout: 5 * time.Second,
		},
		&zl,
	)

	return &harness{router: router, objects: objs, meta: meta}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) login(t *testing.T) *http.Cookie {
	t.Helper()

	body := `{"username":"` + testUser + `","password":"` + testPassword + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := h.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

func uploadRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (h *harness) upload(t *testing.T, cookie *http.Cookie, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := uploadRequest(t, filename, contentType, data)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return h.do(req)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestUploadThenServe(t *testing.T) {
	h := newHarness(t, "secret", 10<<20)
	cookie := h.login(t)
	data := bytes.Repeat([]byte{0x89, 0x50, 0x4e, 0x47}, 256)

	w := h.upload(t, cookie, "cat.png", "image/png", data)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.UploadResponse](t, w)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Image)
	id := resp.Image.ID
	assert.NotEmpty(t, id)
	assert.Equal(t, int64(1024), resp.Image.Size)
	assert.Equal(t, "images/"+id+"/cat.png", resp.Image.R2Key)

	w = h.do(httptest.NewRequest(http.MethodGet, "/i/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, data, w.Body.Bytes())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, `"`+id+`"`, w.Header().Get("ETag"))
	assert.Equal(t, "public, max-age=31536000, immutable", w.Header().Get("Cache-Control"))
	assert.Equal(t, "public, max-age=31536000", w.Header().Get("CDN-Cache-Control"))
	assert.Equal(t, `inline; filename=cat.png`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, resp.Image.UploadTime.UTC().Format(http.TimeFormat), w.Header().Get("Last-Modified"))
}

func TestServeConditionalAndHead(t *testing.T) {
	h := newHarness(t, "secret", 10<<20)
	cookie := h.login(t)

	w := h.upload(t, cookie, "a.gif", "image/gif", []byte("GIF89a-data"))
	require.Equal(t, http.StatusOK, w.Code)
	id := decode[models.UploadResponse](t, w).Image.ID

	req := httptest.NewRequest(http.MethodGet, "/i/"+id, nil)
	req.Header.Set("If-None-Match", `"`+id+`"`)
	w = h.do(req)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = h.do(httptest.NewRequest(http.MethodHead, "/i/"+id, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "11", w.Header().Get("Content-Length"))
	assert.Equal(t, "image/gif", w.Header().Get("Content-Type"))
	assert.Empty(t, w.Body.Bytes())
}

func TestUploadRejectsPdf(t *testing.T) {
	h := newHarness(t, "secret", 10<<20)
	cookie := h.login(t)

	w := h.upload(t, cookie, "doc.pdf", "application/pdf", []byte("%PDF-1.7"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[models.ErrorResponse](t, w)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "Allowed types")

	records, err := h.meta.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUploadMissingFile(t *testing.T) {
	h := newHarness(t, "secret", 10<<20)
	cookie := h.login(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	w := h.do(req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"No file provided"}`, w.Body.String())
}

func TestUploadOversized(t *testing.T) {
	h := newHarness(t, "secret", 1024)
	cookie := h.login(t)

	w := h.upload(t, cookie, "big.png", "image/png", bytes.Repeat([]byte{1}, 2048))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[models.ErrorResponse](t, w).Error, "1.0 KiB")

	w = h.upload(t, cookie, "huge.png", "image/png", bytes.Repeat([]byte{1}, 2<<20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestUnauthenticatedAccess(t *testing.T) {
	h := newHarness(t, "secret", 10<<20)

	w := h.do(httptest.NewRequest(http.MethodGet, "/api/images", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Not authenticated"}`, w.Body.String())

	w = h.upload(t, nil, "cat.png", "image/png", []byte{1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(httptest.NewRequest(http.MethodDelete, "/api/images/abc", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "forged.token.value"})
	w = h.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid or expired token"}`, w.Body.String())
}

func TestMissingSecretIsServerError(t *testing.T) {
	h := newHarness(t, "", 10<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		bytes.NewBufferString(`{"username":"admin","password":"correct horse"}`))
	req.Header.Set("Content-Type", "application/json")
	w := h.do(req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Server configuration error"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/images", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "whatever"})
	w = h.do(req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLoginLogoutCheckAuth(t *testing.T) {
	h := newHarness(t, "secret", 10<<20)

	w := h.do(httptest.NewRequest(http.MethodGet, "/api/check-auth", nil))
	assert.JSONEq(t, `{"authenticated":false}`, w.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"username":"admin","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w = h.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid username or password"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(`{"username":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	w = h.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	cookie := h.login(t)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 7*24*60*60, cookie.MaxAge)

	req = httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
	req.AddCookie(cookie)
	w = h.do(req)
	assert.JSONEq(t, `{"authenticated":true,"username":"admin"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
	req.Header.Set("Authorization", "Bearer "+cookie.Value)
	w = h.do(req)
	assert.JSONEq(t, `{"authenticated":true,"username":"admin"}`, w.Body.String())

	w = h.do(httptest.NewRequest(http.MethodPost, "/api/logout", nil))
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, cookieName, cleared[0].Name)
	assert.Empty(t, cleared[0].Value)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestListDetailDeleteThenServe(t *testing.T) {
	h := newHarness(t, "secret", 10<<20)
	cookie := h.login(t)

	first := decode[models.UploadResponse](t, h.upload(t, cookie, "one.png", "image/png", []byte("1111"))).Image
	time.Sleep(5 * time.Millisecond)
	second := decode[models.UploadResponse](t, h.upload(t, cookie, "two.jpg", "image/jpeg", []byte("2222"))).Image

	req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
	req.AddCookie(cookie)
	w := h.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[models.ImageListResponse](t, w)
	require.Equal(t, 2, list.Total)
	assert.Equal(t, second.ID, list.Images[0].ID)
	assert.Equal(t, first.ID, list.Images[1].ID)

	w = h.do(httptest.NewRequest(http.MethodGet, "/api/images/"+first.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, *first, decode[models.ImageMetadata](t, w))

	req = httptest.NewRequest(http.MethodDelete, "/api/images/"+first.ID, nil)
	req.AddCookie(cookie)
	w = h.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Image deleted successfully"}`, w.Body.String())

	w = h.do(httptest.NewRequest(http.MethodGet, "/i/"+first.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Image not found", w.Body.String())

	w = h.do(httptest.NewRequest(http.MethodGet, "/api/images/"+first.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/images/"+first.ID, nil)
	req.AddCookie(cookie)
	w = h.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/images", nil)
	req.AddCookie(cookie)
	list = decode[models.ImageListResponse](t, h.do(req))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, second.ID, list.Images[0].ID)
}

func TestServeMissingObject(t *testing.T) {
	h := newHarness(t, "secret", 10<<20)
	cookie := h.login(t)

	img := decode[models.UploadResponse](t, h.upload(t, cookie, "a.webp", "image/webp", []byte("RIFFxxxxWEBP"))).Image
	require.NoError(t, h.objects.Delete(context.Background(), img.R2Key))

	w := h.do(httptest.NewRequest(http.MethodGet, "/i/"+img.ID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Image file not found in storage", w.Body.String())
	assert.Empty(t, w.Header().Get("Cache-Control"))
	assert.Empty(t, w.Header().Get("CDN-Cache-Control"))
	assert.Empty(t, w.Header().Get("ETag"))
	assert.Empty(t, w.Header().Get("Last-Modified"))

	for _, inm := range []string{`"` + img.ID + `"`, "*"} {
		req := httptest.NewRequest(http.MethodGet, "/i/"+img.ID, nil)
		req.Header.Set("If-None-Match", inm)
		w = h.do(req)
		assert.Equal(t, http.StatusNotFound, w.Code, inm)
		assert.Empty(t, w.Header().Get("Cache-Control"), inm)
		assert.Empty(t, w.Header().Get("ETag"), inm)
	}
}

func TestEmptyListAndFallbacks(t *testing.T) {
	h := newHarness(t, "secret", 10<<20)
	cookie := h.login(t)

	req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
	req.AddCookie(cookie)
	w := h.do(req)
	assert.JSONEq(t, `{"images":[],"total":0}`, w.Body.String())

	w = h.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Not found"}`, w.Body.String())

	w = h.do(httptest.NewRequest(http.MethodPut, "/api/login", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := newHarness(t, "secret", 10<<20)

	req := httptest.NewRequest(http.MethodOptions, "/api/upload", nil)
	req.Header.Set("Origin", "https://img.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := h.do(req)

	assert.Equal(t, "https://img.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodOptions, "/api/upload", nil)
	req.Header.Set("Origin", "https://evil.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = h.do(req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
