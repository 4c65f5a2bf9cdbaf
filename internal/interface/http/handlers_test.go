package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/portofolio/internal/application"
	"github.com/oksasatya/portofolio/internal/domain/entity"
	"github.com/oksasatya/portofolio/internal/gate"
	"github.com/oksasatya/portofolio/internal/interface/middleware"
	"github.com/oksasatya/portofolio/pkg/helpers"
	"github.com/oksasatya/portofolio/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

var (
	errBoom   = errors.New("connection reset")
	ownerSess = &entity.Session{ID: "sid", UserID: "11111111-1111-1111-1111-111111111111", Email: "owner@example.com"}
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// withSession plays the edge gate: it attaches sess when non-nil.
func withSession(sess *entity.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess != nil {
			c.Set(middleware.CtxSession, sess)
			c.Set(middleware.CtxUserID, sess.UserID)
		}
		c.Next()
	}
}

func newEngine(sess *entity.Session) *gin.Engine {
	r := gin.New()
	r.Use(withSession(sess), middleware.Locale(entity.LangID, false))
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
	Error   map[string]any  `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

// ---- admin resources ----

type projectRows struct {
	rows    map[string]entity.Project
	failDel bool
}

func newProjectResource(store *projectRows) *Resource[entity.Project, application.ProjectInput] {
	get := func(_ context.Context, owner, id string) (*entity.Project, error) {
		p, ok := store.rows[id]
		if !ok || p.OwnerID != owner {
			return nil, application.ErrNotFound
		}
		return &p, nil
	}
	return &Resource[entity.Project, application.ProjectInput]{
		Entity: "project", Plural: "projects", Logger: quietLogger(),
		list: func(_ context.Context, owner string) ([]entity.Project, error) {
			out := []entity.Project{}
			for _, p := range store.rows {
				if p.OwnerID == owner {
					out = append(out, p)
				}
			}
			return out, nil
		},
		get: get,
		create: func(_ context.Context, owner string, in application.ProjectInput) (*entity.Project, error) {
			if in.Category == "invalid" {
				return nil, &application.ValidationError{Field: "category", Message: "is not allowed"}
			}
			p := entity.Project{ID: uuid.NewString(), OwnerID: owner, Title: entity.Localized{ID: in.Title.ID, EN: in.Title.EN}}
			store.rows[p.ID] = p
			return &p, nil
		},
		update: func(ctx context.Context, owner, id string, in application.ProjectInput) (*entity.Project, error) {
			p, err := get(ctx, owner, id)
			if err != nil {
				return nil, err
			}
			p.Title = entity.Localized{ID: in.Title.ID, EN: in.Title.EN}
			store.rows[id] = *p
			return p, nil
		},
		remove: func(ctx context.Context, owner, id string) error {
			if store.failDel {
				return errBoom
			}
			if _, err := get(ctx, owner, id); err != nil {
				return err
			}
			delete(store.rows, id)
			return nil
		},
	}
}

func adminEngine(sess *entity.Session, store *projectRows) *gin.Engine {
	r := newEngine(sess)
	newProjectResource(store).Register(r.Group("/admin"), "/portofolio")
	return r
}

func TestResource_WithoutSessionIs401(t *testing.T) {
	store := &projectRows{rows: map[string]entity.Project{}}
	r := adminEngine(nil, store)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/admin/portofolio", ""},
		{http.MethodPost, "/admin/portofolio", `{"title":{"id":"x"}}`},
		{http.MethodDelete, "/admin/portofolio/" + uuid.NewString(), ""},
	} {
		w := do(r, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.method)
		e := decode(t, w)
		assert.Equal(t, "no active session", e.Message)
		assert.Empty(t, e.Data)
	}
	assert.Empty(t, store.rows)
}

func TestResource_CreateStampsSessionOwner(t *testing.T) {
	store := &projectRows{rows: map[string]entity.Project{}}
	r := adminEngine(ownerSess, store)

	w := do(r, http.MethodPost, "/admin/portofolio", `{"owner_id":"someone-else","title":{"id":"Situs","en":"Site"}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p entity.Project
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &p))
	assert.Equal(t, ownerSess.UserID, p.OwnerID)
	assert.Equal(t, "Site", p.Title.EN)
}

func TestResource_BindingErrorsAre400WithDetails(t *testing.T) {
	r := adminEngine(ownerSess, &projectRows{rows: map[string]entity.Project{}})

	w := do(r, http.MethodPost, "/admin/portofolio", `{"title":{"en":"only english"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	e := decode(t, w)
	assert.Equal(t, "invalid payload", e.Message)
	assert.Equal(t, "is required", e.Error["title.id"])

	w = do(r, http.MethodPost, "/admin/portofolio", `{"title":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/admin/portofolio", `{"title":{"id":"x"},"category":"invalid"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "is not allowed", decode(t, w).Error["category"])
}

func TestResource_OtherOwnersRowIsNotFound(t *testing.T) {
	id := uuid.NewString()
	store := &projectRows{rows: map[string]entity.Project{id: {ID: id, OwnerID: "22222222-2222-2222-2222-222222222222"}}}
	r := adminEngine(ownerSess, store)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := do(r, method, "/admin/portofolio/"+id, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "project not found", decode(t, w).Message)
	}
	w := do(r, http.MethodPut, "/admin/portofolio/"+id, `{"title":{"id":"hijack"}}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, store.rows, 1)

	w = do(r, http.MethodGet, "/admin/portofolio", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w).Meta["total"])
}

func TestResource_StoreFailureNamesOperation(t *testing.T) {
	store := &projectRows{rows: map[string]entity.Project{}, failDel: true}
	w := do(adminEngine(ownerSess, store), http.MethodDelete, "/admin/portofolio/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "failed to delete project", decode(t, w).Message)
}

// ---- auth ----

type fakeAuth struct {
	res       *application.LoginResult
	err       error
	loggedOut []string
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (*application.LoginResult, error) {
	return f.res, f.err
}

func (f *fakeAuth) Logout(_ context.Context, sess *entity.Session) error {
	f.loggedOut = append(f.loggedOut, sess.UserID)
	return nil
}

type roleFunc func(ctx context.Context, userID string) (string, error)

func (f roleFunc) LookupRole(ctx context.Context, userID string) (string, error) {
	return f(ctx, userID)
}

func authEngine(sess *entity.Session, auth *fakeAuth, role string) *gin.Engine {
	g := gate.New(gate.Config{Timeout: 50 * time.Millisecond}, roleFunc(func(context.Context, string) (string, error) {
		return role, nil
	}), quietLogger())
	h := NewAuthHandler(auth, g, helpers.NewCookie("", false), quietLogger())
	r := newEngine(sess)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	return r
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r := authEngine(nil, &fakeAuth{err: application.ErrInvalidCredentials}, "")
	w := do(r, http.MethodPost, "/login", `{"email":"a@example.com","password":"wrong-password"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", decode(t, w).Message)
	assert.Empty(t, w.Header().Values("Set-Cookie"))
}

func TestLogin_AdminGetsDashboardRedirectAndCookies(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	auth := &fakeAuth{res: &application.LoginResult{
		UserID: ownerSess.UserID, Email: ownerSess.Email, IsAdmin: true,
		Tokens: application.TokenPair{AccessToken: "a", AccessTokenExpiry: exp, RefreshToken: "r", RefreshTokenExpiry: exp},
	}}
	w := do(authEngine(nil, auth, ""), http.MethodPost, "/login", `{"email":"owner@example.com","password":"secret-password"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var data map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, AdminHome, data["redirect"])
	cookies := strings.Join(w.Header().Values("Set-Cookie"), "\n")
	assert.Contains(t, cookies, helpers.AccessCookie+"=a")
	assert.Contains(t, cookies, "HttpOnly")
}

func TestLogin_NonAdminRedirectsHome(t *testing.T) {
	auth := &fakeAuth{res: &application.LoginResult{UserID: "u2"}}
	w := do(authEngine(nil, auth, ""), http.MethodPost, "/login", `{"email":"user@example.com","password":"secret-password"}`)
	var data map[string]any
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "/", data["redirect"])
}

func TestLoginPage(t *testing.T) {
	w := do(authEngine(ownerSess, &fakeAuth{}, entity.RoleAdmin), http.MethodGet, "/login", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, AdminHome, w.Header().Get("Location"))

	w = do(authEngine(ownerSess, &fakeAuth{}, entity.RoleUser), http.MethodGet, "/login?lang=en", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"page":"login","locale":"en"}`, string(decode(t, w).Data))
}

func TestLogout_ClearsCookies(t *testing.T) {
	auth := &fakeAuth{}
	w := do(authEngine(ownerSess, auth, entity.RoleAdmin), http.MethodPost, "/logout", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{ownerSess.UserID}, auth.loggedOut)
	assert.Contains(t, strings.Join(w.Header().Values("Set-Cookie"), "\n"), "Max-Age=0")
}

// ---- public site ----

type fakeSite struct {
	gallery *application.Gallery
	err     error
	lastQ   application.GalleryQuery
}

func (f *fakeSite) Landing(context.Context) (*application.Landing, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &application.Landing{
		Profile:  &entity.Profile{FullName: "Oka", Headline: entity.Localized{ID: "Pengembang", EN: "Developer"}},
		Featured: []entity.Project{{ID: "p1", Title: entity.Localized{ID: "Toko"}}},
	}, nil
}

func (f *fakeSite) Gallery(_ context.Context, q application.GalleryQuery) (*application.Gallery, error) {
	f.lastQ = q
	return f.gallery, f.err
}

func (f *fakeSite) Project(_ context.Context, id string) (*entity.Project, error) {
	if id != "p1" {
		return nil, application.ErrNotFound
	}
	return &entity.Project{ID: "p1", Title: entity.Localized{ID: "Toko", EN: "Shop"}}, nil
}

func (f *fakeSite) Profile(context.Context) (*entity.Profile, error) {
	return &entity.Profile{FullName: "Oka", Email: "oka@example.com"}, f.err
}

type fakeContact struct {
	got    application.ContactInput
	locale string
}

func (f *fakeContact) Submit(_ context.Context, in application.ContactInput, locale string) (*entity.ContactMessage, error) {
	f.got, f.locale = in, locale
	return &entity.ContactMessage{ID: "m1", CreatedAt: time.Now()}, nil
}

func siteEngine(site *fakeSite, contact *fakeContact) *gin.Engine {
	h := NewSiteHandler(site, contact, quietLogger())
	r := newEngine(nil)
	r.GET("/", h.Landing)
	r.GET("/portofolio", h.Gallery)
	r.GET("/portofolio/:id", h.Project)
	r.GET("/kontak", h.ContactPage)
	r.POST("/kontak", h.SubmitContact)
	return r
}

func TestLanding_LocalizedWithFallback(t *testing.T) {
	w := do(siteEngine(&fakeSite{}, &fakeContact{}), http.MethodGet, "/?lang=en", "")
	require.Equal(t, http.StatusOK, w.Code)

	var data landingView
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &data))
	assert.Equal(t, "Developer", data.Profile.Headline)
	require.Len(t, data.Featured, 1)
	assert.Equal(t, "Toko", data.Featured[0].Title, "falls back to Indonesian")
}

func TestGallery_PagingMeta(t *testing.T) {
	site := &fakeSite{gallery: &application.Gallery{
		Items: []entity.Project{{ID: "p1", Title: entity.Localized{ID: "Toko", EN: "Shop"}}},
		Page:  2, Limit: 9, Total: 10,
	}}
	w := do(siteEngine(site, &fakeContact{}), http.MethodGet, "/portofolio?q=toko&category=web&page=2", "")

	require.Equal(t, http.StatusOK, w.Code)
	e := decode(t, w)
	assert.EqualValues(t, 2, e.Meta["page"])
	assert.EqualValues(t, 10, e.Meta["total"])
	assert.Equal(t, application.GalleryQuery{Query: "toko", Category: "web", Page: 2}, site.lastQ)

	w = do(siteEngine(site, &fakeContact{}), http.MethodGet, "/portofolio?page=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProject_NotFound(t *testing.T) {
	w := do(siteEngine(&fakeSite{}, &fakeContact{}), http.MethodGet, "/portofolio/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "project not found", decode(t, w).Message)
}

func TestSite_OwnerUnset(t *testing.T) {
	w := do(siteEngine(&fakeSite{err: application.ErrSiteOwnerUnset}, &fakeContact{}), http.MethodGet, "/", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSubmitContact(t *testing.T) {
	contact := &fakeContact{}
	r := siteEngine(&fakeSite{}, contact)

	w := do(r, http.MethodPost, "/kontak?lang=en", `{"name":"Budi","email":"budi@example.com","message":"halo"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Budi", contact.got.Name)
	assert.Equal(t, entity.LangEN, contact.locale)

	w = do(r, http.MethodPost, "/kontak", `{"name":"Budi","email":"not-an-email","message":"halo"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "must be a valid email", decode(t, w).Error["email"])
}

// ---- messages ----

type fakeMessages struct {
	replyErr error
	replied  string
}

func (f *fakeMessages) List(context.Context, string) ([]entity.ContactMessage, error) {
	return []entity.ContactMessage{{ID: "a"}, {ID: "b", Read: true}}, nil
}
func (f *fakeMessages) MarkRead(context.Context, string, string) error { return nil }
func (f *fakeMessages) Delete(context.Context, string, string) error   { return application.ErrNotFound }
func (f *fakeMessages) Reply(_ context.Context, _, id string, _ application.ReplyInput) error {
	f.replied = id
	return f.replyErr
}

func messageEngine(msgs *fakeMessages) *gin.Engine {
	h := NewMessageHandler(msgs, quietLogger())
	r := newEngine(ownerSess)
	r.GET("/admin/pesan", h.List)
	r.PUT("/admin/pesan/:id/read", h.MarkRead)
	r.DELETE("/admin/pesan/:id", h.Delete)
	r.POST("/admin/pesan/:id/balas", h.Reply)
	return r
}

func TestMessages(t *testing.T) {
	msgs := &fakeMessages{}
	r := messageEngine(msgs)

	w := do(r, http.MethodGet, "/admin/pesan", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w).Meta["unread"])

	w = do(r, http.MethodPut, "/admin/pesan/a/read", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/admin/pesan/zzz", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "message not found", decode(t, w).Message)
}

func TestMessageReply(t *testing.T) {
	msgs := &fakeMessages{}
	w := do(messageEngine(msgs), http.MethodPost, "/admin/pesan/a/balas", `{"subject":"Re","message":"thanks"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "a", msgs.replied)

	msgs = &fakeMessages{replyErr: application.ErrMailDisabled}
	w = do(messageEngine(msgs), http.MethodPost, "/admin/pesan/a/balas", `{"subject":"Re","message":"thanks"}`)
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"enqueued":false,"disabled":true}`, string(decode(t, w).Data))

	w = do(messageEngine(msgs), http.MethodPost, "/admin/pesan/a/balas", `{"subject":"Re"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ---- upload ----

type fakeUploader struct {
	folder string
	body   []byte
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, _, folder string, r io.Reader) (*application.UploadResult, error) {
	f.folder = folder
	f.body, _ = io.ReadAll(r)
	if f.err != nil {
		return nil, f.err
	}
	return &application.UploadResult{URL: "https://cdn.example.com/x.png", Path: folder + "/x.png"}, nil
}

func multipartRequest(t *testing.T, path string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "x.png")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	up := &fakeUploader{}
	h := NewUploadHandler(up, 1<<10, quietLogger())
	r := newEngine(ownerSess)
	r.POST("/admin/upload", h.Upload)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/admin/upload?folder=projects", []byte("png-bytes")))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "projects", up.folder)
	assert.Equal(t, []byte("png-bytes"), up.body)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/admin/upload?folder=../etc", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/admin/upload?folder=projects", bytes.Repeat([]byte("a"), 2<<10)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	up.err = application.ErrUnsupportedFile
	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/admin/upload?folder=documents", []byte("not a pdf")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unsupported file type", decode(t, w).Message)
}

func TestUpload_RequiresSession(t *testing.T) {
	h := NewUploadHandler(&fakeUploader{}, 0, quietLogger())
	r := newEngine(nil)
	r.POST("/admin/upload", h.Upload)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, "/admin/upload?folder=projects", []byte("x")))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
