package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/isdelr/keypulse-be/internal/auth"
	"github.com/isdelr/keypulse-be/internal/database/sqlite"
	"github.com/isdelr/keypulse-be/internal/encryption"
	"github.com/isdelr/keypulse-be/internal/ratelimit"
	"github.com/isdelr/keypulse-be/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	tokens  *auth.TokenService
}

func newTestServer(t *testing.T, authLimit int) *testServer {
	t.Helper()
	return newTestServerWithProxy(t, authLimit, false)
}

func newTestServerWithProxy(t *testing.T, authLimit int, trustProxy bool) *testServer {
	t.Helper()
	ctx := context.Background()

	s, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key, err := encryption.ParseHexKey(strings.Repeat("5a", encryption.KeySize))
	require.NoError(t, err)
	cipher, err := encryption.New(key)
	require.NoError(t, err)

	tokens := auth.NewTokenService("router-test-secret", time.Hour)

	return &testServer{
		handler: NewRouter(Options{
			AccountService: services.NewAccountService(s, tokens),
			VaultService:   services.NewVaultService(s, cipher),
			Tokens:         tokens,
			AuthLimiter:    ratelimit.NewMemoryLimiter(authLimit, 15*time.Minute),
			Health:         s,
			CORSOrigins:    []string{"http://localhost:5173"},
			TrustProxy:     trustProxy,
		}),
		tokens: tokens,
	}
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (ts *testServer) registerAndLogin(t *testing.T, username, password string) (userID, token string) {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`

	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[struct {
		Success bool   `json:"success"`
		UserID  string `json:"userId"`
	}](t, rec)
	require.True(t, reg.Success)

	rec = ts.do(t, http.MethodPost, "/api/auth/login", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}](t, rec)
	require.True(t, login.Success)

	return reg.UserID, login.Token
}

type credentialJSON struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Site     string `json:"site"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func TestRouter_AliceScenario(t *testing.T) {
	ts := newTestServer(t, 100)

	aliceID, token := ts.registerAndLogin(t, "alice", "pw1")

	claims, err := ts.tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, aliceID, claims.UserID)

	rec := ts.do(t, http.MethodPost, "/api/passwords", token,
		`{"site":"github.com","username":"alice","password":"s3cr3t"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[struct {
		Success bool `json:"success"`
		Result  struct {
			Acknowledged bool   `json:"acknowledged"`
			InsertedID   string `json:"insertedId"`
		} `json:"result"`
		Password credentialJSON `json:"password"`
	}](t, rec)
	assert.True(t, created.Success)
	assert.True(t, created.Result.Acknowledged)
	assert.Equal(t, created.Password.ID, created.Result.InsertedID)
	assert.Equal(t, "s3cr3t", created.Password.Password)
	id := created.Password.ID

	rec = ts.do(t, http.MethodGet, "/api/passwords", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]credentialJSON](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, credentialJSON{ID: id, UserID: aliceID, Site: "github.com", Username: "alice", Password: "s3cr3t"}, list[0])

	rec = ts.do(t, http.MethodPut, "/api/passwords/"+id, token,
		`{"site":"github.com","username":"alice","password":"n3w"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true,"result":{"acknowledged":true,"matchedCount":1,"modifiedCount":1}}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/passwords", token, "")
	list = decode[[]credentialJSON](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "n3w", list[0].Password)

	rec = ts.do(t, http.MethodDelete, "/api/passwords/"+id, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"result":{"acknowledged":true,"deletedCount":1}}`, rec.Body.String())

	rec = ts.do(t, http.MethodDelete, "/api/passwords/"+id, token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Password not found or unauthorized"}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/passwords", token, "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRouter_CrossAccountIsolation(t *testing.T) {
	ts := newTestServer(t, 100)
	_, aliceToken := ts.registerAndLogin(t, "alice", "pw1")
	_, bobToken := ts.registerAndLogin(t, "bob", "pw2")

	rec := ts.do(t, http.MethodPost, "/api/passwords", aliceToken,
		`{"id":"shared-id","site":"bank.com","username":"alice","password":"private"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/passwords", bobToken, "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = ts.do(t, http.MethodPut, "/api/passwords/shared-id", bobToken,
		`{"site":"x","username":"y","password":"z"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/passwords/shared-id", bobToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/passwords", aliceToken, "")
	list := decode[[]credentialJSON](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "private", list[0].Password)
	assert.Equal(t, "bank.com", list[0].Site)
}

func TestRouter_DuplicateSuppliedIDBothSucceed(t *testing.T) {
	ts := newTestServer(t, 100)
	_, token := ts.registerAndLogin(t, "alice", "pw1")

	for _, site := range []string{"one.com", "two.com"} {
		rec := ts.do(t, http.MethodPost, "/api/passwords", token,
			`{"id":"dup","site":"`+site+`","username":"alice","password":"pw"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := ts.do(t, http.MethodGet, "/api/passwords", token, "")
	list := decode[[]credentialJSON](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "one.com", list[0].Site)
	assert.Equal(t, "two.com", list[1].Site)
}

func TestRouter_RegisterConflictAndLoginFailures(t *testing.T) {
	ts := newTestServer(t, 100)
	ts.registerAndLogin(t, "alice", "pw1")

	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", `{"username":"alice","password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Username already exists"}`, rec.Body.String())

	wrong := ts.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"alice","password":"nope"}`)
	unknown := ts.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"mallory","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
}

func TestRouter_Validation(t *testing.T) {
	ts := newTestServer(t, 100)

	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", `{"username":"  ","password":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":[
		{"msg":"Username is required","path":"username","location":"body"},
		{"msg":"Password is required","path":"password","location":"body"}
	]}`, rec.Body.String())

	_, token := ts.registerAndLogin(t, "alice", "pw1")
	rec = ts.do(t, http.MethodPost, "/api/passwords", token, `{"site":"github.com","username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":[{"msg":"Password is required","path":"password","location":"body"}]}`, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/passwords", token, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
}

func TestRouter_VaultRequiresToken(t *testing.T) {
	ts := newTestServer(t, 100)

	rec := ts.do(t, http.MethodGet, "/api/passwords", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Access denied, no token provided"}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/passwords", "forged.token.value", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid or expired token"}`, rec.Body.String())
}

func TestRouter_AuthRateLimit(t *testing.T) {
	ts := newTestServer(t, 3)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := ts.do(t, http.MethodPost, "/api/auth/login", "", `{"username":"x","password":"y"}`)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{401, 401, 401, 429}, codes)

	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", `{"username":"x","password":"y"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "register shares the auth budget")
	assert.JSONEq(t, `{"error":"Too many requests, please try again later"}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code, "other routes are not limited")
}

func (ts *testServer) loginFrom(t *testing.T, forwardedFor string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"x","password":"y"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec.Code
}

func TestRouter_AuthRateLimit_IgnoresForwardedFor(t *testing.T) {
	ts := newTestServer(t, 3)

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		codes = append(codes, ts.loginFrom(t, fmt.Sprintf("10.0.0.%d", i)))
	}

	assert.Equal(t, []int{401, 401, 401, 429, 429}, codes, "rotating X-Forwarded-For must not reset the budget")
}

func TestRouter_AuthRateLimit_TrustedProxy(t *testing.T) {
	ts := newTestServerWithProxy(t, 1, true)

	assert.Equal(t, http.StatusUnauthorized, ts.loginFrom(t, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, ts.loginFrom(t, "10.0.0.1"))
	assert.Equal(t, http.StatusUnauthorized, ts.loginFrom(t, "10.0.0.2"), "each forwarded client has its own budget")
}

func TestRouter_CORS(t *testing.T) {
	ts := newTestServer(t, 100)

	req := httptest.NewRequest(http.MethodOptions, "/api/passwords", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/passwords", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Health(t *testing.T) {
	ts := newTestServer(t, 100)

	rec := ts.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
