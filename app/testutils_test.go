package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sushihentaime/quillpost/internal/blogservice"
	"github.com/sushihentaime/quillpost/internal/commentservice"
	"github.com/sushihentaime/quillpost/internal/common"
	"github.com/sushihentaime/quillpost/internal/userservice"
)

const testJWTSecret = "test-jwt-secret"

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

type testResponse struct {
	status  int
	header  http.Header
	cookies []*http.Cookie
	body    []byte
}

// envelope decodes the body as a JSON object.
func (res testResponse) envelope(t *testing.T) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(res.body, &env); err != nil {
		t.Fatalf("could not decode %q: %v", res.body, err)
	}
	return env
}

func (res testResponse) decode(t *testing.T, dst any) {
	t.Helper()

	if err := json.Unmarshal(res.body, dst); err != nil {
		t.Fatalf("could not decode %q: %v", res.body, err)
	}
}

func (res testResponse) cookie(name string) *http.Cookie {
	for _, c := range res.cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func testConfig() *Config {
	return &Config{
		Port:         ":4000",
		Environment:  "development",
		Version:      "test",
		JWTSecretKey: testJWTSecret,
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestApplication wires the services against a fresh migrated database.
func newTestApplication(t *testing.T) (*application, *sql.DB) {
	t.Helper()

	db := common.TestDB(t)
	cfg := testConfig()
	logger := newTestLogger()

	tokens := userservice.NewTokenService(cfg.JWTSecretKey, userservice.TokenTTL)
	comments := commentservice.NewCommentService(db, common.DiscardProducer, logger)

	app := &application{
		config:         cfg,
		logger:         logger,
		limiters:       common.NewCache(time.Minute, time.Minute),
		userService:    userservice.NewUserService(db, tokens, common.DiscardProducer, logger),
		commentService: comments,
		blogService:    blogservice.NewBlogService(db, comments),
	}

	return app, db
}

func (ts *testServer) do(t *testing.T, method, path string, payload any, cookie *http.Cookie) testResponse {
	t.Helper()

	var body io.Reader
	switch p := payload.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(p)
	default:
		js, err := json.Marshal(p)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(js)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	return testResponse{
		status:  res.StatusCode,
		header:  res.Header,
		cookies: res.Cookies(),
		body:    responseBody,
	}
}

func (ts *testServer) get(t *testing.T, path string, cookie *http.Cookie) testResponse {
	return ts.do(t, http.MethodGet, path, nil, cookie)
}

func (ts *testServer) post(t *testing.T, path string, payload any, cookie *http.Cookie) testResponse {
	return ts.do(t, http.MethodPost, path, payload, cookie)
}

func (ts *testServer) put(t *testing.T, path string, payload any, cookie *http.Cookie) testResponse {
	return ts.do(t, http.MethodPut, path, payload, cookie)
}

func (ts *testServer) delete(t *testing.T, path string, payload any, cookie *http.Cookie) testResponse {
	return ts.do(t, http.MethodDelete, path, payload, cookie)
}

// register signs up a user and returns its session cookie.
func (ts *testServer) register(t *testing.T, username, email, password string) *http.Cookie {
	t.Helper()

	res := ts.post(t, "/api/user/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
	if res.status != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", username, res.status, res.body)
	}

	c := res.cookie(tokenCookieName)
	if c == nil {
		t.Fatalf("register %s: no token cookie", username)
	}
	return c
}

func (ts *testServer) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()

	res := ts.post(t, "/api/user/login", map[string]string{
		"email":    email,
		"password": password,
	}, nil)
	if res.status != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", email, res.status, res.body)
	}

	c := res.cookie(tokenCookieName)
	if c == nil {
		t.Fatalf("login %s: no token cookie", email)
	}
	return c
}

func (ts *testServer) createBlog(t *testing.T, cookie *http.Cookie, payload map[string]any) blogservice.Blog {
	t.Helper()

	res := ts.post(t, "/api/blogs", payload, cookie)
	if res.status != http.StatusCreated {
		t.Fatalf("create blog: status %d body %s", res.status, res.body)
	}

	var blog blogservice.Blog
	res.decode(t, &blog)
	return blog
}

func hiBlog() map[string]any {
	return map[string]any{"title": "Hi", "slug": "hi", "excerpt": "e", "content": "c"}
}
