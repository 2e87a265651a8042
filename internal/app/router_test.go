package app

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mandalnilabja/goatlate/internal/config"
	"github.com/mandalnilabja/goatlate/internal/storage"
	"github.com/mandalnilabja/goatlate/internal/transport/http/handler"
	"github.com/mandalnilabja/goatlate/internal/types"
)

// wordsStream yields its words in order.
type wordsStream struct {
	words []string
}

func (s *wordsStream) Recv() (string, error) {
	if len(s.words) == 0 {
		return "", io.EOF
	}
	w := s.words[0]
	s.words = s.words[1:]
	return w, nil
}

func (s *wordsStream) Usage() *types.Usage { return nil }
func (s *wordsStream) Close() error        { return nil }

type fakeProvider struct {
	panics bool
}

func (f *fakeProvider) Name() string { return config.ProviderGemini }

func (f *fakeProvider) Generate(ctx context.Context, req *types.GenerateRequest) (types.TextStream, error) {
	if f.panics {
		panic("boom")
	}
	return &wordsStream{words: []string{"Bon", "jour"}}, nil
}

func (f *fakeProvider) ListModels(ctx context.Context, apiKey string) ([]types.Model, error) {
	return []types.Model{{ID: "gemini-2.0-flash", Provider: config.ProviderGemini}}, nil
}

func newCache(t *testing.T) *ristretto.Cache[string, any] {
	t.Helper()
	cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: 1000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	return cache
}

type routerSetup struct {
	webUI     bool
	adminHash string
	apiKey    string
	provider  *fakeProvider
	store     storage.Storage
}

func newTestRouter(t *testing.T, s routerSetup) (http.Handler, *handler.Repo) {
	t.Helper()
	if s.provider == nil {
		s.provider = &fakeProvider{}
	}
	cfg := &config.Config{
		Provider:    config.ProviderGemini,
		Model:       "gemini-2.0-flash",
		APIKey:      s.apiKey,
		Languages:   config.DefaultLanguages,
		EnableWebUI: s.webUI,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := newCache(t)
	repo := handler.NewRepo(handler.Deps{
		Config:   cfg,
		Provider: s.provider,
		Storage:  s.store,
		Cache:    cache,
		WebFS: fstest.MapFS{
			"index.html":    {Data: []byte("<title>Goatlate</title>")},
			"static/app.js": {Data: []byte("// app")},
		},
		Logger: logger,
	})
	router := NewRouter(repo, &RouterOptions{
		EnableWebUI:       s.webUI,
		AdminPasswordHash: s.adminHash,
		AuthCache:         cache,
		Logger:            logger,
	})
	return router, repo
}

func serve(router http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	router, _ := newTestRouter(t, routerSetup{apiKey: "key"})

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"health", http.MethodGet, "/api/health", http.StatusOK},
		{"languages", http.MethodGet, "/api/languages", http.StatusOK},
		{"models", http.MethodGet, "/api/models", http.StatusOK},
		{"root status", http.MethodGet, "/", http.StatusOK},
		{"chat wrong method", http.MethodGet, "/api/chat", http.StatusMethodNotAllowed},
		{"unknown", http.MethodGet, "/api/unknown", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.method, tt.target, "", nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRelayRoutesStream(t *testing.T) {
	router, repo := newTestRouter(t, routerSetup{apiKey: "key"})

	tests := []struct {
		name   string
		target string
		body   string
	}{
		{"unified translate", "/api/chat", `{"text":"Hello","targetLang":"French"}`},
		{"unified chat", "/api/chat", `{"messages":[{"role":"user","content":"Hi"}]}`},
		{"translate", "/api/translate", `{"text":"Hello","targetLang":"French"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodPost, tt.target, tt.body, map[string]string{"Content-Type": "application/json"})
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "Bonjour", rec.Body.String())
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
	repo.Relay.Wait()
}

func TestRelayMissingKeyThroughRouter(t *testing.T) {
	router, _ := newTestRouter(t, routerSetup{})

	rec := serve(router, http.MethodPost, "/api/chat", `{"text":"Hello","targetLang":"French"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"❌ Missing Google Generative AI API Key"}`, rec.Body.String())
}

func TestPanicIsRecovered(t *testing.T) {
	router, _ := newTestRouter(t, routerSetup{apiKey: "key", provider: &fakeProvider{panics: true}})

	rec := serve(router, http.MethodPost, "/api/chat", `{"text":"Hello","targetLang":"French"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAdminRoutes(t *testing.T) {
	t.Run("not mounted without hash", func(t *testing.T) {
		router, _ := newTestRouter(t, routerSetup{})
		rec := serve(router, http.MethodGet, "/api/admin/info", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	params := storage.PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}
	hash, err := storage.HashPassword("correct-horse", params)
	require.NoError(t, err)
	router, _ := newTestRouter(t, routerSetup{adminHash: hash})

	t.Run("requires auth", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/api/admin/info", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("accepts password", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/api/admin/info", "", map[string]string{"Authorization": "Bearer correct-horse"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ledger disabled", func(t *testing.T) {
		rec := serve(router, http.MethodGet, "/api/admin/logs", "", map[string]string{"Authorization": "Bearer correct-horse"})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestWebUIRoutes(t *testing.T) {
	router, _ := newTestRouter(t, routerSetup{webUI: true})

	rec := serve(router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Goatlate")

	rec = serve(router, http.MethodGet, "/static/app.js", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodGet, "/static/missing.js", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, routerSetup{})

	rec := serve(router, http.MethodOptions, "/api/chat", "", map[string]string{
		"Origin":                        "http://example.com",
		"Access-Control-Request-Method": http.MethodPost,
	})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServerShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := &config.Config{ServerPort: ln.Addr().String(), ReadTimeout: time.Second, WriteTimeout: time.Second}
	srv := NewServer(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}), slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String())
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
