package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"tinylink.local/internal/app/links"
	"tinylink.local/web"
	"tinylink.local/web/middleware"
)

// fakeStore 模拟 Postgres 层的约束行为（活跃码唯一、原子计数），
// 让 handler 测试不依赖真实数据库。
type fakeStore struct {
	mu   sync.Mutex
	rows []*links.Link
}

func (f *fakeStore) Insert(ctx context.Context, code, target string) (links.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Code == code && !row.Deleted {
			return links.Link{}, links.ErrCodeTaken
		}
	}
	row := &links.Link{Code: code, Target: target, CreatedAt: time.Now()}
	f.rows = append(f.rows, row)
	return *row, nil
}

func (f *fakeStore) List(ctx context.Context, search string) ([]links.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []links.Link
	for i := len(f.rows) - 1; i >= 0; i-- { // 倒序 ~ created_at DESC
		row := f.rows[i]
		if row.Deleted {
			continue
		}
		if search != "" {
			needle := strings.ToLower(search)
			if !strings.Contains(strings.ToLower(row.Code), needle) &&
				!strings.Contains(strings.ToLower(row.Target), needle) {
				continue
			}
		}
		out = append(out, *row)
	}
	return out, nil
}

func (f *fakeStore) Find(ctx context.Context, code string) (links.Link, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Code == code && !row.Deleted {
			return *row, nil
		}
	}
	return links.Link{}, links.ErrNotFound
}

func (f *fakeStore) SoftDelete(ctx context.Context, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Code == code && !row.Deleted {
			row.Deleted = true
			return nil
		}
	}
	return links.ErrNotFound
}

func (f *fakeStore) ResolveAndCount(ctx context.Context, code string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.Code == code && !row.Deleted {
			row.Clicks++
			now := time.Now()
			row.LastClicked = &now
			return row.Target, nil
		}
	}
	return "", links.ErrNotFound
}

func setupEngine(t *testing.T) *web.Engine {
	return setupEngineWithBaseURL(t, "")
}

func setupEngineWithBaseURL(t *testing.T, baseURL string) *web.Engine {
	t.Helper()

	svc := links.NewService(&fakeStore{})

	r := web.New()
	r.Use(web.Recovery(), middleware.RequestID(), middleware.AccessLog())
	RegisterAPIRoutes(r.Group("/api"), svc, baseURL)
	RegisterPublicRoutes(r, svc)
	return r
}

func doJSON(t *testing.T, e *web.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestCreateGeneratedCode(t *testing.T) {
	e := setupEngine(t)

	w := doJSON(t, e, "POST", "/api/links", map[string]string{"target": "https://example.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	var resp CreateLinkResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Code) != links.GeneratedCodeLen || !links.IsValidCode(resp.Code) {
		t.Fatalf("code: got %q", resp.Code)
	}
	if resp.Target != "https://example.com" {
		t.Fatalf("target: got %q", resp.Target)
	}
	// 没配 BASE_URL 时按请求 Host 推导
	if resp.ShortURL != "http://example.com/"+resp.Code {
		t.Fatalf("short_url: got %q", resp.ShortURL)
	}
}

func TestCreateShortURLUsesBaseURL(t *testing.T) {
	e := setupEngineWithBaseURL(t, "https://s.example.com")

	w := doJSON(t, e, "POST", "/api/links", map[string]string{"target": "https://example.com", "code": "Branded1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	var resp CreateLinkResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.ShortURL != "https://s.example.com/Branded1" {
		t.Fatalf("short_url: got %q", resp.ShortURL)
	}
}

func TestCreateInvalidInput(t *testing.T) {
	e := setupEngine(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing target", map[string]string{}},
		{"bad scheme", map[string]string{"target": "ftp://example.com"}},
		{"not a url", map[string]string{"target": "nope"}},
		{"bad code", map[string]string{"target": "https://example.com", "code": "ab!"}},
		{"short code", map[string]string{"target": "https://example.com", "code": "abc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, e, "POST", "/api/links", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateExplicitCodeConflict(t *testing.T) {
	e := setupEngine(t)

	first := doJSON(t, e, "POST", "/api/links", map[string]string{"target": "https://a.example", "code": "Chosen1"})
	if first.Code != http.StatusCreated {
		t.Fatalf("first: got %d", first.Code)
	}
	second := doJSON(t, e, "POST", "/api/links", map[string]string{"target": "https://b.example", "code": "Chosen1"})
	if second.Code != http.StatusConflict {
		t.Fatalf("second: got %d, body %s", second.Code, second.Body.String())
	}
}

func TestListEmptyIsJSONArray(t *testing.T) {
	e := setupEngine(t)

	w := doJSON(t, e, "GET", "/api/links", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if got := strings.TrimSpace(w.Body.String()); got != "[]" {
		t.Fatalf("body: got %q, want []", got)
	}
}

func TestListSearchFilters(t *testing.T) {
	e := setupEngine(t)

	doJSON(t, e, "POST", "/api/links", map[string]string{"target": "https://example.com"})
	doJSON(t, e, "POST", "/api/links", map[string]string{"target": "https://other.org"})

	w := doJSON(t, e, "GET", "/api/links?q=exa", nil)
	var result []links.Link
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(result) != 1 || result[0].Target != "https://example.com" {
		t.Fatalf("result: %+v", result)
	}
}

func TestGetNotFound(t *testing.T) {
	e := setupEngine(t)

	w := doJSON(t, e, "GET", "/api/links/NoSuch1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", w.Code)
	}
}

func TestGetReturnsNullLastClicked(t *testing.T) {
	e := setupEngine(t)

	doJSON(t, e, "POST", "/api/links", map[string]string{"target": "https://example.com", "code": "Fresh01"})

	w := doJSON(t, e, "GET", "/api/links/Fresh01", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"last_clicked":null`) {
		t.Fatalf("body: %s", w.Body.String())
	}
}

func TestRedirectNotFoundIsPlainText(t *testing.T) {
	e := setupEngine(t)

	w := doJSON(t, e, "GET", "/NoSuch1", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", w.Code)
	}
	if w.Body.String() != "Not found" {
		t.Fatalf("body: got %q", w.Body.String())
	}
}

// 贯穿全流程：创建 -> 跳转计数 -> 删除 -> 删除后 404。
func TestLinkLifecycle(t *testing.T) {
	e := setupEngine(t)

	created := doJSON(t, e, "POST", "/api/links", map[string]string{"target": "https://example.com"})
	if created.Code != http.StatusCreated {
		t.Fatalf("create: got %d", created.Code)
	}
	var resp CreateLinkResponse
	if err := json.Unmarshal(created.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	redirect := doJSON(t, e, "GET", "/"+resp.Code, nil)
	if redirect.Code != http.StatusFound {
		t.Fatalf("redirect: got %d", redirect.Code)
	}
	if loc := redirect.Header().Get("Location"); loc != "https://example.com" {
		t.Fatalf("location: got %q", loc)
	}

	detail := doJSON(t, e, "GET", "/api/links/"+resp.Code, nil)
	var link links.Link
	if err := json.Unmarshal(detail.Body.Bytes(), &link); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if link.Clicks != 1 {
		t.Fatalf("clicks: got %d, want 1", link.Clicks)
	}
	if link.LastClicked == nil {
		t.Fatal("last_clicked should be set after redirect")
	}

	deleted := doJSON(t, e, "DELETE", "/api/links/"+resp.Code, nil)
	if deleted.Code != http.StatusNoContent {
		t.Fatalf("delete: got %d", deleted.Code)
	}

	if w := doJSON(t, e, "GET", "/"+resp.Code, nil); w.Code != http.StatusNotFound {
		t.Fatalf("redirect after delete: got %d", w.Code)
	}
	if w := doJSON(t, e, "DELETE", "/api/links/"+resp.Code, nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete: got %d", w.Code)
	}
}

// 删除后同一短码可以再次被占用（活跃码唯一策略）。
func TestCodeReuseAfterDelete(t *testing.T) {
	e := setupEngine(t)

	doJSON(t, e, "POST", "/api/links", map[string]string{"target": "https://old.example", "code": "Cycle01"})
	doJSON(t, e, "DELETE", "/api/links/Cycle01", nil)

	w := doJSON(t, e, "POST", "/api/links", map[string]string{"target": "https://new.example", "code": "Cycle01"})
	if w.Code != http.StatusCreated {
		t.Fatalf("recreate: got %d, body %s", w.Code, w.Body.String())
	}

	redirect := doJSON(t, e, "GET", "/Cycle01", nil)
	if loc := redirect.Header().Get("Location"); loc != "https://new.example" {
		t.Fatalf("location: got %q", loc)
	}
}

func TestStaticUIServed(t *testing.T) {
	e := setupEngine(t)
	RegisterWebRoutes(e)

	w := doJSON(t, e, "GET", "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("index: got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "TinyLink") {
		t.Fatalf("index body: %s", w.Body.String())
	}

	css := doJSON(t, e, "GET", "/static/style.css", nil)
	if css.Code != http.StatusOK {
		t.Fatalf("css: got %d", css.Code)
	}
	if ct := css.Header().Get("Content-Type"); !strings.Contains(ct, "text/css") {
		t.Fatalf("css content-type: %q", ct)
	}
}

// /code/:code 返回统计页外壳，数据由 code.js 再走 API 取；
// 短码不存在也要出页面，404 由页面内脚本呈现。
func TestStatsPageServed(t *testing.T) {
	e := setupEngine(t)
	RegisterWebRoutes(e)

	w := doJSON(t, e, "GET", "/code/Abc123", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats page: got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("content-type: %q", ct)
	}
	if !strings.Contains(w.Body.String(), "code.js") {
		t.Fatalf("body: %s", w.Body.String())
	}

	js := doJSON(t, e, "GET", "/static/code.js", nil)
	if js.Code != http.StatusOK {
		t.Fatalf("code.js: got %d", js.Code)
	}
}
