package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAbort(t *testing.T) {
	c := &Context{index: -1}
	if c.IsAborted() {
		t.Error("new context should not be aborted")
	}
	c.Abort()
	if !c.IsAborted() {
		t.Error("context should be aborted after Abort()")
	}
}

func TestAbortStopsHandlerChain(t *testing.T) {
	var executed []int

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	c := newContext(w, req)
	c.handlers = []HandlerFunc{
		func(c *Context) {
			executed = append(executed, 1)
			c.Next()
		},
		func(c *Context) {
			executed = append(executed, 2)
			c.Abort()
			c.Next() // 已经 Abort，后续 handler 不应再执行
		},
		func(c *Context) {
			executed = append(executed, 3)
		},
	}

	c.Next()

	if len(executed) != 2 || executed[0] != 1 || executed[1] != 2 {
		t.Fatalf("executed: got %v, want [1 2]", executed)
	}
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	c := newContext(w, req)

	c.JSON(http.StatusCreated, H{"code": "Ab3xY9", "target": "https://example.com"})

	if w.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type: got %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["code"] != "Ab3xY9" {
		t.Fatalf("body: got %v", body)
	}
}

func TestRedirect(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/Ab3xY9", nil)
	c := newContext(w, req)

	c.Redirect(http.StatusFound, "https://example.com")

	if w.Code != http.StatusFound {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusFound)
	}
	if loc := w.Header().Get("Location"); loc != "https://example.com" {
		t.Fatalf("location: got %q", loc)
	}
}

func TestAbortWithErrorIncludesRequestID(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	c := newContext(w, req)

	c.AbortWithError(http.StatusNotFound, "not found")

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Code != http.StatusNotFound || body.RequestId != "req-123" {
		t.Fatalf("body: got %+v", body)
	}
}

func TestAbortWithStatusJSONSkipsIfWritten(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	c := newContext(w, req)

	c.String(http.StatusOK, "already written")
	c.AbortWithStatusJSON(http.StatusInternalServerError, H{"error": "boom"})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusOK)
	}
	if w.Body.String() != "already written" {
		t.Fatalf("body: got %q", w.Body.String())
	}
}
