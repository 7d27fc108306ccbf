package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bobmcallan/toolgate/internal/common"
	"github.com/bobmcallan/toolgate/internal/config"
	"github.com/bobmcallan/toolgate/internal/tools"
)

func TestHealthHandler_ReturnsOK(t *testing.T) {
	handler := NewHealthHandler(nil)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body["status"] != "ok" {
		t.Errorf("expected status ok, got %s", body["status"])
	}
}

func TestHealthHandler_RejectsNonGET(t *testing.T) {
	handler := NewHealthHandler(nil)

	req := httptest.NewRequest("POST", "/api/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestVersionHandler_ReturnsJSON(t *testing.T) {
	handler := NewVersionHandler("toolgate", nil)

	req := httptest.NewRequest("GET", "/api/version", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if body["name"] != "toolgate" {
		t.Errorf("expected name toolgate, got %s", body["name"])
	}
	for _, field := range []string{"version", "build", "git_commit"} {
		if _, ok := body[field]; !ok {
			t.Errorf("expected %s field in response", field)
		}
	}
}

func TestVersionHandler_RejectsNonGET(t *testing.T) {
	handler := NewVersionHandler("toolgate", nil)

	req := httptest.NewRequest("DELETE", "/api/version", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestRequireMethod_Matches(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	if !RequireMethod(w, req, "GET") {
		t.Error("expected RequireMethod to return true for matching method")
	}
}

func TestRequireMethod_HeadAllowedForGet(t *testing.T) {
	req := httptest.NewRequest("HEAD", "/test", nil)
	w := httptest.NewRecorder()

	if !RequireMethod(w, req, "GET") {
		t.Error("expected HEAD to satisfy GET")
	}
}

func TestRequireMethod_Mismatch(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", nil)
	w := httptest.NewRecorder()

	if RequireMethod(w, req, "GET") {
		t.Error("expected RequireMethod to return false for mismatching method")
	}
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, http.StatusCreated, map[string]string{"key": "value"})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", w.Header().Get("Content-Type"))
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["key"] != "value" {
		t.Errorf("expected key=value, got key=%s", body["key"])
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusBadRequest, "something went wrong")

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	if body["error"] != "something went wrong" {
		t.Errorf("expected error message 'something went wrong', got %s", body["error"])
	}
	if body["status"] != "error" {
		t.Errorf("expected status 'error', got %s", body["status"])
	}
}

// --- WriteResult ---

func TestWriteResult_Success(t *testing.T) {
	w := httptest.NewRecorder()

	WriteResult(w, tools.Success(tools.JSONPayload([]byte(`{"a":1}`))))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected application/json, got %s", w.Header().Get("Content-Type"))
	}
	if w.Body.String() != `{"a":1}` {
		t.Errorf("expected raw payload, got %s", w.Body.String())
	}
}

func TestWriteResult_ValidationIs400(t *testing.T) {
	w := httptest.NewRecorder()

	WriteResult(w, tools.Fail(tools.Invalid("URL is required")))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("expected text/plain, got %s", w.Header().Get("Content-Type"))
	}
	if w.Body.String() != "URL is required" {
		t.Errorf("expected plain message, got %q", w.Body.String())
	}
}

func TestWriteResult_OtherFailuresAre500(t *testing.T) {
	failures := []*tools.Failure{
		tools.UpstreamStatus("Jina Reader API", 502, "Bad Gateway"),
		tools.Unexpected("boom"),
		tools.Unauthorized("nope"),
	}

	for _, f := range failures {
		w := httptest.NewRecorder()
		WriteResult(w, tools.Fail(f))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: expected status 500, got %d", f.Kind, w.Code)
		}
		if w.Body.String() != f.Message {
			t.Errorf("%s: expected %q, got %q", f.Kind, f.Message, w.Body.String())
		}
	}
}

// --- Tools handler ---

type upstreamSpy struct {
	mu    sync.Mutex
	calls int32
	last  *http.Request
	body  []byte
}

func (s *upstreamSpy) request() (*http.Request, []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.body
}

func newUpstream(t *testing.T, spy *upstreamSpy, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&spy.calls, 1)
		body, _ := io.ReadAll(r.Body)
		spy.mu.Lock()
		spy.last = r.Clone(context.Background())
		spy.body = body
		spy.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newToolsHandler(t *testing.T, upstreamURL string) *ToolsHandler {
	t.Helper()

	cfg := config.NewDefaultConfig()
	cfg.Upstreams.Jina.ReaderURL = upstreamURL
	cfg.Upstreams.Jina.SearchURL = upstreamURL + "/"
	cfg.Upstreams.Tavily.BaseURL = upstreamURL
	cfg.Upstreams.Image.BaseURL = upstreamURL
	cfg.Upstreams.Image.AccountID = "acct"
	cfg.Upstreams.Image.APIToken = "img-token"

	gw, err := tools.NewBuiltinGateway(cfg, nil, common.NewSilentLogger(), nil)
	if err != nil {
		t.Fatalf("NewBuiltinGateway failed: %v", err)
	}
	return NewToolsHandler(gw, common.NewSilentLogger())
}

func TestToolsHandler_List(t *testing.T) {
	h := newToolsHandler(t, "http://unused.invalid")

	req := httptest.NewRequest("GET", "/api/tools", nil)
	w := httptest.NewRecorder()
	h.HandleList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var list []ToolInfo
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	want := []string{"reader", "search", "tavily_search", "tavily_extract", "generate_image", "get_version"}
	if len(list) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(list))
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("tool %d: expected %s, got %s", i, name, list[i].Name)
		}
	}
	if len(list[0].Params) == 0 || list[0].Params[0].Name != "url" || !list[0].Params[0].Required {
		t.Errorf("expected reader to declare required url first, got %+v", list[0].Params)
	}
	if list[5].Params == nil {
		t.Error("expected empty params list, not null")
	}
}

func TestToolsHandler_PostReaderReturnsRawText(t *testing.T) {
	spy := &upstreamSpy{}
	upstream := newUpstream(t, spy, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page text"))
	})
	h := newToolsHandler(t, upstream.URL)

	req := httptest.NewRequest("POST", "/api/tools/reader", strings.NewReader(`{"url":"https://example.com"}`))
	w := httptest.NewRecorder()
	h.HandleToolPost(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "page text" {
		t.Errorf("expected raw upstream text, got %q", w.Body.String())
	}
	last, _ := spy.request()
	if last.Method != http.MethodGet {
		t.Errorf("expected GET upstream, got %s", last.Method)
	}
	if last.RequestURI != "/https://example.com" {
		t.Errorf("expected /https://example.com, got %s", last.RequestURI)
	}
	if last.Header.Get("Authorization") != "" {
		t.Error("expected no Authorization header without a token")
	}
}

func TestToolsHandler_GetSearchFromQueryString(t *testing.T) {
	spy := &upstreamSpy{}
	upstream := newUpstream(t, spy, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("results"))
	})
	h := newToolsHandler(t, upstream.URL)

	req := httptest.NewRequest("GET", "/api/tools/search?query=test+query&token=t", nil)
	w := httptest.NewRecorder()
	h.HandleToolGet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "results" {
		t.Errorf("expected results, got %q", w.Body.String())
	}
	last, _ := spy.request()
	if last.URL.RawQuery != "q=test%20query" {
		t.Errorf("expected q=test%%20query, got %s", last.URL.RawQuery)
	}
	if last.Header.Get("X-Respond-With") != "no-content" {
		t.Error("expected X-Respond-With: no-content by default")
	}
}

func TestToolsHandler_GetNestedOptions(t *testing.T) {
	spy := &upstreamSpy{}
	upstream := newUpstream(t, spy, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[]}`))
	})
	h := newToolsHandler(t, upstream.URL)

	req := httptest.NewRequest("GET", "/api/tools/tavily_search?query=go&token=k&options.maxResults=3&options.includeDomains=a.com&options.includeDomains=b.com", nil)
	w := httptest.NewRecorder()
	h.HandleToolGet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected application/json, got %s", w.Header().Get("Content-Type"))
	}

	_, body := spy.request()
	var sent map[string]interface{}
	if err := json.Unmarshal(body, &sent); err != nil {
		t.Fatalf("failed to decode upstream body: %v", err)
	}
	if sent["max_results"] != float64(3) {
		t.Errorf("expected max_results 3, got %v", sent["max_results"])
	}
	domains, _ := sent["include_domains"].([]interface{})
	if len(domains) != 2 || domains[0] != "a.com" || domains[1] != "b.com" {
		t.Errorf("expected both include_domains, got %v", sent["include_domains"])
	}
}

func TestToolsHandler_ValidationFailureNeverCallsUpstream(t *testing.T) {
	spy := &upstreamSpy{}
	upstream := newUpstream(t, spy, func(w http.ResponseWriter, r *http.Request) {})
	h := newToolsHandler(t, upstream.URL)

	req := httptest.NewRequest("POST", "/api/tools/reader", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.HandleToolPost(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if w.Body.String() != "URL is required" {
		t.Errorf("expected 'URL is required', got %q", w.Body.String())
	}
	if atomic.LoadInt32(&spy.calls) != 0 {
		t.Errorf("expected no upstream calls, got %d", spy.calls)
	}
}

func TestToolsHandler_UpstreamErrorIs500(t *testing.T) {
	spy := &upstreamSpy{}
	upstream := newUpstream(t, spy, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	h := newToolsHandler(t, upstream.URL)

	req := httptest.NewRequest("POST", "/api/tools/reader", strings.NewReader(`{"url":"https://example.com"}`))
	w := httptest.NewRecorder()
	h.HandleToolPost(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
	if w.Body.String() != "Jina Reader API error: 502 Bad Gateway" {
		t.Errorf("unexpected message %q", w.Body.String())
	}
}

func TestToolsHandler_ImageStepsOutOfRange(t *testing.T) {
	spy := &upstreamSpy{}
	upstream := newUpstream(t, spy, func(w http.ResponseWriter, r *http.Request) {})
	h := newToolsHandler(t, upstream.URL)

	for _, steps := range []string{"3", "9"} {
		req := httptest.NewRequest("POST", "/api/tools/generate_image", strings.NewReader(`{"prompt":"a cat","steps":`+steps+`}`))
		w := httptest.NewRecorder()
		h.HandleToolPost(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("steps=%s: expected status 400, got %d", steps, w.Code)
		}
		if w.Body.String() != "Steps must be between 4 and 8, inclusive." {
			t.Errorf("steps=%s: unexpected message %q", steps, w.Body.String())
		}
	}
	if atomic.LoadInt32(&spy.calls) != 0 {
		t.Errorf("expected no upstream calls, got %d", spy.calls)
	}
}

func TestToolsHandler_ImageStepsNotFinite(t *testing.T) {
	spy := &upstreamSpy{}
	upstream := newUpstream(t, spy, func(w http.ResponseWriter, r *http.Request) {})
	h := newToolsHandler(t, upstream.URL)

	for _, steps := range []string{"NaN", "Inf", "-Inf"} {
		req := httptest.NewRequest("GET", "/api/tools/generate_image?prompt=cat&steps="+url.QueryEscape(steps), nil)
		w := httptest.NewRecorder()
		h.HandleToolGet(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("steps=%s: expected status 400, got %d", steps, w.Code)
		}
		if w.Body.String() != "steps must be a number" {
			t.Errorf("steps=%s: unexpected message %q", steps, w.Body.String())
		}
	}

	req := httptest.NewRequest("POST", "/rpc", strings.NewReader(`{"method":"generate_image","args":["cat","NaN"]}`))
	w := httptest.NewRecorder()
	h.HandleRPC(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("rpc: expected status 400, got %d: %s", w.Code, w.Body.String())
	}

	if atomic.LoadInt32(&spy.calls) != 0 {
		t.Errorf("expected no upstream calls, got %d", spy.calls)
	}
}

func TestToolsHandler_ImageReturnsJPEG(t *testing.T) {
	img := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}
	spy := &upstreamSpy{}
	upstream := newUpstream(t, spy, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]string{"image": base64.StdEncoding.EncodeToString(img)},
		})
	})
	h := newToolsHandler(t, upstream.URL)

	req := httptest.NewRequest("POST", "/api/tools/generate_image", strings.NewReader(`{"prompt":"a cat","steps":4}`))
	w := httptest.NewRecorder()
	h.HandleToolPost(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Content-Type") != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", w.Header().Get("Content-Type"))
	}
	if w.Body.String() != string(img) {
		t.Errorf("expected decoded image bytes, got %v", w.Body.Bytes())
	}
	last, body := spy.request()
	if !strings.HasSuffix(last.URL.Path, "/accounts/acct/ai/run/@cf/black-forest-labs/flux-1-schnell") {
		t.Errorf("unexpected image path %s", last.URL.Path)
	}
	if last.Header.Get("Authorization") != "Bearer img-token" {
		t.Errorf("expected configured image token, got %q", last.Header.Get("Authorization"))
	}
	var sent map[string]interface{}
	if err := json.Unmarshal(body, &sent); err != nil {
		t.Fatalf("failed to decode upstream body: %v", err)
	}
	if sent["prompt"] != "a cat" || sent["steps"] != float64(4) {
		t.Errorf("unexpected image request %v", sent)
	}
}

func TestToolsHandler_UnknownToolIs404(t *testing.T) {
	h := newToolsHandler(t, "http://unused.invalid")

	req := httptest.NewRequest("POST", "/api/tools/nope", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.HandleToolPost(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestToolsHandler_MalformedJSONIs400(t *testing.T) {
	h := newToolsHandler(t, "http://unused.invalid")

	req := httptest.NewRequest("POST", "/api/tools/reader", strings.NewReader(`{"url":`))
	w := httptest.NewRecorder()
	h.HandleToolPost(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "invalid JSON body") {
		t.Errorf("unexpected message %q", w.Body.String())
	}
}

// --- /rpc ---

func TestRPC_PositionalArgs(t *testing.T) {
	spy := &upstreamSpy{}
	upstream := newUpstream(t, spy, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("results"))
	})
	h := newToolsHandler(t, upstream.URL)

	req := httptest.NewRequest("POST", "/rpc", strings.NewReader(`{"method":"search","args":["test query","t",false]}`))
	w := httptest.NewRecorder()
	h.HandleRPC(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if w.Body.String() != "results" {
		t.Errorf("expected results, got %q", w.Body.String())
	}
	last, _ := spy.request()
	if last.Header.Get("Authorization") != "Bearer t" {
		t.Errorf("expected Bearer t, got %q", last.Header.Get("Authorization"))
	}
	if _, ok := last.Header["X-Respond-With"]; ok {
		t.Error("expected no X-Respond-With header with noContent=false")
	}
}

func TestRPC_NamedParams(t *testing.T) {
	spy := &upstreamSpy{}
	upstream := newUpstream(t, spy, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("page"))
	})
	h := newToolsHandler(t, upstream.URL)

	req := httptest.NewRequest("POST", "/rpc", strings.NewReader(`{"method":"reader","params":{"url":"https://example.com","noCache":true}}`))
	w := httptest.NewRecorder()
	h.HandleRPC(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	last, _ := spy.request()
	if last.Header.Get("X-No-Cache") != "true" {
		t.Error("expected X-No-Cache: true")
	}
}

func TestRPC_Errors(t *testing.T) {
	h := newToolsHandler(t, "http://unused.invalid")

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"missing method", `{"args":[]}`, http.StatusBadRequest},
		{"unknown method", `{"method":"nope"}`, http.StatusNotFound},
		{"too many args", `{"method":"reader","args":["a","b",true,"extra"]}`, http.StatusBadRequest},
		{"missing required", `{"method":"reader","args":[]}`, http.StatusBadRequest},
		{"malformed", `not json`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/rpc", strings.NewReader(tc.body))
			w := httptest.NewRecorder()
			h.HandleRPC(w, req)

			if w.Code != tc.status {
				t.Errorf("expected status %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestRPC_RejectsGET(t *testing.T) {
	h := newToolsHandler(t, "http://unused.invalid")

	req := httptest.NewRequest("GET", "/rpc", nil)
	w := httptest.NewRecorder()
	h.HandleRPC(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

func TestQueryArgs_Nested(t *testing.T) {
	raw := queryArgs(map[string][]string{
		"query":           {"go"},
		"options.topic":   {"news"},
		"options.include": {"a", "b"},
	})

	if raw["query"] != "go" {
		t.Errorf("expected query=go, got %v", raw["query"])
	}
	opts, ok := raw["options"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected nested options, got %T", raw["options"])
	}
	if opts["topic"] != "news" {
		t.Errorf("expected topic=news, got %v", opts["topic"])
	}
	if list, _ := opts["include"].([]interface{}); len(list) != 2 {
		t.Errorf("expected two include values, got %v", opts["include"])
	}
}

func TestQueryArgs_DottedKeysRefineJSONObject(t *testing.T) {
	// map iteration order must not decide the outcome
	for i := 0; i < 20; i++ {
		raw := queryArgs(map[string][]string{
			"options":            {`{"topic":"news","maxResults":10}`},
			"options.maxResults": {"3"},
		})

		opts, ok := raw["options"].(map[string]interface{})
		if !ok {
			t.Fatalf("expected nested options, got %T", raw["options"])
		}
		if opts["maxResults"] != "3" {
			t.Fatalf("expected dotted maxResults to win, got %v", opts["maxResults"])
		}
		if opts["topic"] != "news" {
			t.Fatalf("expected topic from JSON object, got %v", opts["topic"])
		}
	}
}

func TestQueryArgs_DottedKeysReplaceScalar(t *testing.T) {
	raw := queryArgs(map[string][]string{
		"options":       {"plain"},
		"options.topic": {"news"},
	})

	opts, ok := raw["options"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected nested options, got %T", raw["options"])
	}
	if opts["topic"] != "news" {
		t.Errorf("expected topic=news, got %v", opts["topic"])
	}
}
