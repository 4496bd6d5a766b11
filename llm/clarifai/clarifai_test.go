package clarifai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/llmstream/errors"
	"github.com/kbukum/llmstream/httpclient"
	"github.com/kbukum/llmstream/llm"
	"github.com/kbukum/llmstream/logger"
	"github.com/kbukum/llmstream/provider"
)

const testModel = "deepseek-ai/deepseek-chat/models/DeepSeek-R1-Distill-Qwen-7B"

type countingDoer struct {
	calls atomic.Int32
}

func (d *countingDoer) Do(context.Context, httpclient.Request) (*httpclient.Response, error) {
	d.calls.Add(1)
	return &httpclient.Response{StatusCode: http.StatusOK, Body: []byte(`{"outputs":[]}`)}, nil
}

func newTestProvider(t *testing.T, cfg Config, opts ...Option) *Provider {
	t.Helper()
	opts = append([]Option{WithLogger(logger.Nop())}, opts...)
	p, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func serve(t *testing.T, h http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return newTestProvider(t, Config{PAT: "pat", ModelID: testModel, BaseURL: srv.URL})
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func collect(t *testing.T, p *Provider, ctx context.Context) ([]llm.Chunk, error) {
	t.Helper()
	it, err := p.Stream(ctx, "hi", []llm.Message{llm.UserMessage("hello")})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	return llm.Collect(ctx, it)
}

func TestStreamSuccess(t *testing.T) {
	p := serve(t, respond(http.StatusOK,
		`{"status":{"code":10000,"description":"Ok"},"outputs":[{"data":{"text":{"raw":"Hello <thinking>ponder</thinking> world"}}}]}`))

	got, err := collect(t, p, context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []llm.Chunk{llm.TextChunk("Hello "), llm.ReasoningChunk("ponder"), llm.TextChunk(" world")}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStreamRequestShape(t *testing.T) {
	var (
		gotPath, gotAuth, gotCT, gotAccept string
		gotBody                            Payload
	)
	p := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		gotAccept = r.Header.Get("Accept")
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		respond(http.StatusOK, `{"outputs":[{"data":{"text":{"raw":"ok"}}}]}`)(w, r)
	})

	if _, err := collect(t, p, context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v2/users/deepseek-ai/apps/deepseek-chat/models/DeepSeek-R1-Distill-Qwen-7B/outputs" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Key pat" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotCT != "application/json" || gotAccept != "application/json" {
		t.Errorf("Content-Type = %q, Accept = %q", gotCT, gotAccept)
	}
	if len(gotBody.Inputs) != 1 || gotBody.Inputs[0].Data.Text == nil {
		t.Fatalf("body = %+v", gotBody)
	}
	if raw := gotBody.Inputs[0].Data.Text.Raw; raw != "System: hi\n\nUser: hello\n\n" {
		t.Errorf("raw = %q", raw)
	}
}

func TestStreamBackendErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode int
		wantDesc string
	}{
		{"envelope on 500", http.StatusInternalServerError, `{"status":{"code":9,"description":"bad"}}`, 9, "bad"},
		{"no envelope", http.StatusUnauthorized, `not json`, http.StatusUnauthorized, "Unauthorized"},
		{"failure status on 200", http.StatusOK, `{"status":{"code":11000,"description":"model failed"},"outputs":[]}`, 11000, "model failed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := serve(t, respond(tc.status, tc.body))
			got, err := collect(t, p, context.Background())
			if len(got) != 0 {
				t.Errorf("expected no chunks, got %v", got)
			}
			if !errors.IsBackend(err) {
				t.Fatalf("expected backend error, got %v", err)
			}
			code, desc, _ := errors.BackendStatus(err)
			if code != tc.wantCode || desc != tc.wantDesc {
				t.Errorf("BackendStatus = %d %q, want %d %q", code, desc, tc.wantCode, tc.wantDesc)
			}
		})
	}
}

func TestStreamMalformedSuccessBody(t *testing.T) {
	p := serve(t, respond(http.StatusOK, `[1,2]`))
	_, err := collect(t, p, context.Background())
	if !errors.IsBackend(err) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestStreamEmptyOutputs(t *testing.T) {
	bodies := []string{
		`{"outputs":[]}`,
		`{}`,
		`{"outputs":[{"data":{}}]}`,
		`{"outputs":[{"data":{"text":{"raw":""}}}]}`,
	}
	for _, body := range bodies {
		p := serve(t, respond(http.StatusOK, body))
		got, err := collect(t, p, context.Background())
		if err != nil || len(got) != 0 {
			t.Errorf("%s: got %v, %v; want no chunks and no error", body, got, err)
		}
	}
}

func TestStreamJoinsOutputs(t *testing.T) {
	p := serve(t, respond(http.StatusOK,
		`{"outputs":[{"data":{"text":{"raw":"first"}}},{"data":{}},{"data":{"text":{"raw":"second"}}}]}`))
	got, err := collect(t, p, context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != llm.TextChunk("first\nsecond") {
		t.Errorf("got %v", got)
	}
}

func TestStreamNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := newTestProvider(t, Config{PAT: "pat", ModelID: testModel, BaseURL: url})
	_, err := collect(t, p, context.Background())
	if !errors.IsNetwork(err) {
		t.Fatalf("expected network error, got %v", err)
	}
	if errors.IsBackend(err) {
		t.Error("network error must not be a backend error")
	}
}

func TestStreamTimeout(t *testing.T) {
	srv := hangingServer(t)

	p := newTestProvider(t, Config{PAT: "pat", ModelID: testModel, BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := collect(t, p, context.Background())
	if errors.Code(err) != errors.ErrCodeTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
	if !errors.IsNetwork(err) {
		t.Error("timeout should count as a network error")
	}
}

func hangingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStreamContextDeadline(t *testing.T) {
	srv := hangingServer(t)
	p := newTestProvider(t, Config{PAT: "pat", ModelID: testModel, BaseURL: srv.URL})

	t.Run("next context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		got, err := collect(t, p, ctx)
		if len(got) != 0 {
			t.Errorf("expected no chunks, got %v", got)
		}
		if errors.Code(err) != errors.ErrCodeTimeout || !errors.IsNetwork(err) {
			t.Fatalf("expected timeout, got %v", err)
		}
	})

	t.Run("stream context", func(t *testing.T) {
		streamCtx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		it, err := p.Stream(streamCtx, "", []llm.Message{llm.UserMessage("hello")})
		if err != nil {
			t.Fatalf("Stream: %v", err)
		}
		_, err = llm.Collect(context.Background(), it)
		if errors.Code(err) != errors.ErrCodeTimeout {
			t.Fatalf("expected timeout, got %v", err)
		}
	})
}

func TestStreamDeadlineExpiredBeforeRequest(t *testing.T) {
	doer := &countingDoer{}
	p := newTestProvider(t, Config{PAT: "pat", ModelID: testModel}, WithDoer(doer))

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err := collect(t, p, ctx)
	if errors.Code(err) != errors.ErrCodeTimeout {
		t.Fatalf("expected timeout, got %v", err)
	}
	if n := doer.calls.Load(); n != 0 {
		t.Errorf("expected no request, got %d", n)
	}
}

func TestStreamCanceledBeforeRequest(t *testing.T) {
	doer := &countingDoer{}
	p := newTestProvider(t, Config{PAT: "pat", ModelID: testModel}, WithDoer(doer))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got, err := collect(t, p, ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v; want no chunks and no error", got, err)
	}
	if n := doer.calls.Load(); n != 0 {
		t.Errorf("expected no request, got %d", n)
	}
}

func TestStreamCanceledDuringRequest(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)
	p := newTestProvider(t, Config{PAT: "pat", ModelID: testModel, BaseURL: srv.URL})

	streamCtx, cancel := context.WithCancel(context.Background())
	it, err := p.Stream(streamCtx, "", []llm.Message{llm.UserMessage("hello")})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	go func() {
		<-started
		cancel()
	}()

	// The stream's own context is canceled while Next runs on a live one.
	got, err := llm.Collect(context.Background(), it)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v; want no chunks and no error", got, err)
	}
}

func TestStreamCanceledBetweenChunks(t *testing.T) {
	p := serve(t, respond(http.StatusOK,
		`{"outputs":[{"data":{"text":{"raw":"a<thinking>b</thinking>c"}}}]}`))
	ctx, cancel := context.WithCancel(context.Background())
	it, err := p.Stream(ctx, "", nil)
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	defer it.Close()

	c, ok, err := it.Next(ctx)
	if err != nil || !ok || c != llm.TextChunk("a") {
		t.Fatalf("first Next = %v %v %v", c, ok, err)
	}
	cancel()
	if c, ok, err := it.Next(ctx); ok || err != nil {
		t.Errorf("Next after cancel = %v %v %v", c, ok, err)
	}
}

func TestStreamConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing token", Config{ModelID: testModel}},
		{"missing model", Config{PAT: "pat"}},
		{"two segments", Config{PAT: "pat", ModelID: "abc/def"}},
		{"five segments", Config{PAT: "pat", ModelID: "a/b/models/c/d"}},
		{"third segment not models", Config{PAT: "pat", ModelID: "a/b/versions/c"}},
		{"empty segment", Config{PAT: "pat", ModelID: "a//models/c"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doer := &countingDoer{}
			p := newTestProvider(t, tc.cfg, WithDoer(doer))

			it, err := p.Stream(context.Background(), "sys", []llm.Message{llm.UserMessage("hi")})
			if it != nil {
				t.Error("expected no iterator")
			}
			if !errors.IsConfiguration(err) {
				t.Fatalf("expected configuration error, got %v", err)
			}
			if _, err := p.BuildRequest("sys", nil); !errors.IsConfiguration(err) {
				t.Errorf("BuildRequest: expected configuration error, got %v", err)
			}
			if p.IsAvailable(context.Background()) {
				t.Error("expected provider to be unavailable")
			}
			if n := doer.calls.Load(); n != 0 {
				t.Errorf("expected no request, got %d", n)
			}
		})
	}
}

func TestStreamIsLazy(t *testing.T) {
	doer := &countingDoer{}
	p := newTestProvider(t, Config{PAT: "pat", ModelID: testModel}, WithDoer(doer))

	it, err := p.Stream(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if n := doer.calls.Load(); n != 0 {
		t.Fatalf("request sent before first Next: %d", n)
	}
	if _, err := llm.Collect(context.Background(), it); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if n := doer.calls.Load(); n != 1 {
		t.Errorf("expected exactly one request, got %d", n)
	}
}

func TestResolveModel(t *testing.T) {
	p := newTestProvider(t, Config{PAT: "pat", UseDefaultModel: true})
	m, err := p.ResolveModel()
	if err != nil {
		t.Fatalf("ResolveModel: %v", err)
	}
	if m.ID != DefaultModelID || m.Info != Models[DefaultModelID] {
		t.Errorf("got %+v", m)
	}

	p = newTestProvider(t, Config{PAT: "pat", ModelID: "me/app/models/custom"})
	m, err = p.ResolveModel()
	if err != nil {
		t.Fatalf("ResolveModel: %v", err)
	}
	if m.ID != "me/app/models/custom" || m.Info != DefaultModelInfo {
		t.Errorf("unknown model should resolve with default info, got %+v", m)
	}
}

func TestBuildRequest(t *testing.T) {
	p := newTestProvider(t, Config{PAT: "pat", ModelID: testModel})
	req, err := p.BuildRequest("hi", []llm.Message{llm.UserMessage("hello"), llm.AssistantMessage("yo")})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	payload, ok := req.(Payload)
	if !ok {
		t.Fatalf("BuildRequest returned %T", req)
	}
	want := "System: hi\n\nUser: hello\n\nAssistant: yo\n\n"
	if got := payload.Inputs[0].Data.Text.Raw; got != want {
		t.Errorf("raw = %q, want %q", got, want)
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name    string
		system  string
		history []llm.Message
		want    string
	}{
		{"example", "hi", []llm.Message{llm.UserMessage("hello")}, "System: hi\n\nUser: hello\n\n"},
		{"no system prompt", "", []llm.Message{llm.UserMessage("q")}, "User: q\n\n"},
		{"empty", "", nil, ""},
		{
			"parts joined by newline",
			"",
			[]llm.Message{{Role: llm.RoleAssistant, Parts: []llm.ContentPart{
				{Type: llm.PartText, Text: "a"},
				{Type: llm.PartImage, Data: []byte{1}},
				{Type: llm.PartText, Text: "b"},
			}}},
			"Assistant: a\n\nb\n\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Flatten(tc.system, tc.history); got != tc.want {
				t.Errorf("Flatten() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseModelID(t *testing.T) {
	mp, err := ParseModelID("anthropic/completion/models/claude-sonnet-4")
	if err != nil {
		t.Fatalf("ParseModelID: %v", err)
	}
	if mp.User != "anthropic" || mp.App != "completion" || mp.Name != "claude-sonnet-4" {
		t.Errorf("got %+v", mp)
	}
	if mp.String() != "anthropic/completion/models/claude-sonnet-4" {
		t.Errorf("String() = %q", mp.String())
	}
	if _, err := ParseModelID(""); !errors.IsConfiguration(err) {
		t.Errorf("empty id: expected configuration error, got %v", err)
	}
	if _, err := ParseModelID("abc/def"); !errors.IsConfiguration(err) {
		t.Errorf("short id: expected configuration error, got %v", err)
	}
}

func TestCatalog(t *testing.T) {
	ids := ModelIDs()
	if len(ids) != len(Models) {
		t.Fatalf("ModelIDs() has %d ids, catalog has %d", len(ids), len(Models))
	}
	for _, id := range ids {
		if !ValidModelID(id) {
			t.Errorf("catalog id %q is not a valid model id", id)
		}
	}
	if _, ok := LookupModel(DefaultModelID); !ok {
		t.Error("default model missing from catalog")
	}
	if _, ok := LookupModel("nobody/none/models/nothing"); ok {
		t.Error("unexpected catalog hit")
	}
}

func TestSessionToolCallIDs(t *testing.T) {
	s := newSession(llm.ModelDescriptor{ID: testModel}, ModelPath{}, Payload{})
	first, second := s.NextToolCallID(), s.NextToolCallID()
	if first == second {
		t.Errorf("tool call ids repeat: %q", first)
	}
	if !strings.HasPrefix(first, s.ID+"-call-") {
		t.Errorf("id %q does not carry session id %q", first, s.ID)
	}
	if s.ToolCalls() != 2 {
		t.Errorf("ToolCalls() = %d", s.ToolCalls())
	}
	if s.Cursor() != 0 {
		t.Errorf("Cursor() before response = %d", s.Cursor())
	}
}

func TestConfigFromMap(t *testing.T) {
	cfg, err := ConfigFromMap(map[string]any{
		"pat":               "secret",
		"model_id":          testModel,
		"timeout":           "30s",
		"use_default_model": "true",
	})
	if err != nil {
		t.Fatalf("ConfigFromMap: %v", err)
	}
	if cfg.PAT != "secret" || cfg.ModelID != testModel || cfg.Timeout != 30*time.Second || !cfg.UseDefaultModel {
		t.Errorf("got %+v", cfg)
	}
	back, err := ConfigFromMap(cfg.Map())
	if err != nil || back != cfg {
		t.Errorf("round trip through Map() = %+v, %v", back, err)
	}
	if _, err := ConfigFromMap(map[string]any{"timeout": "soon"}); err == nil {
		t.Error("expected error for bad duration")
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{PAT: "pat"}
	cfg.ApplyDefaults()
	if cfg.BaseURL != DefaultBaseURL || cfg.Timeout != defaultTimeout {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	cfg.ModelID = "bad"
	if err := cfg.Validate(); !errors.IsConfiguration(err) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	reg := llm.NewRegistry()
	Register(reg, WithLogger(logger.Nop()))

	got, err := reg.Create(Name, map[string]any{"pat": "pat", "model_id": testModel})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Name() != Name {
		t.Errorf("Name() = %q", got.Name())
	}
	if !got.IsAvailable(context.Background()) {
		t.Error("expected provider to be available")
	}
	if _, err := reg.Create(Name, map[string]any{"timeout": map[string]any{"seconds": 1}}); !errors.IsConfiguration(err) {
		t.Errorf("expected configuration error for bad map, got %v", err)
	}

	var _ provider.Factory[llm.Provider] = Factory()
}
