package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/models"
)

type fakePipeline struct {
	summary models.FinalSummary
	err     error
	gotURL  string
	gotN    int
}

func (f *fakePipeline) Run(ctx context.Context, url string) (models.FinalSummary, error) {
	return f.RunWithLimit(ctx, url, 0)
}

func (f *fakePipeline) RunWithLimit(ctx context.Context, url string, n int) (models.FinalSummary, error) {
	f.gotURL, f.gotN = url, n
	return f.summary, f.err
}

type response struct {
	Code    int                    `json:"code"`
	Data    map[string]interface{} `json:"data"`
	Message string                 `json:"message"`
	Error   string                 `json:"error"`
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, resp
}

func TestHandleSummarize(t *testing.T) {
	fake := &fakePipeline{summary: models.FinalSummary{
		RunID:        "run-1",
		VideoID:      "dQw4w9WgXcQ",
		Text:         "A short summary.",
		Chunks:       3,
		FailedChunks: []int{2},
		Rounds:       1,
	}}
	s := New(config.ServerConfig{}, fake, nil, logger.Nop())

	status, resp := do(t, s.Handler(), http.MethodPost, "/api/summaries",
		`{"url":"https://youtu.be/dQw4w9WgXcQ","max_output_length":500}`, nil)

	if status != http.StatusOK || resp.Code != 200 {
		t.Fatalf("status = %d, body = %+v", status, resp)
	}
	if resp.Data["summary"] != "A short summary." || resp.Data["video_id"] != "dQw4w9WgXcQ" {
		t.Errorf("data = %+v", resp.Data)
	}
	if resp.Data["chunks"] != float64(3) || resp.Data["truncated"] != false {
		t.Errorf("data = %+v", resp.Data)
	}
	if fake.gotURL != "https://youtu.be/dQw4w9WgXcQ" || fake.gotN != 500 {
		t.Errorf("pipeline called with (%q, %d)", fake.gotURL, fake.gotN)
	}
}

func TestHandleSummarizeErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   models.Code
	}{
		{"missing url", `{}`, nil, http.StatusBadRequest, models.CodeInvalidInput},
		{"malformed json", `{"url":`, nil, http.StatusBadRequest, models.CodeInvalidInput},
		{"negative limit", `{"url":"x","max_output_length":-1}`, nil, http.StatusBadRequest, models.CodeInvalidInput},
		{"bad url", `{"url":"x"}`, models.NewError(models.CodeInvalidInput, "invalid video URL", nil), http.StatusBadRequest, models.CodeInvalidInput},
		{"no captions", `{"url":"x"}`, models.NewError(models.CodeTranscriptUnavailable, "no captions", nil), http.StatusNotFound, models.CodeTranscriptUnavailable},
		{"all chunks failed", `{"url":"x"}`, models.NewError(models.CodeAllChunksFailed, "every chunk failed", nil), http.StatusBadGateway, models.CodeAllChunksFailed},
		{"cancelled", `{"url":"x"}`, models.NewError(models.CodeCancelled, "cancelled", context.Canceled), statusClientClosed, models.CodeCancelled},
		{"unknown", `{"url":"x"}`, errors.New("disk full"), http.StatusInternalServerError, models.CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(config.ServerConfig{}, &fakePipeline{err: tt.err}, nil, logger.Nop())
			status, resp := do(t, s.Handler(), http.MethodPost, "/api/summaries", tt.body, nil)

			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if resp.Error != string(tt.wantCode) {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantCode)
			}
			if resp.Message == "" {
				t.Error("message is empty")
			}
		})
	}
}

func TestHealth(t *testing.T) {
	s := New(config.ServerConfig{APIKey: "secret"}, &fakePipeline{}, func() error { return nil }, logger.Nop())
	status, resp := do(t, s.Handler(), http.MethodGet, "/api/health", "", nil)
	if status != http.StatusOK || resp.Data["status"] != "ok" {
		t.Errorf("health = %d %+v", status, resp)
	}

	degraded := New(config.ServerConfig{}, &fakePipeline{}, func() error {
		return models.NewError(models.CodeModelError, "initialize summarizer", errors.New("no API key"))
	}, logger.Nop())
	status, resp = do(t, degraded.Handler(), http.MethodGet, "/api/health", "", nil)
	if status != http.StatusServiceUnavailable || resp.Error != string(models.CodeModelError) {
		t.Errorf("health = %d %+v", status, resp)
	}
}

func TestAuth(t *testing.T) {
	s := New(config.ServerConfig{APIKey: "secret"}, &fakePipeline{}, nil, logger.Nop())
	body := `{"url":"https://youtu.be/dQw4w9WgXcQ"}`

	status, _ := do(t, s.Handler(), http.MethodPost, "/api/summaries", body, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("no key: status = %d, want 401", status)
	}

	status, _ = do(t, s.Handler(), http.MethodPost, "/api/summaries", body, map[string]string{"X-API-Key": "wrong"})
	if status != http.StatusUnauthorized {
		t.Errorf("wrong key: status = %d, want 401", status)
	}

	status, _ = do(t, s.Handler(), http.MethodPost, "/api/summaries", body, map[string]string{"X-API-Key": "secret"})
	if status != http.StatusOK {
		t.Errorf("right key: status = %d, want 200", status)
	}
}

func TestNoRoute(t *testing.T) {
	s := New(config.ServerConfig{}, &fakePipeline{}, nil, logger.Nop())
	status, _ := do(t, s.Handler(), http.MethodGet, "/nope", "", nil)
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}

func TestStopRightAfterStart(t *testing.T) {
	tests := []struct {
		name  string
		delay time.Duration
	}{
		{"stop before listen", 0},
		{"stop while serving", 50 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(config.ServerConfig{Addr: "127.0.0.1:0"}, &fakePipeline{}, nil, logger.Nop())

			errChan := make(chan error, 1)
			go func() { errChan <- srv.Start(context.Background()) }()
			time.Sleep(tt.delay)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				t.Fatalf("Stop() error = %v", err)
			}

			select {
			case err := <-errChan:
				if err != nil {
					t.Errorf("Start() error = %v, want nil", err)
				}
			case <-time.After(2 * time.Second):
				t.Fatal("Start() still serving 2s after Stop returned")
			}
		})
	}
}
