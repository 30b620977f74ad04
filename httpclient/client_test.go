package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Do_GETWithQueryAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/operations/op-1" {
			t.Errorf("expected /v1/operations/op-1, got %s", r.URL.Path)
		}
		if r.URL.Query().Get("alt") != "json" {
			t.Errorf("expected alt=json, got %s", r.URL.RawQuery)
		}
		if r.Header.Get("User-Agent") != "diallog-test" {
			t.Errorf("unexpected user agent %q", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("X-Default") != "1" {
			t.Error("expected default header")
		}
		_ = json.NewEncoder(w).Encode(map[string]bool{"done": true})
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/", UserAgent: "diallog-test", Headers: map[string]string{"X-Default": "1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/v1/operations/op-1", Query: map[string]string{"alt": "json"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(resp.Body), "done") {
		t.Errorf("unexpected response %d %s", resp.StatusCode, resp.Body)
	}
}

func TestClient_Do_JSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["languageCode"] != "ko-KR" {
			t.Errorf("unexpected body %v", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	if _, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "recognize", Body: map[string]string{"languageCode": "ko-KR"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_FormBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type %s", ct)
		}
		_ = r.ParseForm()
		if r.PostForm.Get("grant_type") != "urn:ietf:params:oauth:grant-type:jwt-bearer" || r.PostForm.Get("assertion") != "a.b.c" {
			t.Errorf("unexpected form %v", r.PostForm)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{})
	_, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   srv.URL,
		Body:   FormBody("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer", "assertion", "a.b.c"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_MultipartBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if r.FormValue("type") != "application/json" {
			t.Errorf("unexpected type field %q", r.FormValue("type"))
		}
		if _, hdr, err := r.FormFile("media"); err != nil || hdr.Filename != "a.wav" {
			t.Errorf("expected media file part: %v", err)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "upload", Body: &MultipartBody{Files: []FileField{
		{FieldName: "media", FileName: "a.wav", ContentType: "audio/wav", Data: []byte("RIFF")},
		{FieldName: "type", Data: []byte("application/json")},
	}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Do_ErrorStatusReturnsResponseAndError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer stale" {
			t.Errorf("expected request-level bearer, got %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"expired"}`))
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Auth: BearerAuth("default")})
	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "x", Auth: BearerAuth("stale")})
	if !IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected response alongside error, got %+v", resp)
	}
	if BodyOf(err) != `{"error":"expired"}` {
		t.Errorf("unexpected body %q", BodyOf(err))
	}
}

func TestClient_Do_PerRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "slow", Timeout: 50 * time.Millisecond})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestClient_Do_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "x"})
	if !IsCanceled(err) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != 120*time.Second || cfg.ConnectTimeout != 30*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
