package httpclient

import (
	"net/http"
	"testing"
)

func TestBearerAuth(t *testing.T) {
	auth := BearerAuth("my-token")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("got %q, want %q", got, "Bearer my-token")
	}
}

func TestKeyAuth(t *testing.T) {
	auth := KeyAuth("pat-123")
	req, _ := http.NewRequest("POST", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("Authorization"); got != "Key pat-123" {
		t.Errorf("got %q, want %q", got, "Key pat-123")
	}
}

func TestSchemeAuth(t *testing.T) {
	auth := SchemeAuth("Token", "abc")
	if auth.Type != AuthScheme || auth.Scheme != "Token" {
		t.Errorf("unexpected config %+v", auth)
	}
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("Authorization"); got != "Token abc" {
		t.Errorf("got %q, want %q", got, "Token abc")
	}
}

func TestAPIKeyAuth(t *testing.T) {
	auth := APIKeyAuth("secret-key")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("X-API-Key"); got != "secret-key" {
		t.Errorf("got %q, want %q", got, "secret-key")
	}
}

func TestAPIKeyAuth_DefaultHeaderName(t *testing.T) {
	auth := &AuthConfig{Type: AuthAPIKey, Key: "k"}
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("X-API-Key"); got != "k" {
		t.Errorf("got %q, want %q", got, "k")
	}
}

func TestCustomAuth(t *testing.T) {
	auth := CustomAuth(func(r *http.Request) {
		r.Header.Set("X-Signed", "yes")
	})
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("X-Signed"); got != "yes" {
		t.Errorf("got %q, want %q", got, "yes")
	}
}

func TestNilAuth(t *testing.T) {
	var auth *AuthConfig
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("Authorization"); got != "" {
		t.Errorf("expected no auth header, got %q", got)
	}
}
