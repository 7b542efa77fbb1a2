package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

type failing struct{}

func (failing) Translate(context.Context, string) (string, error) {
	return "", errors.New("offline")
}

type blank struct{}

func (blank) Translate(context.Context, string) (string, error) {
	return "   ", nil
}

func TestOrOriginal(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		tr   Translator
		text string
		want string
	}{
		{"nil translator", nil, "Shake well", "Shake well"},
		{"noop", Noop{}, "Shake well", "Shake well"},
		{"failure", failing{}, "Shake well", "Shake well"},
		{"blank result", blank{}, "Shake well", "Shake well"},
		{"blank input", failing{}, "  ", "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OrOriginal(ctx, tt.tr, tt.text); got != tt.want {
				t.Fatalf("OrOriginal = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"pl", "pl", false},
		{"pl-PL", "pl", false},
		{" DE ", "de", false},
		{"", "", true},
		{"und", "", true},
		{"not a language", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLanguage(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseLanguage(%q) = %q, want error", tt.in, got)
			}
			if !errors.Is(err, ErrUnknownLanguage) {
				t.Fatalf("ParseLanguage(%q) error = %v, want ErrUnknownLanguage", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseLanguage(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayNameAndEnabled(t *testing.T) {
	if got := DisplayName(""); got != "off" {
		t.Fatalf("DisplayName(\"\") = %q, want off", got)
	}
	if got := DisplayName("pl"); got != "Polish" {
		t.Fatalf("DisplayName(pl) = %q, want Polish", got)
	}
	if Enabled("") || Enabled("en") || Enabled("en-GB") {
		t.Fatal("Enabled should be false for blank or English targets")
	}
	if !Enabled("pl") {
		t.Fatal("Enabled(pl) = false, want true")
	}
}

func TestLibreTranslate_PostsAndCaches(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Method != http.MethodPost || r.URL.Path != "/v1/translate" {
			http.NotFound(w, r)
			return
		}
		var req libreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		if req.Source != "en" || req.Target != "pl" || req.APIKey != "secret" || req.Format != "text" {
			http.Error(w, "bad params", http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(libreResponse{TranslatedText: "PL:" + req.Q})
	}))
	t.Cleanup(server.Close)

	tr, err := NewLibreTranslate(server.URL+"/v1", "pl-PL", WithAPIKey("secret"))
	if err != nil {
		t.Fatalf("NewLibreTranslate returned error: %v", err)
	}
	if tr.Target() != "pl" {
		t.Fatalf("Target = %q, want pl", tr.Target())
	}

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		got, err := tr.Translate(ctx, "Lime")
		if err != nil {
			t.Fatalf("Translate returned error: %v", err)
		}
		if got != "PL:Lime" {
			t.Fatalf("Translate = %q, want PL:Lime", got)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("server calls = %d, want 1 (second call cached)", calls.Load())
	}

	got, err := tr.Translate(ctx, "")
	if err != nil || got != "" {
		t.Fatalf("Translate(\"\") = %q, %v; want empty, nil", got, err)
	}
	if calls.Load() != 1 {
		t.Fatalf("blank text should not hit the server")
	}
}

func TestLibreTranslate_ErrorsFallBackToOriginal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(libreResponse{Error: "Invalid API key"})
	}))
	t.Cleanup(server.Close)

	tr, err := NewLibreTranslate(server.URL, "pl")
	if err != nil {
		t.Fatalf("NewLibreTranslate returned error: %v", err)
	}

	_, err = tr.Translate(context.Background(), "Shake")
	if err == nil || !strings.Contains(err.Error(), "Invalid API key") {
		t.Fatalf("Translate error = %v, want Invalid API key", err)
	}
	if got := OrOriginal(context.Background(), tr, "Shake"); got != "Shake" {
		t.Fatalf("OrOriginal = %q, want Shake", got)
	}
}

func TestNewLibreTranslate_Validates(t *testing.T) {
	if _, err := NewLibreTranslate("", "pl"); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewLibreTranslate("http://localhost:5000", "zz-nope"); err == nil {
		t.Fatal("expected error for invalid language")
	}
}
