package api

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestIsMediaType(t *testing.T) {
	for ct, want := range map[string]bool{
		"image/png":                 true,
		"video/mp4":                 true,
		"audio/mpeg":                true,
		"IMAGE/JPEG":                true,
		"audio/ogg; codecs=opus":    true,
		"text/plain; charset=utf-8": false,
		"application/pdf":           false,
		"":                          false,
	} {
		if got := IsMediaType(ct); got != want {
			t.Fatalf("IsMediaType(%q) = %v, want %v", ct, got, want)
		}
	}
}

func TestTranslateResponse_OmitsMissingTitle(t *testing.T) {
	b, _ := json.Marshal(TranslateResponse{TranslatedContent: "hola"})
	if strings.Contains(string(b), "translatedTitle") {
		t.Fatalf("translatedTitle should be omitted: %s", b)
	}
	title := "titulo"
	b, _ = json.Marshal(TranslateResponse{TranslatedTitle: &title, TranslatedContent: "hola"})
	if !strings.Contains(string(b), `"translatedTitle":"titulo"`) {
		t.Fatalf("translatedTitle missing: %s", b)
	}
}

func TestNGORequest_WireNames(t *testing.T) {
	var r NGORequest
	if err := json.Unmarshal([]byte(`{"name":"n","description":"d","contact":"c","email":"e","registrationNumber":"r"}`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.RegistrationNumber != "r" || r.Contact != "c" {
		t.Fatalf("unexpected %+v", r)
	}
}
