package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/safevoice/safevoice-api/internal/ai"
	"github.com/safevoice/safevoice-api/internal/api"
	"github.com/safevoice/safevoice-api/internal/services"
)

func functionsRouter(ft *fakeText) *gin.Engine {
	h := New(Deps{Text: ft})
	r := newRouter("")
	r.POST("/functions/v1/correct-grammar", h.CorrectGrammar)
	r.POST("/functions/v1/translate", h.Translate)
	return r
}

func TestFunctions_NotConfiguredWins(t *testing.T) {
	r := functionsRouter(&fakeText{configured: false})
	for _, path := range []string{"/functions/v1/correct-grammar", "/functions/v1/translate"} {
		w := doJSON(r, http.MethodPost, path, "{garbage")
		if w.Code != http.StatusInternalServerError || decode[api.FunctionError](t, w).Error != "API key not configured on server" {
			t.Fatalf("%s: %d %s", path, w.Code, w.Body.String())
		}
	}
}

func TestCorrectGrammar(t *testing.T) {
	ft := &fakeText{configured: true, GrammarFn: func(_ context.Context, c string) (string, error) {
		switch c {
		case "":
			return "", services.ErrMissingText
		case "unsafe":
			return "", ai.ErrBlocked
		case "boom":
			return "", errors.New("upstream 503")
		}
		return strings.ToUpper(c[:1]) + c[1:] + ".", nil
	}}
	r := functionsRouter(ft)

	w := doJSON(r, http.MethodPost, "/functions/v1/correct-grammar", api.GrammarRequest{Content: "i is here"})
	if w.Code != http.StatusOK || decode[api.GrammarResponse](t, w).CorrectedContent != "I is here." {
		t.Fatalf("ok: %d %s", w.Code, w.Body.String())
	}

	cases := map[string]struct {
		body any
		code int
		msg  string
	}{
		"malformed": {"{", http.StatusBadRequest, "Invalid JSON body"},
		"blank":     {api.GrammarRequest{}, http.StatusBadRequest, "Missing or invalid content"},
		"blocked":   {api.GrammarRequest{Content: "unsafe"}, http.StatusInternalServerError, "Content blocked due to safety settings."},
		"upstream":  {api.GrammarRequest{Content: "boom"}, http.StatusInternalServerError, "Failed to correct grammar"},
	}
	for name, tc := range cases {
		w := doJSON(r, http.MethodPost, "/functions/v1/correct-grammar", tc.body)
		if w.Code != tc.code || decode[api.FunctionError](t, w).Error != tc.msg {
			t.Fatalf("%s: %d %s", name, w.Code, w.Body.String())
		}
	}
}

func TestTranslate(t *testing.T) {
	ft := &fakeText{configured: true, TranslateFn: func(_ context.Context, title, content, lang string) (*services.Translation, error) {
		if content == "" || lang == "" {
			return nil, services.ErrMissingTranslateInput
		}
		if content == "boom" {
			return nil, errors.New("upstream")
		}
		out := &services.Translation{Content: lang + ":" + content}
		if title != "" {
			tt := lang + ":" + title
			out.Title = &tt
		}
		return out, nil
	}}
	r := functionsRouter(ft)

	w := doJSON(r, http.MethodPost, "/functions/v1/translate", api.TranslateRequest{Title: "Hi", Content: "Hello", TargetLang: "es"})
	got := decode[api.TranslateResponse](t, w)
	if w.Code != http.StatusOK || got.TranslatedTitle == nil || *got.TranslatedTitle != "es:Hi" || got.TranslatedContent != "es:Hello" {
		t.Fatalf("with title: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/functions/v1/translate", api.TranslateRequest{Content: "Hello", TargetLang: "fr"})
	if strings.Contains(w.Body.String(), "translatedTitle") {
		t.Fatalf("title must be omitted: %s", w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/functions/v1/translate", api.TranslateRequest{Content: "Hello"})
	if w.Code != http.StatusBadRequest || decode[api.FunctionError](t, w).Error != "Missing or invalid content or targetLang" {
		t.Fatalf("missing lang: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/functions/v1/translate", api.TranslateRequest{Content: "boom", TargetLang: "de"})
	if w.Code != http.StatusInternalServerError || decode[api.FunctionError](t, w).Error != "Failed to translate content" {
		t.Fatalf("upstream: %d %s", w.Code, w.Body.String())
	}
}
