package translation

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type localeKey struct{}

// ContextWithLocale returns a copy of ctx carrying lang.
func ContextWithLocale(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, localeKey{}, lang)
}

// LocaleFromContext returns the locale stored by ContextWithLocale, or "".
func LocaleFromContext(ctx context.Context) string {
	lang, _ := ctx.Value(localeKey{}).(string)
	return lang
}

// buildMatcher prepares Accept-Language negotiation over the configured
// languages. The base language comes first so it is the matcher's fallback.
func (m *Manager) buildMatcher() {
	tags := []language.Tag{}
	codes := []string{}
	add := func(code string) {
		tag, err := language.Parse(code)
		if err != nil {
			return
		}
		for _, c := range codes {
			if c == code {
				return
			}
		}
		tags = append(tags, tag)
		codes = append(codes, code)
	}
	add(m.baseLanguage)
	for _, code := range m.languages {
		add(code)
	}
	if len(tags) == 0 {
		return
	}
	m.matcher = language.NewMatcher(tags)
	m.matchedCodes = codes
}

// Supports reports whether lang is one of the configured languages.
func (m *Manager) Supports(lang string) bool {
	_, ok := m.dictionaries[lang]
	return ok
}

// MatchLocale picks the configured language that best fits an
// Accept-Language header value, or the base language.
func (m *Manager) MatchLocale(acceptLanguage string) string {
	if m.matcher == nil || acceptLanguage == "" {
		return m.baseLanguage
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return m.baseLanguage
	}
	_, idx, conf := m.matcher.Match(desired...)
	if conf == language.No || idx < 0 || idx >= len(m.matchedCodes) {
		return m.baseLanguage
	}
	return m.matchedCodes[idx]
}

// Middleware negotiates the request locale and stores it in the request
// context. A supported ?lang= query parameter takes precedence.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := r.URL.Query().Get("lang")
		if !m.Supports(lang) {
			lang = m.MatchLocale(r.Header.Get("Accept-Language"))
		}
		next.ServeHTTP(w, r.WithContext(ContextWithLocale(r.Context(), lang)))
	})
}

// TemplateDataContext is TemplateData for the locale carried by ctx.
func (m *Manager) TemplateDataContext(ctx context.Context) map[string]any {
	return m.TemplateData(LocaleFromContext(ctx))
}
