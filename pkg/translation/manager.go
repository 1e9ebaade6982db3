// Package translation resolves template strings against per-language JSON
// dictionaries. Keys are base-language (English) text, so a key with no
// translation is still displayable in the base language.
package translation

import (
	"encoding/json"
	"html/template"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// DefaultBaseLanguage is the language whose keys double as displayable text.
const DefaultBaseLanguage = "en"

// NavigationKeys are resolved once per render for the navigation bar.
var NavigationKeys = []string{
	"Dashboard", "Risk Management", "Audit", "Settings",
	"Users", "Logout", "Quick Actions", "Configuration",
	"Notifications", "Client View", "Profile",
}

// LocaleFunc returns the current locale of the caller's environment.
type LocaleFunc func() string

// Manager holds the dictionaries loaded at startup. It is read-only after
// NewManager returns and safe for concurrent use.
type Manager struct {
	languages    []string
	baseLanguage string
	dictionaries map[string]map[string]string
	locale       LocaleFunc
	logger       *zap.Logger

	matcher      language.Matcher
	matchedCodes []string
}

// Option configures a Manager.
type Option func(*Manager)

// WithBaseLanguage overrides the base language (default "en").
func WithBaseLanguage(lang string) Option {
	return func(m *Manager) {
		if lang != "" {
			m.baseLanguage = lang
		}
	}
}

// WithLocaleFunc sets the source of the current locale used when no language
// is passed to Translate.
func WithLocaleFunc(fn LocaleFunc) Option {
	return func(m *Manager) {
		if fn != nil {
			m.locale = fn
		}
	}
}

// WithLogger sets the logger used while loading dictionaries.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager loads <dir>/<lang>.json for every language. A missing,
// unreadable or malformed file yields an empty dictionary for that language.
func NewManager(dir string, languages []string, opts ...Option) *Manager {
	m := &Manager{
		languages:    append([]string(nil), languages...),
		baseLanguage: DefaultBaseLanguage,
		dictionaries: make(map[string]map[string]string, len(languages)),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.locale == nil {
		base := m.baseLanguage
		m.locale = func() string { return base }
	}

	for _, lang := range m.languages {
		m.dictionaries[lang] = m.loadDictionary(filepath.Join(dir, lang+".json"), lang)
	}
	m.buildMatcher()
	return m
}

func (m *Manager) loadDictionary(path, lang string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warn("translation file unreadable", zap.String("lang", lang), zap.String("path", path), zap.Error(err))
		}
		return map[string]string{}
	}

	dict := map[string]string{}
	if err := json.Unmarshal(data, &dict); err != nil {
		m.logger.Warn("translation file malformed", zap.String("lang", lang), zap.String("path", path), zap.Error(err))
		return map[string]string{}
	}
	m.logger.Debug("translations loaded", zap.String("lang", lang), zap.Int("count", len(dict)))
	return dict
}

// Translate resolves key for lang. An empty lang means the current locale and
// an empty def means no default was supplied.
func (m *Manager) Translate(key, lang, def string) string {
	if key == "" {
		return orKey(def, key)
	}

	target := lang
	if target == "" {
		target = m.locale()
	}

	if value := m.dictionaries[target][key]; value != "" {
		return value
	}

	if target == m.baseLanguage {
		return key
	}
	return orKey(def, key)
}

// T translates key in the current locale.
func (m *Manager) T(key string) string {
	return m.Translate(key, "", "")
}

// NavigationTranslations resolves every navigation key, each key being its
// own default.
func (m *Manager) NavigationTranslations(lang string) map[string]string {
	if lang == "" {
		lang = m.locale()
	}
	out := make(map[string]string, len(NavigationKeys))
	for _, key := range NavigationKeys {
		out[key] = m.Translate(key, lang, key)
	}
	return out
}

// TemplateData is the set of values injected into every rendered template.
func (m *Manager) TemplateData(lang string) map[string]any {
	if lang == "" {
		lang = m.locale()
	}
	return map[string]any{
		"t":                m.templateFunc(lang),
		"nav_translations": m.NavigationTranslations(lang),
		"lang":             lang,
	}
}

// FuncMap exposes t to html/template. In templates:
//
//	{{ t "Dashboard" }}            current locale
//	{{ t "Dashboard" "fr" }}       explicit language
//	{{ t "Dashboard" "fr" "Tab" }} explicit language and default
func (m *Manager) FuncMap() template.FuncMap {
	return template.FuncMap{"t": m.templateFunc("")}
}

func (m *Manager) templateFunc(lang string) func(string, ...string) string {
	return func(key string, args ...string) string {
		l, def := lang, ""
		if len(args) > 0 && args[0] != "" {
			l = args[0]
		}
		if len(args) > 1 {
			def = args[1]
		}
		return m.Translate(key, l, def)
	}
}

// Languages returns the configured language codes.
func (m *Manager) Languages() []string {
	return append([]string(nil), m.languages...)
}

// BaseLanguage returns the language whose keys are displayable text.
func (m *Manager) BaseLanguage() string {
	return m.baseLanguage
}

// Dictionary returns a copy of the dictionary loaded for lang.
func (m *Manager) Dictionary(lang string) map[string]string {
	return maps.Clone(m.dictionaries[lang])
}

// Keys returns every key known to at least one dictionary, sorted.
func (m *Manager) Keys() []string {
	set := map[string]struct{}{}
	for _, dict := range m.dictionaries {
		for k := range dict {
			set[k] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

// Missing returns the known keys without a usable value in lang. The base
// language never misses anything: its keys are the text.
func (m *Manager) Missing(lang string) []string {
	if lang == m.baseLanguage {
		return nil
	}
	dict := m.dictionaries[lang]
	var out []string
	for _, k := range m.Keys() {
		if dict[k] == "" {
			out = append(out, k)
		}
	}
	return out
}

func orKey(def, key string) string {
	if def != "" {
		return def
	}
	return key
}
