package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"auditools/internal/domain"
)

// AI providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`

	AIProvider      string        `env:"AI_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY"`
	OpenAIModel     string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	GeminiModel     string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	AIRetryAttempts int           `env:"AI_RETRY_ATTEMPTS" envDefault:"3"`
	AIRetryDelay    time.Duration `env:"AI_RETRY_DELAY" envDefault:"2s"`
	AITimeout       time.Duration `env:"AI_TIMEOUT" envDefault:"30s"`

	AppRoot         string   `env:"APP_ROOT" envDefault:"."`
	TemplatesDir    string   `env:"TEMPLATES_DIR" envDefault:"templates"`
	TranslationsDir string   `env:"TRANSLATIONS_DIR" envDefault:"translations"`
	TranslationCSV  string   `env:"TRANSLATION_CSV" envDefault:"translations/to_translate.csv"`
	ReportPath      string   `env:"REPORT_PATH" envDefault:"translation_report.txt"`
	StatsPath       string   `env:"STATS_PATH" envDefault:"ia_statistics.json"`
	Languages       []string `env:"LANGUAGES" envDefault:"en,fr" envSeparator:","`
	BaseLanguage    string   `env:"BASE_LANGUAGE" envDefault:"en"`
	CLILocale       string   `env:"CLI_LOCALE" envDefault:"fr"`
	CleanupDays     int      `env:"CLEANUP_DAYS" envDefault:"30"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load charge la configuration depuis .env (optionnel) puis l'environnement, et la valide.
func Load() (*Config, error) {
	// .env est optionnel lorsque les variables sont fournies par l'environnement (Docker, CI, etc.).
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: lecture de l'environnement: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom est Load pour un environnement explicite (tests, outils).
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("config: lecture de l'environnement: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate applique toutes les règles sur la configuration chargée.
func (c *Config) validate() error {
	c.AIProvider = strings.ToLower(strings.TrimSpace(c.AIProvider))
	if c.AIProvider != ProviderOpenAI && c.AIProvider != ProviderGemini {
		return fmt.Errorf("config: AI_PROVIDER doit valoir %q ou %q (reçu %q)", ProviderOpenAI, ProviderGemini, c.AIProvider)
	}

	langs := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, err := language.Parse(l); err != nil {
			return fmt.Errorf("config: LANGUAGES contient un code invalide (%q): %w", l, err)
		}
		langs = append(langs, l)
	}
	if len(langs) == 0 {
		return fmt.Errorf("config: LANGUAGES est requis et ne peut pas être vide")
	}
	c.Languages = langs

	if _, err := language.Parse(c.BaseLanguage); err != nil {
		return fmt.Errorf("config: BASE_LANGUAGE invalide (%q): %w", c.BaseLanguage, err)
	}
	if !slices.Contains(c.Languages, c.BaseLanguage) {
		return fmt.Errorf("config: BASE_LANGUAGE (%q) doit faire partie de LANGUAGES", c.BaseLanguage)
	}
	if _, err := language.Parse(c.CLILocale); err != nil {
		return fmt.Errorf("config: CLI_LOCALE invalide (%q): %w", c.CLILocale, err)
	}

	if c.CleanupDays <= 0 {
		return fmt.Errorf("config: CLEANUP_DAYS doit être positif (reçu %d)", c.CleanupDays)
	}
	if c.AIRetryAttempts < 1 {
		c.AIRetryAttempts = 1
	}

	if strings.TrimSpace(c.DatabaseURL) != "" {
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL invalide (%q): scheme ou host manquant", c.DatabaseURL)
		}
	}
	return nil
}

// RequireDatabase vérifie que DATABASE_URL est renseignée.
func (c *Config) RequireDatabase() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("config: DATABASE_URL est requis: %w", domain.ErrDatabaseNotConfigured)
	}
	return nil
}

// APIKey retourne la clé du fournisseur IA configuré.
func (c *Config) APIKey() string {
	if c.AIProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// APIKeyEnv retourne le nom de la variable contenant la clé du fournisseur.
func (c *Config) APIKeyEnv() string {
	if c.AIProvider == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}
