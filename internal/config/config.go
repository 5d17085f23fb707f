// Package config loads runtime configuration for the story generation
// service from the environment, following the teacher's pattern of
// godotenv.Overload() plus explicit os.Getenv parsing (see loader.go) rather
// than a generic reflection-based binder.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Style describes one output-length profile the final story can be rendered
// in. The set is closed per spec: short_post, long_post, blog_post.
type Style struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	MaxTokens   int    `yaml:"max_tokens" json:"max_tokens"`
}

// WordCountTarget gives a rough words-per-style hint for client display; it
// never feeds back into generation.
func (s Style) WordCountTarget() int {
	return int(float64(s.MaxTokens) * 0.65)
}

// Styles is the closed, ordered set of recognized styles (spec §6).
var Styles = []Style{
	{ID: "short_post", Name: "Short Post", Description: "A concise social-length post.", MaxTokens: 1024},
	{ID: "long_post", Name: "Long Post", Description: "An extended narrative post.", MaxTokens: 2048},
	{ID: "blog_post", Name: "Blog Post", Description: "A full-length blog article.", MaxTokens: 4096},
}

// LoadStyleOverrides reads a YAML file of style descriptions/token limits
// and replaces the matching entries in Styles in place, so ops can retune
// copy and token budgets (e.g. a new house style guide) without a rebuild.
// The set of recognized style ids stays closed: a file naming an id outside
// Styles is rejected rather than silently adding a new style the rest of
// the engine (prompt templates, the FSM's generate_final contract) doesn't
// know about.
func LoadStyleOverrides(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read style overrides: %w", err)
	}
	var overrides []Style
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return fmt.Errorf("config: parse style overrides: %w", err)
	}
	for _, o := range overrides {
		idx := -1
		for i, s := range Styles {
			if s.ID == o.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("config: style override names unknown id %q", o.ID)
		}
		Styles[idx] = o
	}
	return nil
}

// StyleByID looks up a recognized style, reporting whether it exists.
func StyleByID(id string) (Style, bool) {
	for _, s := range Styles {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}

// LLMConfig configures the LLM Client (spec §4.3, §6).
type LLMConfig struct {
	Provider       string        // "openai" | "anthropic" | "gemini"
	APIKey         string        // provider-specific, required
	Model          string        // provider-specific model id
	BaseURL        string        // optional override, mainly for openai-compatible backends
	Timeout        time.Duration // llm_timeout, default 60s
	Retries        int           // llm_retries, default 3
	Temperature    float64       // llm_temperature, default 0.7
	MaxInflight    int64         // max_inflight_llm, default 32
	AdmissionWait  time.Duration // admission_timeout, default 10s
	HookRetries    int           // hook_retries, default 2
	CTARetries     int           // cta_retries, default 2
}

// VectorConfig configures the Vector Client (spec §4.4, §6).
type VectorConfig struct {
	Backend    string // "qdrant" | "memory"
	DSN        string
	Collection string
	Dimensions int
	Metric     string
	TopK       int // vector_top_k, default 5
}

// SessionConfig configures the Session Store (spec §4.1, §6).
type SessionConfig struct {
	TTL             time.Duration // session_ttl, default 24h
	RetentionWindow time.Duration // retention_window, default 720h
	DatabaseURL     string        // optional, enables the Postgres export tier
	RedisURL        string        // optional, enables the cross-instance sweeper lock
}

// Config is the fully resolved runtime configuration.
type Config struct {
	Addr          string
	LogLevel      string
	DepthCutoff   float64 // depth_score classification boundary, default 3.0
	MinCoreIdea   int     // min_core_idea_chars, default 10
	RequestBudget time.Duration

	LLM     LLMConfig
	Vector  VectorConfig
	Session SessionConfig

	SpeechToTextAPIKey string // presence-checked only; transcription itself is out of scope
	StylesFile         string // optional YAML file of style overrides, see LoadStyleOverrides
}

// Load reads configuration from the environment, applying a .env file via
// godotenv.Overload when present (mirrors the teacher's loader.go).
func Load() (Config, error) {
	_ = godotenv.Overload()

	cfg := Config{
		Addr:        firstNonEmpty(os.Getenv("ADDR"), ":8080"),
		LogLevel:    firstNonEmpty(os.Getenv("LOG_LEVEL"), "info"),
		DepthCutoff: envFloat("DEPTH_CUTOFF", 3.0),
		MinCoreIdea: envInt("MIN_CORE_IDEA_CHARS", 10),
		RequestBudget: envDuration("REQUEST_DEADLINE", 90*time.Second),

		LLM: LLMConfig{
			Provider:      firstNonEmpty(strings.ToLower(os.Getenv("LLM_PROVIDER")), "openai"),
			APIKey:        os.Getenv("LLM_API_KEY"),
			Model:         os.Getenv("LLM_MODEL"),
			BaseURL:       os.Getenv("LLM_BASE_URL"),
			Timeout:       envDuration("LLM_TIMEOUT", 60*time.Second),
			Retries:       envInt("LLM_RETRIES", 3),
			Temperature:   envFloat("LLM_TEMPERATURE", 0.7),
			MaxInflight:   int64(envInt("MAX_INFLIGHT_LLM", 32)),
			AdmissionWait: envDuration("ADMISSION_TIMEOUT", 10*time.Second),
			HookRetries:   envInt("HOOK_RETRIES", 2),
			CTARetries:    envInt("CTA_RETRIES", 2),
		},
		Vector: VectorConfig{
			Backend:    firstNonEmpty(strings.ToLower(os.Getenv("VECTOR_BACKEND")), "memory"),
			DSN:        os.Getenv("VECTOR_DSN"),
			Collection: firstNonEmpty(os.Getenv("VECTOR_COLLECTION"), "richmond_context"),
			Dimensions: envInt("VECTOR_DIMENSIONS", 1536),
			Metric:     firstNonEmpty(os.Getenv("VECTOR_METRIC"), "cosine"),
			TopK:       envInt("VECTOR_TOP_K", 5),
		},
		Session: SessionConfig{
			TTL:             envDuration("SESSION_TTL", 24*time.Hour),
			RetentionWindow: envDuration("RETENTION_WINDOW", 720*time.Hour),
			DatabaseURL:     os.Getenv("DATABASE_URL"),
			RedisURL:        os.Getenv("REDIS_URL"),
		},

		SpeechToTextAPIKey: os.Getenv("SPEECH_TO_TEXT_API_KEY"),
		StylesFile:         os.Getenv("STYLES_FILE"),
	}

	if cfg.StylesFile != "" {
		if err := LoadStyleOverrides(cfg.StylesFile); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

// RequiredSecrets validates presence of secrets the spec requires at
// startup (§6). Values are never logged; only absence is reported.
func (c Config) RequiredSecrets() error {
	var missing []string
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		missing = append(missing, "LLM_API_KEY")
	}
	if c.Vector.Backend == "qdrant" && strings.TrimSpace(c.Vector.DSN) == "" {
		missing = append(missing, "VECTOR_DSN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required secrets: %s", strings.Join(missing, ", "))
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
