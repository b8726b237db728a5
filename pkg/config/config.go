package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/talentflow/talentflow-backend/pkg/httputil"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	RabbitMQ RabbitMQConfig
	Services ServicesConfig
	Pipeline PipelineConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DatabaseConfig holds database connection configuration.
// The database is optional: when Host is empty the service runs without
// audit persistence.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Enabled reports whether audit persistence is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// RabbitMQConfig holds RabbitMQ connection configuration.
// An empty URL disables event publishing.
type RabbitMQConfig struct {
	URL            string        `mapstructure:"url"`
	ReconnectDelay time.Duration `mapstructure:"reconnect_delay"`
	MaxRetries     int           `mapstructure:"max_retries"`
	PrefetchCount  int           `mapstructure:"prefetch_count"`
}

// ServicesConfig holds URLs for external collaborator services.
// Empty URLs disable the corresponding optional stage or engine.
type ServicesConfig struct {
	EnhancementServiceURL string `mapstructure:"enhancement_service_url"`
	MatchingServiceURL    string `mapstructure:"matching_service_url"`
	OCRServiceURL         string `mapstructure:"ocr_service_url"`
}

// PipelineConfig bundles the tunable heuristics of the processing pipeline.
// These encode policy, not specification, so they are all overridable.
type PipelineConfig struct {
	Extraction ExtractionConfig  `mapstructure:"extraction"`
	Confidence ConfidenceWeights `mapstructure:"confidence"`
	Scores     ScoreWeights      `mapstructure:"scores"`

	// StageTimeout bounds each stage; zero disables the bound.
	// A timeout is treated exactly like a stage failure.
	StageTimeout time.Duration `mapstructure:"stage_timeout"`

	// MinParsingConfidence is the validator's warning threshold.
	MinParsingConfidence float64 `mapstructure:"min_parsing_confidence"`

	// OCRConcurrency caps simultaneous recognition jobs across all runs.
	OCRConcurrency int `mapstructure:"ocr_concurrency"`

	// JobTTL controls how long finished jobs stay poll-able.
	JobTTL time.Duration `mapstructure:"job_ttl"`
}

// ExtractionConfig enumerates the per-run extraction options.
type ExtractionConfig struct {
	// PreferredMethod is "auto" or an explicit engine id.
	PreferredMethod string `mapstructure:"preferred_method" validate:"omitempty,oneof=auto pdfcpu pdfcpu_relaxed stream ocr plaintext"`
	UseFallback     bool   `mapstructure:"use_fallback"`
	MaxPages        int    `mapstructure:"max_pages"`
	CleanText       bool   `mapstructure:"clean_text"`
	// OCRLanguages is passed verbatim to the recognition service.
	OCRLanguages []string `mapstructure:"ocr_languages"`

	// SmallDocBytes and LargeDocBytes are the selector's size boundaries.
	SmallDocBytes int64 `mapstructure:"small_doc_bytes"`
	LargeDocBytes int64 `mapstructure:"large_doc_bytes"`

	// Fallback triggers. A primary result that violates any of these
	// escalates to the next engine in the fallback order.
	MinTextLength    int     `mapstructure:"min_text_length"`
	MinConfidence    float64 `mapstructure:"min_confidence"`
	MaxPageErrorRate float64 `mapstructure:"max_page_error_rate"`
	MaxSymbolRatio   float64 `mapstructure:"max_symbol_ratio"`
}

// ConfidenceWeights names the constants of the extraction confidence
// formula. Base weights rank direct-text engines above recognition.
type ConfidenceWeights struct {
	BasePlainText     float64 `mapstructure:"base_plaintext"`
	BasePDFCPU        float64 `mapstructure:"base_pdfcpu"`
	BasePDFCPURelaxed float64 `mapstructure:"base_pdfcpu_relaxed"`
	BaseStream        float64 `mapstructure:"base_stream"`
	BaseOCR           float64 `mapstructure:"base_ocr"`

	// LengthBonus is added once past 100 extracted characters and again
	// past 500.
	LengthBonus float64 `mapstructure:"length_bonus"`

	// KeywordBonus is added per résumé keyword hit, up to KeywordBonusCap.
	KeywordBonus    float64 `mapstructure:"keyword_bonus"`
	KeywordBonusCap float64 `mapstructure:"keyword_bonus_cap"`

	// SymbolPenaltyScale multiplies the non-alphanumeric ratio excess
	// above SymbolRatioThreshold.
	SymbolRatioThreshold float64 `mapstructure:"symbol_ratio_threshold"`
	SymbolPenaltyScale   float64 `mapstructure:"symbol_penalty_scale"`
}

// Base returns the base reliability weight for an engine id.
func (w *ConfidenceWeights) Base(engineID string) float64 {
	switch engineID {
	case "plaintext":
		return w.BasePlainText
	case "pdfcpu":
		return w.BasePDFCPU
	case "pdfcpu_relaxed":
		return w.BasePDFCPURelaxed
	case "stream":
		return w.BaseStream
	case "ocr":
		return w.BaseOCR
	default:
		return w.BaseOCR
	}
}

// ScoreWeights names the pipeline-level aggregation weights.
type ScoreWeights struct {
	ExtractionWeight   float64 `mapstructure:"extraction_weight"`
	ParsingWeight      float64 `mapstructure:"parsing_weight"`
	EnhancementWeight  float64 `mapstructure:"enhancement_weight"`
	EnhancementDefault float64 `mapstructure:"enhancement_default"`

	QualityContact    float64 `mapstructure:"quality_contact"`
	QualityExperience float64 `mapstructure:"quality_experience"`
	QualityEducation  float64 `mapstructure:"quality_education"`
	QualitySkills     float64 `mapstructure:"quality_skills"`
	QualitySummary    float64 `mapstructure:"quality_summary"`
}

// Load loads configuration from environment and config files.
// This function applies development defaults and is suitable for local
// development. For production use, prefer LoadWithValidation.
func Load(serviceName string) (*Config, error) {
	return loadConfig(serviceName, true)
}

// LoadWithValidation loads configuration and validates it for the current
// environment. Use this in service main() for fail-fast behavior.
func LoadWithValidation(serviceName string) (*Config, error) {
	cfg, err := loadConfig(serviceName, true)
	if err != nil {
		return nil, err
	}

	if err := httputil.Validate(&cfg.Pipeline.Extraction); err != nil {
		return nil, fmt.Errorf("invalid extraction config: %w", err)
	}

	if cfg.Server.Environment == EnvProduction || cfg.Server.Environment == EnvStaging {
		if cfg.RabbitMQ.URL != "" && strings.Contains(cfg.RabbitMQ.URL, "localhost") {
			return nil, errors.New("TALENTFLOW_RABBITMQ_URL must be a non-localhost value in " + cfg.Server.Environment)
		}
		if cfg.Database.Host == "localhost" {
			return nil, errors.New("localhost database not allowed in " + cfg.Server.Environment + " - set TALENTFLOW_DATABASE_HOST or leave it empty")
		}
	}

	return cfg, nil
}

// loadConfig is the internal configuration loader
func loadConfig(serviceName string, applyDefaults bool) (*Config, error) {
	v := viper.New()

	if applyDefaults {
		setDefaults(v)
	}

	v.SetEnvPrefix("TALENTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(serviceName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/talentflow")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.environment", "development")

	// Database defaults (disabled unless a host is provided)
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "talentflow")
	v.SetDefault("database.password", "devpassword")
	v.SetDefault("database.database", "talentflow")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	// RabbitMQ defaults (disabled unless a URL is provided)
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.reconnect_delay", 5*time.Second)
	v.SetDefault("rabbitmq.max_retries", 5)
	v.SetDefault("rabbitmq.prefetch_count", 10)

	// Collaborator services
	v.SetDefault("services.enhancement_service_url", "")
	v.SetDefault("services.matching_service_url", "")
	v.SetDefault("services.ocr_service_url", "")

	// Pipeline defaults
	v.SetDefault("pipeline.stage_timeout", 2*time.Minute)
	v.SetDefault("pipeline.min_parsing_confidence", 0.3)
	v.SetDefault("pipeline.ocr_concurrency", runtime.NumCPU())
	v.SetDefault("pipeline.job_ttl", 30*time.Minute)

	// Extraction defaults
	v.SetDefault("pipeline.extraction.preferred_method", "auto")
	v.SetDefault("pipeline.extraction.use_fallback", true)
	v.SetDefault("pipeline.extraction.max_pages", 0)
	v.SetDefault("pipeline.extraction.clean_text", true)
	v.SetDefault("pipeline.extraction.ocr_languages", []string{"eng"})
	v.SetDefault("pipeline.extraction.small_doc_bytes", 256*1024)
	v.SetDefault("pipeline.extraction.large_doc_bytes", 4*1024*1024)
	v.SetDefault("pipeline.extraction.min_text_length", 50)
	v.SetDefault("pipeline.extraction.min_confidence", 0.5)
	v.SetDefault("pipeline.extraction.max_page_error_rate", 0.3)
	v.SetDefault("pipeline.extraction.max_symbol_ratio", 0.3)

	// Confidence formula defaults
	v.SetDefault("pipeline.confidence.base_plaintext", 0.95)
	v.SetDefault("pipeline.confidence.base_pdfcpu", 0.90)
	v.SetDefault("pipeline.confidence.base_pdfcpu_relaxed", 0.85)
	v.SetDefault("pipeline.confidence.base_stream", 0.80)
	v.SetDefault("pipeline.confidence.base_ocr", 0.60)
	v.SetDefault("pipeline.confidence.length_bonus", 0.05)
	v.SetDefault("pipeline.confidence.keyword_bonus", 0.02)
	v.SetDefault("pipeline.confidence.keyword_bonus_cap", 0.10)
	v.SetDefault("pipeline.confidence.symbol_ratio_threshold", 0.20)
	v.SetDefault("pipeline.confidence.symbol_penalty_scale", 0.50)

	// Score aggregation defaults
	v.SetDefault("pipeline.scores.extraction_weight", 0.3)
	v.SetDefault("pipeline.scores.parsing_weight", 0.4)
	v.SetDefault("pipeline.scores.enhancement_weight", 0.3)
	v.SetDefault("pipeline.scores.enhancement_default", 0.2)
	v.SetDefault("pipeline.scores.quality_contact", 0.2)
	v.SetDefault("pipeline.scores.quality_experience", 0.3)
	v.SetDefault("pipeline.scores.quality_education", 0.2)
	v.SetDefault("pipeline.scores.quality_skills", 0.2)
	v.SetDefault("pipeline.scores.quality_summary", 0.1)
}
