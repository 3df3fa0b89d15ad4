package model

import "time"

// Config holds the complete veridex configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Oracle   OracleConfig   `yaml:"oracle" mapstructure:"oracle"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
}

// ServerConfig controls the HTTP boundary layer
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxTextChars int           `yaml:"max_text_chars" mapstructure:"max_text_chars"`
}

// OracleConfig configures the reasoning oracle client
type OracleConfig struct {
	APIKey     string        `yaml:"-" mapstructure:"-"` // GROQ_API_KEY, never persisted to config files
	BaseURL    string        `yaml:"base_url" mapstructure:"base_url"`
	Model      string        `yaml:"model" mapstructure:"model"`
	Timeout    time.Duration `yaml:"timeout" mapstructure:"timeout"`
	HTTPProxy  string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// SearchConfig configures evidence retrieval
type SearchConfig struct {
	SerperAPIKey string        `yaml:"-" mapstructure:"-"` // SERPER_API_KEY, optional
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxResults   int           `yaml:"max_results" mapstructure:"max_results"`
	CitationCap  int           `yaml:"citation_cap" mapstructure:"citation_cap"` // Merged citation evidence cap
	SubqueryGap  time.Duration `yaml:"subquery_gap" mapstructure:"subquery_gap"` // Pause between citation sub-queries
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	RobotsTTL    time.Duration `yaml:"robots_ttl" mapstructure:"robots_ttl"`
}

// PipelineConfig configures orchestration: extraction caps, sampling
// temperatures and inter-item pacing
type PipelineConfig struct {
	MaxClaims            int           `yaml:"max_claims" mapstructure:"max_claims"`
	MaxCitations         int           `yaml:"max_citations" mapstructure:"max_citations"`
	ExtractTemperature   float32       `yaml:"extract_temperature" mapstructure:"extract_temperature"`
	EnsembleTemperatures []float32     `yaml:"ensemble_temperatures" mapstructure:"ensemble_temperatures"`
	ClaimPacing          time.Duration `yaml:"claim_pacing" mapstructure:"claim_pacing"`
	CitationPacing       time.Duration `yaml:"citation_pacing" mapstructure:"citation_pacing"`
}

// DefaultConfig returns the built-in defaults. Every tunable the
// pipeline consumes lives here rather than as literals at call sites.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8000",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
			MaxTextChars: 200,
		},
		Oracle: OracleConfig{
			BaseURL: "https://api.groq.com/openai/v1",
			Model:   "llama-3.1-8b-instant",
			Timeout: 30 * time.Second,
		},
		Search: SearchConfig{
			Timeout:     5 * time.Second,
			MaxResults:  3,
			CitationCap: 5,
			SubqueryGap: 300 * time.Millisecond,
			UserAgent:   "Veridex/0.1 (+https://github.com/veridex/veridex)",
			RobotsTTL:   time.Hour,
		},
		Pipeline: PipelineConfig{
			MaxClaims:            5,
			MaxCitations:         10,
			ExtractTemperature:   0.1,
			EnsembleTemperatures: []float32{0.1, 0.3, 0.5},
			ClaimPacing:          500 * time.Millisecond,
			CitationPacing:       300 * time.Millisecond,
		},
	}
}
