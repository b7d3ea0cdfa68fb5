package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the transport-level HTTP client timeout. Per-call deadlines
	// are set separately by each component.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "sauron/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// RegistryConfig holds settings for the INSPIRE-HEP registry client.
type RegistryConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the registry REST API root (default "https://inspirehep.net/api").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// ProfileBaseURL prefixes the control number to build a profile link
	// (default "https://inspirehep.net/authors/").
	ProfileBaseURL string `json:"profile_base_url" yaml:"profile_base_url" mapstructure:"profile_base_url"`

	// LookupTimeout bounds single-record lookups (default 10s).
	LookupTimeout time.Duration `json:"lookup_timeout" yaml:"lookup_timeout" mapstructure:"lookup_timeout"`

	// MembersTimeout bounds institution membership listings (default 30s).
	MembersTimeout time.Duration `json:"members_timeout" yaml:"members_timeout" mapstructure:"members_timeout"`
}

// DiscoveryBackend identifies the source used for free-text name discovery.
type DiscoveryBackend string

const (
	DiscoveryOpenAI    DiscoveryBackend = "openai"
	DiscoveryAnthropic DiscoveryBackend = "anthropic"
	DiscoveryGemini    DiscoveryBackend = "gemini"
	DiscoveryOpenAlex  DiscoveryBackend = "openalex"
	DiscoveryFile      DiscoveryBackend = "file"
)

// AIConfig holds shared settings for discovery backends that call a
// Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4o-search-preview").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// DiscoveryConfig holds settings for the name discovery step.
type DiscoveryConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// Backend selects the discovery source: openai, anthropic, gemini,
	// openalex, or file.
	Backend DiscoveryBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Email is sent to OpenAlex for polite pool access.
	Email string `json:"email,omitempty" yaml:"email,omitempty" mapstructure:"email"`

	// NamesFile is the path read by the file backend.
	NamesFile string `json:"names_file,omitempty" yaml:"names_file,omitempty" mapstructure:"names_file"`

	// Timeout bounds the discovery call (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ExpansionConfig holds settings for the affiliation expander.
type ExpansionConfig struct {
	// MaxMembers caps the page size of each membership query (default 250).
	MaxMembers int `json:"max_members" yaml:"max_members" mapstructure:"max_members"`

	// ProfileDelay is the pause between author profile fetches (default 300ms).
	ProfileDelay time.Duration `json:"profile_delay" yaml:"profile_delay" mapstructure:"profile_delay"`

	// InstitutionDelay is the pause between institution name lookups (default 200ms).
	InstitutionDelay time.Duration `json:"institution_delay" yaml:"institution_delay" mapstructure:"institution_delay"`

	// MemberDelay is the pause between membership queries (default 300ms).
	MemberDelay time.Duration `json:"member_delay" yaml:"member_delay" mapstructure:"member_delay"`
}

// CacheBackend identifies the lookup cache implementation.
type CacheBackend string

const (
	CacheNone   CacheBackend = "none"
	CacheMemory CacheBackend = "memory"
	CacheSQLite CacheBackend = "sqlite"
	CacheRedis  CacheBackend = "redis"
)

// CacheConfig holds settings for the read-through identity lookup cache.
type CacheConfig struct {
	// Backend selects the cache: none, memory, sqlite, or redis.
	Backend CacheBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Dir holds the sqlite database (cache/lookups.db).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// RedisURL is the connection URL for the redis backend.
	RedisURL string `json:"redis_url,omitempty" yaml:"redis_url,omitempty" mapstructure:"redis_url"`

	// TTL is how long a cached lookup stays valid (default 7 days).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// FinderConfig groups the settings for one researcher discovery run.
type FinderConfig struct {
	Registry  RegistryConfig  `json:"registry" yaml:"registry" mapstructure:"registry"`
	Discovery DiscoveryConfig `json:"discovery" yaml:"discovery" mapstructure:"discovery"`
	Expansion ExpansionConfig `json:"expansion" yaml:"expansion" mapstructure:"expansion"`
	Cache     CacheConfig     `json:"cache" yaml:"cache" mapstructure:"cache"`

	// MaxResearchers truncates the reconciled list when positive.
	MaxResearchers int `json:"max_researchers" yaml:"max_researchers" mapstructure:"max_researchers"`
}

const defaultUserAgent = "sauron/0.1"

// DefaultFinderConfig returns the settings used when neither flags nor a
// config file override them.
func DefaultFinderConfig() FinderConfig {
	return FinderConfig{
		Registry: RegistryConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   150 * time.Second,
				UserAgent: defaultUserAgent,
			},
			BaseURL:        "https://inspirehep.net/api",
			ProfileBaseURL: "https://inspirehep.net/authors/",
			LookupTimeout:  10 * time.Second,
			MembersTimeout: 30 * time.Second,
		},
		Discovery: DiscoveryConfig{
			Backend: DiscoveryOpenAI,
			Timeout: 120 * time.Second,
		},
		Expansion: ExpansionConfig{
			MaxMembers:       250,
			ProfileDelay:     300 * time.Millisecond,
			InstitutionDelay: 200 * time.Millisecond,
			MemberDelay:      300 * time.Millisecond,
		},
		Cache: CacheConfig{
			Backend: CacheSQLite,
			Dir:     "cache",
			TTL:     7 * 24 * time.Hour,
		},
	}
}

// DefaultModel returns the model used by a discovery backend when none is
// configured.
func DefaultModel(b DiscoveryBackend) string {
	switch b {
	case DiscoveryOpenAI:
		return "gpt-4o-search-preview"
	case DiscoveryAnthropic:
		return "claude-sonnet-4-5-20250929"
	case DiscoveryGemini:
		return "gemini-2.5-flash"
	default:
		return ""
	}
}
