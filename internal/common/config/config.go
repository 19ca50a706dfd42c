// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	LLM          LLMConfig               `mapstructure:"llm"`
	Scoring      ScoringConfig           `mapstructure:"scoring"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Workers      map[string]WorkerConfig `mapstructure:"workers"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Logging      LoggingConfig           `mapstructure:"logging"`
	Server       ServerConfig            `mapstructure:"server"`
	Registry     RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Lead scoring ---

// LLMConfig configures the OpenAI-compatible completion service.
type LLMConfig struct {
	BaseURL          string  `mapstructure:"base_url"`
	APIKey           string  `mapstructure:"api_key"`
	Model            string  `mapstructure:"model"`
	Temperature      float64 `mapstructure:"temperature"`
	MaxTokens        int     `mapstructure:"max_tokens"`
	Timeout          int     `mapstructure:"timeout"` // milliseconds
	MaxResponseBytes int64   `mapstructure:"max_response_bytes"`
}

// ScoringConfig holds pipeline settings shared by the lead workers.
type ScoringConfig struct {
	AllowOutOfRange    bool               `mapstructure:"allow_out_of_range"`
	DefaultCompanyName string             `mapstructure:"default_company_name"`
	DefaultCompanySize string             `mapstructure:"default_company_size"`
	Concurrency        int                `mapstructure:"concurrency"`
	FieldMapping       FieldMappingConfig `mapstructure:"field_mapping"`
	Cache              CacheConfig        `mapstructure:"cache"`
}

// FieldMappingConfig names the table columns holding each lead field.
type FieldMappingConfig struct {
	Message     string `mapstructure:"message"`
	CompanyName string `mapstructure:"company_name"`
	CompanySize string `mapstructure:"company_size"`
}

// CacheConfig controls the redis-backed completion reply cache.
type CacheConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	TTL       int    `mapstructure:"ttl"` // seconds
	KeyPrefix string `mapstructure:"key_prefix"`
}

// IntegrationConfig holds settings for CRM and AWS notification services.
type IntegrationConfig struct {
	Zoho struct {
		BaseURL    string `mapstructure:"base_url"`
		AuthToken  string `mapstructure:"oauth_token"`
		LeadSource string `mapstructure:"lead_source"`
		Timeout    int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"zoho"`

	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled     bool     `mapstructure:"enabled"`
			FromEmail   string   `mapstructure:"from_email"`
			SalesEmails []string `mapstructure:"sales_emails"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled  bool   `mapstructure:"enabled"`
			TopicARN string `mapstructure:"topic_arn"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ServerConfig holds the health and metrics listener.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// RegistryConfig points at an optional activity registry file.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
