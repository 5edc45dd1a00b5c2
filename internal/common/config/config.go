// internal/common/config/config.go
package config

import "time"

type Config struct {
	App     AppConfig               `mapstructure:"app"`
	Camunda CamundaConfig           `mapstructure:"camunda"`
	Backend BackendConfig           `mapstructure:"backend"`
	Redis   RedisConfig             `mapstructure:"redis"`
	Events  EventsConfig            `mapstructure:"events"`
	Workers map[string]WorkerConfig `mapstructure:"workers"`
	Logging LoggingConfig           `mapstructure:"logging"`
	Metrics MetricsConfig           `mapstructure:"metrics"`
}

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

// BackendConfig points at the internal API that serves payloads and accepts results.
type BackendConfig struct {
	BaseURL       string  `mapstructure:"base_url"`
	InternalToken string  `mapstructure:"internal_token"`
	Timeout       int     `mapstructure:"timeout"` // milliseconds
	MaxRetries    int     `mapstructure:"max_retries"`
	RetryBackoff  int     `mapstructure:"retry_backoff"` // milliseconds, doubled per attempt
	RateLimit     float64 `mapstructure:"rate_limit"`    // requests per second, 0 disables
	RateBurst     int     `mapstructure:"rate_burst"`
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	Enabled   bool   `mapstructure:"enabled"`
	KeyPrefix string `mapstructure:"key_prefix"`
	LedgerTTL int    `mapstructure:"ledger_ttl"` // seconds
}

// EventsConfig controls the evaluation.completed notification.
type EventsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Region   string `mapstructure:"region"`
	TopicARN string `mapstructure:"topic_arn"`
}

type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Address        string `mapstructure:"address"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"` // empty disables span export
}

func (r RedisConfig) TTL() time.Duration {
	return time.Duration(r.LedgerTTL) * time.Second
}

func (b BackendConfig) RequestTimeout() time.Duration {
	return GetDuration(b.Timeout)
}
