package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Server configuration
	Server struct {
		Port string `env:"PORT" envDefault:"8000"`

		// Allowed CORS origins for the browser client
		CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:3001"`

		// Requests allowed per client per minute
		RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	}

	// Database configuration
	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/propaudit.db"`
	}

	// Cache settings are read but not consumed by any component yet;
	// they exist so deployments can pre-provision the cache tier.
	Cache struct {
		RedisURL   string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
		TTLSeconds int    `env:"CACHE_TTL" envDefault:"3600"`
		Enabled    bool   `env:"ENABLE_CACHING" envDefault:"true"`
	}

	// External API credentials
	APIKeys struct {
		Attom  string `env:"ATTOM_API_KEY"`
		OpenAI string `env:"OPENAI_API_KEY"`
	}

	// Data acquisition behavior
	Acquisition struct {
		// Generate sample listings instead of calling the property API
		UseSampleData bool `env:"USE_SAMPLE_DATA" envDefault:"true"`

		// Default state for city sync requests
		DefaultState string `env:"DEFAULT_STATE" envDefault:"TX"`

		// Maximum listings fetched per sync
		FetchLimit int `env:"FETCH_LIMIT" envDefault:"50"`
	}

	// Background sync scheduling
	Sync struct {
		// Cities refreshed on the background schedule
		Cities []string `env:"SYNC_CITIES" envSeparator:"," envDefault:"Plano"`

		// Minutes between scheduled sync runs; 0 disables the scheduler
		IntervalMinutes int `env:"SYNC_INTERVAL_MINUTES" envDefault:"0"`

		// Maximum retries for a failed background sync
		MaxRetries int `env:"SYNC_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"SYNC_RETRY_DELAY" envDefault:"5"`

		// Buffered sync-job queue size
		QueueSize int `env:"SYNC_QUEUE_SIZE" envDefault:"16"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
