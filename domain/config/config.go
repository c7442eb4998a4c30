package config

import "time"

// Config represents the structure of config.yml used by the tool.
type Config struct {
	Environment string `yaml:"environment"`

	HTTP struct {
		Addr        string `yaml:"addr"`
		MaxUploadMB int    `yaml:"max_upload_mb"`
	} `yaml:"http"`

	Session struct {
		Store      string        `yaml:"store"` // memory|redis
		TTL        time.Duration `yaml:"ttl"`
		CookieName string        `yaml:"cookie_name"`
	} `yaml:"session"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Report struct {
		InternalOrigins []string `yaml:"internal_origins"`
	} `yaml:"report"`
}

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	EnvProduction = "production"
)

// Default returns the configuration used when no file or env var says otherwise.
func Default() *Config {
	var c Config
	c.Environment = "development"
	c.HTTP.Addr = ":8080"
	c.HTTP.MaxUploadMB = 32
	c.Session.Store = StoreMemory
	c.Session.TTL = 24 * time.Hour
	c.Session.CookieName = "mttr_session"
	c.Redis.Addr = "localhost:6379"
	c.Report.InternalOrigins = []string{"internal call logging", "web"}
	return &c
}

func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// MaxUploadBytes is the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 { return int64(c.HTTP.MaxUploadMB) << 20 }
