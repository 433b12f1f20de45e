// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/company-scraper/internal/scraper"
)

// Render modes.
const (
	ModeHeadless = "headless"
	ModeStatic   = "static"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Logging   LoggingConfig    `mapstructure:"logging"`
	Render    RenderConfig     `mapstructure:"render"`
	Browser   BrowserConfig    `mapstructure:"browser"`
	Static    StaticConfig     `mapstructure:"static"`
	Selectors scraper.Profiles `mapstructure:"selectors"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// RenderConfig holds the page-ready and email-wait timeouts.
type RenderConfig struct {
	Mode              string        `mapstructure:"mode"`
	ReadyTimeout      time.Duration `mapstructure:"ready_timeout"`
	EmailTimeout      time.Duration `mapstructure:"email_timeout"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
}

// BrowserConfig configures the Chrome instance launched per request.
type BrowserConfig struct {
	Headless      bool   `mapstructure:"headless"`
	DisableGPU    bool   `mapstructure:"disable_gpu"`
	NoSandbox     bool   `mapstructure:"no_sandbox"`
	DisableDevShm bool   `mapstructure:"disable_dev_shm"`
	UserAgent     string `mapstructure:"user_agent"`
	ExecPath      string `mapstructure:"exec_path"`
	MaxParallel   int    `mapstructure:"max_parallel"`
}

// StaticConfig configures the non-JavaScript fetch path.
type StaticConfig struct {
	RespectRobots bool `mapstructure:"respect_robots"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

func setDefaults(v *viper.Viper) {
	sel := scraper.DefaultSelectors()
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "90s")
	v.SetDefault("logging.development", true)
	v.SetDefault("render.mode", ModeHeadless)
	v.SetDefault("render.ready_timeout", "10s")
	v.SetDefault("render.email_timeout", "3s")
	v.SetDefault("render.navigation_timeout", "30s")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.disable_gpu", true)
	v.SetDefault("browser.no_sandbox", false)
	v.SetDefault("browser.disable_dev_shm", false)
	v.SetDefault("browser.user_agent", defaultUserAgent)
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("browser.max_parallel", 0)
	v.SetDefault("static.respect_robots", false)
	v.SetDefault("selectors.default.card", sel.Card)
	v.SetDefault("selectors.default.name", sel.Name)
	v.SetDefault("selectors.default.website", sel.Website)
	v.SetDefault("selectors.default.email", sel.Email)
	v.SetDefault("selectors.default.ready", sel.Ready)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be > 0")
	}
	switch c.Render.Mode {
	case ModeHeadless, ModeStatic:
	default:
		return fmt.Errorf("render.mode must be %q or %q, got %q", ModeHeadless, ModeStatic, c.Render.Mode)
	}
	if c.Render.ReadyTimeout <= 0 {
		return fmt.Errorf("render.ready_timeout must be > 0")
	}
	if c.Render.EmailTimeout <= 0 {
		return fmt.Errorf("render.email_timeout must be > 0")
	}
	if c.Render.EmailTimeout >= c.Render.ReadyTimeout {
		return fmt.Errorf("render.email_timeout must be shorter than render.ready_timeout")
	}
	if c.Render.NavigationTimeout <= 0 {
		return fmt.Errorf("render.navigation_timeout must be > 0")
	}
	if c.Browser.MaxParallel < 0 {
		return fmt.Errorf("browser.max_parallel must be >= 0")
	}
	if err := validateSelectors("selectors.default", c.Selectors.Default); err != nil {
		return err
	}
	for i, p := range c.Selectors.Hosts {
		if strings.TrimSpace(p.Host) == "" {
			return fmt.Errorf("selectors.profiles[%d].host must be set", i)
		}
	}
	return nil
}

func validateSelectors(prefix string, s scraper.Selectors) error {
	required := []struct {
		key, value string
	}{
		{"card", s.Card},
		{"name", s.Name},
		{"website", s.Website},
		{"email", s.Email},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s.%s must be set", prefix, r.key)
		}
	}
	return nil
}

// ScraperConfig converts the loaded values into scraper.Service settings.
func (c Config) ScraperConfig() scraper.Config {
	return scraper.Config{
		ReadyTimeout: c.Render.ReadyTimeout,
		EmailTimeout: c.Render.EmailTimeout,
		Profiles:     c.Selectors,
	}
}
