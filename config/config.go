package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// SysConfig holds process-level settings.
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig holds the storefront HTTP server settings.
type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// Secret signs the browser session cookie.
	Secret string `yaml:"secret"`
	// SessionMaxAge is the idle lifetime of a browser session in seconds.
	SessionMaxAge int `yaml:"session_max_age"`
}

// BackendConfig points at the upstream REST backend that owns all
// product, user, order and review data.
type BackendConfig struct {
	BaseURL string `yaml:"baseurl"`
	// Timeout bounds every upstream call, in seconds.
	Timeout int `yaml:"timeout"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

// SmtpConfig enables order confirmation mail when a host is set.
type SmtpConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type AppConfig struct {
	System  SysConfig     `yaml:"system"`
	Web     WebConfig     `yaml:"web"`
	Backend BackendConfig `yaml:"backend"`
	Logger  LogConfig     `yaml:"logger"`
	Smtp    SmtpConfig    `yaml:"smtp"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "codebook",
		Location: "Asia/Shanghai",
		Workdir:  "/var/codebook",
		Debug:    true,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          1898,
		Secret:        "9b6de5cc-0731-1203-xxtx-0f568ac9da37",
		SessionMaxAge: 604800,
	},
	Backend: BackendConfig{
		BaseURL: "http://127.0.0.1:8000",
		Timeout: 30,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/codebook/codebook.log",
	},
	Smtp: SmtpConfig{
		Port: 25,
	},
}

func setEnvValue(name string, f func(v string)) {
	value := os.Getenv(name)
	if value != "" {
		f(value)
	}
}

// LoadConfig reads the YAML config file and applies environment
// overrides. A missing or unreadable file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("CODEBOOK_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("CODEBOOK_WEB_SECRET", func(v string) { cfg.Web.Secret = v })
	setEnvValue("CODEBOOK_BACKEND_BASEURL", func(v string) { cfg.Backend.BaseURL = v })
	setEnvValue("CODEBOOK_SMTP_HOST", func(v string) { cfg.Smtp.Host = v })
	setEnvValue("CODEBOOK_SMTP_USERNAME", func(v string) { cfg.Smtp.Username = v })
	setEnvValue("CODEBOOK_SMTP_PASSWORD", func(v string) { cfg.Smtp.Password = v })

	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 30
	}
	if cfg.Web.SessionMaxAge <= 0 {
		cfg.Web.SessionMaxAge = 604800
	}
	return cfg
}

// WriteConfig persists the configuration back to disk, creating the
// parent directory if needed.
func WriteConfig(cfg *AppConfig, cfile string) error {
	if err := os.MkdirAll(filepath.Dir(cfile), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(cfile, data, 0o644)
}
