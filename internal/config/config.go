// Package config loads application configuration from file and
// environment and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Dodge      DodgeConfig      `yaml:"dodge" mapstructure:"dodge"`
	Rules      RulesConfig      `yaml:"rules" mapstructure:"rules"`
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
	FTP        FTPConfig        `yaml:"ftp" mapstructure:"ftp"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	CRM        CRMConfig        `yaml:"crm" mapstructure:"crm"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// DodgeConfig holds Dodge API access settings.
type DodgeConfig struct {
	APIKey   string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string  `yaml:"base_url" mapstructure:"base_url"`
	DaysBack int     `yaml:"days_back" mapstructure:"days_back"`
	MaxPages int     `yaml:"max_pages" mapstructure:"max_pages"`
	RPS      float64 `yaml:"rps" mapstructure:"rps"`
}

// RulesConfig points at the business-rule correlation workbook.
type RulesConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// OutputConfig configures where dataset workbooks are written.
type OutputConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// FTPConfig holds the primary delivery drop settings.
type FTPConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr        string `yaml:"addr" mapstructure:"addr"`
	User        string `yaml:"user" mapstructure:"user"`
	Password    string `yaml:"password" mapstructure:"password"`
	Dir         string `yaml:"dir" mapstructure:"dir"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	Enabled  bool    `yaml:"enabled" mapstructure:"enabled"`
	ClientID string  `yaml:"client_id" mapstructure:"client_id"`
	Username string  `yaml:"username" mapstructure:"username"`
	KeyPath  string  `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string  `yaml:"login_url" mapstructure:"login_url"`
	SObject  string  `yaml:"sobject" mapstructure:"sobject"`
	RPS      float64 `yaml:"rps" mapstructure:"rps"`
}

// NotionConfig holds Notion audit log settings.
type NotionConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Token   string `yaml:"token" mapstructure:"token"`
	AuditDB string `yaml:"audit_db" mapstructure:"audit_db"`
}

// CRMConfig holds the static values stamped onto every lead.
type CRMConfig struct {
	Field1 string `yaml:"field_1" mapstructure:"field_1"`
	Field2 string `yaml:"field_2" mapstructure:"field_2"`
	Field3 string `yaml:"field_3" mapstructure:"field_3"`
	Field4 string `yaml:"field_4" mapstructure:"field_4"`
	Field5 string `yaml:"field_5" mapstructure:"field_5"`
	Field6 string `yaml:"field_6" mapstructure:"field_6"`
	Field7 string `yaml:"field_7" mapstructure:"field_7"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dodge.base_url", "https://www.construction.com/api/1.0/int")
	v.SetDefault("dodge.days_back", 1)
	v.SetDefault("dodge.max_pages", 10)
	v.SetDefault("dodge.rps", 2)
	v.SetDefault("rules.path", "rules.xlsx")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leads.db")
	v.SetDefault("output.dir", ".")
	v.SetDefault("ftp.timeout_secs", 30)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("salesforce.sobject", "Lead")
	v.SetDefault("salesforce.rps", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
