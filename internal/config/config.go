// Package config loads application configuration from file and environment.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/urbanlab/settlement-cli/internal/model"
	"github.com/urbanlab/settlement-cli/internal/store"
)

// Config holds the full application configuration.
type Config struct {
	Region        string              `yaml:"region" mapstructure:"region"`
	Data          DataConfig          `yaml:"data" mapstructure:"data"`
	Framework     FrameworkConfig     `yaml:"framework" mapstructure:"framework"`
	Hierarchy     HierarchyConfig     `yaml:"hierarchy" mapstructure:"hierarchy"`
	Agglomeration AgglomerationConfig `yaml:"agglomeration" mapstructure:"agglomeration"`
	Store         StoreConfig         `yaml:"store" mapstructure:"store"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Log           LogConfig           `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the source datasets.
type DataConfig struct {
	LocalitiesPath     string `yaml:"localities_path" mapstructure:"localities_path"`
	DistrictsPath      string `yaml:"districts_path" mapstructure:"districts_path"`
	MunicipalitiesPath string `yaml:"municipalities_path" mapstructure:"municipalities_path"`
	MatrixPath         string `yaml:"matrix_path" mapstructure:"matrix_path"`
	BoundariesPath     string `yaml:"boundaries_path" mapstructure:"boundaries_path"`
	BoundaryNameField  string `yaml:"boundary_name_field" mapstructure:"boundary_name_field"`
	// Windows1251 marks CSV inputs in the legacy regional-export charset.
	Windows1251 bool `yaml:"windows1251" mapstructure:"windows1251"`
	// CacheDir receives downloaded dataset archives.
	CacheDir string `yaml:"cache_dir" mapstructure:"cache_dir"`
}

// FrameworkConfig configures graph construction.
type FrameworkConfig struct {
	CostThreshold float64 `yaml:"cost_threshold" mapstructure:"cost_threshold"`
	Gravity       float64 `yaml:"gravity" mapstructure:"gravity"`
}

// HierarchyConfig configures tier classification.
type HierarchyConfig struct {
	// ProfilePath points to an optional YAML weighting profile; empty uses
	// the built-in default.
	ProfilePath string `yaml:"profile_path" mapstructure:"profile_path"`
}

// AgglomerationConfig configures agglomeration detection.
type AgglomerationConfig struct {
	Threshold         float64 `yaml:"threshold" mapstructure:"threshold"`
	CoreTier          string  `yaml:"core_tier" mapstructure:"core_tier"`
	MinCorePopulation int     `yaml:"min_core_population" mapstructure:"min_core_population"`
	RadiusPerCostUnit float64 `yaml:"radius_per_cost_unit" mapstructure:"radius_per_cost_unit"`
	Parallelism       int     `yaml:"parallelism" mapstructure:"parallelism"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string            `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string            `yaml:"database_url" mapstructure:"database_url"`
	Pool        *store.PoolConfig `yaml:"pool" mapstructure:"pool"`
}

// ServerConfig configures the HTTP API server.
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
	v.SetEnvPrefix("SETTLEMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("region", "region")
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "settlement.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("framework.cost_threshold", 45)
	v.SetDefault("framework.gravity", 0.25)
	v.SetDefault("agglomeration.threshold", 20)
	v.SetDefault("agglomeration.core_tier", "district_center")
	v.SetDefault("agglomeration.min_core_population", 15000)
	v.SetDefault("agglomeration.radius_per_cost_unit", 500)
	v.SetDefault("agglomeration.parallelism", 4)
	v.SetDefault("data.boundary_name_field", "NAME")
	v.SetDefault("data.cache_dir", "/tmp/settlement-data")

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

// Validate checks the configuration for a given run mode. Shared settings
// are always checked; mode-specific requirements only for their mode.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Framework.CostThreshold <= 0 {
		problems = append(problems, "framework.cost_threshold must be > 0")
	}
	if c.Framework.Gravity < 0 {
		problems = append(problems, "framework.gravity must be >= 0")
	}
	if c.Agglomeration.Threshold <= 0 {
		problems = append(problems, "agglomeration.threshold must be > 0")
	}
	if _, err := model.ParseTier(c.Agglomeration.CoreTier); err != nil {
		problems = append(problems, "agglomeration.core_tier is not a tier name")
	}
	if c.Agglomeration.MinCorePopulation < 0 {
		problems = append(problems, "agglomeration.min_core_population must be >= 0")
	}
	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		problems = append(problems, "store.driver must be sqlite or postgres")
	}

	switch mode {
	case "import", "build":
		if c.Data.LocalitiesPath == "" {
			problems = append(problems, "data.localities_path is required")
		}
		if c.Data.MatrixPath == "" {
			problems = append(problems, "data.matrix_path is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	case "evaluate", "indicators", "status":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
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
