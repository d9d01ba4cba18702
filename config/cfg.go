package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	httpapi "github.com/brewcap/capsule-metrics/internal/api/http"
	"github.com/brewcap/capsule-metrics/internal/archive"
	"github.com/brewcap/capsule-metrics/internal/catalog"
	"github.com/brewcap/capsule-metrics/internal/report"
	"github.com/brewcap/capsule-metrics/internal/shopify"
	"github.com/brewcap/capsule-metrics/internal/shops"
	"github.com/brewcap/capsule-metrics/log"
)

// Config represents the global configuration for the service. Channel
// credentials live here, passed explicitly into the registry; nothing
// reads the process environment at package load.
type Config struct {
	Logger   log.Config     `mapstructure:"logger"`
	HTTP     httpapi.Config `mapstructure:"http"`
	Shops    shops.Config   `mapstructure:"shops"`
	Upstream shopify.Config `mapstructure:"upstream"`
	Catalog  catalog.Config `mapstructure:"catalog"`
	Report   report.Config  `mapstructure:"report"`
	Archive  archive.Config `mapstructure:"archive"`
}

// LoadConfig loads the configuration from a file and/or environment
// variables. Environment variables take precedence over config file values.
func LoadConfig(cfgFile string) (*Config, error) {
	viper.SetConfigType("toml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__", "-", "__"))
	bindEnvVars()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %v", err)
			}
		}
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/config/capsule-metrics")
		viper.AddConfigPath("/etc/capsule-metrics")
		// Try to read config, but don't fail if it doesn't exist
		_ = viper.ReadInConfig()
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config into struct: %v", err)
	}

	return &config, nil
}

// bindEnvVars binds flat environment variable names to nested config keys.
// Channel credentials are file-config only: the channel list is an array of
// tables and has no flat env form.
func bindEnvVars() {
	// Logger
	viper.BindEnv("logger.level", "LOG_LEVEL")
	viper.BindEnv("logger.add_source", "LOG_ADD_SOURCE")

	// HTTP
	viper.BindEnv("http.port", "HTTP_PORT")
	viper.BindEnv("http.address", "HTTP_ADDRESS")
	viper.BindEnv("http.allowed_origins", "HTTP_ALLOWED_ORIGINS")

	// Shops
	viper.BindEnv("shops.default", "SHOPS_DEFAULT")

	// Upstream API
	viper.BindEnv("upstream.api_version", "UPSTREAM_API_VERSION")
	viper.BindEnv("upstream.timeout", "UPSTREAM_TIMEOUT")
	viper.BindEnv("upstream.page_size", "UPSTREAM_PAGE_SIZE")
	viper.BindEnv("upstream.max_pages", "UPSTREAM_MAX_PAGES")

	// Capsule catalog
	viper.BindEnv("catalog.strategy", "CATALOG_STRATEGY")

	// Report sweeps
	viper.BindEnv("report.sweep_delay", "REPORT_SWEEP_DELAY")

	// Archive
	viper.BindEnv("archive.dir", "ARCHIVE_DIR")
	viper.BindEnv("archive.s3_endpoint", "ARCHIVE_S3_ENDPOINT")
	viper.BindEnv("archive.s3_access_key", "ARCHIVE_S3_ACCESS_KEY")
	viper.BindEnv("archive.s3_secret_access_key", "ARCHIVE_S3_SECRET_ACCESS_KEY")
	viper.BindEnv("archive.s3_bucket_name", "ARCHIVE_S3_BUCKET_NAME")
}
