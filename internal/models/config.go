package models

import (
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString builds a pgx-compatible connection string.
func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type Config struct {
	StartDate time.Time `mapstructure:"start_date"`
	EndDate   time.Time `mapstructure:"end_date"`
	PartnerID string    `mapstructure:"partner_id"`
	Timezone  string    `mapstructure:"timezone"`

	Policy EarningsPolicy `mapstructure:"policy"`

	// Source selects where delivered orders come from: "postgres", "file" or "demo".
	Source          string `mapstructure:"source"`
	InputFile       string `mapstructure:"input_file"`
	FallbackEnabled bool   `mapstructure:"fallback_enabled"`

	Seed             int64 `mapstructure:"seed"`
	DemoPartners     int   `mapstructure:"demo_partners"`
	DemoOrdersPerDay int   `mapstructure:"demo_orders_per_day"`

	KafkaEnabled    bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList string `mapstructure:"kafka_broker_list"`

	OutputFormat      string             `mapstructure:"output_format"`
	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputDestination string             `mapstructure:"output_destination"`
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`

	Database DatabaseConfig `mapstructure:"database"`
}

// Location resolves the configured reporting timezone. Day bucketing, peak
// windows and weekend checks all run in this zone.
func (cfg *Config) Location() (*time.Location, error) {
	if cfg.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	return loc, nil
}

// LoadConfig initializes and reads the configuration using Viper
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Default config location
		viper.AddConfigPath("examples")
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	viper.AutomaticEnv() // Read in environment variables that match

	setPolicyDefaults()
	viper.SetDefault("source", "demo")
	viper.SetDefault("fallback_enabled", true)
	viper.SetDefault("demo_partners", 10)
	viper.SetDefault("demo_orders_per_day", 8)
	viper.SetDefault("seed", 42)
	viper.SetDefault("output_destination", "local")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}

func setPolicyDefaults() {
	def := DefaultEarningsPolicy()
	viper.SetDefault("policy.free_delivery_threshold", def.FreeDeliveryThreshold)
	viper.SetDefault("policy.paid_delivery_partner_fee", def.PaidDeliveryPartnerFee)
	viper.SetDefault("policy.free_delivery_partner_fee", def.FreeDeliveryPartnerFee)
	viper.SetDefault("policy.peak_hour_bonus", def.PeakHourBonus)
	viper.SetDefault("policy.weekend_bonus", def.WeekendBonus)
	viper.SetDefault("policy.daily_target_count", def.DailyTargetCount)
	viper.SetDefault("policy.daily_target_bonus", def.DailyTargetBonus)
}
