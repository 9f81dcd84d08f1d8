package models

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// MetricRange describes the normal distribution and clamp bounds
// a simulated metric is drawn from.
type MetricRange struct {
	Mean float64 `mapstructure:"mean"`
	Std  float64 `mapstructure:"std"`
	Min  float64 `mapstructure:"min"`
	Max  float64 `mapstructure:"max"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider"`
	BucketName string `mapstructure:"bucket_name"`
	Region     string `mapstructure:"region"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type Config struct {
	Seed           int           `mapstructure:"seed"`
	StartDate      time.Time     `mapstructure:"start_date"`
	EndDate        time.Time     `mapstructure:"end_date"`
	SampleInterval time.Duration `mapstructure:"sample_interval"`
	Continuous     bool          `mapstructure:"continuous"`

	SitesFile    string  `mapstructure:"sites_file"`
	InitialSites int     `mapstructure:"initial_sites"`
	RegionLat    float64 `mapstructure:"region_latitude"`
	RegionLon    float64 `mapstructure:"region_longitude"`
	RegionRadius float64 `mapstructure:"region_radius"` // km

	KafkaEnabled     bool   `mapstructure:"kafka_enabled"`
	KafkaBrokerList  string `mapstructure:"kafka_broker_list"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms"`

	MQTTEnabled     bool   `mapstructure:"mqtt_enabled"`
	MQTTBrokerURL   string `mapstructure:"mqtt_broker_url"`
	MQTTClientID    string `mapstructure:"mqtt_client_id"`
	MQTTTopicPrefix string `mapstructure:"mqtt_topic_prefix"`
	MQTTQoS         int    `mapstructure:"mqtt_qos"`

	OutputPath        string             `mapstructure:"output_path"`
	OutputFolder      string             `mapstructure:"output_folder"`
	OutputFormat      string             `mapstructure:"output_format"`      // json, csv, parquet
	OutputDestination string             `mapstructure:"output_destination"` // local, s3
	CloudStorage      CloudStorageConfig `mapstructure:"cloud_storage"`

	PostgresEnabled bool           `mapstructure:"postgres_enabled"`
	Database        DatabaseConfig `mapstructure:"database"`

	// Serve-mode settings
	HTTPAddr  string        `mapstructure:"http_addr"`
	DataFile  string        `mapstructure:"data_file"`
	RedisAddr string        `mapstructure:"redis_addr"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	LogLevel  string        `mapstructure:"log_level"`

	// Simulation tuning
	Metrics             map[string]MetricRange `mapstructure:"metrics"`
	ConditionInterval   time.Duration          `mapstructure:"condition_interval"`
	MaintenanceInterval time.Duration          `mapstructure:"maintenance_interval"`
	FoulingRate         float64                `mapstructure:"fouling_rate"` // fraction per day
	WeekendFactor       float64                `mapstructure:"weekend_factor"`
}

// DefaultMetricRanges mirrors the observed operating envelope of a
// medium-size RO train. Units: bar, m³/h, µS/cm, °C, pH, %, %.
var DefaultMetricRanges = map[string]MetricRange{
	MetricPressure:      {Mean: 65, Std: 2, Min: 50, Max: 80},
	MetricFlowRate:      {Mean: 118, Std: 3, Min: 100, Max: 130},
	MetricConductivity:  {Mean: 460, Std: 15, Min: 400, Max: 500},
	MetricTemperature:   {Mean: 25, Std: 1.5, Min: 20, Max: 30},
	MetricPH:            {Mean: 7.0, Std: 0.2, Min: 6.5, Max: 7.5},
	MetricRecoveryRate:  {Mean: 75, Std: 2, Min: 65, Max: 85},
	MetricSaltRejection: {Mean: 98, Std: 0.5, Min: 96, Max: 99.5},
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

	viper.SetDefault("start_date", time.Now().Format(time.RFC3339))
	viper.SetDefault("sample_interval", "5m")
	viper.SetDefault("http_addr", ":8080")
	viper.SetDefault("log_level", "info")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if config.Metrics == nil {
		config.Metrics = DefaultMetricRanges
	} else {
		for name, rng := range DefaultMetricRanges {
			if _, ok := config.Metrics[name]; !ok {
				config.Metrics[name] = rng
			}
		}
	}

	return &config, nil
}

// LoadSites reads site definitions from a CSV file with columns
// site_id, site_name, latitude, longitude, capacity_m3_per_day.
func LoadSites(filePath string) ([]*Site, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Read() // header

	var sites []*Site
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("malformed site row: %v", fields)
		}
		lat, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude for site %s: %w", fields[0], err)
		}
		lon, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude for site %s: %w", fields[0], err)
		}
		site := &Site{
			ID:       fields[0],
			Name:     fields[1],
			Location: Location{Lat: lat, Lon: lon},
			Status:   SiteStatusOnline,
		}
		if len(fields) > 4 {
			capacity, _ := strconv.ParseFloat(fields[4], 64)
			site.CapacityM3PerDay = capacity
		}
		sites = append(sites, site)
	}

	return sites, nil
}
