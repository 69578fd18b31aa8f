package config

import (
	"errors"
	"fmt"
	"strings"

	playvalidator "github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/samirrijal/heritagepass/internal/core/domain"
	"github.com/samirrijal/heritagepass/internal/core/geo"
)

// Reference data sources.
const (
	ReferenceSourceConfig   = "config"
	ReferenceSourcePostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Validation ValidationConfig `mapstructure:"validation"`
	Geography  GeographyConfig  `mapstructure:"geography"`
	Reference  ReferenceConfig  `mapstructure:"reference"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	BodyLimitKB  int `mapstructure:"body_limit_kb" validate:"min=1"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL           string `mapstructure:"url"`
	Stream        string `mapstructure:"stream" validate:"required"`
	SubjectPrefix string `mapstructure:"subject_prefix" validate:"required"`
}

type ValkeyConfig struct {
	Addr       string `mapstructure:"addr"`
	KeyPrefix  string `mapstructure:"key_prefix"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"min=1"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

type ValidationConfig struct {
	PhoneRegion          string  `mapstructure:"phone_region" validate:"len=2,alpha"`
	ServiceAreaBufferKm  float64 `mapstructure:"service_area_buffer_km" validate:"gte=0"`
	MeetingPointRadiusKm float64 `mapstructure:"meeting_point_radius_km" validate:"gt=0"`
}

// GeographyConfig describes the service area and, optionally, its reference
// tables. An empty table falls back to the built-in Guwahati table.
type GeographyConfig struct {
	ServiceArea    domain.ServiceArea    `mapstructure:"service_area"`
	Landmarks      []domain.Landmark     `mapstructure:"landmarks"`
	MeetingPoints  []domain.MeetingPoint `mapstructure:"meeting_points"`
	PoliceStations []domain.Place        `mapstructure:"police_stations"`
	TouristAreas   []domain.Place        `mapstructure:"tourist_areas"`
}

// ReferenceData returns the configured tables, using the defaults for any
// table left empty.
func (g GeographyConfig) ReferenceData() domain.ReferenceData {
	def := geo.GuwahatiReference()
	ref := domain.ReferenceData{
		Landmarks:      g.Landmarks,
		MeetingPoints:  g.MeetingPoints,
		PoliceStations: g.PoliceStations,
		TouristAreas:   g.TouristAreas,
	}
	if len(ref.Landmarks) == 0 {
		ref.Landmarks = def.Landmarks
	}
	if len(ref.MeetingPoints) == 0 {
		ref.MeetingPoints = def.MeetingPoints
	}
	if len(ref.PoliceStations) == 0 {
		ref.PoliceStations = def.PoliceStations
	}
	if len(ref.TouristAreas) == 0 {
		ref.TouristAreas = def.TouristAreas
	}
	return ref
}

type ReferenceConfig struct {
	Source string `mapstructure:"source" validate:"oneof=config postgres"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	return LoadFile(service, "")
}

// LoadFile is Load with an explicit config file. An empty path searches
// "." and "./configs" for an optional config.yaml.
func LoadFile(service, path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		_ = v.ReadInConfig() // OK if missing
	}

	// Environment variables: HERITAGEPASS_DATABASE_HOST → database.host
	v.SetEnvPrefix("HERITAGEPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	area := geo.GuwahatiArea()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.body_limit_kb", 256)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "heritage")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "heritagepass")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.stream", "HERITAGE_VALIDATION")
	v.SetDefault("nats.subject_prefix", "heritage.validation")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.key_prefix", "heritagepass:")
	v.SetDefault("valkey.ttl_seconds", 300)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("validation.phone_region", "IN")
	v.SetDefault("validation.service_area_buffer_km", geo.DefaultBufferKm)
	v.SetDefault("validation.meeting_point_radius_km", geo.DefaultMeetingPointRadiusKm)
	v.SetDefault("geography.service_area.city", area.City)
	v.SetDefault("geography.service_area.state", area.State)
	v.SetDefault("geography.service_area.country", area.Country)
	v.SetDefault("geography.service_area.bounds.north", area.Bounds.North)
	v.SetDefault("geography.service_area.bounds.south", area.Bounds.South)
	v.SetDefault("geography.service_area.bounds.east", area.Bounds.East)
	v.SetDefault("geography.service_area.bounds.west", area.Bounds.West)
	v.SetDefault("geography.service_area.center.lat", area.Center.Lat)
	v.SetDefault("geography.service_area.center.lng", area.Center.Lng)
	v.SetDefault("geography.service_area.radius_km", area.RadiusKm)
	v.SetDefault("reference.source", ReferenceSourceConfig)
}

var structValidator = playvalidator.New()

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Reference.Source == ReferenceSourcePostgres {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	}

	area := c.Geography.ServiceArea
	if area.Bounds.South >= area.Bounds.North {
		errs = append(errs, "geography.service_area.bounds: south must be below north")
	}
	if area.Bounds.West >= area.Bounds.East {
		errs = append(errs, "geography.service_area.bounds: west must be below east")
	}
	if !area.Center.Valid() {
		errs = append(errs, "geography.service_area.center is not a valid coordinate")
	}
	if area.RadiusKm <= 0 {
		errs = append(errs, "geography.service_area.radius_km must be positive")
	}

	if err := structValidator.Struct(c); err != nil {
		var verrs playvalidator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config validation: %w", err)
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Sprintf("%s failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
