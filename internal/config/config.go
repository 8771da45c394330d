package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/Alturino/productproxy/internal/log"
)

type Application struct {
	Env  string `mapstructure:"env"  json:"env"`
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port" validate:"gte=0,lte=65535"`
}

type Remote struct {
	BaseURL    string        `mapstructure:"base_url"   json:"base_url"   validate:"required,url"`
	AccessKey  string        `mapstructure:"access_key" json:"access_key" validate:"required"`
	Classifier string        `mapstructure:"classifier" json:"classifier" validate:"oneof=marker status"`
	Marker     string        `mapstructure:"marker"     json:"marker"     validate:"required"`
	Timeout    time.Duration `mapstructure:"timeout"    json:"timeout"    validate:"gte=0"`
}

func (r Remote) MarshalZerologObject(e *zerolog.Event) {
	e.Str("base_url", r.BaseURL).
		Str("access_key", "***").
		Str("classifier", r.Classifier).
		Str("marker", r.Marker).
		Dur("timeout", r.Timeout)
}

func (r Remote) MarshalJSON() ([]byte, error) {
	r.AccessKey = "***"
	type R Remote
	return json.Marshal(R(r))
}

type Otel struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type Config struct {
	Application Application `mapstructure:"application" json:"application"`
	Remote      Remote      `mapstructure:"remote"      json:"remote"`
	Otel        Otel        `mapstructure:"otel"        json:"otel"`
}

var ErrInvalidConfig = errors.New("invalid config")

var defaults = map[string]any{
	"application.env":   "production",
	"application.host":  "0.0.0.0",
	"application.port":  8080,
	"remote.base_url":   "",
	"remote.access_key": "",
	"remote.classifier": "marker",
	"remote.marker":     "_id",
	"remote.timeout":    10 * time.Second,
	"otel.host":         "",
	"otel.port":         4317,
}

var (
	once   sync.Once
	config *Config
)

// InitConfig loads the config once and exits the process when it is unusable.
func InitConfig(c context.Context, dir string, filename string) *Config {
	once.Do(func() {
		logger := zerolog.Ctx(c).
			With().
			Str(log.KeyTag, "main InitConfig").
			Str(log.KeyProcess, "init config").
			Str(log.KeyFilename, filename).
			Logger()

		c = logger.WithContext(c)
		cfg, err := Load(c, dir, filename)
		if err != nil {
			err = fmt.Errorf("failed loading config with error=%w", err)
			logger.Fatal().Err(err).Msg(err.Error())
		}
		config = cfg
	})
	return config
}

func Load(c context.Context, dir string, filename string) (*Config, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "config Load").
		Str(log.KeyFilename, filename).
		Logger()

	v := viper.New()
	v.SetConfigName(filename)
	v.AddConfigPath(dir)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	logger = logger.With().Str(log.KeyProcess, "reading config").Logger()
	logger.Info().Msg("reading config")
	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error when reading config with error=%w", err)
		}
		logger.Warn().Err(err).Msg("config file not found, using defaults and environment")
	} else {
		logger.Info().Msg("read config")
	}

	logger = logger.With().Str(log.KeyProcess, "unmarshaling config").Logger()
	logger.Info().Msg("unmarshaling config")
	cfg := Config{}
	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("error unmarshaling config with error=%w", err)
	}
	logger.Info().Msg("unmarshaled config")

	logger = logger.With().Str(log.KeyProcess, "validating config").Logger()
	logger.Info().Msg("validating config")
	validate := validator.New(validator.WithRequiredStructEnabled())
	err = validate.StructCtx(c, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	logger = logger.With().Any(log.KeyConfig, cfg).Logger()
	logger.Info().Msg("validated config")

	return &cfg, nil
}
