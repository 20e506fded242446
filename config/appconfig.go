package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/spf13/viper"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
)

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// FormConfig describes one deployment of the payment form: which backend
// endpoint receives the record and under which key the identifier is sent.
type FormConfig struct {
	Title           string `mapstructure:"title"`
	IdentifierField string `mapstructure:"identifier_field" valid:"required,in(user_id|username)"`
	IdentifierLabel string `mapstructure:"identifier_label"`
	EndpointURL     string `mapstructure:"endpoint_url" valid:"required,requrl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	JaegerURL   string `mapstructure:"jaeger_url"`
}

type AppConfig struct {
	Server    *ServerConfig    `mapstructure:"server"`
	Form      *FormConfig      `mapstructure:"form"`
	Log       *LogConfig       `mapstructure:"log"`
	Telemetry *TelemetryConfig `mapstructure:"telemetry"`
}

// LoadConfig reads defaults, the optional YAML file at configFile and the
// environment, in increasing order of precedence.
func LoadConfig(configFile string) (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("server.port", 8501)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("form.title", "Payment Generator")
	v.SetDefault("form.identifier_field", "user_id")
	v.SetDefault("form.identifier_label", "")
	v.SetDefault("form.endpoint_url", "http://localhost:4000/api/v0/payment")
	v.SetDefault("log.level", "info")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "payment-form")
	v.SetDefault("telemetry.jaeger_url", "http://jaeger:14268/api/traces")

	_ = v.BindEnv("server.port", "SERVER_PORT")
	_ = v.BindEnv("server.host", "SERVER_HOST")
	_ = v.BindEnv("form.title", "FORM_TITLE")
	_ = v.BindEnv("form.identifier_field", "FORM_IDENTIFIER_FIELD")
	_ = v.BindEnv("form.identifier_label", "FORM_IDENTIFIER_LABEL")
	_ = v.BindEnv("form.endpoint_url", "FORM_ENDPOINT_URL")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("telemetry.enabled", "TELEMETRY_ENABLED")
	_ = v.BindEnv("telemetry.service_name", "TELEMETRY_SERVICE_NAME")
	_ = v.BindEnv("telemetry.jaeger_url", "JAEGER_URL")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	var config AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if config.Form.IdentifierLabel == "" {
		config.Form.IdentifierLabel = DefaultIdentifierLabel(config.Form.IdentifierField)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *AppConfig) Validate() error {
	if c.Form == nil {
		return fmt.Errorf("%w: missing form section", ErrInvalidConfig)
	}
	if _, err := govalidator.ValidateStruct(*c.Form); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	return nil
}

// DefaultIdentifierLabel turns a wire field name such as "user_id" into the
// label shown next to its input.
func DefaultIdentifierLabel(field string) string {
	switch field {
	case "user_id":
		return "User ID"
	case "username":
		return "Username"
	}
	words := strings.Fields(strings.ReplaceAll(field, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
