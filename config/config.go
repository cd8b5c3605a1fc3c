// Copyright (c) 2024-2026 Delloop Lab
//
// Licensed under GPL-2.0. See LICENSE.md for details.
package config

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Application config structure
type AppConfig struct {
	Name     string `mapstructure:"service_name" validate:"required"`
	Version  string `mapstructure:"version" validate:"required"`
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"required"`

	// BackendHost serves the note/session/client pools, signed-upload
	// issuance and the metadata commit.
	BackendHost string `mapstructure:"backend_host" validate:"required"`

	// Remote transcription and structuring endpoints.
	TranscriptionHost    string `mapstructure:"transcription_host" validate:"required"`
	StructuringHost      string `mapstructure:"structuring_host" validate:"required"`
	TranscriptionBackend string `mapstructure:"transcription_backend" validate:"required,oneof=in-house openai"`
	OpenAIApiKey         string `mapstructure:"openai_api_key"`

	// Live recognizer websocket endpoint.
	RecognizerHost string `mapstructure:"recognizer_host" validate:"required"`
	RecognizerKey  string `mapstructure:"recognizer_key"`

	// StopGraceMs is how long stop waits for the device to flush trailing
	// audio before the transcript is finalized.
	StopGraceMs int `mapstructure:"stop_grace_ms" validate:"required"`
	// FetchTimeoutMs bounds every pool read so a hung backend cannot stall
	// the UI.
	FetchTimeoutMs int `mapstructure:"fetch_timeout_ms" validate:"required"`
}

func (c *AppConfig) StopGrace() time.Duration {
	return time.Duration(c.StopGraceMs) * time.Millisecond
}

func (c *AppConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMs) * time.Millisecond
}

// reading config and intializing configs for application
func InitConfig() (*viper.Viper, error) {
	vConfig := viper.NewWithOptions(viper.KeyDelimiter("__"))

	vConfig.AddConfigPath(".")
	vConfig.SetConfigName(".env")
	path := os.Getenv("ENV_PATH")
	if path != "" {
		log.Printf("env path %v", path)
		vConfig.SetConfigFile(path)
	}
	vConfig.SetConfigType("env")
	vConfig.AutomaticEnv()
	setDefault(vConfig)
	if err := vConfig.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		log.Printf("Reading from env variables.")
	}
	return vConfig, nil
}

// GetAppConfig unmarshals and validates the loaded configuration.
func GetAppConfig(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefault(v *viper.Viper) {
	// setting all default values
	v.SetDefault("SERVICE_NAME", "session-api")
	v.SetDefault("VERSION", "0.0.1")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", 9090)
	v.SetDefault("LOG_LEVEL", "debug")

	v.SetDefault("BACKEND_HOST", "")
	v.SetDefault("TRANSCRIPTION_HOST", "")
	v.SetDefault("STRUCTURING_HOST", "")
	v.SetDefault("TRANSCRIPTION_BACKEND", "in-house")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("RECOGNIZER_HOST", "")
	v.SetDefault("RECOGNIZER_KEY", "")

	v.SetDefault("STOP_GRACE_MS", 1000)
	v.SetDefault("FETCH_TIMEOUT_MS", 10000)
}
