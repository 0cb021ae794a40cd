package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey string `mapstructure:"secret_key"`
		// AccessTokenTTLMinutes bounds the validity window of issued access tokens.
		AccessTokenTTLMinutes int `mapstructure:"access_token_ttl_minutes"`
		// RefreshTokenTTLSeconds is a hard ceiling: records older than this are
		// never honored, even before they are physically purged.
		RefreshTokenTTLSeconds int `mapstructure:"refresh_token_ttl_seconds"`
	} `mapstructure:"jwt"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("jwt.access_token_ttl_minutes", 15)
	viper.SetDefault("jwt.refresh_token_ttl_seconds", 604800)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
