package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Monitor  Monitor
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Monitor struct {
	SweepInterval        time.Duration // how often the expiry sweep runs
	SnapshotRecentEvents int           // K most recent violation events per snapshot row
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SWEEP_INTERVAL", "30s")
	viper.SetDefault("SNAPSHOT_RECENT_EVENTS", 5)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Monitor.SweepInterval = viper.GetDuration("SWEEP_INTERVAL")
	config.Monitor.SnapshotRecentEvents = viper.GetInt("SNAPSHOT_RECENT_EVENTS")

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}
