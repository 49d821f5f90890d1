package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

// Config represents application configuration.
type Config struct {
	AppEnv  string `mapstructure:"APP_ENV"`
	AppName string `mapstructure:"APP_NAME"`
	Server  struct {
		Addr         string        `mapstructure:"ADDR"`
		ReadTimeout  time.Duration `mapstructure:"READ_TIMEOUT"`
		WriteTimeout time.Duration `mapstructure:"WRITE_TIMEOUT"`
	} `mapstructure:"HTTP_SERVER"`
	Database struct {
		Type     string `mapstructure:"TYPE"`
		Host     string `mapstructure:"HOST"`
		Port     string `mapstructure:"PORT"`
		DBName   string `mapstructure:"DBNAME"`
		User     string `mapstructure:"USER"`
		Password string `mapstructure:"PASSWORD"`
		SSLMode  string `mapstructure:"SSLMODE"`
		Timezone string `mapstructure:"TIMEZONE"`
	} `mapstructure:"DATABASE"`
	League struct {
		// Plan is the subscription tier the administrator is on. It only
		// gates configuration writes, never ledger behaviour.
		Plan string `mapstructure:"PLAN"`
		// Expected chargeable events per participant over the tournament,
		// supplied by the schedule collaborator.
		Schedule struct {
			Matches int `mapstructure:"MATCHES"`
			Rounds  int `mapstructure:"ROUNDS"`
			Phases  int `mapstructure:"PHASES"`
		} `mapstructure:"SCHEDULE"`
	} `mapstructure:"LEAGUE"`
	Snapshot struct {
		Interval time.Duration `mapstructure:"INTERVAL"`
	} `mapstructure:"SNAPSHOT"`
}

var Module = fx.Module("config", fx.Provide(LoadConfig))

// LoadConfig reads configuration from the environment with sensible defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "quiniela-finance")
	v.SetDefault("HTTP_SERVER.ADDR", ":8080")
	v.SetDefault("HTTP_SERVER.READ_TIMEOUT", 15*time.Second)
	v.SetDefault("HTTP_SERVER.WRITE_TIMEOUT", 15*time.Second)
	v.SetDefault("DATABASE.TYPE", "sqlite")
	v.SetDefault("DATABASE.DBNAME", "quiniela.db")
	v.SetDefault("DATABASE.HOST", "127.0.0.1")
	v.SetDefault("DATABASE.PORT", "5432")
	v.SetDefault("DATABASE.SSLMODE", "disable")
	v.SetDefault("DATABASE.TIMEZONE", "America/Bogota")
	v.SetDefault("LEAGUE.PLAN", "free")
	v.SetDefault("LEAGUE.SCHEDULE.MATCHES", 104)
	v.SetDefault("LEAGUE.SCHEDULE.ROUNDS", 15)
	v.SetDefault("LEAGUE.SCHEDULE.PHASES", 1)
	v.SetDefault("SNAPSHOT.INTERVAL", 1*time.Hour)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
