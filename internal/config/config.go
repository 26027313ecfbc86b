package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel          string   `yaml:"log-level" env-default:"info"`
	HTTPPort          string   `yaml:"http-port" env-default:"9090"`
	SocketPort        string   `yaml:"socket-port" env-default:"8080"`
	Redis             Redis    `yaml:"redis"`
	SQLiteStoragePath string   `yaml:"sqlite-storage-path" env-default:"rhymer.db"`
	RhymeAPI          RhymeAPI `yaml:"rhyme-api"`
	Game              Game     `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

type RhymeAPI struct {
	BaseURL        string `yaml:"base-url" env-default:"https://rhymetimewords.netlify.app"`
	TimeoutSeconds int    `yaml:"timeout-seconds" env-default:"10"`
}

type Game struct {
	MaxRounds          int `yaml:"max-rounds" env-default:"5"`
	MaxMovesPerPlayer  int `yaml:"max-moves-per-player" env-default:"5"`
	RevealDelaySeconds int `yaml:"reveal-delay-seconds" env-default:"5"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *RhymeAPI) GetTimeout() time.Duration {
	return time.Duration(that.TimeoutSeconds) * time.Second
}

func (that *Game) GetRevealDelay() time.Duration {
	return time.Duration(that.RevealDelaySeconds) * time.Second
}
