package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

type Game struct {
	// BoardSize is the fixed board dimension for every session; five is the
	// smallest board that can hold a winning line.
	BoardSize int `yaml:"board-size" env:"GAME_BOARD_SIZE" env-default:"15"`
	// BotDelayMS postpones the bot's reply so clients can render a thinking
	// indicator; zero plays the reply immediately.
	BotDelayMS int `yaml:"bot-delay-ms" env:"GAME_BOT_DELAY_MS" env-default:"600"`
	// BotSeed makes the bot's random tie-breaking reproducible; zero seeds
	// from the wall clock.
	BotSeed int64 `yaml:"bot-seed" env:"GAME_BOT_SEED" env-default:"0"`
}

// MustLoad - load all configurations from the config.yml file.
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
