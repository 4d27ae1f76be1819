package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel       string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Server         Server        `yaml:"server"`
	ConnectTimeout time.Duration `yaml:"connect-timeout" env:"CONNECT_TIMEOUT" env-default:"5s"`
	MaxCommandLen  int           `yaml:"max-command-len" env:"MAX_COMMAND_LEN" env-default:"256"`
}

type Server struct {
	Host string `yaml:"host" env:"SERVER_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"SERVER_PORT" env-default:"4242"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Server) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
