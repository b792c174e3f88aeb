package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env-default:"8080"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// Game collects the per-room tuning. Which health model and round design a
// room uses is fixed here for every room the process creates.
type Game struct {
	TickIntervalMS    int     `yaml:"tick-interval-ms" env-default:"100"`
	SymbolsPerPlayer  int     `yaml:"symbols-per-player" env-default:"3"`
	HealthMode        string  `yaml:"health-mode" env-default:"shared"`
	SharedHearts      int     `yaml:"shared-hearts" env-default:"6"`
	PlayerHearts      int     `yaml:"player-hearts" env-default:"3"`
	MaxRounds         int     `yaml:"max-rounds" env-default:"0"`
	MinConfidence     float64 `yaml:"min-confidence" env-default:"0"`
	CollisionDistance float64 `yaml:"collision-distance" env-default:"30"`
	SpawnClearance    float64 `yaml:"spawn-clearance" env-default:"100"`
	PlayfieldWidth    float64 `yaml:"playfield-width" env-default:"800"`
	SpawnY            float64 `yaml:"spawn-y" env-default:"700"`
	TentacleSpeed     float64 `yaml:"tentacle-speed" env-default:"1"`
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

func (that *Game) TickInterval() time.Duration {
	return time.Duration(that.TickIntervalMS) * time.Millisecond
}
