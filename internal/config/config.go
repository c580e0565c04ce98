// Package config loads bot settings from the environment, with an optional
// .env file in the working directory.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Discord struct {
	Token             string   `env:"DISCORD_TOKEN,required,notEmpty"`
	GuildBlacklist    []string `env:"DISCORD_GUILD_BLACKLIST" envSeparator:","`
	InitSlashCommands bool     `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
}

type Storage struct {
	Path string `env:"STORAGE_PATH" envDefault:"db/accounts.db"`
}

type Market struct {
	PermissionsRoleID string `env:"PERMISSIONS_ROLE_ID,required,notEmpty"`
	RemovePassword    string `env:"REMOVE_PASSWORD,required,notEmpty"`
}

// Categories holds the Discord category IDs listings are moved between.
// Any of them may be empty; commands that need a missing one fail on their own.
type Categories struct {
	ForSale      string `env:"FOR_SALE_CATEGORY_ID"`
	Sold         string `env:"SOLD_CATEGORY_ID"`
	Reservations string `env:"RESERVATIONS_CATEGORY_ID"`
}

type Profile struct {
	APIURL    string        `env:"PROFILE_API_URL" envDefault:"https://api.mojang.com/users/profiles/minecraft/"`
	AvatarURL string        `env:"PROFILE_AVATAR_URL" envDefault:"https://mc-heads.net/avatar/$uuid/100/nohelm"`
	Rate      float64       `env:"PROFILE_RATE" envDefault:"2"`
	Timeout   time.Duration `env:"PROFILE_TIMEOUT" envDefault:"5s"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

type Metrics struct {
	// Addr is where /metrics is served; empty disables the endpoint.
	Addr string `env:"METRICS_ADDR"`
}

type Config struct {
	Discord    Discord
	Storage    Storage
	Market     Market
	Categories Categories
	Profile    Profile
	Log        Log
	Metrics    Metrics
	Locale     string `env:"LOCALE" envDefault:"en"`
}

// Load reads the full bot configuration. A missing required variable is an error.
func Load() (*Config, error) {
	loadDotEnv()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

// LoadStorage reads only the storage settings, for tools that never talk to Discord.
func LoadStorage() (Storage, error) {
	loadDotEnv()

	cfg, err := env.ParseAs[Storage]()
	if err != nil {
		return Storage{}, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, falling back to system environment variables")
	}
}
