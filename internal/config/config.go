// Package config provides Viper-based configuration loading for the Litany combat server.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Snapshot store kinds accepted by ServerConfig.Store.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// ServerConfig holds top-level server settings.
type ServerConfig struct {
	// Name identifies the process in logs.
	Name string `mapstructure:"name"`
	// Store selects where player snapshots live: "memory" or "postgres".
	Store string `mapstructure:"store"`
	// ShutdownTimeout bounds graceful shutdown of the gRPC server.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameServerConfig holds the combat gRPC service settings.
type GameServerConfig struct {
	// GRPCHost is the bind/connect address for the combat gRPC service.
	GRPCHost string `mapstructure:"grpc_host"`
	// GRPCPort is the TCP port for the combat gRPC service.
	GRPCPort int `mapstructure:"grpc_port"`
	// ThinkDelayMs is how long the enemy waits after enemy_turn begins
	// before it attacks. Zero attacks immediately.
	ThinkDelayMs int `mapstructure:"think_delay_ms"`
	// SessionTTL is how long an encounter may sit idle before it is ended.
	// Zero disables the sweep.
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

// Addr returns the "host:port" gRPC address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (g GameServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", g.GRPCHost, g.GRPCPort)
}

// ThinkDelay returns ThinkDelayMs as a duration.
func (g GameServerConfig) ThinkDelay() time.Duration {
	return time.Duration(g.ThinkDelayMs) * time.Millisecond
}

// Content table subdirectories under ContentConfig.Dir.
const (
	ContentSkills  = "skills"
	ContentClasses = "classes"
	ContentEnemies = "enemies"
)

// ContentConfig locates the YAML definition tables.
type ContentConfig struct {
	// Dir is the content root holding skills/, attacks/, weapons/, items/,
	// classes/ and enemies/.
	Dir string `mapstructure:"dir"`
	// DefaultAttack resolves attack ids missing from the catalog.
	DefaultAttack string `mapstructure:"default_attack"`
	// FallbackEnemy is instantiated for unknown enemy ids.
	FallbackEnemy string `mapstructure:"fallback_enemy"`
}

// Path returns the directory of one content table.
func (c ContentConfig) Path(table string) string {
	return filepath.Join(c.Dir, table)
}

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	GameServer GameServerConfig `mapstructure:"gameserver"`
	Content    ContentConfig    `mapstructure:"content"`
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// LITANY_GAMESERVER_GRPC_PORT overrides gameserver.grpc_port
	v.SetEnvPrefix("LITANY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the built-in defaults.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "litany")
	v.SetDefault("server.store", StoreMemory)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "litany")
	v.SetDefault("database.password", "litany")
	v.SetDefault("database.name", "litany")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("gameserver.grpc_host", "127.0.0.1")
	v.SetDefault("gameserver.grpc_port", 50061)
	v.SetDefault("gameserver.think_delay_ms", 600)
	v.SetDefault("gameserver.session_ttl", "30m")

	v.SetDefault("content.dir", "content")
	v.SetDefault("content.default_attack", "slash")
	v.SetDefault("content.fallback_enemy", "skeleton")
}
