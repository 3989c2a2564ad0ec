package config

import (
	"fmt"
	"slices"
	"strings"
)

var (
	stores    = []string{StoreMemory, StorePostgres}
	levels    = []string{"debug", "info", "warn", "error"}
	formats   = []string{"json", "console"}
	sslModes  = []string{"disable", "require", "verify-ca", "verify-full"}
	portFloor = 1
	portCeil  = 65535
)

// problems accumulates every violated invariant so one Validate call reports
// them all.
type problems []string

func (p *problems) require(ok bool, format string, args ...any) {
	if !ok {
		*p = append(*p, fmt.Sprintf(format, args...))
	}
}

func (p *problems) nonEmpty(key, value string) {
	p.require(value != "", "%s must not be empty", key)
}

func (p *problems) oneOf(key, value string, allowed []string) {
	p.require(slices.Contains(allowed, value),
		"%s must be one of [%s], got %q", key, strings.Join(allowed, ", "), value)
}

func (p *problems) port(key string, value int) {
	p.require(value >= portFloor && value <= portCeil,
		"%s must be %d-%d, got %d", key, portFloor, portCeil, value)
}

// Validate checks every section. Database settings are checked only when the
// postgres store is selected.
//
// Postcondition: returns nil, or one error listing all violations.
func (c Config) Validate() error {
	var p problems

	p.nonEmpty("server.name", c.Server.Name)
	p.oneOf("server.store", c.Server.Store, stores)
	p.require(c.Server.ShutdownTimeout >= 0, "server.shutdown_timeout must not be negative")

	if c.Server.Store == StorePostgres {
		d := c.Database
		p.nonEmpty("database.host", d.Host)
		p.port("database.port", d.Port)
		p.nonEmpty("database.user", d.User)
		p.nonEmpty("database.name", d.Name)
		p.oneOf("database.sslmode", d.SSLMode, sslModes)
		p.require(d.MaxConns >= 1, "database.max_conns must be >= 1, got %d", d.MaxConns)
		p.require(d.MinConns >= 0, "database.min_conns must be >= 0, got %d", d.MinConns)
		p.require(d.MinConns <= d.MaxConns, "database.min_conns must not exceed database.max_conns")
	}

	p.oneOf("logging.level", c.Logging.Level, levels)
	p.oneOf("logging.format", c.Logging.Format, formats)

	g := c.GameServer
	p.nonEmpty("gameserver.grpc_host", g.GRPCHost)
	p.port("gameserver.grpc_port", g.GRPCPort)
	p.require(g.ThinkDelayMs >= 0, "gameserver.think_delay_ms must be >= 0, got %d", g.ThinkDelayMs)
	p.require(g.SessionTTL >= 0, "gameserver.session_ttl must not be negative")

	p.nonEmpty("content.dir", c.Content.Dir)
	p.nonEmpty("content.default_attack", c.Content.DefaultAttack)
	p.nonEmpty("content.fallback_enemy", c.Content.FallbackEnemy)

	if len(p) == 0 {
		return nil
	}
	return fmt.Errorf("configuration validation failed: %s", strings.Join(p, "; "))
}
