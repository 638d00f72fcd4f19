package store

import "time"

// Config enables and configures each backend
type Config struct {
	// AppName is reported to postgres and clickhouse so the servers can tell our connections apart
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures the session database
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	MaxConnIdle time.Duration
	LogSQL      bool
	// SlowQueryMs marks traced statements as slow; negative disables the mark
	SlowQueryMs int

	// ConnectRetries bounds the pings Open makes while postgres starts, default 6
	ConnectRetries int
	// PingTimeout bounds each of those pings, default 3s
	PingTimeout time.Duration
}

// CHConfig configures the search log database
type CHConfig struct {
	Enabled bool
	URL     string
	Role    string
}

// RedisConfig configures the shared cache; disabled means the in-process cache
type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	Prefix   string
}
