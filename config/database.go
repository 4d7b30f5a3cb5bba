package config

import "fmt"

// DBConfig contains PostgreSQL configuration for the optional event archive.
// The archive is enabled by setting DB_ENABLED=true; without it, events live
// only in memory and are purged at the retention horizon.
type DBConfig struct {
	Enabled  bool   `env:"ENABLED"  envDefault:"false"`
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"campustrust"`
	Password string `env:"PASSWORD" envDefault:"campustrust"`
	Name     string `env:"NAME"     envDefault:"campustrust"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
}

// DSN returns the connection string for pgx.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// RedisConfig contains Redis configuration for the optional distributed
// session store and revocation list. When Enabled is false, in-memory
// implementations are used.
type RedisConfig struct {
	Enabled  bool   `env:"ENABLED"  envDefault:"false"`
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}
