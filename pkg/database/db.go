package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Dialect selects the driver and identifier quoting.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

type Config struct {
	Dialect Dialect
	Host    string
	Port    int
	Name    string
	Timeout time.Duration
}

// DSN builds the driver connection string for the given credentials.
func (c Config) DSN(username, password string) string {
	addr := net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	if c.Dialect == Postgres {
		secs := int(c.Timeout / time.Second)
		if secs < 1 {
			secs = 1
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(username, password),
			Host:     addr,
			Path:     "/" + c.Name,
			RawQuery: url.Values{"connect_timeout": {strconv.Itoa(secs)}}.Encode(),
		}
		return u.String()
	}
	mc := mysql.NewConfig()
	mc.User = username
	mc.Passwd = password
	mc.Net = "tcp"
	mc.Addr = addr
	mc.DBName = c.Name
	mc.ParseTime = true
	mc.Timeout = c.Timeout
	return mc.FormatDSN()
}

// DriverName returns the database/sql driver registered for the dialect.
func (c Config) DriverName() string {
	if c.Dialect == Postgres {
		return "postgres"
	}
	return "mysql"
}

// Connect opens a single-connection handle and verifies it with a ping
// bounded by cfg.Timeout. The caller owns the handle and must Close it.
func Connect(ctx context.Context, cfg Config, username, password string) (*sqlx.DB, error) {
	db, err := sqlx.Open(cfg.DriverName(), cfg.DSN(username, password))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// QuoteIdent wraps an identifier in the quoting style of driverName. Callers must
// only pass names that are already known to be plain identifiers.
func QuoteIdent(driverName, name string) string {
	if driverName == "postgres" {
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
