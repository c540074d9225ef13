package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// connConfig is the subset of a [source] or [dest] TOML table this tool
// reads to build a go-sql-driver/mysql DSN. Flags on the compare command
// override any field a config file also sets.
type connConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Schema   string `toml:"schema"`
}

// fileConfig is the top-level TOML document accepted by --config.
type fileConfig struct {
	Source connConfig `toml:"source"`
	Dest   connConfig `toml:"dest"`
}

// loadConfig reads a TOML config file, or returns a zero-value fileConfig
// if path is empty: connection parameters are then taken entirely from flags.
func loadConfig(path string) (*fileConfig, error) {
	if path == "" {
		return &fileConfig{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	var cfg fileConfig
	if _, err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %q: %w", path, err)
	}
	return &cfg, nil
}

// dsn builds a go-sql-driver/mysql DSN from a connConfig, using port 3306
// when Port is zero. Flag overrides are applied earlier, by mergeConn.
func (c connConfig) dsn() string {
	port := c.Port
	if port == 0 {
		port = 3306
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s", c.User, c.Password, c.Host, port, c.Schema)
}

func mergeConn(fromFile connConfig, host, user, password, schema string, port int) connConfig {
	out := fromFile
	if host != "" {
		out.Host = host
	}
	if port != 0 {
		out.Port = port
	}
	if user != "" {
		out.User = user
	}
	if password != "" {
		out.Password = password
	}
	if schema != "" {
		out.Schema = schema
	}
	return out
}
