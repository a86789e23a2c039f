package config

// DB configures the relational adapter.
type DB struct {
	URL string
	// MaxConnections caps the pool; zero keeps the driver default.
	MaxConnections int
}

// DBFromEnv reads DATABASE_URL and DATABASE_MAX_CONN.
func DBFromEnv(get Lookup) DB {
	return DB{
		URL:            readString(get, "DATABASE_URL", ""),
		MaxConnections: int(readUint(get, "DATABASE_MAX_CONN", 0)),
	}
}

// Valid reports whether a database URL is configured.
func (d DB) Valid() bool { return d.URL != "" }
