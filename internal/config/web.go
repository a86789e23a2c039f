package config

// DefaultMaxBodyBytes is the request body cap when neither limit variable is set.
const DefaultMaxBodyBytes = 5 * 1024 * 1024

// HTTP configures the listener and body limits.
type HTTP struct {
	ListenAddr   string
	MaxBodyBytes int64
}

// HTTPFromEnv reads LISTEN_ADDR, HTTP_MAX_BODY_BYTES and HTTP_MAX_BODY_MB.
// HTTP_MAX_BODY_BYTES wins when both are set.
func HTTPFromEnv(get Lookup) HTTP {
	h := HTTP{
		ListenAddr:   readString(get, "LISTEN_ADDR", ":8080"),
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
	if n := readUint(get, "HTTP_MAX_BODY_BYTES", 0); n > 0 {
		h.MaxBodyBytes = int64(n)
	} else if mb := readUint(get, "HTTP_MAX_BODY_MB", 0); mb > 0 {
		h.MaxBodyBytes = int64(mb) * 1024 * 1024
	}
	return h
}

// CORS is the cross-origin policy consumed by the web layer.
type CORS struct {
	Origins     []string
	Credentials bool
}

// CORSFromEnv reads CORS_ORIGINS (comma list) and CORS_CREDENTIALS.
func CORSFromEnv(get Lookup) CORS {
	return CORS{
		Origins:     splitList(readString(get, "CORS_ORIGINS", "")),
		Credentials: readFlag(get, "CORS_CREDENTIALS", false),
	}
}
