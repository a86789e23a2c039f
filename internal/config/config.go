// Package config loads application settings from the environment into
// immutable value objects shared by the HTTP, CSRF, auth, DB, upload and mail layers.
package config

import "time"

// Environment names recognized by APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config aggregates every setting recognized by the library.
type Config struct {
	Env         string
	DB          DB
	HTTP        HTTP
	CORS        CORS
	CSRF        CSRF
	Auth        Auth
	GraphiQL    bool
	GraphQLPath string
	HTMLPath    string
	Upload      Upload
	Image       Image
	Mail        *Mail // nil when SMTP_HOST is unset
	Timezone    string
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool { return c.Env == EnvProduction }

// Load reads .env files (outside production) and then the process environment.
func Load() (Config, error) {
	loadDotEnv(OSLookup)
	return LoadFrom(OSLookup)
}

// LoadFrom builds a Config from get without touching .env files.
func LoadFrom(get Lookup) (Config, error) {
	csrf, err := CSRFFromEnv(get)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Env:         readString(get, "APP_ENV", EnvDevelopment),
		DB:          DBFromEnv(get),
		HTTP:        HTTPFromEnv(get),
		CORS:        CORSFromEnv(get),
		CSRF:        csrf,
		Auth:        AuthFromEnv(get),
		GraphiQL:    readFlag(get, "GRAPHIQL", false),
		GraphQLPath: readString(get, "GRAPHQL_PATH", "/graphql"),
		HTMLPath:    readString(get, "HTML_PATH", ""),
		Upload:      UploadFromEnv(get),
		Image:       ImageFromEnv(get),
		Timezone:    readString(get, "APP_TIMEZONE", "UTC"),
	}

	if _, ok := get("SMTP_HOST"); ok {
		mail, err := MailFromEnv(get)
		if err != nil {
			return Config{}, err
		}
		cfg.Mail = &mail
	}
	return cfg, nil
}

// Auth configures JWT authentication.
type Auth struct {
	// Secret is nil when JWT_SECRET is unset, which disables authentication.
	Secret     []byte
	CookieName string
	TTL        time.Duration
}

// DefaultJWTTTL is the token lifetime when JWT_TTL_HOURS is unset.
const DefaultJWTTTL = 48 * time.Hour

// AuthFromEnv reads JWT_SECRET, JWT_COOKIE_NAME and JWT_TTL_HOURS.
func AuthFromEnv(get Lookup) Auth {
	a := Auth{
		CookieName: readString(get, "JWT_COOKIE_NAME", "auth_token"),
		TTL:        DefaultJWTTTL,
	}
	if s, ok := get("JWT_SECRET"); ok && s != "" {
		a.Secret = []byte(s)
	}
	if h := readUint(get, "JWT_TTL_HOURS", 0); h > 0 {
		a.TTL = time.Duration(h) * time.Hour
	}
	return a
}

// Enabled reports whether a JWT secret is configured.
func (a Auth) Enabled() bool { return len(a.Secret) > 0 }
