// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                           – dotenv values,
//   • `conf/global.yaml`                        – primary static file,
//   • `LAWDESK_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with `vault:` is resolved through the Vault
// client before unmarshalling, so the model never stores Vault references,
// only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Two spaces after periods.  No em-dash.

package config

import (
	"errors"
	"time"
)

// ErrMissingDSN is returned by server entry points when database.dsn is
// empty.  The loader allows it so client-only tools can share the file.
var ErrMissingDSN = errors.New("config: database.dsn is required")

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr    string `koanf:"listen_addr"     validate:"required,hostname_port"`
	ForceHTTPS    bool   `koanf:"force_https"`
	PublicBaseURL string `koanf:"public_base_url" validate:"omitempty,url"`
}

//
// Database section
//

// Database holds the DSN template and its secret.
//
// The template stays in YAML so operators can tweak host, port, or flags.
// The password usually arrives as a `vault:` reference and is injected into
// the DSN at connect time.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"omitempty,mysql_dsn"`
	Password string `koanf:"password"`
	Migrate  bool   `koanf:"migrate"`
}

//
// Telegram section
//

// Telegram configures the booking notifier.  Leaving BotToken or ChatID
// empty disables notifications.
type Telegram struct {
	BotToken string        `koanf:"bot_token"`
	ChatID   string        `koanf:"chat_id"`
	APIURL   string        `koanf:"api_url" validate:"omitempty,url"`
	Timeout  time.Duration `koanf:"timeout"`
}

//
// Admin, App, Geo, Sentry, Client sections
//

// Admin holds the shared management bearer token.
type Admin struct {
	Token string `koanf:"token" validate:"omitempty,min=16"`
}

// App holds process-wide settings.
type App struct {
	Timezone    string `koanf:"timezone"    validate:"required,timezone"`
	Environment string `koanf:"environment" validate:"required,oneof=development staging production"`
}

// Geo points at an optional GeoLite2-City database.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

// Sentry enables error reporting when DSN is set.
type Sentry struct {
	DSN string `koanf:"dsn"`
}

// Client configures cmd/consult and other Go callers of the API.
type Client struct {
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
	Token   string `koanf:"token"`
	Public  bool   `koanf:"public"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // LAWDESK_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Telegram Telegram `koanf:"telegram"`
	Admin    Admin    `koanf:"admin"`
	App      App      `koanf:"app"`
	Geo      Geo      `koanf:"geo"`
	Sentry   Sentry   `koanf:"sentry"`
	Client   Client   `koanf:"client"`
	Paths    Paths    `koanf:"-"`
}

// Location returns the configured time zone, UTC on error.  Validation has
// already rejected unknown zones.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NotifyEnabled reports whether Telegram credentials are present.
func (c *Config) NotifyEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
