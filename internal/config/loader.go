// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `LAWDESK_`, where `__` maps to "."
     (e.g., `LAWDESK_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, every string value of the form `vault:<path>#<key>` is
replaced by the secret it names.  The tree is then unmarshalled into typed
structs, validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads.

Instrumentation
---------------
  • DEBUG spans for root discovery, YAML read, and secret resolution.
  • ERROR spans for YAML parse, env overlay, unmarshal, and validation.
  • INFO span "config loaded" with key highlights (never secrets).
  • Logs use the global sugared logger (`zap.S()`) so early boot issues
    surface before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`, so
    `go run ./cmd/web` works from any sub-directory.
  • Two spaces after periods.
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/yanizio/lawdesk/internal/vault"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LAWDESK_"

// ErrNoResolver is returned when the tree holds a vault: reference but Load
// was given no SecretResolver.
var ErrNoResolver = errors.New("config references vault secrets but no resolver is configured")

// SecretResolver turns a `vault:` reference into its value.
// *vault.Client satisfies it.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

var current atomic.Pointer[Config]

/*──────────────────────────── options ─────────────────────────────────────*/

type options struct {
	root    string
	secrets SecretResolver
	ctx     context.Context
}

// Option tunes Load.
type Option func(*options)

// WithRoot skips root discovery.
func WithRoot(dir string) Option { return func(o *options) { o.root = dir } }

// WithSecrets resolves vault: references through r.
func WithSecrets(ctx context.Context, r SecretResolver) Option {
	return func(o *options) { o.secrets, o.ctx = r, ctx }
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves LAWDESK_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to the executable heuristic for the bin/ layout.
func rootDir() string {
	if r := os.Getenv(EnvPrefix + "ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves secrets, validates, and
// caches Config.
func Load(opts ...Option) (*Config, error) {
	o := options{ctx: context.Background()}
	for _, fn := range opts {
		fn(&o)
	}
	root := o.root
	if root == "" {
		root = rootDir()
	}
	zap.S().Debugw("config root resolved", "root", root)

	// .env is optional.
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, fmt.Errorf("config: load %s: %w", yamlPath, err)
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// LAWDESK_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(s, EnvPrefix), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, fmt.Errorf("config: env overlay: %w", err)
	}

	if err := resolveSecrets(o.ctx, k, o.secrets); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, fmt.Errorf("config: %w", err)
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"force_https", cfg.HTTP.ForceHTTPS,
		"environment", cfg.App.Environment,
		"notify", cfg.NotifyEnabled(),
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// resolveSecrets replaces every vault: string in k.  Keys are visited in
// sorted order so failures are reported deterministically.
func resolveSecrets(ctx context.Context, k *koanf.Koanf, r SecretResolver) error {
	keys := k.Keys()
	sort.Strings(keys)
	for _, key := range keys {
		s, ok := k.Get(key).(string)
		if !ok || !vault.IsRef(s) {
			continue
		}
		if r == nil {
			return fmt.Errorf("%w: %s", ErrNoResolver, key)
		}
		val, err := r.Resolve(ctx, s)
		if err != nil {
			return fmt.Errorf("config: resolve %s: %w", key, err)
		}
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("config: set %s: %w", key, err)
		}
		zap.S().Debugw("config secret resolved", "key", key)
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// Get returns the most recently loaded Config, or nil.
func Get() *Config { return current.Load() }
