package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/atomicstack/erp-navstate/internal/app"
	"github.com/atomicstack/erp-navstate/internal/shell"
)

// ErrInvalid marks configuration errors; the CLI exits with status 2 on them.
var ErrInvalid = errors.New("invalid configuration")

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const envPrefix = "NAVSTATE"

const (
	keyURL          = "url"
	keyCatalog      = "catalog"
	keyStorage      = "storage"
	keyStoragePath  = "storage-path"
	keyWidth        = "width"
	keyHeight       = "height"
	keyFooter       = "footer"
	keyVerbose      = "verbose"
	keyTrace        = "trace"
	keyLogFile      = "log-file"
	keyPollInterval = "poll-interval"
	keyConfig       = "config"
)

const defaultPollInterval = 500 * time.Millisecond

// RegisterFlags adds every configuration flag to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(keyURL, "", "initial navigation query string")
	fs.String(keyCatalog, "", "path to a YAML window catalog (built-in sample when empty)")
	fs.String(keyStorage, string(shell.KindMemory), "tab bar storage backend: memory, file or sqlite")
	fs.String(keyStoragePath, "", "directory (file) or database path (sqlite) for the tab bar")
	fs.Int(keyWidth, 0, "desired viewport width in cells (0 uses terminal width)")
	fs.Int(keyHeight, 0, "desired viewport height in rows (0 uses terminal height)")
	fs.Bool(keyFooter, false, "enable footer hint row (disabled by default)")
	fs.Bool(keyVerbose, false, "print success messages for actions")
	fs.Bool(keyTrace, false, "enable structured trace logging")
	fs.String(keyLogFile, "", "path to the log file")
	fs.Duration(keyPollInterval, defaultPollInterval, "how often the browser re-reads the URL")
	fs.String(keyConfig, "", "path to a YAML config file")
}

// Load resolves configuration from fs, NAVSTATE_* environment variables and
// an optional config file, in that order of precedence. fs is parsed with
// args unless it was parsed already.
func Load(fs *pflag.FlagSet, args []string) (Config, error) {
	if fs.Lookup(keyURL) == nil {
		RegisterFlags(fs)
	}
	if !fs.Parsed() {
		if err := fs.Parse(args); err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if path := v.GetString(keyConfig); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%w: read config %s: %w", ErrInvalid, path, err)
		}
	}

	width, err := intValue(v, keyWidth)
	if err != nil {
		return Config{}, err
	}
	height, err := intValue(v, keyHeight)
	if err != nil {
		return Config{}, err
	}
	poll, err := durationValue(v, keyPollInterval)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			URL:          v.GetString(keyURL),
			CatalogPath:  v.GetString(keyCatalog),
			Storage:      shell.Kind(v.GetString(keyStorage)),
			StoragePath:  v.GetString(keyStoragePath),
			Width:        width,
			Height:       height,
			ShowFooter:   v.GetBool(keyFooter),
			Verbose:      v.GetBool(keyVerbose),
			PollInterval: poll,
		},
		Logging: Logging{
			FilePath: v.GetString(keyLogFile),
			Trace:    v.GetBool(keyTrace),
		},
		Features: Features{
			Verbose: v.GetBool(keyVerbose),
		},
		Args: append([]string(nil), fs.Args()...),
	}
	cfg.Flags = map[string]string{
		"url":          cfg.App.URL,
		"catalog":      cfg.App.CatalogPath,
		"storage":      string(cfg.App.Storage),
		"storagePath":  cfg.App.StoragePath,
		"width":        strconv.Itoa(width),
		"height":       strconv.Itoa(height),
		"footer":       strconv.FormatBool(cfg.App.ShowFooter),
		"trace":        strconv.FormatBool(cfg.Logging.Trace),
		"verbose":      strconv.FormatBool(cfg.App.Verbose),
		"logFile":      cfg.Logging.FilePath,
		"pollInterval": poll.String(),
		"config":       v.GetString(keyConfig),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// intValue rejects values viper would silently read as zero.
func intValue(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(fmt.Sprint(v.Get(key)))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer (got %q)", ErrInvalid, key, raw)
	}
	return n, nil
}

func durationValue(v *viper.Viper, key string) (time.Duration, error) {
	switch raw := v.Get(key).(type) {
	case time.Duration:
		return raw, nil
	default:
		d, err := time.ParseDuration(strings.TrimSpace(fmt.Sprint(raw)))
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a duration (got %q)", ErrInvalid, key, fmt.Sprint(raw))
		}
		return d, nil
	}
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if cfg.App.Width < 0 {
		return fmt.Errorf("%w: width must be >= 0 (got %d)", ErrInvalid, cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return fmt.Errorf("%w: height must be >= 0 (got %d)", ErrInvalid, cfg.App.Height)
	}
	if cfg.App.PollInterval <= 0 {
		return fmt.Errorf("%w: poll-interval must be positive (got %s)", ErrInvalid, cfg.App.PollInterval)
	}
	switch cfg.App.Storage {
	case shell.KindMemory, shell.KindFile, shell.KindSQLite:
	default:
		return fmt.Errorf("%w: unknown storage %q", ErrInvalid, cfg.App.Storage)
	}
	return nil
}
