// Package config loads the configuration of a tzjson run.
//
// Values are merged from defaults, an optional tzjson.{yaml,yml,json,toml} file,
// TZJSON_* environment variables (a .env file may provide them) and explicitly
// set command line flags, in increasing order of precedence.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ngrash/tzjson/internal/logging"
	"github.com/ngrash/tzjson/tzdb/ianadist"
)

// EnvPrefix prefixes the environment variables of all keys, e.g. TZJSON_TARGET_DIR.
const EnvPrefix = "TZJSON"

// ErrHelp is returned by Load when help was requested. The usage has been printed.
var ErrHelp = pflag.ErrHelp

// Config is the configuration of a run.
type Config struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
	Quiet    bool   `mapstructure:"quiet"`
	Silent   bool   `mapstructure:"silent"`

	// Sources. Download takes precedence over Archive, Archive over SourceDir.
	SourceDir       string        `mapstructure:"source_dir"`
	Files           []string      `mapstructure:"files"`
	Archive         string        `mapstructure:"archive"`
	Download        bool          `mapstructure:"download"`
	CacheDir        string        `mapstructure:"cache_dir"`
	DownloadTimeout time.Duration `mapstructure:"-"`

	// Output.
	TargetDir string `mapstructure:"target_dir"`
	Format    string `mapstructure:"format"`
	Indent    int    `mapstructure:"indent"`

	// Current restricts the output to the rules and zones in force at Now.
	Current bool `mapstructure:"current"`
	// Lenient skips malformed lines with a warning instead of aborting.
	Lenient bool `mapstructure:"lenient"`
	// Now is the instant "present" resolves to. Empty means the time of the run.
	Now string `mapstructure:"now"`

	MetricsFile string `mapstructure:"metrics_file"`

	Version bool `mapstructure:"version"`
}

// NowTime returns the instant "present" resolves to.
func (c Config) NowTime() time.Time {
	if t, err := time.Parse(time.RFC3339, c.Now); err == nil {
		return t
	}
	return time.Now()
}

// Dump returns the configuration as indented JSON.
func (c Config) Dump() string {
	b, _ := json.MarshalIndent(c, "", "  ")
	return string(b)
}

// Load merges all configuration sources into a Config. Files are looked up on fs
// relative to its working directory. args are the command line arguments without
// the program name; a single positional argument names the source directory.
func Load(fs afero.Fs, args []string, logger *zap.Logger) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := loadDotEnv(fs, ".env"); err == nil {
		logger.Info("loaded .env file")
	}

	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, k := range allKeys() {
		_ = v.BindEnv(k)
	}

	for _, ext := range [...]string{"yaml", "yml", "json", "toml"} {
		file := "tzjson." + ext
		b, err := afero.ReadFile(fs, file)
		if err != nil {
			continue
		}
		v.SetConfigType(ext)
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			logger.Warn("cannot decode config file", zap.String("file", file), zap.Error(err))
			continue
		}
		logger.Info("loaded config file", zap.String("file", file))
	}

	setDefaults(v)

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = v.BindPFlag(f.Name, f)
		}
	})
	switch rest := flags.Args(); len(rest) {
	case 0:
	case 1:
		if !flags.Changed("source_dir") {
			v.Set("source_dir", rest[0])
		}
	default:
		return nil, fmt.Errorf("expected at most one source directory, got %q", rest)
	}

	if err := normalizeListKeys(v, "files"); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	timeout, err := parseDurationFlexible(v.Get("download_timeout"), time.Minute)
	if err != nil {
		logger.Warn("invalid download_timeout; using default 1m",
			zap.Any("value", v.Get("download_timeout")), zap.Error(err))
	}
	cfg.DownloadTimeout = timeout

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newFlagSet() *pflag.FlagSet {
	f := pflag.NewFlagSet("tzjson", pflag.ContinueOnError)
	f.SortFlags = false
	f.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tzjson [flags] [source_dir]\n\n")
		fmt.Fprintf(os.Stderr, "Convert IANA tzdata files to json.\n\n")
		f.PrintDefaults()
	}

	f.StringP("source_dir", "r", ".", "Directory holding the tzdata files")
	f.StringSlice("files", ianadist.DefaultFiles, "Region files to read")
	f.String("archive", "", "Read the tzdata files from a release archive (.tar.gz)")
	f.Bool("download", false, "Download the latest release from IANA")
	f.String("cache_dir", "", "Directory to keep downloaded releases in")
	f.String("download_timeout", "1m", "Timeout of the download (e.g. \"30s\", \"2m\")")

	f.StringP("target_dir", "t", "zoneinfo", "Directory to write the documents to")
	f.String("format", "json", `Document format "json"|"yaml"`)
	f.Int("indent", 4, "Number of spaces to indent documents with")

	f.BoolP("current", "c", false, "Only write the rules and zones in force now")
	f.Bool("lenient", false, "Skip malformed lines instead of aborting")
	f.String("now", "", "RFC 3339 instant that \"present\" resolves to (default: the time of the run)")
	f.String("metrics_file", "", "Write run metrics to this file in Prometheus text format")

	f.String("env", "dev", `Runtime environment "dev"|"prod"`)
	f.String("log_level", "info", "Log level")
	f.BoolP("quiet", "q", false, "Only log errors")
	f.BoolP("silent", "s", false, "Log nothing")
	f.BoolP("version", "v", false, "Print the version and exit")
	return f
}

func allKeys() []string {
	return []string{
		"env", "log_level", "quiet", "silent",
		"source_dir", "files", "archive", "download", "cache_dir", "download_timeout",
		"target_dir", "format", "indent",
		"current", "lenient", "now", "metrics_file",
		"version",
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("quiet", false)
	v.SetDefault("silent", false)

	v.SetDefault("source_dir", ".")
	v.SetDefault("files", ianadist.DefaultFiles)
	v.SetDefault("archive", "")
	v.SetDefault("download", false)
	v.SetDefault("cache_dir", "")
	v.SetDefault("download_timeout", "1m")

	v.SetDefault("target_dir", "zoneinfo")
	v.SetDefault("format", "json")
	v.SetDefault("indent", 4)

	v.SetDefault("current", false)
	v.SetDefault("lenient", false)
	v.SetDefault("now", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("version", false)
}

// loadDotEnv sets the variables of a .env file on fs that are not set in the environment yet.
func loadDotEnv(fs afero.Fs, name string) error {
	f, err := fs.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	vars, err := godotenv.Parse(f)
	if err != nil {
		return err
	}
	for k, val := range vars {
		if _, ok := os.LookupEnv(k); !ok {
			_ = os.Setenv(k, val)
		}
	}
	return nil
}

// normalizeListKeys accepts comma separated strings and JSON arrays for list keys.
func normalizeListKeys(v *viper.Viper, keys ...string) error {
	for _, key := range keys {
		switch t := v.Get(key).(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				v.Set(key, []string{})
				continue
			}
			if strings.HasPrefix(s, "[") {
				var arr []string
				if err := json.Unmarshal([]byte(s), &arr); err != nil {
					return fmt.Errorf("config key %q expects a JSON array string, got %q: %w", key, s, err)
				}
				v.Set(key, arr)
				continue
			}
			var arr []string
			for _, e := range strings.Split(s, ",") {
				if e = strings.TrimSpace(e); e != "" {
					arr = append(arr, e)
				}
			}
			v.Set(key, arr)
		case []any:
			arr := make([]string, 0, len(t))
			for _, e := range t {
				arr = append(arr, fmt.Sprint(e))
			}
			v.Set(key, arr)
		}
	}
	return nil
}

// Validate reports every missing or invalid setting of cfg at once.
func Validate(cfg Config) error {
	var missing, invalid []string

	if cfg.Env != "dev" && cfg.Env != "prod" {
		invalid = append(invalid, `env must be "dev" or "prod"`)
	}
	if !logging.IsValidLevel(cfg.LogLevel) {
		invalid = append(invalid, "log_level must be one of "+strings.Join(logging.ValidLevels, ", "))
	}
	if f := strings.ToLower(cfg.Format); f != "json" && f != "yaml" && f != "yml" {
		invalid = append(invalid, `format must be "json" or "yaml"`)
	}
	if cfg.Indent < 0 || cfg.Indent > 8 {
		invalid = append(invalid, "indent must be in 0..8")
	}
	if cfg.Now != "" {
		if _, err := time.Parse(time.RFC3339, cfg.Now); err != nil {
			invalid = append(invalid, "now must be an RFC 3339 time")
		}
	}
	if cfg.Download && cfg.Archive != "" {
		invalid = append(invalid, "download cannot be combined with archive")
	}
	if strings.TrimSpace(cfg.TargetDir) == "" {
		missing = append(missing, "TZJSON_TARGET_DIR (or --target_dir)")
	}
	if !cfg.Download && cfg.Archive == "" && strings.TrimSpace(cfg.SourceDir) == "" {
		missing = append(missing, "TZJSON_SOURCE_DIR (or --source_dir)")
	}
	if len(cfg.Files) == 0 {
		missing = append(missing, "TZJSON_FILES (or --files)")
	}

	if len(missing) == 0 && len(invalid) == 0 {
		return nil
	}
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid: "+strings.Join(invalid, ", "))
	}
	return errors.New("configuration errors: " + strings.Join(parts, " | "))
}
