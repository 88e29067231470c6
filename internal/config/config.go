// Package config loads CLI settings from config.yaml, CUBOTINO_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/AndreaFavero71/cubotino-pocket/internal/robot"
	"github.com/AndreaFavero71/cubotino-pocket/internal/tables"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "CUBOTINO"
)

// Config keys.
const (
	KeyCacheDir     = "cache_dir"
	KeyMetric       = "metric"
	KeyDBPath       = "db_path"
	KeyLayout       = "layout"
	KeyAlternates   = "alternates"
	KeyFlipMs       = "timing.flip_ms"
	KeySpinMs       = "timing.spin_ms"
	KeyRotateMs     = "timing.rotate_ms"
	KeySettleMs     = "timing.settle_ms"
	KeyRobotName    = "robot.name"
	KeyRobotTimeout = "robot.timeout"
)

// DefaultYAML is written by WriteDefault.
const DefaultYAML = `# Cubotino solver configuration

# Move metric for the optimal search: ftm or qtm
metric: ftm

# Orientation of the cube on the robot when a program starts: scanned or simulation
layout: scanned

# Try opposite-face alternates of every solution
alternates: true

# Pruning and move table cache (defaults to ~/.cubotino/tables)
# cache_dir:

# Solve log (defaults to ~/.cubotino/solves.db)
# db_path:

timing:
  flip_ms: 600
  spin_ms: 450
  rotate_ms: 550
  settle_ms: 50

robot:
  name: cubotino
  timeout: 10s
`

// Config is the decoded settings.
type Config struct {
	CacheDir     string
	Metric       tables.Metric
	DBPath       string
	Layout       robot.Layout
	Alternates   bool
	Timing       robot.ServoTiming
	RobotName    string
	RobotTimeout time.Duration
}

// DefaultDir returns ~/.cubotino.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cubotino"
	}
	return filepath.Join(home, ".cubotino")
}

// New returns a viper instance with defaults, the optional config.yaml in
// dir and the environment bound. A missing config.yaml is not an error.
func New(dir string) (*viper.Viper, error) {
	timing := robot.DefaultTiming()

	v := viper.New()
	v.SetDefault(KeyCacheDir, filepath.Join(dir, "tables"))
	v.SetDefault(KeyMetric, "ftm")
	v.SetDefault(KeyDBPath, filepath.Join(dir, "solves.db"))
	v.SetDefault(KeyLayout, "scanned")
	v.SetDefault(KeyAlternates, true)
	v.SetDefault(KeyFlipMs, timing.Flip.Milliseconds())
	v.SetDefault(KeySpinMs, timing.Spin.Milliseconds())
	v.SetDefault(KeyRotateMs, timing.Rotate.Milliseconds())
	v.SetDefault(KeySettleMs, timing.Settle.Milliseconds())
	v.SetDefault(KeyRobotName, "cubotino")
	v.SetDefault(KeyRobotTimeout, 10*time.Second)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// Decode validates the settings held by v.
func Decode(v *viper.Viper) (Config, error) {
	metric, err := tables.ParseMetric(v.GetString(KeyMetric))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", KeyMetric, err)
	}
	layout, err := robot.ParseLayout(v.GetString(KeyLayout))
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", KeyLayout, err)
	}

	ms := func(key string) (time.Duration, error) {
		n := v.GetInt64(key)
		if n < 0 {
			return 0, fmt.Errorf("config %s: negative duration %d", key, n)
		}
		return time.Duration(n) * time.Millisecond, nil
	}
	var timing robot.ServoTiming
	for _, f := range []struct {
		key string
		dst *time.Duration
	}{
		{KeyFlipMs, &timing.Flip},
		{KeySpinMs, &timing.Spin},
		{KeyRotateMs, &timing.Rotate},
		{KeySettleMs, &timing.Settle},
	} {
		if *f.dst, err = ms(f.key); err != nil {
			return Config{}, err
		}
	}

	timeout := v.GetDuration(KeyRobotTimeout)
	if timeout <= 0 {
		return Config{}, fmt.Errorf("config %s: must be positive", KeyRobotTimeout)
	}

	return Config{
		CacheDir:     v.GetString(KeyCacheDir),
		Metric:       metric,
		DBPath:       v.GetString(KeyDBPath),
		Layout:       layout,
		Alternates:   v.GetBool(KeyAlternates),
		Timing:       timing,
		RobotName:    v.GetString(KeyRobotName),
		RobotTimeout: timeout,
	}, nil
}

// Load is New followed by Decode.
func Load(dir string) (Config, error) {
	v, err := New(dir)
	if err != nil {
		return Config{}, err
	}
	return Decode(v)
}

// WriteDefault creates dir and a default config.yaml in it unless one exists.
// It returns the path and whether a file was written.
func WriteDefault(dir string) (string, bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("create config dir: %w", err)
	}
	path := filepath.Join(dir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return path, false, nil
	}
	if !os.IsNotExist(err) {
		return "", false, fmt.Errorf("stat config file: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultYAML), 0o644); err != nil {
		return "", false, err
	}
	return path, true, nil
}
