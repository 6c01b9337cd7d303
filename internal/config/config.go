// Package config loads settings shared by the alpha2048 commands.
// Values come from defaults, an optional alpha2048.yaml, a .env file,
// ALPHA2048_* environment variables and command line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nnaakkaaii/alpha2048/internal/domain"
)

const (
	EnvPrefix      = "ALPHA2048"
	ConfigFileName = "alpha2048"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	*viper.Viper `mapstructure:"-"`

	Depth         int            `mapstructure:"depth"`
	AdaptiveDepth bool           `mapstructure:"adaptive-depth"`
	MaxDepth      int            `mapstructure:"max-depth"`
	CacheSize     int            `mapstructure:"cache-size"`
	ChancePolicy  string         `mapstructure:"chance-policy"`
	Evaluator     string         `mapstructure:"evaluator"`
	Weights       domain.Weights `mapstructure:"weights"`

	Delay   time.Duration `mapstructure:"delay"`
	Quiet   bool          `mapstructure:"quiet"`
	Games   int           `mapstructure:"games"`
	Workers int           `mapstructure:"workers"`
	Seed    int64         `mapstructure:"seed"`
	Report  string        `mapstructure:"report"`

	LogLevel string `mapstructure:"log-level"`
}

func setDefaults(v *viper.Viper) {
	w := domain.DefaultWeights()
	v.SetDefault("depth", domain.DefaultDepth)
	v.SetDefault("adaptive-depth", false)
	v.SetDefault("max-depth", 8)
	v.SetDefault("cache-size", domain.DefaultCacheSize)
	v.SetDefault("chance-policy", "expectation")
	v.SetDefault("evaluator", "heuristic")
	v.SetDefault("weights.empty", w.Empty)
	v.SetDefault("weights.monotonicity", w.Monotonicity)
	v.SetDefault("weights.smoothness", w.Smoothness)
	v.SetDefault("weights.corner", w.Corner)
	v.SetDefault("weights.mergeable", w.Mergeable)
	v.SetDefault("delay", 100*time.Millisecond)
	v.SetDefault("quiet", false)
	v.SetDefault("games", 1)
	v.SetDefault("workers", 4)
	v.SetDefault("seed", 0)
	v.SetDefault("report", "")
	v.SetDefault("log-level", "info")
}

func flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "path to a config file (default: ./alpha2048.yaml if present)")
	fs.Int("depth", domain.DefaultDepth, "search depth in plies")
	fs.Bool("adaptive-depth", false, "deepen the search as the board fills up")
	fs.Int("max-depth", 8, "upper bound for adaptive depth")
	fs.Int("cache-size", domain.DefaultCacheSize, "transposition table entries per search (0 disables)")
	fs.String("chance-policy", "expectation", "spawn layer aggregation: expectation or worst")
	fs.String("evaluator", "heuristic", "board evaluator: heuristic, snake or maxtile")
	fs.Duration("delay", 100*time.Millisecond, "delay between moves")
	fs.Bool("quiet", false, "suppress per-move output")
	fs.Int("games", 1, "number of games to play")
	fs.Int("workers", 4, "games played concurrently in batch mode")
	fs.Int64("seed", 0, "base random seed for batch mode (0 picks one)")
	fs.String("report", "", "write a YAML batch report to this path")
	fs.String("log-level", "info", "debug, info or disabled")
	return fs
}

// Load parses args and returns the merged configuration.
func (c *Config) Load(name string, args []string) error {
	// A missing .env is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	fs := flagSet(name)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigFileName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	c.Viper = v
	return c.Validate()
}

// Validate checks the values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Depth < 1 {
		return fmt.Errorf("%w: depth must be >= 1, got %d", ErrInvalidConfig, c.Depth)
	}
	if c.AdaptiveDepth && c.MaxDepth < c.Depth {
		return fmt.Errorf("%w: max-depth %d is below depth %d", ErrInvalidConfig, c.MaxDepth, c.Depth)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("%w: cache-size must be >= 0", ErrInvalidConfig)
	}
	if _, ok := domain.ChancePolicyByName(c.ChancePolicy); !ok {
		return fmt.Errorf("%w: unknown chance-policy %q", ErrInvalidConfig, c.ChancePolicy)
	}
	if _, err := domain.EvaluatorByName(c.Evaluator, c.Weights); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Games < 1 {
		return fmt.Errorf("%w: games must be >= 1", ErrInvalidConfig)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1", ErrInvalidConfig)
	}
	switch c.LogLevel {
	case "debug", "info", "disabled":
	default:
		return fmt.Errorf("%w: unknown log-level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// NewSolver builds the solver described by the search settings.
func (c *Config) NewSolver() (*domain.Solver, error) {
	ev, err := domain.EvaluatorByName(c.Evaluator, c.Weights)
	if err != nil {
		return nil, err
	}
	policy, ok := domain.ChancePolicyByName(c.ChancePolicy)
	if !ok {
		return nil, fmt.Errorf("%w: unknown chance-policy %q", ErrInvalidConfig, c.ChancePolicy)
	}
	return domain.NewSolver(ev, c.Depth,
		domain.WithChancePolicy(policy),
		domain.WithCacheSize(c.CacheSize),
	), nil
}

// DepthFor returns the search depth to use on b.
func (c *Config) DepthFor(b domain.Board) int {
	if !c.AdaptiveDepth {
		return c.Depth
	}
	return domain.AdaptiveDepth(b, c.Depth, c.MaxDepth)
}

// Default returns the configuration with no file, env or flags applied.
func Default() *Config {
	c := &Config{}
	v := viper.New()
	setDefaults(v)
	if err := v.Unmarshal(c); err != nil {
		panic(err)
	}
	c.Viper = v
	return c
}
