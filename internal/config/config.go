// ABOUTME: Configuration loading for promptlib using viper.
// ABOUTME: Merges defaults, config.yaml, .env files, and PROMPTLIB_ env vars.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. PROMPTLIB_STORAGE_DRIVER.
const EnvPrefix = "PROMPTLIB"

// Config is the full promptlib configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Query   QueryConfig   `mapstructure:"query" yaml:"query"`
}

// StorageConfig selects the persistence driver.
// The Driver field determines which other fields are relevant.
type StorageConfig struct {
	Driver       string        `mapstructure:"driver" yaml:"driver"` // "badger", "sqlite", "redis" or "memory"
	Path         string        `mapstructure:"path" yaml:"path"`     // data directory for badger and sqlite
	OpenAttempts uint          `mapstructure:"open_attempts" yaml:"open_attempts"`
	OpenDelay    time.Duration `mapstructure:"open_delay" yaml:"open_delay"`
	Redis        RedisConfig   `mapstructure:"redis" yaml:"redis"`
}

// RedisConfig is only used when Driver == "redis".
type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr"`
	Password string        `mapstructure:"password" yaml:"password,omitempty"`
	DB       int           `mapstructure:"db" yaml:"db"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LogConfig controls the rotating log file.
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Console    string `mapstructure:"console" yaml:"console"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// QueryConfig holds list defaults.
type QueryConfig struct {
	Sort   string `mapstructure:"sort" yaml:"sort"`
	Locale string `mapstructure:"locale" yaml:"locale"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	dataDir := DataDir()
	return &Config{
		Storage: StorageConfig{
			Driver:       "badger",
			Path:         dataDir,
			OpenAttempts: 5,
			OpenDelay:    200 * time.Millisecond,
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Timeout: 3 * time.Second,
			},
		},
		Log: LogConfig{
			Level:      "info",
			Console:    "error",
			File:       filepath.Join(dataDir, "promptlib.log"),
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Query: QueryConfig{
			Sort:   "updatedDesc",
			Locale: "en",
		},
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
}

// NewManager loads .env files, defaults, the config file and env overrides.
// An empty cfgFile means ConfigPath(); a missing default config file is not an error.
func NewManager(cfgFile string) (*Manager, error) {
	if err := loadDotEnv(filepath.Join(ConfigDir(), ".env"), ".env"); err != nil {
		return nil, err
	}

	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}
	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg
	return cm, nil
}

// loadDotEnv loads each file that exists. Existing env vars win.
func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func (cm *Manager) initViper(cfgFile string) error {
	d := DefaultConfig()
	v := cm.v
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.open_attempts", d.Storage.OpenAttempts)
	v.SetDefault("storage.open_delay", d.Storage.OpenDelay)
	v.SetDefault("storage.redis.addr", d.Storage.Redis.Addr)
	v.SetDefault("storage.redis.password", d.Storage.Redis.Password)
	v.SetDefault("storage.redis.db", d.Storage.Redis.DB)
	v.SetDefault("storage.redis.timeout", d.Storage.Redis.Timeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.console", d.Log.Console)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size", d.Log.MaxSize)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age", d.Log.MaxAge)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("query.sort", d.Query.Sort)
	v.SetDefault("query.locale", d.Query.Locale)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := cfgFile != ""
	if !explicit {
		cfgFile = ConfigPath()
	}
	v.SetConfigFile(cfgFile)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// Set overrides a single key, e.g. from a command-line flag.
func (cm *Manager) Set(key string, value any) error {
	cm.v.Set(key, value)
	cfg, err := cm.load()
	if err != nil {
		return err
	}
	cm.mu.Lock()
	cm.config = cfg
	cm.mu.Unlock()
	return nil
}

// FileUsed returns the config file path viper was pointed at.
func (cm *Manager) FileUsed() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cm.reload()
	})
	cm.v.WatchConfig()
}

func (cm *Manager) reload() {
	cfg, err := cm.load()
	if err != nil {
		return
	}

	cm.mu.Lock()
	cm.config = cfg
	callbacks := make([]func(*Config), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	cm.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}

// WriteDefault writes the default configuration to path, refusing to overwrite.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# promptlib configuration\n# Every key can be overridden with PROMPTLIB_<SECTION>_<KEY>, e.g. PROMPTLIB_STORAGE_DRIVER=sqlite\n\n")
	return os.WriteFile(path, append(header, data...), 0o600)
}
