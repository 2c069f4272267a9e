package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shiroyk/crumb"
	"github.com/shiroyk/crumb/lib/utils"
	"github.com/shiroyk/crumb/store/bolt"
	"github.com/shiroyk/crumb/store/memory"
	"gopkg.in/yaml.v3"
)

const (
	// DriverMemory keeps cookies in memory for the life of the process.
	DriverMemory = "memory"
	// DriverBolt keeps cookies in a bbolt database.
	DriverBolt = "bolt"
	// DefaultPath the default configuration file
	DefaultPath = "~/.config/crumb/config.yml"
	// DefaultAddress the api default address
	DefaultAddress = "localhost:8080"
	// DefaultTimeout the api default timeout
	DefaultTimeout = time.Minute
)

// ErrUnknownDriver the store driver is not supported.
var ErrUnknownDriver = errors.New("unknown store driver")

type configKey struct{}

// NewContext returns a context that contains the given Config.
func NewContext(ctx context.Context, config Config) context.Context {
	return context.WithValue(ctx, configKey{}, config)
}

// FromContext returns the Config stored in ctx by NewContext, or the default
// Config if there is none.
func FromContext(ctx context.Context) Config {
	if config, ok := ctx.Value(configKey{}).(Config); ok {
		return config
	}
	return *DefaultConfig()
}

// Config The crumb configuration
type Config struct {
	// Store
	Store Store `yaml:"store"`

	// Cookie the default options of written cookies
	Cookie Cookie `yaml:"cookie"`

	// API
	API API `yaml:"api"`
}

// Store the host cookie store configuration
type Store struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	Host   string `yaml:"host"`
}

// Cookie the default cookie options
type Cookie struct {
	Domain  string `yaml:"domain"`
	Path    string `yaml:"path"`
	Secure  bool   `yaml:"secure"`
	Raw     bool   `yaml:"raw"`
	Expires int    `yaml:"expires"`
}

// API the api server configuration
type API struct {
	Token   string        `yaml:"token"`
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`
}

// Options returns the crumb.Options of the defaults.
// Expires is a day offset, 0 for a session cookie.
func (c Cookie) Options() crumb.Options {
	opt := crumb.Options{
		Domain: c.Domain,
		Path:   c.Path,
		Secure: c.Secure,
		Raw:    c.Raw,
	}
	if c.Expires != 0 {
		opt.Expires = crumb.Days(c.Expires)
	}
	return opt
}

// DefaultConfig The default configuration
func DefaultConfig() *Config {
	return &Config{
		Store: Store{
			Driver: DriverBolt,
			Path:   "~/.config/crumb/" + bolt.DefaultPath,
			Host:   memory.DefaultHost,
		},
		Cookie: Cookie{
			Path: "/",
		},
		API: API{
			Address: DefaultAddress,
			Timeout: DefaultTimeout,
		},
	}
}

// OpenStore opens the configured store. The returned close function
// releases it.
func (c Config) OpenStore() (crumb.Store, func() error, error) {
	switch c.Store.Driver {
	case DriverMemory, "":
		return memory.New(memory.WithHost(c.Store.Host)), func() error { return nil }, nil
	case DriverBolt:
		path, err := utils.ExpandPath(c.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		s, err := bolt.New(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, c.Store.Driver)
	}
}

// WriteConfig writes the default configuration to path.
// It fails if the file already exists.
func WriteConfig(path string) error {
	file, err := utils.ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err = os.Stat(file); err == nil {
		return errors.New("configuration file is already exists")
	}
	return writeDefault(file)
}

// ReadConfig read configuration from the file.
// If the configuration file is not existing then create it with default configuration.
func ReadConfig(path string) (config *Config, err error) {
	file, err := utils.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(file); errors.Is(err, os.ErrNotExist) {
		if err = writeDefault(file); err != nil {
			return nil, err
		}
		return DefaultConfig(), nil
	}

	return utils.ReadYaml[Config](file)
}

func writeDefault(file string) error {
	if err := os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return err
	}
	bytes, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(file, bytes, 0o600)
}
