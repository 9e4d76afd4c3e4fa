package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"

	"github.com/xenking/storefront-cart/internal/domain/order"
)

const defaultAddr = "0.0.0.0:8080"

// Store drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config holds the complete application configuration, loadable from
// environment variables (CART_ prefix), flags, or YAML config files.
type Config struct {
	Addr            string `default:"0.0.0.0:8080" usage:"API server listen address"`
	Namespace       string `default:"cart-oop" usage:"Store key of the cart served by this process"`
	CatalogURL      string `default:"https://supersimplebackend.dev/products" usage:"Product catalog URL or file path (.gz supported)" flag:"catalog-url"`
	OrderServiceURL string `default:"https://supersimplebackend.dev/orders" usage:"Order service endpoint" flag:"order-service-url"`
	Store           StoreConfig
	Graceful        GracefulConfig
}

// StoreConfig selects and configures the key/value store backing carts and
// the order log.
type StoreConfig struct {
	Driver      string `default:"file" usage:"Store driver: file, memory, redis or postgres"`
	Dir         string `default:".cart" usage:"Directory of the file store"`
	RedisAddr   string `usage:"Redis address or redis:// URL (CART_STORE_REDIS_ADDR or REDIS_URL)" flag:"redis-addr"`
	DatabaseURL string `usage:"PostgreSQL connection URL (CART_STORE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration for the API server from environment
// variables, flags and YAML config files.
func LoadConfig() (*Config, error) {
	return load(false)
}

// LoadCLIConfig is LoadConfig without flag parsing, for commands that own
// their flag set.
func LoadCLIConfig() (*Config, error) {
	return load(true)
}

func load(skipFlags bool) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: skipFlags,
		EnvPrefix: "CART",
		Files:     []string{"config.yaml", "/etc/cart/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cart namespace and that the selected store driver has
// what it needs. The order history shares the key space of the carts, so its
// key cannot be used as a namespace.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return errors.New("namespace is required")
	}
	if c.Namespace == order.DefaultLogKey {
		return errors.Errorf("namespace %q is reserved for the order history", c.Namespace)
	}
	switch c.Store.Driver {
	case DriverFile:
		if c.Store.Dir == "" {
			return errors.New("file store requires a directory")
		}
	case DriverMemory:
	case DriverRedis:
		if c.Store.RedisAddr == "" {
			return errors.New("redis store requires an address: set CART_STORE_REDIS_ADDR or REDIS_URL")
		}
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("postgres store requires a database URL: set CART_STORE_DATABASE_URL or DATABASE_URL")
		}
	default:
		return errors.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) such as DATABASE_URL, REDIS_URL and PORT onto the CART_
// configuration.
func (c *Config) applyPlatformDefaults() {
	if c.Store.DatabaseURL == "" {
		c.Store.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.Store.RedisAddr == "" {
		c.Store.RedisAddr = os.Getenv("REDIS_URL")
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
