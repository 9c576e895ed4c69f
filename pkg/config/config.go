package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados para el store en tiempo real.
const (
	StoreDriverMemory   = "memory"
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

// Config agrupa la configuración de la terminal (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Store   StoreConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	Receipt ReceiptConfig
	Seed    SeedConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env        string // development, staging, production
	Name       string
	LogLevel   string // trace, debug, info, warn, error
	TerminalID string // identifica la caja en los pedidos que registra
}

// HTTPConfig configuración del servidor HTTP local (capa de presentación).
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreConfig selecciona el adaptador del store compartido.
type StoreConfig struct {
	Driver string // memory | redis | postgres
}

// DBConfig configuración de PostgreSQL (solo con STORE_DRIVER=postgres).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// RedisConfig configuración del store sobre Redis (solo con STORE_DRIVER=redis).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // prefijo de claves y canales, permite varios negocios en un mismo Redis
}

// SessionConfig sesión durable local de la terminal.
type SessionConfig struct {
	FilePath string // archivo donde se guarda el blob de sesión
	Secret   string // firma HMAC del blob
	TTLHours int    // 0: la sesión solo se borra con logout
	Issuer   string
}

// ReceiptConfig encabezado del comprobante impreso.
type ReceiptConfig struct {
	ShopName string
	Tagline  string
	Address  string
}

// SeedConfig datos de demostración.
type SeedConfig struct {
	OnStart       bool   // sembrar al arrancar si el store está vacío
	DefaultSecret string // contraseña de las cuentas de demostración
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORE_DRIVER, REDIS_ADDR, SESSION_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	driver := strings.ToLower(getString(v, "STORE_DRIVER", StoreDriverMemory))

	cfg := &Config{
		App: AppConfig{
			Env:        getString(v, "APP_ENV", "development"),
			Name:       getString(v, "APP_NAME", "warung-pos"),
			LogLevel:   getString(v, "LOG_LEVEL", "info"),
			TerminalID: getString(v, "TERMINAL_ID", "kasir-1"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Store: StoreConfig{
			Driver: driver,
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "warung_pos"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
			Prefix:   getString(v, "REDIS_PREFIX", "warung"),
		},
		Session: SessionConfig{
			FilePath: getString(v, "SESSION_FILE", "wk_session"),
			Secret:   getString(v, "SESSION_SECRET", ""),
			TTLHours: getInt(v, "SESSION_TTL_HOURS", 0),
			Issuer:   getString(v, "SESSION_ISSUER", "warung-pos"),
		},
		Receipt: ReceiptConfig{
			ShopName: getString(v, "RECEIPT_SHOP_NAME", "WARUNG KAPTEN"),
			Tagline:  getString(v, "RECEIPT_TAGLINE", "Navigasi Rasa Terbaik"),
			Address:  getString(v, "RECEIPT_ADDRESS", "Jl. Dermaga No. 7, Jakarta"),
		},
		Seed: SeedConfig{
			// El store en memoria arranca vacío: sin semilla no habría cuentas para entrar.
			OnStart:       getBool(v, "SEED_ON_START", driver == StoreDriverMemory),
			DefaultSecret: getString(v, "SEED_DEFAULT_SECRET", "123"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverMemory, StoreDriverRedis, StoreDriverPostgres:
	default:
		return fmt.Errorf("config: STORE_DRIVER desconocido %q", c.Store.Driver)
	}
	if c.Session.Secret == "" && c.App.Env == "production" {
		return fmt.Errorf("config: SESSION_SECRET es obligatorio en producción")
	}
	if c.Session.Secret == "" {
		// En desarrollo se firma con una clave fija; la sesión sigue siendo válida entre reinicios.
		c.Session.Secret = "warung-pos-dev-secret"
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
