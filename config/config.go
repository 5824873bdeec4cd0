package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de fxjournal.
type Config struct {
	Import  ImportConfig  `yaml:"import"`
	Storage StorageConfig `yaml:"storage"`
	Scope   ScopeConfig   `yaml:"scope"`
	MetaAPI MetaAPIConfig `yaml:"metaapi"`
	Log     LogConfig     `yaml:"log"`
}

// ImportConfig controla el pipeline de importación de CSV.
type ImportConfig struct {
	Source                 string `yaml:"source" validate:"required"`                   // tag de procedencia, p.ej. MT5_VIP
	MaxConsecutiveFailures int    `yaml:"max_consecutive_failures" validate:"gte=1"`    // aborta tras N escrituras fallidas seguidas
	DuplicateBatchSize     int    `yaml:"duplicate_batch_size" validate:"gte=1,lte=30"` // límite del IN del store
	Timezone               string `yaml:"timezone" validate:"required"`                 // zona de las fechas del broker
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn" validate:"required"` // ruta al archivo SQLite, o ":memory:"
}

// ScopeConfig define de dónde sale el perfil/usuario dueño de los trades.
type ScopeConfig struct {
	DefaultProfileID string `yaml:"default_profile_id"`
	DefaultUserID    string `yaml:"default_user_id"`
	OverrideFile     string `yaml:"override_file"` // override local (YAML)
	Document         string `yaml:"document"`      // nombre del documento remoto
}

// MetaAPIConfig contiene el acceso a la API de provisioning de MetaAPI.
type MetaAPIConfig struct {
	BaseURL    string  `yaml:"base_url" validate:"omitempty,url"`
	Token      string  `yaml:"token"`
	RatePerSec float64 `yaml:"rate_per_sec" validate:"gte=0"`
	AccountID  string  `yaml:"account_id"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
// Un archivo YAML inexistente no es error: se usan defaults + entorno.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	case os.IsNotExist(err):
		// solo defaults + env
	default:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate comprueba las restricciones declaradas en los tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config.Validate: %w", err)
	}
	if _, err := time.LoadLocation(c.Import.Timezone); err != nil {
		return fmt.Errorf("config.Validate: timezone %q: %w", c.Import.Timezone, err)
	}
	return nil
}

// Location devuelve la zona horaria de las fechas del broker.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Import.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("FXJ_DB"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("FXJ_PROFILE_ID"); v != "" {
		cfg.Scope.DefaultProfileID = v
	}
	if v := os.Getenv("FXJ_USER_ID"); v != "" {
		cfg.Scope.DefaultUserID = v
	}
	if v := os.Getenv("METAAPI_TOKEN"); v != "" {
		cfg.MetaAPI.Token = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Import.Source == "" {
		cfg.Import.Source = "MT5_VIP"
	}
	if cfg.Import.MaxConsecutiveFailures <= 0 {
		cfg.Import.MaxConsecutiveFailures = 10
	}
	if cfg.Import.DuplicateBatchSize <= 0 {
		cfg.Import.DuplicateBatchSize = 30
	}
	if cfg.Import.Timezone == "" {
		cfg.Import.Timezone = "UTC"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "fxjournal.db"
	}
	if cfg.Scope.OverrideFile == "" {
		cfg.Scope.OverrideFile = defaultOverrideFile()
	}
	if cfg.Scope.Document == "" {
		cfg.Scope.Document = "vip_import_scope"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func defaultOverrideFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".fxjournal-scope.yaml"
	}
	return filepath.Join(dir, "fxjournal", "scope.yaml")
}
