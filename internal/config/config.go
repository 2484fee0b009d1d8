package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSupabase = "supabase"
)

// placeholderURLs are the sample values shipped in templates; they count as unset.
var placeholderURLs = []string{"seu-projeto.supabase.co", "placeholder.supabase.co"}

type Config struct {
	HTTPPort           int      `env:"PORT" envDefault:"8080"`
	LogLevel           string   `env:"LOG_LEVEL" envDefault:"info"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	FixturesEnabled    bool     `env:"FIXTURES_ENABLED" envDefault:"true"`

	Backend  BackendConfig
	Storage  StorageConfig
	GenAI    GenAIConfig
	JWT      JWTConfig
	Clinic   ClinicConfig
	Business BusinessConfig
}

type BackendConfig struct {
	Driver        string        `env:"BACKEND_DRIVER" envDefault:"postgres"`
	URL           string        `env:"BACKEND_URL"`
	Key           string        `env:"BACKEND_KEY"`
	StorageBucket string        `env:"BACKEND_STORAGE_BUCKET" envDefault:"clinical-photos"`
	Timeout       time.Duration `env:"BACKEND_TIMEOUT" envDefault:"15s"`
}

// StorageConfig is only used by the postgres driver, which keeps uploads on local disk.
type StorageConfig struct {
	Dir       string `env:"STORAGE_DIR" envDefault:"./uploads"`
	PublicURL string `env:"STORAGE_PUBLIC_URL" envDefault:"http://localhost:8080/files"`
}

type GenAIConfig struct {
	APIKey  string        `env:"GENAI_API_KEY"`
	BaseURL string        `env:"GENAI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	Model   string        `env:"GENAI_MODEL" envDefault:"gemini-3-flash-preview"`
	Timeout time.Duration `env:"GENAI_TIMEOUT" envDefault:"30s"`
}

type JWTConfig struct {
	Secret         string        `env:"JWT_SECRET"`
	AccessTokenTTL time.Duration `env:"JWT_ACCESS_TOKEN_TTL" envDefault:"72h"`
}

type ClinicConfig struct {
	Name             string `env:"CLINIC_NAME" envDefault:"Clínica Dra. Jéssica Motta"`
	Professional     string `env:"CLINIC_PROFESSIONAL" envDefault:"Dra. Jéssica Motta"`
	Timezone         string `env:"CLINIC_TIMEZONE" envDefault:"America/Sao_Paulo"`
	PhoneCountryCode string `env:"PHONE_COUNTRY_CODE" envDefault:"55"`
}

// BusinessConfig holds the aggregate figures that are not derivable from the dataset.
// Unset optional values are reported as unconfigured rather than guessed.
type BusinessConfig struct {
	OccupancyCapacitySlots int     `env:"OCCUPANCY_CAPACITY_SLOTS" envDefault:"420"`
	NoShowRatio            float64 `env:"NO_SHOW_RATIO" envDefault:"0.2"`
	NetMargin              string  `env:"FINANCE_NET_MARGIN"`
	AverageTicket          string  `env:"FINANCE_AVERAGE_TICKET"`
}

// NetMarginValue returns the configured net margin, or nil when unset.
func (b BusinessConfig) NetMarginValue() (*float64, error) {
	return optionalFloat("FINANCE_NET_MARGIN", b.NetMargin)
}

// AverageTicketValue returns the configured average ticket, or nil when unset.
func (b BusinessConfig) AverageTicketValue() (*float64, error) {
	return optionalFloat("FINANCE_AVERAGE_TICKET", b.AverageTicket)
}

// New loads an optional .env file and parses the environment.
func New(envPath string) (Config, error) {
	var c Config

	if envPath != "" {
		err := godotenv.Load(envPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}

	c.Backend.Driver = strings.ToLower(strings.TrimSpace(c.Backend.Driver))
	if c.Backend.Driver != DriverPostgres && c.Backend.Driver != DriverSupabase {
		return Config{}, fmt.Errorf("unsupported BACKEND_DRIVER %q", c.Backend.Driver)
	}
	if _, err := c.Business.NetMarginValue(); err != nil {
		return Config{}, err
	}
	if _, err := c.Business.AverageTicketValue(); err != nil {
		return Config{}, err
	}
	if c.Business.OccupancyCapacitySlots <= 0 {
		return Config{}, fmt.Errorf("OCCUPANCY_CAPACITY_SLOTS must be positive, got %d", c.Business.OccupancyCapacitySlots)
	}

	return c, nil
}

// MissingBackendKeys lists the backend credentials that still need to be supplied.
// The postgres driver authenticates through the DSN and has no public key.
func (c Config) MissingBackendKeys() []string {
	var missing []string
	url := strings.TrimSpace(c.Backend.URL)
	if url == "" || isPlaceholder(url) {
		missing = append(missing, "BACKEND_URL")
	}
	if c.Backend.Driver == DriverSupabase && strings.TrimSpace(c.Backend.Key) == "" {
		missing = append(missing, "BACKEND_KEY")
	}
	return missing
}

// BackendConfigured reports whether the server can talk to its backend at all.
func (c Config) BackendConfigured() bool {
	return len(c.MissingBackendKeys()) == 0
}

// Location resolves the clinic time zone used for appointment times.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Clinic.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load clinic timezone %q: %w", c.Clinic.Timezone, err)
	}
	return loc, nil
}

func optionalFloat(key, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &v, nil
}

func isPlaceholder(url string) bool {
	for _, p := range placeholderURLs {
		if strings.Contains(url, p) {
			return true
		}
	}
	return false
}
