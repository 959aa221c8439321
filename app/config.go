package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"fightcards/compositor"
)

// Template sources
const (
	TemplateSourceCode     = "code"
	TemplateSourceDatabase = "database"
)

// Image hosts
const (
	ImageHostLocal = "local"
	ImageHostDrive = "drive"
)

// Config holds every setting read from the environment
type Config struct {
	Port string
	Env  string

	TemplateSource    string
	ExportScale       float64
	ExportFormat      compositor.Format
	ExportJPEGQuality int
	StatStyle         compositor.StatStyle

	ImageHost     string
	ImageDir      string
	AssetDir      string
	CacheDir      string
	DriveFolderID string
	// CredentialsPath is the Google service account JSON file
	CredentialsPath string
	PublicBaseURL   string

	PixianAPIID     string
	PixianAPISecret string
	PixianAPIURL    string

	ChromePath    string
	PricingConfig string
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// HasDatabase reports whether a database connection is configured
func HasDatabase() bool {
	return os.Getenv("DATABASE_URL") != "" || os.Getenv("DB_HOST") != ""
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// LoadConfig reads the configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            strings.TrimPrefix(getenv("PORT", "8080"), ":"),
		Env:             getenv("ENV", "production"),
		TemplateSource:  getenv("TEMPLATE_SOURCE", TemplateSourceCode),
		ImageHost:       getenv("IMAGE_HOST", ImageHostLocal),
		ImageDir:        getenv("IMAGE_DIR", "data/images"),
		AssetDir:        getenv("ASSET_DIR", "public"),
		CacheDir:        getenv("CACHE_DIR", "cache/images"),
		DriveFolderID:   os.Getenv("DRIVE_FOLDER_ID"),
		CredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		PixianAPIID:     os.Getenv("PIXIAN_API_ID"),
		PixianAPISecret: os.Getenv("PIXIAN_API_SECRET"),
		PixianAPIURL:    os.Getenv("PIXIAN_API_URL"),
		ChromePath:      os.Getenv("CHROME_PATH"),
		PricingConfig:   getenv("PRICING_CONFIG", "config/pricing.json"),
	}
	cfg.PublicBaseURL = strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://localhost:"+cfg.Port), "/")

	switch cfg.TemplateSource {
	case TemplateSourceCode, TemplateSourceDatabase:
	default:
		return nil, fmt.Errorf("invalid TEMPLATE_SOURCE %q (valid: code, database)", cfg.TemplateSource)
	}
	if cfg.TemplateSource == TemplateSourceDatabase && !HasDatabase() {
		return nil, fmt.Errorf("TEMPLATE_SOURCE=database requires DATABASE_URL or DB_HOST")
	}

	switch cfg.ImageHost {
	case ImageHostLocal:
	case ImageHostDrive:
		if cfg.CredentialsPath == "" {
			return nil, fmt.Errorf("IMAGE_HOST=drive requires GOOGLE_APPLICATION_CREDENTIALS")
		}
	default:
		return nil, fmt.Errorf("invalid IMAGE_HOST %q (valid: local, drive)", cfg.ImageHost)
	}

	scale, err := strconv.ParseFloat(getenv("EXPORT_SCALE", "4.5"), 64)
	if err != nil || scale <= 0 || scale > 10 {
		return nil, fmt.Errorf("invalid EXPORT_SCALE %q (expected a number in (0, 10])", os.Getenv("EXPORT_SCALE"))
	}
	cfg.ExportScale = scale

	if cfg.ExportFormat, err = compositor.ParseFormat(strings.ToLower(getenv("EXPORT_FORMAT", "png"))); err != nil {
		return nil, fmt.Errorf("invalid EXPORT_FORMAT: %w", err)
	}

	quality, err := strconv.Atoi(getenv("EXPORT_JPEG_QUALITY", "92"))
	if err != nil || quality < 1 || quality > 100 {
		return nil, fmt.Errorf("invalid EXPORT_JPEG_QUALITY %q (expected 1-100)", os.Getenv("EXPORT_JPEG_QUALITY"))
	}
	cfg.ExportJPEGQuality = quality

	if cfg.StatStyle, err = compositor.ParseStatStyle(strings.ToLower(getenv("STAT_STYLE", "bars"))); err != nil {
		return nil, fmt.Errorf("invalid STAT_STYLE: %w", err)
	}

	return cfg, nil
}
