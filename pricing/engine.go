package pricing

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fightcards/models"
	"fightcards/utils"
)

// PricingConfig represents the pricing configuration structure
type PricingConfig struct {
	Currency  string `json:"currency"`
	UnitPrice int64  `json:"unitPrice"`
	// VATBasisPoints is the VAT rate in hundredths of a percent (2000 = 20%)
	VATBasisPoints   int64            `json:"vatBasisPoints"`
	AllowedCountries []string         `json:"allowedCountries"`
	ShippingRates    map[string]int64 `json:"shippingRates"`
	DefaultShipping  int64            `json:"defaultShipping"`
}

// Engine prices card orders from a JSON configuration
type Engine struct {
	config  *PricingConfig
	allowed map[string]bool
}

// NewEngine reads and validates a pricing config file
func NewEngine(configPath string) (*Engine, error) {
	// Resolve config path
	if !filepath.IsAbs(configPath) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		configPath = filepath.Join(wd, configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read pricing config: %w", err)
	}

	engine, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ PricingEngine: Successfully loaded pricing config from %s", configPath)
	return engine, nil
}

// ParseConfig builds an Engine from raw JSON
func ParseConfig(data []byte) (*Engine, error) {
	var config PricingConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse pricing config: %w", err)
	}
	return NewEngineFromConfig(config)
}

// NewEngineFromConfig validates a config and builds an Engine
func NewEngineFromConfig(config PricingConfig) (*Engine, error) {
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid pricing config: %w", err)
	}

	allowed := make(map[string]bool, len(config.AllowedCountries))
	for _, c := range config.AllowedCountries {
		allowed[strings.ToUpper(c)] = true
	}
	rates := make(map[string]int64, len(config.ShippingRates))
	for c, r := range config.ShippingRates {
		rates[strings.ToUpper(c)] = r
	}
	config.ShippingRates = rates

	return &Engine{config: &config, allowed: allowed}, nil
}

func validateConfig(config *PricingConfig) error {
	if config.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	if config.UnitPrice <= 0 {
		return fmt.Errorf("unitPrice must be positive")
	}
	if config.VATBasisPoints < 0 || config.VATBasisPoints > 10000 {
		return fmt.Errorf("vatBasisPoints must be between 0 and 10000")
	}
	if len(config.AllowedCountries) == 0 {
		return fmt.Errorf("allowedCountries are required")
	}
	for c, r := range config.ShippingRates {
		if r < 0 {
			return fmt.Errorf("shipping rate for %s is negative", c)
		}
	}
	return nil
}

// Currency returns the ISO currency code
func (e *Engine) Currency() string {
	return e.config.Currency
}

// UnitPrice returns the price of one card before shipping and tax
func (e *Engine) UnitPrice() int64 {
	return e.config.UnitPrice
}

// AllowedCountries returns the shipping destinations, sorted
func (e *Engine) AllowedCountries() []string {
	out := make([]string, 0, len(e.allowed))
	for c := range e.allowed {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// IsAllowed reports whether orders can ship to a country
func (e *Engine) IsAllowed(country string) bool {
	return e.allowed[strings.ToUpper(strings.TrimSpace(country))]
}

// Quote prices one card shipped to a country
func (e *Engine) Quote(country string) (models.PriceQuote, error) {
	country = strings.ToUpper(strings.TrimSpace(country))
	if !e.allowed[country] {
		return models.PriceQuote{}, fmt.Errorf("%w: %q", models.ErrShippingCountry, country)
	}

	shipping, ok := e.config.ShippingRates[country]
	if !ok {
		shipping = e.config.DefaultShipping
	}

	subtotal := e.config.UnitPrice + shipping
	// Round half up to the nearest cent
	tax := (subtotal*e.config.VATBasisPoints + 5000) / 10000

	quote := models.PriceQuote{
		Currency:  e.config.Currency,
		Amount:    e.config.UnitPrice,
		Shipping:  shipping,
		TaxAmount: tax,
		Total:     subtotal + tax,
		Country:   country,
	}
	log.Printf("💰 Quote: country=%s amount=%s shipping=%s tax=%s total=%s",
		country, utils.FormatEUR(quote.Amount), utils.FormatEUR(quote.Shipping),
		utils.FormatEUR(quote.TaxAmount), utils.FormatEUR(quote.Total))
	return quote, nil
}
