// Package catalog loads the read-only reference data the engine runs on:
// compliance tuning, the payment processor table, fallback exchange rates and
// seed documents. It is loaded once at startup and never mutated.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

type Catalog struct {
	Compliance     Compliance                    `yaml:"compliance"`
	PaymentMethods []PaymentMethod               `yaml:"payment_methods"`
	ExchangeRates  map[string]map[string]float64 `yaml:"exchange_rates"`
	Regulations    []Regulation                  `yaml:"regulations"`
	Fixtures       Fixtures                      `yaml:"fixtures"`
}

type Compliance struct {
	StopWords           []string `yaml:"stop_words"`
	MaxKeyTerms         int      `yaml:"max_key_terms"`
	MinTermLength       int      `yaml:"min_term_length"`
	SimilarityThreshold float64  `yaml:"similarity_threshold"`
}

// PaymentMethod describes one processor. Amounts are minor units; the
// percentage fee is in basis points.
type PaymentMethod struct {
	Method     string   `yaml:"method"`
	Processor  string   `yaml:"processor"`
	RateBps    int64    `yaml:"rate_bps"`
	FixedFee   int64    `yaml:"fixed_fee"`
	Currencies []string `yaml:"currencies"`
}

type Regulation struct {
	ID           string        `yaml:"id"`
	Country      string        `yaml:"country"`
	Sector       string        `yaml:"sector"`
	Title        string        `yaml:"title"`
	Description  string        `yaml:"description"`
	Requirements []Requirement `yaml:"requirements"`
	Applicability struct {
		ProfessionalTypes []string `yaml:"professional_types"`
		ServiceTypes      []string `yaml:"service_types"`
		CrossBorderOnly   bool     `yaml:"cross_border_only"`
	} `yaml:"applicability"`
	Penalties string   `yaml:"penalties"`
	Status    string   `yaml:"status"`
	Keywords  []string `yaml:"keywords"`
}

type Requirement struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Mandatory   bool   `yaml:"mandatory"`
}

// Fixtures seed the in-memory user and service stores in development.
type Fixtures struct {
	Users    []User    `yaml:"users"`
	Services []Service `yaml:"services"`
}

type User struct {
	ID                 string `yaml:"id"`
	Name               string `yaml:"name"`
	Role               string `yaml:"role"`
	ProfessionalType   string `yaml:"professional_type"`
	Country            string `yaml:"country"`
	VerificationStatus string `yaml:"verification_status"`
	WalletBalance      int64  `yaml:"wallet_balance"`
	WalletCurrency     string `yaml:"wallet_currency"`
}

type Service struct {
	ID          string `yaml:"id"`
	ProviderID  string `yaml:"provider_id"`
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	SubCategory string `yaml:"sub_category"`
	Status      string `yaml:"status"`
}

// Load parses the catalogue at path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	raw := defaultCatalog
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		raw = b
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) applyDefaults() {
	if c.Compliance.MaxKeyTerms == 0 {
		c.Compliance.MaxKeyTerms = 10
	}
	if c.Compliance.MinTermLength == 0 {
		c.Compliance.MinTermLength = 3
	}
	if c.Compliance.SimilarityThreshold == 0 {
		c.Compliance.SimilarityThreshold = 0.3
	}
	for i := range c.Regulations {
		if c.Regulations[i].Status == "" {
			c.Regulations[i].Status = "active"
		}
	}
}

func (c *Catalog) validate() error {
	if c.Compliance.SimilarityThreshold < 0 || c.Compliance.SimilarityThreshold > 1 {
		return fmt.Errorf("catalog: similarity_threshold must be within [0,1]")
	}
	seen := make(map[string]bool, len(c.PaymentMethods))
	for _, pm := range c.PaymentMethods {
		if pm.Method == "" {
			return fmt.Errorf("catalog: payment method without name")
		}
		if seen[pm.Method] {
			return fmt.Errorf("catalog: duplicate payment method %q", pm.Method)
		}
		seen[pm.Method] = true
		if pm.RateBps < 0 || pm.FixedFee < 0 {
			return fmt.Errorf("catalog: payment method %q has negative fee", pm.Method)
		}
	}
	for base, quotes := range c.ExchangeRates {
		for quote, rate := range quotes {
			if rate <= 0 {
				return fmt.Errorf("catalog: exchange rate %s/%s must be positive", base, quote)
			}
		}
	}
	for _, r := range c.Regulations {
		if r.Country == "" || strings.TrimSpace(r.Title) == "" {
			return fmt.Errorf("catalog: regulation %q requires country and title", r.ID)
		}
	}
	return nil
}
