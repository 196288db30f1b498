package facility

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Option is one dropdown entry.
type Option struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// Catalog holds the enumerated selections the dashboard offers.
type Catalog struct {
	Outcome         Field    `yaml:"outcome" json:"outcome"`
	Arrangements    []Option `yaml:"arrangements" json:"arrangements"`
	RiskFactors     []Option `yaml:"risk_factors" json:"risk_factors"`
	Stratifications []Option `yaml:"stratifications" json:"stratifications"`
}

var defaultCatalog = mustParseCatalog(catalogYAML)

// DefaultCatalog returns a copy of the embedded option catalog.
func DefaultCatalog() Catalog {
	c := defaultCatalog
	c.Arrangements = append([]Option(nil), c.Arrangements...)
	c.RiskFactors = append([]Option(nil), c.RiskFactors...)
	c.Stratifications = append([]Option(nil), c.Stratifications...)
	return c
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func mustParseCatalog(data []byte) Catalog {
	c, err := ParseCatalog(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks that every option points at a schema field of the right kind.
func (c Catalog) Validate() error {
	if kind, ok := KindOf(c.Outcome); !ok || kind != KindNumeric {
		return fmt.Errorf("outcome %q is not a numeric field", c.Outcome)
	}
	if len(c.Arrangements) == 0 || len(c.RiskFactors) == 0 || len(c.Stratifications) == 0 {
		return fmt.Errorf("catalog needs at least one arrangement, risk factor and stratification")
	}
	for _, o := range c.RiskFactors {
		if kind, ok := KindOf(Field(o.Value)); !ok || kind != KindNumeric {
			return fmt.Errorf("risk factor %q is not a numeric field", o.Value)
		}
	}
	for _, o := range c.Stratifications {
		if kind, ok := KindOf(Field(o.Value)); !ok || kind != KindCategorical {
			return fmt.Errorf("stratification %q is not a categorical field", o.Value)
		}
	}
	return nil
}

// IsRiskFactor reports whether f is one of the selectable risk factors.
func (c Catalog) IsRiskFactor(f Field) bool {
	return hasValue(c.RiskFactors, string(f))
}

// IsStratification reports whether f is one of the selectable stratifications.
func (c Catalog) IsStratification(f Field) bool {
	return hasValue(c.Stratifications, string(f))
}

// IsArrangement reports whether v is one of the layout choices.
func (c Catalog) IsArrangement(v string) bool {
	return hasValue(c.Arrangements, v)
}

// LabelOf returns the display label for a selectable value, or the value itself.
func (c Catalog) LabelOf(value string) string {
	for _, list := range [][]Option{c.RiskFactors, c.Stratifications, c.Arrangements} {
		for _, o := range list {
			if o.Value == value {
				return o.Label
			}
		}
	}
	return value
}

func hasValue(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
