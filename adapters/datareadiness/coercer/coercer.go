package coercer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TypeCoercer turns raw table cells into typed values with fixed rules
type TypeCoercer struct {
	config  CoercionConfig
	missing map[string]bool
}

// CoercionConfig defines which tokens count as missing and which numeric
// decorations are tolerated
type CoercionConfig struct {
	MissingTokens      []string `json:"missing_tokens"`
	AllowPercentSign   bool     `json:"allow_percent_sign"`
	AllowThousandsSep  bool     `json:"allow_thousands_sep"`
	AllowParenNegative bool     `json:"allow_paren_negative"`
}

// DefaultCoercionConfig mirrors the usual NA markers of exported tables
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MissingTokens: []string{
			"", "NA", "N/A", "n/a", "NaN", "nan", "NAN", "null", "NULL", "None",
			"#N/A", "#NA", "-", "--", "<NA>",
		},
		AllowPercentSign:   true,
		AllowThousandsSep:  true,
		AllowParenNegative: true,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	missing := make(map[string]bool, len(config.MissingTokens))
	for _, tok := range config.MissingTokens {
		missing[tok] = true
	}
	return &TypeCoercer{config: config, missing: missing}
}

// IsMissing reports whether a cell holds no value
func (c *TypeCoercer) IsMissing(raw string) bool {
	return c.missing[strings.TrimSpace(raw)]
}

// ParseNumeric converts a cell to a finite float
func (c *TypeCoercer) ParseNumeric(raw string) (float64, error) {
	cleanVal := strings.TrimSpace(raw)
	if c.IsMissing(cleanVal) {
		return 0, fmt.Errorf("missing value")
	}

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if c.config.AllowParenNegative && strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	if c.config.AllowPercentSign {
		cleanVal = strings.TrimSpace(strings.TrimSuffix(cleanVal, "%"))
	}

	if c.config.AllowThousandsSep && strings.Contains(cleanVal, ",") {
		if !validThousands(cleanVal) {
			return 0, fmt.Errorf("not a number: %q", raw)
		}
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
	}

	value, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("not a finite number: %q", raw)
	}
	if isNegative {
		value = -value
	}
	return value, nil
}

// validThousands accepts 1,234 and 1,234,567.89 but not 1,2 or 12,34
func validThousands(s string) bool {
	intPart := s
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
	}
	intPart = strings.TrimLeft(intPart, "+-")
	groups := strings.Split(intPart, ",")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}
