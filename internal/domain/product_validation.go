package domain

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Violation messages that do not depend on the field.
const (
	msgValidationFailed = "Validation failed"
	msgNoUpdateFields   = "At least one field must be provided for update"
)

// Recognized payload keys, in the order violations are reported.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldPrice       = "price"
	fieldCategory    = "category"
	fieldInStock     = "inStock"
)

type stringRule struct {
	key   string
	label string
	max   int
}

var (
	nameRule        = stringRule{key: fieldName, label: "Name", max: MaxNameLength}
	descriptionRule = stringRule{key: fieldDescription, label: "Description", max: MaxDescriptionLength}
	categoryRule    = stringRule{key: fieldCategory, label: "Category", max: MaxCategoryLength}
)

// ValidateCreate checks a decoded create payload. Every field is required.
// All violations are collected, in field order, before returning.
func ValidateCreate(payload map[string]any) (ProductInput, error) {
	var violations []string
	check := func(msg string) {
		if msg != "" {
			violations = append(violations, msg)
		}
	}

	name, msg := requiredString(payload, nameRule)
	check(msg)
	description, msg := requiredString(payload, descriptionRule)
	check(msg)
	price, msg := requiredPrice(payload)
	check(msg)
	category, msg := requiredString(payload, categoryRule)
	check(msg)
	inStock, msg := requiredBool(payload, fieldInStock)
	check(msg)

	if len(violations) > 0 {
		return ProductInput{}, NewValidationError(msgValidationFailed, violations...)
	}

	return ProductInput{
		Name:        name,
		Description: description,
		Price:       price,
		Category:    category,
		InStock:     inStock,
	}, nil
}

// ValidateUpdate checks a decoded update payload. Fields are optional but at
// least one recognized field must be present, and present fields follow the
// create rules. Unrecognized keys, including "id", are ignored.
func ValidateUpdate(payload map[string]any) (ProductPatch, error) {
	var (
		patch      ProductPatch
		violations []string
	)

	if !hasAny(payload, fieldName, fieldDescription, fieldPrice, fieldCategory, fieldInStock) {
		violations = append(violations, msgNoUpdateFields)
	}

	for _, rule := range []stringRule{nameRule, descriptionRule} {
		if raw, ok := payload[rule.key]; ok {
			s, msg := checkString(raw, rule)
			if msg != "" {
				violations = append(violations, msg)
			} else if rule.key == fieldName {
				patch.Name = &s
			} else {
				patch.Description = &s
			}
		}
	}

	if raw, ok := payload[fieldPrice]; ok {
		price, msg := checkPrice(raw)
		if msg != "" {
			violations = append(violations, msg)
		} else {
			patch.Price = &price
		}
	}

	if raw, ok := payload[fieldCategory]; ok {
		s, msg := checkString(raw, categoryRule)
		if msg != "" {
			violations = append(violations, msg)
		} else {
			patch.Category = &s
		}
	}

	if raw, ok := payload[fieldInStock]; ok {
		b, isBool := raw.(bool)
		if !isBool {
			violations = append(violations, "inStock must be a boolean")
		} else {
			patch.InStock = &b
		}
	}

	if len(violations) > 0 {
		return ProductPatch{}, NewValidationError(msgValidationFailed, violations...)
	}
	return patch, nil
}

// NormalizePrice truncates a price to two decimal places.
func NormalizePrice(price float64) float64 {
	return decimal.NewFromFloat(price).Truncate(2).InexactFloat64()
}

func hasAny(payload map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := payload[k]; ok {
			return true
		}
	}
	return false
}

// isBlank mirrors the falsy-value test used for required fields: missing,
// null, empty string, false and zero all count as not supplied.
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	default:
		return false
	}
}

func requiredString(payload map[string]any, rule stringRule) (string, string) {
	raw := payload[rule.key]
	if isBlank(raw) {
		return "", rule.label + " is required"
	}
	return checkString(raw, rule)
}

func checkString(raw any, rule stringRule) (string, string) {
	s, ok := raw.(string)
	if !ok {
		return "", rule.label + " must be a string"
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", rule.label + " cannot be empty"
	}
	if utf8.RuneCountInString(s) > rule.max {
		return "", fmt.Sprintf("%s cannot exceed %d characters", rule.label, rule.max)
	}
	return trimmed, ""
}

func requiredPrice(payload map[string]any) (float64, string) {
	raw := payload[fieldPrice]
	if raw == nil {
		return 0, "Price is required"
	}
	return checkPrice(raw)
}

func checkPrice(raw any) (float64, string) {
	price, ok := raw.(float64)
	if !ok {
		return 0, "Price must be a number"
	}
	switch {
	case math.IsNaN(price) || math.IsInf(price, 0):
		return 0, "Price must be a finite number"
	case price < 0:
		return 0, "Price cannot be negative"
	case price > MaxPrice:
		return 0, "Price cannot exceed 1,000,000"
	}
	return NormalizePrice(price), ""
}

func requiredBool(payload map[string]any, key string) (bool, string) {
	raw := payload[key]
	if raw == nil {
		return false, key + " is required"
	}
	b, ok := raw.(bool)
	if !ok {
		return false, key + " must be a boolean"
	}
	return b, ""
}
