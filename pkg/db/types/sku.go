package dbtypes

import (
	"database/sql/driver"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	pkgerrors "github.com/catalogkit/sku-roundtrip/pkg/errors"
)

// Rule is a validator expression applied to candidate SKU strings.
type Rule string

const (
	// RuleContains requires the literal marker substring anywhere in the code.
	RuleContains Rule = "required,contains=ABC"
	// RuleContainsAny requires at least one of the marker characters.
	RuleContainsAny Rule = "required,containsany=ABC"
)

// rehydrationRule guards values coming back from the database. Any code
// matching the substring rule also matches the character rule, so the
// permissive rule accepts everything either factory rule can persist.
const rehydrationRule = RuleContainsAny

var validate = validator.New()

// SKU is an immutable stock keeping unit code. It can only be built
// through NewSKU, which enforces the validation rule; the zero value is
// invalid and refuses to persist.
//
// SKU maps to a varchar(255) column and converts itself at the driver
// boundary: Value unwraps to the raw string on writes, Scan re-validates
// and re-wraps whatever the backend hands back on reads.
type SKU struct {
	value string
}

// NewSKU validates raw against the given rule and wraps it.
func NewSKU(raw string, rule Rule) (SKU, error) {
	if err := validate.Var(raw, string(rule)); err != nil {
		return SKU{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid sku %q", raw))
	}
	return SKU{value: raw}, nil
}

// MustSKU is NewSKU for fixtures; it panics on invalid input.
func MustSKU(raw string, rule Rule) SKU {
	sku, err := NewSKU(raw, rule)
	if err != nil {
		panic(err)
	}
	return sku
}

func (s SKU) String() string {
	return s.value
}

// IsZero reports whether the SKU was never built through the factory.
func (s SKU) IsZero() bool {
	return s.value == ""
}

// Value implements driver.Valuer. A zero SKU cannot reach the database;
// it means the field was populated outside the factory.
func (s SKU) Value() (driver.Value, error) {
	if s.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeConversion, "cannot persist zero-value sku")
	}
	return s.value, nil
}

// Scan implements sql.Scanner. NULL passes through as the zero value,
// raw strings are re-validated and re-wrapped.
func (s *SKU) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = SKU{}
		return nil
	case string:
		return s.rehydrate(v)
	case []byte:
		return s.rehydrate(string(v))
	default:
		return pkgerrors.New(pkgerrors.CodeConversion, fmt.Sprintf("sku: unsupported Scan type %T", src))
	}
}

func (s *SKU) rehydrate(raw string) error {
	sku, err := NewSKU(raw, rehydrationRule)
	if err != nil {
		return err
	}
	*s = sku
	return nil
}

// GormDataType declares the common column type.
func (SKU) GormDataType() string {
	return "varchar(255)"
}

// GormDBDataType declares the physical column type; both supported
// dialects take the varchar form directly.
func (SKU) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return "varchar(255)"
}

// MarshalText exposes the wrapped code to JSON and log output.
func (s SKU) MarshalText() ([]byte, error) {
	return []byte(s.value), nil
}

// UnmarshalText re-validates incoming text with the rehydration rule.
func (s *SKU) UnmarshalText(text []byte) error {
	return s.rehydrate(string(text))
}
