package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// RawProduct holds one listing exactly as the data source delivered it.
// Numeric columns are still strings and may be empty or malformed.
type RawProduct struct {
	Category           string
	ProductName        string
	UserName           string
	Rating             string
	DiscountedPrice    string
	ActualPrice        string
	DiscountPercentage string
}

// Product is a normalized listing. Numeric fields are either a valid number
// or the missing marker; an empty Category means the category is absent.
type Product struct {
	Category           string    `json:"category"`
	ProductName        string    `json:"product_name"`
	UserName           string    `json:"user_name"`
	Rating             NullFloat `json:"rating"`
	DiscountedPrice    NullFloat `json:"discounted_price"`
	ActualPrice        NullFloat `json:"actual_price"`
	DiscountPercentage NullFloat `json:"discount_percentage"`
}

// Raw renders the product back into its source shape.
func (p *Product) Raw() *RawProduct {
	return &RawProduct{
		Category:           p.Category,
		ProductName:        p.ProductName,
		UserName:           p.UserName,
		Rating:             p.Rating.String(),
		DiscountedPrice:    p.DiscountedPrice.String(),
		ActualPrice:        p.ActualPrice.String(),
		DiscountPercentage: p.DiscountPercentage.String(),
	}
}

// Dataset is an ordered sequence of products in source order.
type Dataset []*Product

// NullFloat is a number that may be missing. The zero value is missing.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Some returns a present value.
func Some(v float64) NullFloat { return NullFloat{Float64: v, Valid: true} }

// Missing returns the missing marker.
func Missing() NullFloat { return NullFloat{} }

// Or returns the value, or fallback when missing.
func (n NullFloat) Or(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Float64
}

// String returns the shortest decimal that round-trips, or "" when missing.
func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

func (n *NullFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Missing()
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// Scan implements sql.Scanner. SQL NULL maps to the missing marker.
func (n *NullFloat) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*n = Missing()
	case float64:
		*n = Some(v)
	case int64:
		*n = Some(float64(v))
	case []byte:
		return n.scanString(string(v))
	case string:
		return n.scanString(v)
	default:
		return fmt.Errorf("models: cannot scan %T into NullFloat", src)
	}
	return nil
}

func (n *NullFloat) scanString(s string) error {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("models: scan %q: %w", s, err)
	}
	*n = Some(f)
	return nil
}

// Value implements driver.Valuer; the missing marker is stored as NULL.
func (n NullFloat) Value() (driver.Value, error) {
	if !n.Valid || math.IsNaN(n.Float64) {
		return nil, nil
	}
	return n.Float64, nil
}
