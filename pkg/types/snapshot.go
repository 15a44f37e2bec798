package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ShippingSnapshot freezes the shipping address an order was placed with.
type ShippingSnapshot struct {
	FullName    string  `json:"full_name"`
	PhoneNumber string  `json:"phone_number"`
	Address     string  `json:"address"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	PostalCode  *string `json:"postal_code,omitempty"`
}

// Value serializes the snapshot to JSON.
func (s *ShippingSnapshot) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan decodes a JSON column into the snapshot.
func (s *ShippingSnapshot) Scan(value interface{}) error {
	if value == nil {
		*s = ShippingSnapshot{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, s)
}

// CardSnapshot freezes the non-sensitive card details an order was paid with.
type CardSnapshot struct {
	CardName   string `json:"card_name"`
	LastFour   string `json:"last_four"`
	ExpiryDate string `json:"expiry_date"`
}

// Value serializes the snapshot to JSON.
func (c *CardSnapshot) Value() (driver.Value, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan decodes a JSON column into the snapshot.
func (c *CardSnapshot) Scan(value interface{}) error {
	if value == nil {
		*c = CardSnapshot{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, c)
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
