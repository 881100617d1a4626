package game

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// CustomItemKind tells apart the two persisted shapes of a custom item
type CustomItemKind int

const (
	// CustomItemLegacy is a bare name from older saves
	CustomItemLegacy CustomItemKind = iota
	// CustomItemMinted is a structured item created by the mint
	CustomItemMinted
)

// CustomItem is either a legacy name or a minted record. The kind is decided
// once, when the item is created or decoded.
type CustomItem struct {
	Kind     CustomItemKind
	Name     string
	Effect   string
	Uses     int
	Cooldown int
}

type mintedFields struct {
	Name     string `mapstructure:"name" json:"name"`
	Effect   string `mapstructure:"effect" json:"effect"`
	Uses     int    `mapstructure:"uses" json:"uses"`
	Cooldown int    `mapstructure:"cooldown" json:"cooldown"`
	Custom   bool   `mapstructure:"custom" json:"custom"`
}

// LegacyItem wraps a bare item name
func LegacyItem(name string) CustomItem {
	return CustomItem{Kind: CustomItemLegacy, Name: name}
}

// MintedItem builds a structured custom item
func MintedItem(name, effect string, uses, cooldown int) CustomItem {
	return CustomItem{
		Kind:     CustomItemMinted,
		Name:     name,
		Effect:   effect,
		Uses:     uses,
		Cooldown: cooldown,
	}
}

// IsMinted reports whether the item carries an effect record
func (c CustomItem) IsMinted() bool {
	return c.Kind == CustomItemMinted
}

// MarshalJSON writes legacy items as a string and minted items as an object
func (c CustomItem) MarshalJSON() ([]byte, error) {
	if c.Kind == CustomItemLegacy {
		return json.Marshal(c.Name)
	}
	return json.Marshal(mintedFields{
		Name:     c.Name,
		Effect:   c.Effect,
		Uses:     c.Uses,
		Cooldown: c.Cooldown,
		Custom:   true,
	})
}

// UnmarshalJSON accepts both persisted shapes
func (c *CustomItem) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty custom item")
	}

	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*c = LegacyItem(name)
		return nil
	case '{':
		var raw map[string]interface{}
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		var fields mintedFields
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &fields,
		})
		if err != nil {
			return err
		}
		if err := decoder.Decode(raw); err != nil {
			return fmt.Errorf("failed to decode custom item: %w", err)
		}
		if fields.Name == "" {
			return fmt.Errorf("custom item without name")
		}
		*c = MintedItem(fields.Name, fields.Effect, fields.Uses, fields.Cooldown)
		return nil
	default:
		return fmt.Errorf("unsupported custom item encoding %q", string(data[:1]))
	}
}
