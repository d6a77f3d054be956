// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package content

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RuleKind classifies a punishment rule. The set is closed: decoding an
// unknown kind is a content-load error, not a runtime fallback.
type RuleKind int

const (
	// RuleSimple is a plain punishment text the punished players must accept.
	RuleSimple RuleKind = iota
	// RuleItem grants an item to every punished player and ends the round.
	RuleItem
	// RuleStatusEffect applies a status effect to every enrolled player and
	// ends the round.
	RuleStatusEffect
)

func (k RuleKind) String() string {
	switch k {
	case RuleSimple:
		return "simple"
	case RuleItem:
		return "item"
	case RuleStatusEffect:
		return "status-effect"
	}
	return fmt.Sprintf("RuleKind(%d)", int(k))
}

// UnmarshalYAML decodes a rule kind from its string form.
func (k *RuleKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "simple":
		*k = RuleSimple
	case "item":
		*k = RuleItem
	case "status-effect":
		*k = RuleStatusEffect
	default:
		return fmt.Errorf("unknown rule kind %q", s)
	}
	return nil
}

// MarshalJSON emits the string form, matching the YAML schema.
func (k RuleKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a rule kind from its string form.
func (k *RuleKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "simple":
		*k = RuleSimple
	case "item":
		*k = RuleItem
	case "status-effect":
		*k = RuleStatusEffect
	default:
		return fmt.Errorf("unknown rule kind %q", s)
	}
	return nil
}

// ItemKind classifies a usable item.
type ItemKind int

const (
	// ItemTransferPunishment moves the caller's punishment to another player.
	ItemTransferPunishment ItemKind = iota
	// ItemSharePunishment adds another player to the punish set alongside
	// the caller.
	ItemSharePunishment
)

func (k ItemKind) String() string {
	switch k {
	case ItemTransferPunishment:
		return "transfer-punishment"
	case ItemSharePunishment:
		return "share-punishment"
	}
	return fmt.Sprintf("ItemKind(%d)", int(k))
}

// UnmarshalYAML decodes an item kind from its string form.
func (k *ItemKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "transfer-punishment":
		*k = ItemTransferPunishment
	case "share-punishment":
		*k = ItemSharePunishment
	default:
		return fmt.Errorf("unknown item kind %q", s)
	}
	return nil
}

// MarshalJSON emits the string form, matching the YAML schema.
func (k ItemKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes an item kind from its string form.
func (k *ItemKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "transfer-punishment":
		*k = ItemTransferPunishment
	case "share-punishment":
		*k = ItemSharePunishment
	default:
		return fmt.Errorf("unknown item kind %q", s)
	}
	return nil
}

// EffectKind classifies a status effect referenced by status-effect rules.
type EffectKind int

const (
	// EffectMaxIsLoser makes the maximum scorer the auto-punished player for
	// a number of rounds.
	EffectMaxIsLoser EffectKind = iota
	// EffectPersistentLoser punishes the target every round until they roll
	// the minimum score once.
	EffectPersistentLoser
	// EffectCategoryRestriction limits which categories the target may pick
	// for a number of rounds.
	EffectCategoryRestriction
	// EffectCarryNextRound defers the current punish set to the next round.
	EffectCarryNextRound
	// EffectScoreBonus adds a signed offset to the target's rolls for a
	// number of rounds.
	EffectScoreBonus
)

func (k EffectKind) String() string {
	switch k {
	case EffectMaxIsLoser:
		return "max-is-loser"
	case EffectPersistentLoser:
		return "persistent-loser"
	case EffectCategoryRestriction:
		return "category-restriction"
	case EffectCarryNextRound:
		return "carry-next-round"
	case EffectScoreBonus:
		return "score-bonus"
	}
	return fmt.Sprintf("EffectKind(%d)", int(k))
}

// UnmarshalYAML decodes an effect kind from its string form.
func (k *EffectKind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "max-is-loser":
		*k = EffectMaxIsLoser
	case "persistent-loser":
		*k = EffectPersistentLoser
	case "category-restriction":
		*k = EffectCategoryRestriction
	case "carry-next-round":
		*k = EffectCarryNextRound
	case "score-bonus":
		*k = EffectScoreBonus
	default:
		return fmt.Errorf("unknown effect kind %q", s)
	}
	return nil
}

// MarshalJSON emits the string form, matching the YAML schema.
func (k EffectKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes an effect kind from its string form.
func (k *EffectKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "max-is-loser":
		*k = EffectMaxIsLoser
	case "persistent-loser":
		*k = EffectPersistentLoser
	case "category-restriction":
		*k = EffectCategoryRestriction
	case "carry-next-round":
		*k = EffectCarryNextRound
	case "score-bonus":
		*k = EffectScoreBonus
	default:
		return fmt.Errorf("unknown effect kind %q", s)
	}
	return nil
}

// Rule is a single punishment rule inside a category.
type Rule struct {
	Kind RuleKind `yaml:"kind" json:"kind"`
	// Content is the punishment text for simple rules, an item ID for item
	// rules, and an effect ID for status-effect rules.
	Content string `yaml:"content" json:"content"`
}

// Category is a named group of punishment rules the selector picks from.
type Category struct {
	Name  string `yaml:"name" json:"name"`
	Rules []Rule `yaml:"rules" json:"rules"`
}

// Item is a usable inventory item definition.
type Item struct {
	Name string   `yaml:"name" json:"name"`
	Kind ItemKind `yaml:"kind" json:"kind"`
}

// Effect is a status effect definition.
type Effect struct {
	Name string     `yaml:"name" json:"name"`
	Kind EffectKind `yaml:"kind" json:"kind"`
	// Rounds is the countdown duration for countdown-gated effects.
	Rounds int `yaml:"rounds,omitempty" json:"rounds,omitempty"`
	// Value is the signed score offset for score-bonus effects.
	Value int `yaml:"value,omitempty" json:"value,omitempty"`
	// Categories lists the allowed category IDs for category-restriction
	// effects.
	Categories []string `yaml:"categories,omitempty" json:"categories,omitempty"`
}

// Repository is the read-only content surface consumed by the game engine.
type Repository interface {
	// Categories returns category ID to display name.
	Categories() map[string]string

	// Category returns a category by ID.
	Category(id string) (Category, bool)

	// Items returns item ID to definition.
	Items() map[string]Item

	// Item returns an item by ID.
	Item(id string) (Item, bool)

	// Effect returns a status effect by ID.
	Effect(id string) (Effect, bool)
}
