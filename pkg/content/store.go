// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package content

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Data is the full content file: punishment categories, item definitions and
// status effects.
type Data struct {
	Categories map[string]Category `yaml:"categories" json:"categories"`
	Items      map[string]Item     `yaml:"items" json:"items"`
	Effects    map[string]Effect   `yaml:"effects" json:"effects"`
}

// Validate checks cross references between categories, items and effects.
func (d *Data) Validate() error {
	if len(d.Categories) == 0 {
		return fmt.Errorf("no categories defined")
	}
	for id, cat := range d.Categories {
		if cat.Name == "" {
			return fmt.Errorf("category %s has empty name", id)
		}
		if len(cat.Rules) == 0 {
			return fmt.Errorf("category %s has no rules", id)
		}
		for i, rule := range cat.Rules {
			switch rule.Kind {
			case RuleSimple:
				if rule.Content == "" {
					return fmt.Errorf("category %s rule %d has empty content", id, i)
				}
			case RuleItem:
				if _, ok := d.Items[rule.Content]; !ok {
					return fmt.Errorf("category %s rule %d references unknown item: %s", id, i, rule.Content)
				}
			case RuleStatusEffect:
				if _, ok := d.Effects[rule.Content]; !ok {
					return fmt.Errorf("category %s rule %d references unknown effect: %s", id, i, rule.Content)
				}
			}
		}
	}
	for id, item := range d.Items {
		if item.Name == "" {
			return fmt.Errorf("item %s has empty name", id)
		}
	}
	for id, effect := range d.Effects {
		if effect.Name == "" {
			return fmt.Errorf("effect %s has empty name", id)
		}
		switch effect.Kind {
		case EffectMaxIsLoser, EffectScoreBonus:
			if effect.Rounds < 1 {
				return fmt.Errorf("effect %s requires rounds >= 1", id)
			}
		case EffectCategoryRestriction:
			if effect.Rounds < 1 {
				return fmt.Errorf("effect %s requires rounds >= 1", id)
			}
			if len(effect.Categories) == 0 {
				return fmt.Errorf("effect %s has no allowed categories", id)
			}
			for _, catID := range effect.Categories {
				if _, ok := d.Categories[catID]; !ok {
					return fmt.Errorf("effect %s references unknown category: %s", id, catID)
				}
			}
		}
	}
	return nil
}

// Store is a Repository backed by a YAML file. Reload swaps the content
// atomically so in-flight rounds keep a consistent view per lookup.
type Store struct {
	mu   sync.RWMutex
	path string
	data *Data
}

// NewStore loads the content file at path.
func NewStore(path string) (*Store, error) {
	data, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	logrus.Infof("loaded game content from %s: %d categories, %d items, %d effects",
		path, len(data.Categories), len(data.Items), len(data.Effects))
	return &Store{path: path, data: data}, nil
}

// Reload re-reads the content file. On error the previous content is kept.
func (s *Store) Reload() error {
	data, err := loadFile(s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	logrus.Infof("reloaded game content from %s", s.path)
	return nil
}

// Snapshot returns the current content. The returned value must not be
// mutated.
func (s *Store) Snapshot() *Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Categories returns category ID to display name.
func (s *Store) Categories() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.data.Categories))
	for id, cat := range s.data.Categories {
		out[id] = cat.Name
	}
	return out
}

// Category returns a category by ID.
func (s *Store) Category(id string) (Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cat, ok := s.data.Categories[id]
	return cat, ok
}

// Items returns item ID to definition.
func (s *Store) Items() map[string]Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Item, len(s.data.Items))
	for id, item := range s.data.Items {
		out[id] = item
	}
	return out
}

// Item returns an item by ID.
func (s *Store) Item(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.data.Items[id]
	return item, ok
}

// Effect returns a status effect by ID.
func (s *Store) Effect(id string) (Effect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	effect, ok := s.data.Effects[id]
	return effect, ok
}

// loadFile reads, env-expands, parses and validates a content file.
func loadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file %s: %w", path, err)
	}

	expanded := expandEnvVars(string(raw))

	var data Data
	if err := yaml.Unmarshal([]byte(expanded), &data); err != nil {
		return nil, fmt.Errorf("failed to parse content YAML: %w", err)
	}

	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}

	return &data, nil
}

// expandEnvVars expands environment variables in the format ${VAR} or
// ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		varName := parts[0]
		defaultValue := ""
		if len(parts) == 2 {
			defaultValue = parts[1]
		}

		value := os.Getenv(varName)
		if value == "" {
			return defaultValue
		}
		return value
	})
}
