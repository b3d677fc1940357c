// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questionnaire

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/scoring"
)

//go:embed default.yaml
var defaultDefinition []byte

var ErrInvalidDefinition = errors.New("invalid questionnaire definition")

// Definition is an ordered list of questions plus welcome text
type Definition struct {
	Title     string             `yaml:"title"`
	Intro     string             `yaml:"intro"`
	Questions []scoring.Question `yaml:"questions"`
}

// Default returns the built-in questionnaire
func Default() Definition {
	def, err := Parse(defaultDefinition)
	if err != nil {
		panic(fmt.Sprintf("built-in questionnaire is invalid: %v", err))
	}
	return def
}

// Load reads a definition from a YAML file
func Load(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to read questionnaire %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML definition
func Parse(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Validate checks ids are present and unique and categories are known
func (d Definition) Validate() error {
	if len(d.Questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidDefinition)
	}

	seen := make(map[string]bool, len(d.Questions))
	for i, q := range d.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrInvalidDefinition, i+1)
		}
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidDefinition, q.ID)
		}
		seen[q.ID] = true

		if !slices.Contains(models.Categories, q.Category) {
			return fmt.Errorf("%w: question %q has unknown category %q", ErrInvalidDefinition, q.ID, q.Category)
		}
	}
	return nil
}
