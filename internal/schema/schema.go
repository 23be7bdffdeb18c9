// Package schema validates normalized content payloads against per-category
// JSON schemas before anything is committed to a store.
package schema

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
)

// Validator holds the resolved per-category schemas. It is immutable after
// construction and safe for concurrent use.
type Validator struct {
	resolved map[content.Category]*jsonschema.Resolved
}

// NewValidator resolves every category schema
func NewValidator() (*Validator, error) {
	schemas := map[content.Category]*jsonschema.Schema{
		content.CategoryClass:      classSchema(),
		content.CategorySubclass:   subclassSchema(),
		content.CategoryRace:       raceSchema(),
		content.CategoryBackground: flatSchema(),
		content.CategoryFeat:       flatSchema(),
		content.CategoryEquipment:  equipmentSchema(),
		content.CategorySpell:      spellSchema(),
		content.CategoryMonster:    monsterSchema(),
	}

	resolved := make(map[content.Category]*jsonschema.Resolved, len(schemas))
	for category, s := range schemas {
		r, err := s.Resolve(nil)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve %s schema", category)
		}
		resolved[category] = r
	}
	return &Validator{resolved: resolved}, nil
}

// Validate checks a payload against its category schema. Violations come back
// as InvalidArgument with the category in the error metadata.
func (v *Validator) Validate(payload content.Payload) error {
	category := payload.PayloadCategory()
	resolved, ok := v.resolved[category]
	if !ok {
		return errors.Unimplementedf("no schema for category %q", category)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s payload", category)
	}
	var instance any
	if err := json.Unmarshal(encoded, &instance); err != nil {
		return errors.Wrapf(err, "failed to decode %s payload", category)
	}

	if err := resolved.Validate(instance); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "payload failed validation").
			WithMeta("category", string(category))
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

// base returns the skeleton every category shares: an object with a
// non-empty name
func base() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"name"},
		Properties: map[string]*jsonschema.Schema{
			"name": {Type: "string", MinLength: ptr(1)},
		},
	}
}

// featureMapSchema constrains level maps to positive "level-<n>" keys
func featureMapSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		PatternProperties: map[string]*jsonschema.Schema{
			`^level-[1-9][0-9]*$`: {Type: "array"},
		},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}

func classSchema() *jsonschema.Schema {
	s := base()
	s.Properties["hitDie"] = &jsonschema.Schema{Type: "string", Pattern: `^d(4|6|8|10|12|20)$`}
	s.Properties["featuresByLevel"] = featureMapSchema()
	return s
}

func subclassSchema() *jsonschema.Schema {
	s := base()
	s.Properties["class"] = &jsonschema.Schema{Type: "string"}
	s.Properties["featuresByLevel"] = featureMapSchema()
	return s
}

func raceSchema() *jsonschema.Schema {
	s := base()
	s.Properties["size"] = &jsonschema.Schema{Type: "string"}
	s.Properties["featuresByLevel"] = featureMapSchema()
	return s
}

func flatSchema() *jsonschema.Schema {
	s := base()
	s.Properties["description"] = &jsonschema.Schema{Type: "string"}
	return s
}

func equipmentSchema() *jsonschema.Schema {
	s := base()
	s.Properties["weight"] = &jsonschema.Schema{Type: "number", Minimum: ptr(0.0)}
	s.Properties["quantity"] = &jsonschema.Schema{Type: "integer", Minimum: ptr(0.0)}
	s.Properties["properties"] = &jsonschema.Schema{
		Type:  "array",
		Items: &jsonschema.Schema{Type: "string"},
	}
	return s
}

func spellSchema() *jsonschema.Schema {
	s := base()
	s.Required = append(s.Required, "level")
	s.Properties["level"] = &jsonschema.Schema{
		Type:    "integer",
		Minimum: ptr(0.0),
		Maximum: ptr(9.0),
	}
	s.Properties["upcasts"] = &jsonschema.Schema{
		Type: "array",
		Items: &jsonschema.Schema{
			Type:     "object",
			Required: []string{"level"},
			Properties: map[string]*jsonschema.Schema{
				"level": {Type: "integer", Minimum: ptr(1.0), Maximum: ptr(9.0)},
			},
		},
	}
	return s
}

func monsterSchema() *jsonschema.Schema {
	s := base()
	s.Properties["armorClass"] = &jsonschema.Schema{Type: "integer", Minimum: ptr(0.0)}
	s.Properties["hitPoints"] = &jsonschema.Schema{Type: "integer", Minimum: ptr(0.0)}
	s.Properties["proficiencyBonus"] = &jsonschema.Schema{Type: "integer", Minimum: ptr(0.0)}
	s.Properties["abilities"] = &jsonschema.Schema{
		Type: "object",
		AdditionalProperties: &jsonschema.Schema{
			Type: "integer", Minimum: ptr(1.0), Maximum: ptr(30.0),
		},
	}
	return s
}
