package prompts

import (
	"maps"
	"slices"
)

// Strict structured outputs require additionalProperties=false and every property
// listed in required, so optional content is expressed as empty strings/arrays.

func SchemaVersionedObject(version int, properties map[string]any) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	properties["version"] = map[string]any{"type": "integer", "const": version}
	properties["warnings"] = StringArraySchema()
	return ObjectSchema(properties)
}

// ObjectSchema requires every property.
func ObjectSchema(properties map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             slices.Sorted(maps.Keys(properties)),
		"additionalProperties": false,
	}
}

func StringSchema() map[string]any {
	return map[string]any{"type": "string"}
}

func StringArraySchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

func ArrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func NumberSchema() map[string]any {
	return map[string]any{"type": "number"}
}

func IntSchema() map[string]any {
	return map[string]any{"type": "integer"}
}

func BoolSchema() map[string]any {
	return map[string]any{"type": "boolean"}
}

func EnumSchema(values ...string) map[string]any {
	arr := make([]any, 0, len(values))
	for _, v := range values {
		arr = append(arr, v)
	}
	return map[string]any{"type": "string", "enum": arr}
}
