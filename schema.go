package volley

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// SchemaFor generates a JSON Schema object for the struct type T, for use
// as a tool's parameter schema. Field names come from json tags; the
// following additional tags are recognized:
//
//	desc:"text"      description shown to the model
//	required:"true"  mark the field as required
//	enum:"a,b,c"     allowed string values, comma separated
//
// Fields tagged json:"-" and unexported fields are skipped. Nested structs,
// slices, maps, and pointers are handled recursively.
func SchemaFor[T any]() (json.RawMessage, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %v is not a struct type", t)
	}

	schema := schemaForStruct(t)
	return json.Marshal(schema)
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	schema, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return schema
}

func schemaForStruct(t reflect.Type) map[string]any {
	properties := make(map[string]any)
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = field.Name
		}

		prop := schemaForType(field.Type)
		if desc := field.Tag.Get("desc"); desc != "" {
			prop["description"] = desc
		}
		if enum := field.Tag.Get("enum"); enum != "" {
			values := strings.Split(enum, ",")
			anyValues := make([]any, len(values))
			for i, v := range values {
				anyValues[i] = v
			}
			prop["enum"] = anyValues
		}
		if field.Tag.Get("required") == "true" {
			required = append(required, name)
		}

		properties[name] = prop
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func schemaForType(t reflect.Type) map[string]any {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return map[string]any{"type": "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}

	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}

	case reflect.Bool:
		return map[string]any{"type": "boolean"}

	case reflect.Slice, reflect.Array:
		return map[string]any{
			"type":  "array",
			"items": schemaForType(t.Elem()),
		}

	case reflect.Struct:
		return schemaForStruct(t)

	case reflect.Map:
		return map[string]any{"type": "object"}

	default:
		return map[string]any{"type": "string"}
	}
}
