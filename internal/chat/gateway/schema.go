package gateway

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"facility-chat/internal/models"
)

const (
	nullableString = `{"type": ["string", "null"]}`
	nullableNumber = `{"type": ["number", "null"]}`
	nullableInt    = `{"type": ["integer", "null"]}`
)

func recordArraySchema(key string, fields map[string]string) string {
	props := make([]string, 0, len(fields))
	for name, typ := range fields {
		props = append(props, fmt.Sprintf("%q: %s", name, typ))
	}
	return fmt.Sprintf(`{
		"type": "object",
		"properties": {
			%q: {"type": ["array", "null"], "items": {"type": "object", "properties": {%s}}}
		}
	}`, key, strings.Join(props, ","))
}

// resourceSchemas only constrain field types. Missing keys and fields are
// allowed and decode to empty collections and zero values.
var resourceSchemas = map[models.DomainTag]*gojsonschema.Schema{}

func init() {
	raw := map[models.DomainTag]string{
		models.DomainWorkOrders: recordArraySchema("workOrders", map[string]string{
			"id": nullableString, "title": nullableString, "status": nullableString,
			"priority": nullableString, "site": nullableString, "created": nullableString,
		}),
		models.DomainWorkOrdersByStatus: recordArraySchema("byStatus", map[string]string{
			"status": nullableString, "count": nullableInt,
		}),
		models.DomainAssetsByCost: recordArraySchema("assets", map[string]string{
			"id": nullableString, "name": nullableString, "cost": nullableNumber,
		}),
		models.DomainAssets: recordArraySchema("assets", map[string]string{
			"id": nullableString, "name": nullableString, "type": nullableString,
			"location": nullableString, "cost": nullableNumber,
		}),
		models.DomainLocations: recordArraySchema("locations", map[string]string{
			"id": nullableString, "name": nullableString, "address": nullableString,
			"workOrderCount": nullableInt,
		}),
		models.DomainMaintenance: recordArraySchema("upcoming", map[string]string{
			"asset": nullableString, "date": nullableString, "type": nullableString,
		}),
	}
	for domain, src := range raw {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			panic(fmt.Sprintf("gateway: invalid schema for %s: %v", domain, err))
		}
		resourceSchemas[domain] = schema
	}
}

// validatePayload checks a raw resource document against its domain schema.
func validatePayload(domain models.DomainTag, payload []byte) error {
	schema, ok := resourceSchemas[domain]
	if !ok {
		return fmt.Errorf("no schema for domain %q", domain)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}
