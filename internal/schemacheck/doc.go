// Package schemacheck validates the JSON Schema payloads embedded in
// descriptor components — tool parameter schemas, chiefly — so a broken
// schema is caught at check time rather than at deployment.
package schemacheck
