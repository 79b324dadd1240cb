package validator

import (
	"fmt"
	"strings"

	"loom/internal/dependency"
	"loom/internal/document"
	"loom/internal/export"
	"loom/pkg/logging"
)

// Diagnostic describes why a mutation was blocked, in a form the UI can
// surface directly. Message is always a single sentence; Details, when
// present, enumerates the blocking references one per line.
type Diagnostic struct {
	ComponentType string `json:"componentType"`
	ComponentKey  string `json:"componentKey"`
	Message       string `json:"message"`
	Details       string `json:"details,omitempty"`
}

func (d *Diagnostic) Error() string {
	if d.Details == "" {
		return d.Message
	}
	return d.Message + "\n" + d.Details
}

// ValidateDeletion checks whether deleting (componentType, componentKey)
// would leave a dangling reference anywhere in the document. It clones the
// document, applies the deletion to the clone, serializes it and re-parses
// the serialization; an undefined alias in the re-parse means some
// component still references the deleted one.
//
// A componentType the validator does not model is treated as a no-op
// deletion and allowed, so callers probing future categories are never
// falsely blocked. The function never panics across its boundary: any
// internal fault is converted into a generic Diagnostic.
func ValidateDeletion(doc document.Document, componentType string, componentKey string) (diag *Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Validator", fmt.Errorf("%v", r), "Internal fault validating deletion of %s %q", componentType, componentKey)
			diag = &Diagnostic{
				ComponentType: componentType,
				ComponentKey:  componentKey,
				Message:       fmt.Sprintf("Unable to validate deleting %s %q: %v.", componentType, componentKey, r),
			}
		}
	}()

	category := document.Category(componentType)
	if document.SectionPath(category) == nil {
		logging.Debug("Validator", "Unknown component type %q, allowing deletion of %q", componentType, componentKey)
		return nil
	}

	// Modeled fields first: the dependency table yields the precise,
	// friendly message. The round-trip below backstops whatever the table
	// does not cover.
	if records := dependency.Find(doc, category, componentKey); len(records) > 0 {
		return DependentsDiagnostic(componentType, componentKey, records)
	}

	clone := doc.Clone()
	clone.Delete(category, componentKey)

	data, err := export.Marshal(clone)
	if err != nil {
		return &Diagnostic{
			ComponentType: componentType,
			ComponentKey:  componentKey,
			Message:       fmt.Sprintf("Unable to serialize the document without %s %q: %v.", componentType, componentKey, err),
		}
	}
	if _, err := export.Parse(data); err != nil {
		if anchor := export.DanglingAnchor(err); anchor != "" {
			return &Diagnostic{
				ComponentType: componentType,
				ComponentKey:  componentKey,
				Message:       fmt.Sprintf("Component %q is still referenced elsewhere in the document; remove the reference before deleting it.", anchor),
			}
		}
		return &Diagnostic{
			ComponentType: componentType,
			ComponentKey:  componentKey,
			Message:       fmt.Sprintf("The document does not survive serialization without %s %q: %v.", componentType, componentKey, err),
		}
	}
	return nil
}

// DependentsDiagnostic builds the precise, friendly Diagnostic for a
// deletion blocked by known dependents, enumerating each blocking reference
// as a "• type: "name" (field)" line. It returns nil when there are no
// records.
func DependentsDiagnostic(componentType string, componentKey string, records []dependency.Record) *Diagnostic {
	if len(records) == 0 {
		return nil
	}
	var lines []string
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("• %s: %q (%s)", r.Type, r.Key, r.Field))
	}
	lines = append(lines, "Remove these references before deleting the component.")
	return &Diagnostic{
		ComponentType: componentType,
		ComponentKey:  componentKey,
		Message: fmt.Sprintf("Cannot delete %s %q: %d component(s) still reference it.",
			componentType, componentKey, len(records)),
		Details: strings.Join(lines, "\n"),
	}
}
