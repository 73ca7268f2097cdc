// Package diff compares two versions of the same contract and classifies
// every member difference as a breaking or non-breaking change.
package diff

import (
	"fmt"
	"time"

	"github.com/contractor-dev/contractor/internal/domain"
)

// Compare diffs old against new and returns the classified changeset.
// Emission order is additions, then modifications, then removals, stable
// within each group by declaration order of the newer model (older model
// for removals).
func Compare(oldC, newC domain.Contract, detectedAt time.Time) domain.Changeset {
	cs := domain.Changeset{ContractName: newC.Name}

	diffProperties(&cs, oldC, newC, detectedAt)
	diffMethods(&cs, oldC, newC, detectedAt)

	return cs
}

func record(cs *domain.Changeset, changeType, description, impact, migration, version string, detectedAt time.Time) {
	cs.Changes = append(cs.Changes, domain.BreakingChangeRecord{
		Type:        changeType,
		Description: description,
		Impact:      impact,
		Migration:   migration,
		Version:     version,
		DetectedAt:  detectedAt,
	})
}

func diffProperties(cs *domain.Changeset, oldC, newC domain.Contract, detectedAt time.Time) {
	oldProps := make(map[string]domain.PropertyModel, len(oldC.Properties))
	for _, p := range oldC.Properties {
		oldProps[p.Name] = p
	}
	newProps := make(map[string]domain.PropertyModel, len(newC.Properties))
	for _, p := range newC.Properties {
		newProps[p.Name] = p
	}

	// Additions.
	for _, p := range newC.Properties {
		if _, ok := oldProps[p.Name]; ok {
			continue
		}
		cs.Additions = append(cs.Additions, p.Name)
		record(cs, domain.ChangePropertyAdded,
			fmt.Sprintf("property %s added (%s)", p.Name, p.Type),
			domain.ImpactLow,
			"no migration needed - the new property is optional for existing consumers",
			newC.Version, detectedAt)
	}

	// Type modifications.
	for _, p := range newC.Properties {
		old, ok := oldProps[p.Name]
		if !ok || old.Type == p.Type {
			continue
		}
		cs.Modifications = append(cs.Modifications, p.Name)
		record(cs, domain.ChangePropertyTypeChanged,
			fmt.Sprintf("property %s changed type from %s to %s", p.Name, old.Type, p.Type),
			domain.ImpactCritical,
			fmt.Sprintf("update consumers of %s to handle %s instead of %s", p.Name, p.Type, old.Type),
			newC.Version, detectedAt)
	}

	// Removals.
	for _, p := range oldC.Properties {
		if _, ok := newProps[p.Name]; ok {
			continue
		}
		cs.Removals = append(cs.Removals, p.Name)
		record(cs, domain.ChangePropertyRemoved,
			fmt.Sprintf("property %s removed", p.Name),
			domain.ImpactCritical,
			fmt.Sprintf("remove reads of %s or substitute an equivalent source", p.Name),
			newC.Version, detectedAt)
	}
}

func diffMethods(cs *domain.Changeset, oldC, newC domain.Contract, detectedAt time.Time) {
	oldMethods := make(map[string]domain.MethodModel, len(oldC.Methods))
	for _, m := range oldC.Methods {
		oldMethods[m.Name] = m
	}
	newMethods := make(map[string]domain.MethodModel, len(newC.Methods))
	for _, m := range newC.Methods {
		newMethods[m.Name] = m
	}

	for _, m := range newC.Methods {
		if _, ok := oldMethods[m.Name]; ok {
			continue
		}
		cs.Additions = append(cs.Additions, m.Name)
		record(cs, domain.ChangeMethodAdded,
			fmt.Sprintf("method %s added", m.Name),
			domain.ImpactLow,
			"no migration needed - existing consumers are unaffected",
			newC.Version, detectedAt)
	}

	for _, m := range newC.Methods {
		old, ok := oldMethods[m.Name]
		if !ok || !signatureChanged(old, m) {
			continue
		}
		cs.Modifications = append(cs.Modifications, m.Name)
		record(cs, domain.ChangeMethodSignatureChanged,
			fmt.Sprintf("method %s changed signature from %s to %s", m.Name, signature(old), signature(m)),
			domain.ImpactCritical,
			fmt.Sprintf("update all callers of %s to the new signature %s", m.Name, signature(m)),
			newC.Version, detectedAt)
	}

	for _, m := range oldC.Methods {
		if _, ok := newMethods[m.Name]; ok {
			continue
		}
		cs.Removals = append(cs.Removals, m.Name)
		record(cs, domain.ChangeMethodRemoved,
			fmt.Sprintf("method %s removed", m.Name),
			domain.ImpactCritical,
			fmt.Sprintf("remove calls to %s or substitute an equivalent operation", m.Name),
			newC.Version, detectedAt)
	}
}

// signatureChanged reports whether a method's observable signature differs:
// parameter count, return type, or any positional parameter's type or
// optionality.
func signatureChanged(oldM, newM domain.MethodModel) bool {
	if len(oldM.Parameters) != len(newM.Parameters) {
		return true
	}
	if oldM.ReturnType != newM.ReturnType {
		return true
	}
	for i := range oldM.Parameters {
		if oldM.Parameters[i].Type != newM.Parameters[i].Type {
			return true
		}
		if oldM.Parameters[i].IsOptional != newM.Parameters[i].IsOptional {
			return true
		}
	}
	return false
}

func signature(m domain.MethodModel) string {
	params := ""
	for i, p := range m.Parameters {
		if i > 0 {
			params += ", "
		}
		params += p.Name
		if p.IsOptional {
			params += "?"
		}
		params += ": " + p.Type
	}
	return fmt.Sprintf("(%s): %s", params, m.ReturnType)
}
