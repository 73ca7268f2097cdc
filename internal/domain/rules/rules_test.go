package rules_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractor-dev/contractor/internal/domain"
	"github.com/contractor-dev/contractor/internal/domain/rules"
)

var detectedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func documented(name string) domain.Contract {
	return domain.Contract{
		Name:       name,
		Kind:       domain.KindInterface,
		Version:    "2.0.0",
		SourceFile: "api/" + name + ".ts",
		Line:       3,
		Metadata: domain.ContractMetadata{
			Documentation: "Describes " + name + ".",
			Stability:     domain.StabilityStable,
		},
	}
}

func violationsOfType(violations []domain.Violation, vtype string) []domain.Violation {
	var out []domain.Violation
	for _, v := range violations {
		if v.Type == vtype {
			out = append(out, v)
		}
	}
	return out
}

func TestValidate_CleanContractHasNoViolations(t *testing.T) {
	c := documented("UserProfile")
	c.Properties = []domain.PropertyModel{
		{Name: "id", Type: "string", Documentation: "Identifier.", Version: c.Version},
	}
	c.Methods = []domain.MethodModel{
		{Name: "refresh", ReturnType: "void", Documentation: "Reloads the model.", Version: c.Version},
	}

	assert.Empty(t, rules.Validate(c, detectedAt))
}

func TestDocumentation_MissingContractDoc(t *testing.T) {
	c := documented("Order")
	c.Metadata.Documentation = ""

	violations := violationsOfType(rules.Validate(c, detectedAt), domain.ViolationDocumentation)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.SeverityMedium, violations[0].Severity)
	assert.Equal(t, "documentation:Order:contract", violations[0].ID)
	assert.Equal(t, "api/Order.ts:3", violations[0].Location)
}

func TestDocumentation_MissingMemberDocsAreLow(t *testing.T) {
	c := documented("Order")
	c.Properties = []domain.PropertyModel{{Name: "total", Type: "number"}}
	c.Methods = []domain.MethodModel{{Name: "submit", ReturnType: "void"}}

	violations := violationsOfType(rules.Validate(c, detectedAt), domain.ViolationDocumentation)
	require.Len(t, violations, 2)
	for _, v := range violations {
		assert.Equal(t, domain.SeverityLow, v.Severity)
	}
	assert.Equal(t, "documentation:Order:property.total", violations[0].ID)
	assert.Equal(t, "documentation:Order:method.submit", violations[1].ID)
}

func TestDocumentation_TypoDetection(t *testing.T) {
	c := documented("Inbox")
	c.Metadata.Documentation = "Lets clients recieve messages in a seperate channel."

	violations := violationsOfType(rules.Validate(c, detectedAt), domain.ViolationDocumentation)
	require.Len(t, violations, 2)
	assert.Contains(t, violations[0].Description, "recieve")
	assert.Contains(t, violations[0].Suggestion, "receive")
	assert.Contains(t, violations[1].Description, "seperate")
}

func TestDocumentation_TypoCheckSkippedWithoutDocs(t *testing.T) {
	// An undocumented contract reports the missing doc, never typos.
	c := documented("Inbox")
	c.Metadata.Documentation = ""

	violations := violationsOfType(rules.Validate(c, detectedAt), domain.ViolationDocumentation)
	require.Len(t, violations, 1)
	assert.Equal(t, "documentation:Inbox:contract", violations[0].ID)
}

func TestVersioning_DefaultVersionFlagged(t *testing.T) {
	c := documented("Order")
	c.Version = domain.DefaultVersion

	violations := violationsOfType(rules.Validate(c, detectedAt), domain.ViolationVersioning)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.SeverityMedium, violations[0].Severity)

	c.Version = ""
	violations = violationsOfType(rules.Validate(c, detectedAt), domain.ViolationVersioning)
	assert.Len(t, violations, 1)
}

func TestVersioning_ExplicitVersionPasses(t *testing.T) {
	c := documented("Order")
	c.Version = "3.1.0"
	assert.Empty(t, violationsOfType(rules.Validate(c, detectedAt), domain.ViolationVersioning))
}

func TestStability_ExperimentalWithoutWarning(t *testing.T) {
	c := documented("Preview")
	c.Metadata.Stability = domain.StabilityExperimental
	c.Metadata.Documentation = "Early draft of the preview API.\n@experimental"

	violations := violationsOfType(rules.Validate(c, detectedAt), domain.ViolationStability)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.SeverityMedium, violations[0].Severity)
	assert.NotEmpty(t, violations[0].Examples)
}

func TestStability_ExperimentalWithWarningPasses(t *testing.T) {
	c := documented("Preview")
	c.Metadata.Stability = domain.StabilityExperimental
	c.Metadata.Documentation = "WARNING: experimental, subject to change.\n@experimental"

	assert.Empty(t, violationsOfType(rules.Validate(c, detectedAt), domain.ViolationStability))
}

func TestStability_StableContractsExempt(t *testing.T) {
	c := documented("Settled")
	assert.Empty(t, violationsOfType(rules.Validate(c, detectedAt), domain.ViolationStability))
}

func TestBreakingChanges_MissingMigrationIsCritical(t *testing.T) {
	c := documented("Gateway")
	c.Metadata.BreakingChanges = []domain.BreakingChangeRecord{
		{Type: domain.ChangeMethodSignatureChanged, Description: "callbacks removed"},
		{Type: domain.ChangePropertyRemoved, Migration: "read the id from the session instead"},
	}

	violations := violationsOfType(rules.Validate(c, detectedAt), domain.ViolationBreakingChange)
	require.Len(t, violations, 1)
	assert.Equal(t, domain.SeverityCritical, violations[0].Severity)
	assert.Contains(t, violations[0].Description, domain.ChangeMethodSignatureChanged)
}

func TestCompatibility_DeprecatedWithoutReplacement(t *testing.T) {
	c := documented("Legacy")
	c.Properties = []domain.PropertyModel{
		{Name: "token", Type: "string", Documentation: "x", Deprecated: &domain.Deprecation{Reason: "insecure"}},
	}
	c.Methods = []domain.MethodModel{
		{Name: "flush", ReturnType: "void", Documentation: "x", Deprecated: &domain.Deprecation{Reason: "gone", Replacement: "drain"}},
	}

	violations := violationsOfType(rules.Validate(c, detectedAt), domain.ViolationCompatibility)
	require.Len(t, violations, 1)
	assert.Equal(t, "compatibility:Legacy:property.token", violations[0].ID)
	assert.Equal(t, domain.SeverityMedium, violations[0].Severity)
}

func TestValidate_DeterministicIDs(t *testing.T) {
	c := documented("Order")
	c.Metadata.Documentation = ""
	c.Version = domain.DefaultVersion

	first := rules.Validate(c, detectedAt)
	second := rules.Validate(c, detectedAt)
	assert.Equal(t, first, second)
}

func TestValidate_ImpactVectorsPopulated(t *testing.T) {
	c := documented("Order")
	c.Metadata.Documentation = ""

	violations := rules.Validate(c, detectedAt)
	require.NotEmpty(t, violations)
	for _, v := range violations {
		assert.Greater(t, v.Impact.Usability, 0.0)
		assert.Greater(t, v.Impact.Stability, 0.0)
	}
}
