package diff_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contractor-dev/contractor/internal/domain"
	"github.com/contractor-dev/contractor/internal/domain/diff"
)

var detectedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func contractWith(props []domain.PropertyModel, methods []domain.MethodModel) domain.Contract {
	return domain.Contract{
		Name:       "Order",
		Kind:       domain.KindInterface,
		Version:    "2.0.0",
		SourceFile: "api/order.ts",
		Properties: props,
		Methods:    methods,
	}
}

func TestCompare_IdenticalContractsProduceEmptyChangeset(t *testing.T) {
	c := contractWith(
		[]domain.PropertyModel{{Name: "id", Type: "string"}},
		[]domain.MethodModel{{Name: "submit", ReturnType: "void"}},
	)

	cs := diff.Compare(c, c, detectedAt)
	assert.Equal(t, "Order", cs.ContractName)
	assert.Empty(t, cs.Changes)
	assert.Empty(t, cs.Additions)
	assert.Empty(t, cs.Removals)
	assert.Empty(t, cs.Modifications)
}

func TestCompare_PropertyAddedIsLowImpact(t *testing.T) {
	oldC := contractWith([]domain.PropertyModel{{Name: "id", Type: "string"}}, nil)
	newC := contractWith([]domain.PropertyModel{
		{Name: "id", Type: "string"},
		{Name: "total", Type: "number"},
	}, nil)

	cs := diff.Compare(oldC, newC, detectedAt)
	assert.Equal(t, []string{"total"}, cs.Additions)
	require.Len(t, cs.Changes, 1)
	assert.Equal(t, domain.ChangePropertyAdded, cs.Changes[0].Type)
	assert.Equal(t, domain.ImpactLow, cs.Changes[0].Impact)
	assert.Contains(t, cs.Changes[0].Migration, "no migration needed")
	assert.False(t, cs.HasCritical())
}

func TestCompare_PropertyTypeChangedIsCritical(t *testing.T) {
	oldC := contractWith([]domain.PropertyModel{{Name: "total", Type: "number"}}, nil)
	newC := contractWith([]domain.PropertyModel{{Name: "total", Type: "string"}}, nil)

	cs := diff.Compare(oldC, newC, detectedAt)
	assert.Equal(t, []string{"total"}, cs.Modifications)
	require.Len(t, cs.Changes, 1)
	assert.Equal(t, domain.ChangePropertyTypeChanged, cs.Changes[0].Type)
	assert.Equal(t, domain.ImpactCritical, cs.Changes[0].Impact)
	// Migration text names both the old and the new type.
	assert.Contains(t, cs.Changes[0].Migration, "number")
	assert.Contains(t, cs.Changes[0].Migration, "string")
	assert.True(t, cs.HasCritical())
}

func TestCompare_PropertyRemovedIsCritical(t *testing.T) {
	oldC := contractWith([]domain.PropertyModel{{Name: "legacyId", Type: "string"}}, nil)
	newC := contractWith(nil, nil)

	cs := diff.Compare(oldC, newC, detectedAt)
	assert.Equal(t, []string{"legacyId"}, cs.Removals)
	require.Len(t, cs.Changes, 1)
	assert.Equal(t, domain.ChangePropertyRemoved, cs.Changes[0].Type)
	assert.Equal(t, domain.ImpactCritical, cs.Changes[0].Impact)
}

func TestCompare_MethodAddedAndRemoved(t *testing.T) {
	oldC := contractWith(nil, []domain.MethodModel{{Name: "cancel", ReturnType: "void"}})
	newC := contractWith(nil, []domain.MethodModel{{Name: "submit", ReturnType: "void"}})

	cs := diff.Compare(oldC, newC, detectedAt)
	assert.Equal(t, []string{"submit"}, cs.Additions)
	assert.Equal(t, []string{"cancel"}, cs.Removals)
	require.Len(t, cs.Changes, 2)
	assert.Equal(t, domain.ChangeMethodAdded, cs.Changes[0].Type)
	assert.Equal(t, domain.ChangeMethodRemoved, cs.Changes[1].Type)
}

func TestCompare_MethodSignatureChanges(t *testing.T) {
	base := domain.MethodModel{
		Name:       "charge",
		Parameters: []domain.ParameterModel{{Name: "amount", Type: "number"}},
		ReturnType: "Promise<void>",
	}

	cases := []struct {
		name   string
		mutate func(m domain.MethodModel) domain.MethodModel
	}{
		{"parameter count", func(m domain.MethodModel) domain.MethodModel {
			m.Parameters = append(m.Parameters, domain.ParameterModel{Name: "currency", Type: "string"})
			return m
		}},
		{"parameter type", func(m domain.MethodModel) domain.MethodModel {
			m.Parameters = []domain.ParameterModel{{Name: "amount", Type: "string"}}
			return m
		}},
		{"parameter optionality", func(m domain.MethodModel) domain.MethodModel {
			m.Parameters = []domain.ParameterModel{{Name: "amount", Type: "number", IsOptional: true}}
			return m
		}},
		{"return type", func(m domain.MethodModel) domain.MethodModel {
			m.ReturnType = "Promise<Receipt>"
			return m
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			oldC := contractWith(nil, []domain.MethodModel{base})
			newC := contractWith(nil, []domain.MethodModel{tc.mutate(base)})

			cs := diff.Compare(oldC, newC, detectedAt)
			require.Len(t, cs.Changes, 1)
			assert.Equal(t, domain.ChangeMethodSignatureChanged, cs.Changes[0].Type)
			assert.Equal(t, domain.ImpactCritical, cs.Changes[0].Impact)
			assert.Equal(t, []string{"charge"}, cs.Modifications)
		})
	}
}

func TestCompare_SignatureDescriptionRendersBothSignatures(t *testing.T) {
	oldC := contractWith(nil, []domain.MethodModel{{
		Name:       "charge",
		Parameters: []domain.ParameterModel{{Name: "amount", Type: "number"}},
		ReturnType: "void",
	}})
	newC := contractWith(nil, []domain.MethodModel{{
		Name:       "charge",
		Parameters: []domain.ParameterModel{{Name: "amount", Type: "number"}, {Name: "currency", Type: "string", IsOptional: true}},
		ReturnType: "void",
	}})

	cs := diff.Compare(oldC, newC, detectedAt)
	require.Len(t, cs.Changes, 1)
	assert.Contains(t, cs.Changes[0].Description, "(amount: number): void")
	assert.Contains(t, cs.Changes[0].Description, "(amount: number, currency?: string): void")
}

func TestCompare_RenamedMemberReportsAddAndRemove(t *testing.T) {
	oldC := contractWith([]domain.PropertyModel{{Name: "userName", Type: "string"}}, nil)
	newC := contractWith([]domain.PropertyModel{{Name: "displayName", Type: "string"}}, nil)

	cs := diff.Compare(oldC, newC, detectedAt)
	assert.Equal(t, []string{"displayName"}, cs.Additions)
	assert.Equal(t, []string{"userName"}, cs.Removals)
	assert.Empty(t, cs.Modifications)
}

func TestCompare_ChangesOrderedAdditionsModificationsRemovals(t *testing.T) {
	oldC := contractWith([]domain.PropertyModel{
		{Name: "total", Type: "number"},
		{Name: "legacyId", Type: "string"},
	}, nil)
	newC := contractWith([]domain.PropertyModel{
		{Name: "total", Type: "string"},
		{Name: "createdAt", Type: "Date"},
	}, nil)

	cs := diff.Compare(oldC, newC, detectedAt)
	require.Len(t, cs.Changes, 3)
	assert.Equal(t, domain.ChangePropertyAdded, cs.Changes[0].Type)
	assert.Equal(t, domain.ChangePropertyTypeChanged, cs.Changes[1].Type)
	assert.Equal(t, domain.ChangePropertyRemoved, cs.Changes[2].Type)
}

func TestCompare_RecordsCarryContractVersion(t *testing.T) {
	oldC := contractWith([]domain.PropertyModel{{Name: "id", Type: "string"}}, nil)
	newC := contractWith(nil, nil)
	newC.Version = "3.0.0"

	cs := diff.Compare(oldC, newC, detectedAt)
	require.Len(t, cs.Changes, 1)
	assert.Equal(t, "3.0.0", cs.Changes[0].Version)
	assert.Equal(t, detectedAt, cs.Changes[0].DetectedAt)
}
