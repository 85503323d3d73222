package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostic_String(t *testing.T) {
	tests := []struct {
		name     string
		diag     Diagnostic
		expected string
	}{
		{
			name:     "message only",
			diag:     Diagnostic{Message: "something happened"},
			expected: "something happened",
		},
		{
			name:     "code and message",
			diag:     Diagnostic{Code: CodeUnhandledType, Message: "unhandled tag tuple"},
			expected: "[unhandled-type] unhandled tag tuple",
		},
		{
			name: "fully located",
			diag: Diagnostic{
				Code:    CodeUnindexedPath,
				Message: "no index entry",
				ID:      "2:42",
				Path:    "core::num::NonZeroU64",
			},
			expected: "core::num::NonZeroU64 (2:42): [unindexed-path] no index entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.diag.String())
		})
	}
}

func TestDiagnostics_Collect(t *testing.T) {
	// Test: Warnings and infos are kept apart and in insertion order
	var d Diagnostics
	assert.False(t, d.HasWarnings())

	d.AddInfo(CodeUnitVariantDocs, "docs on unit variant", "0:3", "a::E::Unit")
	d.AddWarning(CodeUnhandledType, "first", "0:1", "")
	d.AddWarning(CodeUnhandledType, "second", "0:2", "")

	assert.True(t, d.HasWarnings())
	assert.Equal(t, 3, d.Len())
	require.Len(t, d.Warnings, 2)
	assert.Equal(t, "first", d.Warnings[0].Message)
	assert.Equal(t, SeverityWarning, d.Warnings[0].Severity)
	require.Len(t, d.Infos, 1)
	assert.Equal(t, SeverityInfo, d.Infos[0].Severity)

	matches := d.ByCode(CodeUnhandledType)
	require.Len(t, matches, 2)
	assert.Equal(t, "second", matches[1].Message)
}

func TestDiagnostics_Merge(t *testing.T) {
	// Test: Merge appends and tolerates nil
	var a, b Diagnostics
	a.AddWarning(CodeDuplicateName, "dup", "", "")
	b.AddInfo(CodeStrippedFields, "stripped", "", "")

	a.Merge(&b)
	a.Merge(nil)

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, "warning", a.Warnings[0].Severity.String())
	assert.Equal(t, "info", a.Infos[0].Severity.String())
}
