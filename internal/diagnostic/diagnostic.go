// Package diagnostic collects the non-fatal findings of a generation run:
// schema shapes that were degraded to placeholders and limitations of the
// target language.
package diagnostic

import (
	"fmt"
	"strings"
)

// Codes reported by the generators
const (
	CodeUnindexedPath        = "unindexed-path"
	CodeUnhandledType        = "unhandled-type"
	CodeUnhandledPrimitive   = "unhandled-primitive"
	CodeUnhandledItemKind    = "unhandled-item-kind"
	CodeUnhandledStructKind  = "unhandled-struct-kind"
	CodeUnhandledVariantKind = "unhandled-variant-kind"
	CodeMissingGenericArg    = "missing-generic-arg"
	CodeMissingMember        = "missing-member"
	CodeStrippedFields       = "stripped-fields"
	CodeUnitVariantDocs      = "unit-variant-docs"
	CodeDuplicateName        = "duplicate-name"
)

// Severity represents the severity level of a diagnostic
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

// String returns a human-readable severity name
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a single finding, located by the item it concerns
type Diagnostic struct {
	Severity Severity
	// Code identifies the kind of finding
	Code    string
	Message string
	// ID is the rustdoc id of the offending item, if any
	ID string
	// Path is the Rust path of the offending item, if known
	Path string
}

// String formats the diagnostic for terminal output
func (d Diagnostic) String() string {
	var prefix []string
	if d.Path != "" {
		prefix = append(prefix, d.Path)
	}
	if d.ID != "" {
		prefix = append(prefix, "("+d.ID+")")
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}
	return msg
}

// Diagnostics holds all findings of one run, in the order they were found
type Diagnostics struct {
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// AddWarning records output that was degraded
func (d *Diagnostics) AddWarning(code, message, id, path string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		ID:       id,
		Path:     path,
	})
}

// AddInfo records a limitation that did not change the emitted types
func (d *Diagnostics) AddInfo(code, message, id, path string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		ID:       id,
		Path:     path,
	})
}

// HasWarnings reports whether any output was degraded
func (d *Diagnostics) HasWarnings() bool {
	return len(d.Warnings) > 0
}

// Len returns the total number of diagnostics
func (d *Diagnostics) Len() int {
	return len(d.Warnings) + len(d.Infos)
}

// Merge appends the findings of other
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// ByCode returns every diagnostic with the given code, warnings first
func (d *Diagnostics) ByCode(code string) []Diagnostic {
	var result []Diagnostic
	for _, list := range [][]Diagnostic{d.Warnings, d.Infos} {
		for _, diag := range list {
			if diag.Code == code {
				result = append(result, diag)
			}
		}
	}
	return result
}
