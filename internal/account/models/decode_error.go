package models

import (
	"fmt"
	"strings"
)

// DecodeReason classifies why Decode rejected its input.
type DecodeReason string

const (
	ReasonMalformed       DecodeReason = "malformed"
	ReasonNotAnObject     DecodeReason = "not_an_object"
	ReasonMissingField    DecodeReason = "missing_field"
	ReasonUnexpectedField DecodeReason = "unexpected_field"
	ReasonTypeMismatch    DecodeReason = "type_mismatch"
	ReasonInvalidLiteral  DecodeReason = "invalid_literal"
)

// DecodeError is the only error the account model produces. Path is the
// dotted field path of the offending value; it is empty for the document root.
type DecodeError struct {
	Path     string
	Reason   DecodeReason
	Expected string
	Actual   string
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("decode account")
	if e.Path != "" {
		b.WriteString(": ")
		b.WriteString(e.Path)
	}
	switch e.Reason {
	case ReasonMissingField:
		b.WriteString(": is missing")
	case ReasonUnexpectedField:
		b.WriteString(": is unexpected")
	default:
		fmt.Fprintf(&b, ": expected %s, got %s", e.Expected, e.Actual)
	}
	return b.String()
}

// FieldPath exposes Path to transports that report the offending field.
func (e *DecodeError) FieldPath() string {
	return e.Path
}

func missingField(path, expected string) *DecodeError {
	return &DecodeError{Path: path, Reason: ReasonMissingField, Expected: expected, Actual: "nothing"}
}

func unexpectedField(path string, v any) *DecodeError {
	return &DecodeError{Path: path, Reason: ReasonUnexpectedField, Expected: "nothing", Actual: describe(v)}
}

func typeMismatch(path, expected string, v any) *DecodeError {
	return &DecodeError{Path: path, Reason: ReasonTypeMismatch, Expected: expected, Actual: describe(v)}
}
