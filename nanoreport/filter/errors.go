package filter

import "fmt"

// UnsupportedExpressionError reports a construct outside the filter language
type UnsupportedExpressionError struct {
	Construct string
	Text      string
	Position  int
}

// Error implements the error interface
func (e *UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("unsupported %s at offset %d: %q", e.Construct, e.Position, e.Text)
}

// UnknownOperatorError reports a comparison or query operator with no canonical equivalent
type UnknownOperatorError struct {
	Operator string
	Text     string
}

// Error implements the error interface
func (e *UnknownOperatorError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("unknown operator %q", e.Operator)
	}
	return fmt.Sprintf("unknown operator %q in %q", e.Operator, e.Text)
}

// SyntaxError reports an expression that does not parse
type SyntaxError struct {
	Text     string
	Position int
	Line     int
	Column   int
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("syntax error at line %d, column %d", e.Line, e.Column)
	}
	return fmt.Sprintf("syntax error at line %d, column %d near %q", e.Line, e.Column, e.Text)
}

// MalformedTreeError reports a filter or operator tree that is not in canonical shape
type MalformedTreeError struct {
	Reason string
	Err    error
}

// Error implements the error interface
func (e *MalformedTreeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed tree: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed tree: %s", e.Reason)
}

// Unwrap allows error unwrapping
func (e *MalformedTreeError) Unwrap() error {
	return e.Err
}
