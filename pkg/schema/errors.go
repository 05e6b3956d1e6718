/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: errors.go
Description: Typed schema errors. A SchemaError marks a FormatSpec as
internally inconsistent and must surface before any file is written for it.
*/

package schema

import "fmt"

// SchemaError reports an internally inconsistent FormatSpec, such as a
// CountOf rule referencing a missing array or a duplicate field name.
type SchemaError struct {
	Spec   string // name of the offending spec
	Detail string // what is inconsistent
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %q: %s", e.Spec, e.Detail)
}

// schemaErrorf builds a SchemaError with a formatted detail message
func schemaErrorf(spec string, format string, args ...interface{}) *SchemaError {
	return &SchemaError{Spec: spec, Detail: fmt.Sprintf(format, args...)}
}
