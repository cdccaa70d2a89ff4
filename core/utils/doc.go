// Package utils provides common conversion helpers shared by the reconciler.
//
// Stream sources hand the tuple layer raw values in whatever shape the underlying
// driver or file produced them: MySQL returns DECIMAL and many integer columns as
// []byte, CSV files yield strings, reflective sources yield native Go types. The
// helpers here normalise those raw values into a small set of Go types and report
// a descriptive error when a value cannot be represented.
package utils
