// Package memsource provides in-memory reconcile streams.
//
// Streams can be built from tuples, from raw rows coerced against a schema, or
// reflectively from a slice of structs. Struct fields map to columns through the
// `recon` tag:
//
//	type Account struct {
//	    ID      int64           `recon:"id"`
//	    Owner   string          `recon:"Owner Name"`
//	    Balance decimal.Decimal `recon:"balance"`
//	    Note    string          `recon:"-"`
//	}
//
// Untagged exported fields use the field name as label. Column kinds follow the
// Go field types and are strongly typed.
//
// When a key is configured with WithKey, rows are sorted by that key with the
// resolver's comparators on Open, so callers may pass unsorted data.
package memsource
