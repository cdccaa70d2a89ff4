// Package filesource provides CSV reconcile streams read from a local file or
// from an object in storage.
//
// The first record is the header; every label becomes a column. Columns are
// weakly typed text unless a kind is declared for them with WithColumnKinds, in
// which case they are strongly typed and each cell is coerced on read.
//
// Files are expected in key order. A source marked unsorted with Unsorted is
// read completely on Open and sorted in memory by the key comparators.
//
// # Usage
//
//	src := filesource.NewFile("exports/ledger.csv",
//	    filesource.WithColumnKinds(map[string]tuple.Kind{"id": tuple.KindInteger}),
//	    filesource.Unsorted("id"),
//	)
package filesource
