// Package sqlsource provides reconcile streams backed by a SQL database through GORM.
//
// A stream reads either a whole table or the result of a query, ordered by the
// primary key:
//
//	SELECT <columns> FROM <table> ORDER BY <key>
//	SELECT * FROM (<query>) src ORDER BY <key>
//
// Table schemas come from database.TableSchema. Query schemas are probed with a
// zero-row execution of the query and the driver's column type names. All
// columns are strongly typed and every value read is coerced into its column kind.
//
// The database's ORDER BY must agree with the engine's key comparators. Text keys
// under a case-insensitive or locale collation may order differently from a
// byte-wise comparison; run with order checking enabled when in doubt.
package sqlsource
