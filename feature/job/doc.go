// Package job runs configured reconciliations.
//
// A job is described by Config: the primary key, excluded columns, numeric
// tolerances and a left and a right source. Sources are SQL tables or queries
// (feature/sqlsource) or CSV files and storage objects (feature/filesource).
//
// # Service
//
// Service builds both streams, runs the engine and collects statistics plus a
// bounded list of difference records into a Result. Extra consumers, such as a
// console printer, can be attached per run.
//
// Compare wraps Run with a short-lived result cache. Concurrent callers share a
// single run through singleflight, so a burst of identical requests reads each
// source once.
//
// # HTTP
//
//	POST /compare          run (or reuse) the comparison; ?refresh=true bypasses the cache
//	GET  /compare/layout   show key, compared and side-only columns without reading rows
package job
