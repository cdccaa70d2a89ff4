// Package middleware groups the Fiber middleware of the reconciliation server.
//
//   - auth: rejects requests without the configured X-API-Key.
//   - rayid: tags every request with an X-Ray-ID used in log lines.
//
// Register rayid first so that later middleware and handlers can log it.
package middleware
