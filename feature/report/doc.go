// Package report provides consumers for reconcile events.
//
// # Consumers
//
//   - Console: colored, human readable event listing (fatih/color).
//   - CSVWriter: one CSV row per difference, suitable for spreadsheets.
//   - Stats: counters per event kind and breaks per column.
//   - Recorder: a bounded list of JSON-friendly records for APIs.
//   - Cascade: forwards every event to several consumers in registration order.
//
// Uploader stores rendered reports in object storage.
//
// All consumers implement reconcile.LayoutConsumer and expect the layout before
// the first event, which Engine.Run guarantees.
package report
