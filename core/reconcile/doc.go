// Package reconcile provides the sorted-merge engine that reconciles two
// key-ordered tuple streams.
//
// The engine walks a left and a right Stream in lockstep under a shared
// composite primary key and classifies every key position:
//
//   - ONLY_LEFT / ONLY_RIGHT: the key exists on one side only.
//   - MATCHED: the key exists on both sides and every compared field is equal.
//   - BREAK: the key exists on both sides and at least one field differs; the
//     event lists every differing column with its left and right values.
//
// # Architecture
//
// The reconcile system consists of four parts:
//
// 1. Stream: the producer contract. A stream exposes its schema, is opened, then
// yields tuples in ascending key order exactly once. SQL, file and in-memory
// streams live in the feature packages.
//
// 2. Validate: the single pre-flight check. It verifies that every key column
// exists on both sides with mutually comparable types, resolves the key
// comparators and splits the remaining columns into compared and side-only sets.
//
// 3. Engine: the merge loop. It keeps a one-row lookahead per side, compares keys
// lexicographically with the resolved comparators and emits events lazily.
// Data column comparators are resolved on first use.
//
// 4. Consumer: whatever reacts to events (printers, writers, statistics).
//
// # Performance
//
// A run reads each stream once, performs O(n + m) tuple reads and buffers a
// single tuple per side. Only the two Open calls run concurrently; the merge
// itself is strictly sequential.
//
// # Resource handling
//
// Once a run starts the engine owns both streams and closes each exactly once,
// whether the run completes, fails, or the caller stops consuming events early.
//
// # Usage Example
//
//	engine, err := reconcile.NewEngine(reconcile.Spec{
//	    PrimaryKey: []string{"id"},
//	    Exclude:    []string{"updated_at"},
//	}, reconcile.WithLogger(log))
//
//	// Pull style
//	for ev, err := range engine.Events(ctx, left, right) {
//	    if err != nil {
//	        return err
//	    }
//	    handle(ev)
//	}
//
//	// Push style
//	layout, err := engine.Run(ctx, left, right, consumer)
package reconcile
