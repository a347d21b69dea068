// Package oceannotes is the composition root for Ocean Notes.
//
// It connects the note store (pkg/core) with a storage adapter
// (filesystem, bbolt, SQLite or memory) using the hexagonal layout of the
// rest of the module.
//
// Features:
//
//   - **Single collection**: every note lives in one serialized value under a
//     fixed key. Each mutation rewrites the whole collection.
//   - **Pluggable storage**: adapters implement `core.Storage`.
//   - **Corruption tolerant**: an unreadable collection is logged,
//     quarantined and treated as empty.
//   - **Autosave**: `pkg/autosave` debounces editor writes (400ms by default).
//   - **Live reload**: the filesystem adapter reports outside changes.
//
// Usage:
//
//	svc, err := oceannotes.New("./notes",
//		oceannotes.WithAdapter("bolt"),
//		oceannotes.WithLogger(logger),
//	)
//
//	note, err := svc.Create(ctx, oceannotes.Fields{Title: "Groceries"})
package oceannotes
