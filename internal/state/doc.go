// Package state provides thread-safe state sharing between the background
// recipe loader and the UI.
//
// # Architecture
//
//	Producer (Loader):              Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ store.Begin(q)   │           │                  │
//	│ repo.Search(...) │           │  tick            │
//	│      ↓           │           │   ↓              │
//	│ store.Update()   │──────────→│ store.Snapshot() │
//	└──────────────────┘  (mutex)  └──────────────────┘
//
// Snapshots are deep copies, so the UI can hold on to one across renders
// without locking.
//
// # Failure Tracking
//
// A load that degraded to the bundled recipes still replaces the list; the
// cause goes into LastError and ConsecutiveFailures grows. IsOffline reports
// two or more failures in a row, which the UI shows as an offline banner.
// The first successful network load resets the counter.
package state
