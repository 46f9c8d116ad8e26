// Package storage persists the bot's held state (last known snapshots plus
// the live message id) across restarts.
//
// Writes are whole-state overwrites. A load that finds nothing usable is
// never fatal; the bot simply starts from an empty state.
package storage
