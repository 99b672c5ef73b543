// Package store keeps a SQLite history of compilations.
//
// Each compiled plan is stored once per run with its fingerprints, its
// block and EPR counts, its latency and the plan JSON. Records get a UUIDv7
// id; listing order is the insertion sequence, newest first.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
