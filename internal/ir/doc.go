// Package ir provides the gate model shared by every qdist stage.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Gates are values; transforms return fresh gates with cloned slices
//   - Blocks are replaced, never edited, between stages
//   - Assignment is either unassigned or carries both source and targets
//   - All JSON tags use snake_case
package ir
