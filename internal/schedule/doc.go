// Package schedule estimates the cost of a compiled plan.
//
// The timing model is idealized: every data qubit and each of two
// communication slots per node carries a ready time, and an operation on a
// set of resources starts at the latest of their ready times. Cat blocks
// consume one EPR pair; teleport blocks consume one per hop plus one to
// bring the state home.
package schedule
