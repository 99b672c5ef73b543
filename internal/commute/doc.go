// Package commute decides when gate sequences can be reordered.
//
// A Table holds one Rule per unordered pair of gate types. Each rule lists
// cases keyed by how the two gates share qubits; a case either blocks the
// pair or lets it pass with a one-to-one transform of each gate. Gates on
// disjoint qubits always pass unchanged.
//
// CommuteRight lifts single swaps to gate lists and is the primitive the
// block merger uses to slide gates past each other.
package commute
