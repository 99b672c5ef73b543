// Package lower expands a compiled plan into primitive operations.
//
// Every node carries two communication qubits, written c<node>.<slot>, next
// to its data qubits q<i>. A cat block shares its source with the target
// node through one EPR pair and undoes the sharing with a measurement and a
// classically controlled Z. A teleport block moves the source state along
// its relay, one EPR pair per hop, and a final pair brings it home where a
// three-CX swap puts it back into its data qubit.
package lower
