// Package compiler turns a placed gate stream into a communication plan.
//
// The passes run in order, each returning a fresh element stream:
//
//	FuseCRZ        optional CX·RZ·CX → CRZ·RZ rewrite
//	Aggregate      group consecutive remote gates into blocks
//	Merger.Merge   merge blocks sharing a (source, target node) pair
//	Assign         tag each block Cat or Teleport
//	Merger.MergeTeleport
//	               chain same-source teleport blocks into relays
//
// Pipeline runs them and schedules the result. Input problems surface as
// ir.Error values; a blocked commutation only leaves blocks unmerged.
package compiler
