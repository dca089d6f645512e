// Package policy provides optional declarative rules applied on top of the
// approval gate – a per-run execution mode, coarse allow/block operation
// lists and the risk classification used to rank gated operations.
package policy
