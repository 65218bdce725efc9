// Package planner turns "move or copy these selected paths next to this
// node" into a validated, collision-free source to destination mapping.
//
// Planning runs in two layers. A Negotiation is the pure state machine: it
// computes the proposed destinations, detects collisions and advances on
// every answer it is given. A Planner drives a Negotiation against a
// prompt.Prompter and asks for the final confirmation.
//
// Key responsibilities:
//   - Unify the selection and reject empty or forbidden selections
//   - Derive each destination from the anchor folder of the target node
//   - Negotiate an alternate name for every destination that already exists
//   - Report unresolved collisions without touching the filesystem
package planner
