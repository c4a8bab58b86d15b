// Package remap maps document offsets through text edits.
//
// Mapper is the host's position-remapping capability. The overlay core calls
// it and never re-derives the rule, so annotation positions move exactly as
// the host moves its own cursors and remote positions.
//
// Sequential is the default Mapper. For each edit, in order:
//
//   - an offset before the edit start is unchanged
//   - an offset at or after the edit end shifts by the edit's length delta
//   - an offset inside the replaced span collapses to the edit start
//
// An insertion has an empty span, so an offset exactly at the insertion point
// counts as "at the edit end" and moves past the inserted text.
package remap
