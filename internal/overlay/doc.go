// Package overlay owns the live annotation set for an editing session.
//
// The host delivers update cycles: an ordered batch of text edits plus an
// optional snapshot refresh. Each cycle runs exactly one transition:
//
//  1. remap every annotation through each edit, in order, using the host's
//     remap.Mapper
//  2. if the cycle carries a refresh, discard the remapped set and rebuild it
//     from the new snapshot
//
// Step is the pure (state, cycle) -> state' transition. Engine holds the
// state between cycles and refuses re-entry while a cycle is running. It takes
// no locks; the host serializes cycles.
package overlay
