// Package annotation turns a tracked-change snapshot into positional visual
// annotations and keeps them ordered for the rendering layer.
//
// For each snapshot entry, changes first and then comments:
//
//   - a deletion yields a zero-width tombstone and a zero-width callout at its
//     position, since the deleted text no longer exists
//   - a non-empty insertion yields a mark over the inserted text and a callout
//     at its start
//   - a comment on an open thread yields a mark over the commented text and a
//     callout at its start; comments on resolved or missing threads yield
//     nothing
//
// A malformed entry is dropped on its own and logged; Build never fails.
// Set keeps the emitted order, which decides stacking at equal positions.
package annotation
