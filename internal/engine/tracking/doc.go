// Package tracking defines the tracked-change model the overlay core consumes.
//
// A RangesSnapshot is an immutable, point-in-time view of the authoritative
// change history: tracked insertions and deletions, plus the comments anchored
// to comment threads. Every operation offset refers to the document version the
// snapshot was taken against.
//
// # Operations
//
// Operation is a closed sum type with three variants:
//
//   - [Insert]: text that was added at Pos
//   - [Delete]: text that was removed at Pos
//   - [Comment]: a comment over text at Pos, belonging to a thread
//
// Consumers dispatch with Operation.Accept and an [OperationVisitor]. The
// visitor has one method per variant, so adding a variant is a compile error in
// every consumer until it handles the new case. A Change whose wire operation
// matches no variant decodes with a nil Op.
//
// # Wire format
//
// Snapshots decode from the ShareJS ranges JSON shape:
//
//	{
//	  "ranges": {
//	    "changes":  [{"id": "a", "op": {"p": 4, "i": "quux"}, "metadata": {"user_id": "u1", "ts": "..."}}],
//	    "comments": [{"id": "c", "op": {"p": 0, "c": "foo", "t": "thread-1"}}]
//	  },
//	  "threads": {"thread-1": {"resolved": false}}
//	}
package tracking
