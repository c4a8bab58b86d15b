// Package history records applied edit transactions for the host surface.
//
// Each Transaction keeps the text every edit replaced, so it can be inverted
// for undo. Transactions carry the Origin of their batch; reversions of
// tracked changes are tagged buffer.OriginReject and can be listed or skipped
// independently of ordinary typing.
//
// Basic usage:
//
//	h := history.New(100)
//	tx, _ := history.Capture(doc.Text(), batch)
//	_ = doc.Apply(batch)
//	h.Push(tx)
//
//	if tx, ok := h.Pop(); ok {
//	    _ = doc.Apply(tx.Inverse())
//	}
package history
