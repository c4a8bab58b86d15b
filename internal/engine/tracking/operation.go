package tracking

import "fmt"

// Kind is the discriminant of an Operation.
type Kind uint8

const (
	// KindUnknown is reported for a change with no recognized operation.
	KindUnknown Kind = iota

	// KindInsert is a tracked insertion.
	KindInsert

	// KindDelete is a tracked deletion.
	KindDelete

	// KindComment is a comment anchored to a thread.
	KindComment
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Operation is a tracked operation. The set of implementations is closed.
type Operation interface {
	// Kind returns the discriminant.
	Kind() Kind

	// Offset returns the recorded position.
	Offset() int64

	// Accept calls the visitor method matching the variant.
	Accept(v OperationVisitor) error

	isOperation()
}

// OperationVisitor handles every Operation variant.
type OperationVisitor interface {
	VisitInsert(op Insert) error
	VisitDelete(op Delete) error
	VisitComment(op Comment) error
}

// Insert records text added at Pos.
type Insert struct {
	Pos  int64
	Text string
}

// Kind implements Operation.
func (Insert) Kind() Kind { return KindInsert }

// Offset implements Operation.
func (op Insert) Offset() int64 { return op.Pos }

// Accept implements Operation.
func (op Insert) Accept(v OperationVisitor) error { return v.VisitInsert(op) }

func (Insert) isOperation() {}

// String returns a human-readable representation.
func (op Insert) String() string {
	return fmt.Sprintf("Insert %q at %d", abbreviate(op.Text), op.Pos)
}

// Delete records text removed at Pos.
type Delete struct {
	Pos  int64
	Text string
}

// Kind implements Operation.
func (Delete) Kind() Kind { return KindDelete }

// Offset implements Operation.
func (op Delete) Offset() int64 { return op.Pos }

// Accept implements Operation.
func (op Delete) Accept(v OperationVisitor) error { return v.VisitDelete(op) }

func (Delete) isOperation() {}

// String returns a human-readable representation.
func (op Delete) String() string {
	return fmt.Sprintf("Delete %q at %d", abbreviate(op.Text), op.Pos)
}

// Comment anchors a thread to the text at Pos.
type Comment struct {
	Pos    int64
	Text   string
	Thread string
}

// Kind implements Operation.
func (Comment) Kind() Kind { return KindComment }

// Offset implements Operation.
func (op Comment) Offset() int64 { return op.Pos }

// Accept implements Operation.
func (op Comment) Accept(v OperationVisitor) error { return v.VisitComment(op) }

func (Comment) isOperation() {}

// String returns a human-readable representation.
func (op Comment) String() string {
	return fmt.Sprintf("Comment %q at %d (thread %s)", abbreviate(op.Text), op.Pos, op.Thread)
}

// KindOf returns the kind of op, or KindUnknown for nil.
func KindOf(op Operation) Kind {
	if op == nil {
		return KindUnknown
	}
	return op.Kind()
}

func abbreviate(s string) string {
	if len(s) > 20 {
		return s[:17] + "..."
	}
	return s
}
