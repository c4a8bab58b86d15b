package remap

import (
	"testing"

	"github.com/dshills/redline/internal/engine/buffer"
)

func TestTransformOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset ByteOffset
		edit   Edit
		want   ByteOffset
	}{
		{"insert before", 10, buffer.NewInsert(5, "abc"), 13},
		{"insert at offset", 5, buffer.NewInsert(5, "abc"), 8},
		{"insert after", 3, buffer.NewInsert(5, "abc"), 3},
		{"delete before", 10, buffer.NewDelete(2, 5), 7},
		{"delete ending at offset", 5, buffer.NewDelete(2, 5), 2},
		{"delete spanning offset", 4, buffer.NewDelete(2, 8), 2},
		{"delete starting at offset", 2, buffer.NewDelete(2, 8), 2},
		{"delete after", 1, buffer.NewDelete(2, 8), 1},
		{"replace spanning", 4, buffer.NewEdit(buffer.NewRange(2, 6), "xy"), 2},
		{"replace before", 9, buffer.NewEdit(buffer.NewRange(2, 6), "xy"), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformOffset(tt.offset, tt.edit); got != tt.want {
				t.Errorf("TransformOffset(%d, %s) = %d, want %d", tt.offset, tt.edit, got, tt.want)
			}
		})
	}
}

func TestSequentialMapOffset(t *testing.T) {
	edits := []Edit{
		buffer.NewInsert(0, "ab"), // "ab" + text
		buffer.NewDelete(4, 6),    // removes original [2,4)
	}

	var m Mapper = Sequential{}

	tests := []struct {
		offset ByteOffset
		want   ByteOffset
	}{
		{0, 2},
		{1, 3},
		{2, 4},
		{3, 4},
		{4, 4},
		{10, 10},
	}

	for _, tt := range tests {
		if got := m.MapOffset(tt.offset, edits); got != tt.want {
			t.Errorf("MapOffset(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestMapperFunc(t *testing.T) {
	var calls int
	m := MapperFunc(func(offset ByteOffset, edits []Edit) ByteOffset {
		calls++
		return offset + ByteOffset(len(edits))
	})

	if got := m.MapOffset(3, []Edit{{}, {}}); got != 5 {
		t.Errorf("MapOffset() = %d, want 5", got)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestEditsInReverseOrder(t *testing.T) {
	tests := []struct {
		name  string
		edits []Edit
		want  bool
	}{
		{"empty", nil, true},
		{"descending", []Edit{buffer.NewInsert(9, "b"), buffer.NewDelete(5, 7), buffer.NewInsert(2, "a")}, true},
		{"ascending", []Edit{buffer.NewInsert(2, "a"), buffer.NewInsert(9, "b")}, false},
		{"delete then insert at its start", []Edit{buffer.NewDelete(4, 8), buffer.NewInsert(4, "x")}, true},
		{"overlapping deletes", []Edit{buffer.NewDelete(6, 8), buffer.NewDelete(4, 8)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EditsInReverseOrder(tt.edits); got != tt.want {
				t.Errorf("EditsInReverseOrder(%v) = %v, want %v", tt.edits, got, tt.want)
			}
		})
	}
}
