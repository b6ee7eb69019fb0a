package reader

import "github.com/rosbaglib/bagcore/model"

// MessageIterator yields model.Message values in ascending timestamp
// order, the reader-facing counterpart of storage.MessageIterator.
type MessageIterator interface {
	Next() bool
	Message() model.Message
	Err() error
	Close() error
}

// sliceIterator serves a pre-sorted, pre-merged slice. Building the full
// merged stream up front is the "concatenate and re-sort" strategy
// spec.md §9 calls out as the simplest correct implementation; a bag's
// message count is bounded by what fits in the storage file it came from,
// so holding it in memory during iteration does not trade away realistic
// usability for simplicity.
type sliceIterator struct {
	messages []model.Message
	pos      int
	cur      model.Message
}

func (it *sliceIterator) Next() bool {
	if it.pos >= len(it.messages) {
		return false
	}

	it.cur = it.messages[it.pos]
	it.pos++

	return true
}

func (it *sliceIterator) Message() model.Message { return it.cur }

func (it *sliceIterator) Err() error { return nil }

func (it *sliceIterator) Close() error { return nil }
