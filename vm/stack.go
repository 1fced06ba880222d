package vm

// ---------------------------------------------------------------------------
// Value stack
// ---------------------------------------------------------------------------

// ValueStack is the operand stack the VM runs against.
// Push fails with ErrStackOverflow when full; Pop fails with
// ErrStackUnderflow when empty. Neither leaves the stack modified on failure.
type ValueStack interface {
	Push(v Value) error
	Pop() (Value, error)
	Len() int
	Cap() int
}

// Storage is the fixed set of slots backing a DataStack.
type Storage interface {
	Len() int
	At(i int) Value
	Set(i int, v Value)
}

// SliceStorage is Storage over a preallocated slice.
type SliceStorage []Value

func (s SliceStorage) Len() int           { return len(s) }
func (s SliceStorage) At(i int) Value     { return s[i] }
func (s SliceStorage) Set(i int, v Value) { s[i] = v }

// DataStack is a ValueStack over fixed storage with a top-of-stack index.
// Invariant: 0 <= top <= slots.Len().
type DataStack struct {
	slots Storage
	top   int
}

// NewDataStack creates an empty stack over slots. The capacity is
// slots.Len() and never grows.
func NewDataStack(slots Storage) *DataStack {
	return &DataStack{slots: slots}
}

// NewFixedStack creates an empty stack holding at most capacity values.
func NewFixedStack(capacity int) *DataStack {
	if capacity < 0 {
		capacity = 0
	}
	return NewDataStack(make(SliceStorage, capacity))
}

func (s *DataStack) Push(v Value) error {
	if s.top >= s.slots.Len() {
		return &Error{Kind: StackOverflow}
	}
	s.slots.Set(s.top, v)
	s.top++
	return nil
}

func (s *DataStack) Pop() (Value, error) {
	if s.top <= 0 {
		return Void, &Error{Kind: StackUnderflow}
	}
	s.top--
	return s.slots.At(s.top), nil
}

// Peek returns the top value without removing it.
func (s *DataStack) Peek() (Value, bool) {
	if s.top <= 0 {
		return Void, false
	}
	return s.slots.At(s.top - 1), true
}

func (s *DataStack) Len() int { return s.top }
func (s *DataStack) Cap() int { return s.slots.Len() }
