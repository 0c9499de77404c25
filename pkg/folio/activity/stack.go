package activity

// Stack holds the suspended parents of the current activity.
// Activities on the stack keep their state; they are neither exited nor
// rendered until popped back to the top.
type Stack struct {
	entries []Activity
}

// NewStack creates a new empty activity stack.
func NewStack() *Stack {
	return &Stack{
		entries: make([]Activity, 0, 10),
	}
}

// Push adds an activity on top of the stack.
func (s *Stack) Push(a Activity) {
	s.entries = append(s.entries, a)
}

// Pop removes and returns the top activity.
// Returns nil if the stack is empty.
func (s *Stack) Pop() Activity {
	if len(s.entries) == 0 {
		return nil
	}
	top := s.entries[len(s.entries)-1]
	s.entries[len(s.entries)-1] = nil
	s.entries = s.entries[:len(s.entries)-1]
	return top
}

// Peek returns the top activity without removing it.
// Returns nil if the stack is empty.
func (s *Stack) Peek() Activity {
	if len(s.entries) == 0 {
		return nil
	}
	return s.entries[len(s.entries)-1]
}

// IsEmpty returns true if the stack has no entries.
func (s *Stack) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of entries in the stack.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Names lists the activity names from the bottom of the stack to the top.
func (s *Stack) Names() []string {
	names := make([]string, 0, len(s.entries))
	for _, a := range s.entries {
		names = append(names, a.Name())
	}
	return names
}
