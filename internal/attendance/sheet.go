package attendance

import "github.com/aanand-mishra/attendance-api/internal/types"

// Sheet collects one day's marks before they are submitted. Every student
// starts absent; Toggle flips a student between absent and present.
// Students never toggled do not appear in Marks.
type Sheet struct {
	marks types.Marks
}

// NewSheet returns a sheet with nobody marked.
func NewSheet() *Sheet {
	return &Sheet{marks: types.Marks{}}
}

// Toggle flips studentID and returns its new state.
func (s *Sheet) Toggle(studentID string) bool {
	s.marks[studentID] = !s.marks[studentID]
	return s.marks[studentID]
}

// Present reports the current state of studentID.
func (s *Sheet) Present(studentID string) bool {
	return s.marks[studentID]
}

// Marks returns a copy of the toggled entries.
func (s *Sheet) Marks() types.Marks {
	out := make(types.Marks, len(s.marks))
	for k, v := range s.marks {
		out[k] = v
	}
	return out
}
