package media

// AddResult describes the outcome of one AddFiles call
type AddResult struct {
	Accepted []Item
	Rejected []Rejection
	// Dropped holds valid files that did not fit under MaxItems. They are
	// left out without a rejection notice.
	Dropped []Item
}

// Selection is the ordered list of media for one room draft. The first item
// is the primary image shown in listings. It is not safe for concurrent use;
// callers serialize access per draft.
type Selection struct {
	items []Item
}

func NewSelection() *Selection {
	return &Selection{}
}

// AddFiles validates candidates in order and appends the accepted ones. When
// the result would exceed MaxItems the newest tail is dropped.
func (s *Selection) AddFiles(candidates []FileHandle) AddResult {
	var result AddResult
	var accepted []Item

	for _, c := range candidates {
		if c == nil {
			continue
		}
		item, err := Validate(c)
		if err != nil {
			result.Rejected = append(result.Rejected, Rejection{Name: c.Name(), Err: err})
			continue
		}
		accepted = append(accepted, item)
	}

	room := MaxItems - len(s.items)
	if room < 0 {
		room = 0
	}
	if len(accepted) > room {
		result.Dropped = accepted[room:]
		accepted = accepted[:room]
	}

	s.items = append(s.items, accepted...)
	result.Accepted = accepted
	return result
}

// RemoveAt removes the item at index and shifts the rest down. An index
// outside [0, Len()) leaves the selection untouched and returns
// ErrIndexOutOfRange.
func (s *Selection) RemoveAt(index int) (Item, error) {
	if index < 0 || index >= len(s.items) {
		return Item{}, ErrIndexOutOfRange
	}

	removed := s.items[index]
	s.items = append(s.items[:index:index], s.items[index+1:]...)
	return removed, nil
}

// Items returns a copy of the current selection in order
func (s *Selection) Items() []Item {
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Selection) Len() int {
	return len(s.items)
}

// Primary returns the first item, if any
func (s *Selection) Primary() (Item, bool) {
	if len(s.items) == 0 {
		return Item{}, false
	}
	return s.items[0], true
}

// Reset empties the selection and returns what it held
func (s *Selection) Reset() []Item {
	removed := s.items
	s.items = nil
	return removed
}
