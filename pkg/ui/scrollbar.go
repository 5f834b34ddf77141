package ui

import "fmt"

// scrollbar is a vertical indicator bound two ways to the grid window:
// the view model moves it through TopRownoChanged and mouse scrolling
// moves the view model through onChange.
type scrollbar struct {
	value    int
	total    int
	page     int
	onChange func(int)
}

func (s *scrollbar) maxValue() int {
	return max(0, s.total-s.page)
}

// SetValue moves the thumb and reports the new value through onChange.
func (s *scrollbar) SetValue(v int) {
	v = max(0, min(v, s.maxValue()))
	if v == s.value {
		return
	}
	s.value = v
	if s.onChange != nil {
		s.onChange(v)
	}
}

// Render returns one cell per line of the track.
func (s *scrollbar) Render(height int, theme Theme) []string {
	if height <= 0 {
		return nil
	}
	cells := make([]string, height)
	if s.total <= s.page || s.total == 0 {
		for i := range cells {
			cells[i] = " "
		}
		return cells
	}

	thumb := max(1, height*s.page/s.total)
	pos := 0
	if m := s.maxValue(); m > 0 {
		pos = (height - thumb) * s.value / m
	}
	track := theme.Guide.Render("│")
	bar := theme.Fixed.Render("┃")
	for i := range cells {
		if i >= pos && i < pos+thumb {
			cells[i] = bar
		} else {
			cells[i] = track
		}
	}
	return cells
}

// percent returns the scroll position as a label.
func (s *scrollbar) percent() string {
	m := s.maxValue()
	switch {
	case m == 0:
		return "All"
	case s.value == 0:
		return "Top"
	case s.value >= m:
		return "Bot"
	}
	return fmt.Sprintf("%d%%", s.value*100/m)
}
