package stream

import "io"

// SliceSource is a LineSource over an in-memory slice of lines.
type SliceSource struct {
	lines []string
	pos   int
}

func NewSliceSource(lines ...string) *SliceSource {
	return &SliceSource{lines: lines}
}

func (s *SliceSource) Next() (string, error) {
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}
