package command

// Recall walks previously submitted lines, oldest first. The cursor starts
// one past the newest line and returns there after every Push.
type Recall struct {
	lines  []string
	cursor int
}

// Push records a submitted line.
func (r *Recall) Push(line string) {
	r.lines = append(r.lines, line)
	r.cursor = len(r.lines)
}

// Back moves to the previous line, stopping at the oldest.
func (r *Recall) Back() string {
	if r.cursor > 0 {
		r.cursor--
	}
	return r.current()
}

// Forward moves to the next line. Past the newest line it returns "".
func (r *Recall) Forward() string {
	if r.cursor < len(r.lines) {
		r.cursor++
	}
	return r.current()
}

// Lines returns the submitted lines, oldest first.
func (r *Recall) Lines() []string {
	return append([]string(nil), r.lines...)
}

func (r *Recall) current() string {
	if r.cursor >= len(r.lines) {
		return ""
	}
	return r.lines[r.cursor]
}
