package shellcmd

// Recorder is an Executor for tests: it records every Command instead of
// running it, and can be scripted to fail selected invocations.
type Recorder struct {
	Commands []Command
	// Fail, if non-nil, is consulted per command; a non-nil return is
	// reported as that command's failure.
	Fail func(Command) error
}

func (r *Recorder) Run(c Command) error {
	r.Commands = append(r.Commands, c)
	if r.Fail != nil {
		return r.Fail(c)
	}
	return nil
}

// Lines returns the recorded commands rendered one per line, convenient for
// golden comparisons in tests.
func (r *Recorder) Lines() []string {
	lines := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		lines[i] = c.String()
	}
	return lines
}
