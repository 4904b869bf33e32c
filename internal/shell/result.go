package shell

// Result holds the complete output of one finished command invocation.
type Result struct {
	RunID    string // unique identifier for this invocation
	ExitCode int    // process exit code as reported by the platform
	Stdout   string // captured standard output
	Stderr   string // captured standard error
	Combined string // both streams interleaved in arrival order
}

// Success reports whether the process exited with code zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}
