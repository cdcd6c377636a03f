package domain

// ExitCode represents the exit status of the reviewflow CLI.
type ExitCode int

const (
	// ExitApproved indicates the review completed with an auto-approve outcome.
	ExitApproved ExitCode = 0
	// ExitNeedsAttention indicates the review completed with a non-approve outcome.
	ExitNeedsAttention ExitCode = 1
	// ExitError indicates the review failed due to an error.
	ExitError ExitCode = 2
	// ExitInterrupted indicates the review was interrupted by a signal.
	ExitInterrupted ExitCode = 130
)

// Int returns the exit code as an int for use with os.Exit.
func (e ExitCode) Int() int {
	return int(e)
}
