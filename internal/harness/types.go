package harness

import "github.com/roach88/apriori/internal/mining"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Errors contains failed assertion messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Mining is the mining result, nil when the run failed.
	Mining *mining.Result `json:"mining,omitempty"`

	// RunErr is the mining error, nil when the run succeeded.
	RunErr error `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
