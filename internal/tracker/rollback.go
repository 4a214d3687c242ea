package tracker

// rollback accumulates undo actions for a sequence of fallible setup steps.
// On failure, run executes the accumulated actions in reverse order so every
// completed step is unwound before the original error propagates.
type rollback struct {
	steps []func()
}

func (r *rollback) add(step func()) {
	r.steps = append(r.steps, step)
}

func (r *rollback) run() {
	for i := len(r.steps) - 1; i >= 0; i-- {
		r.steps[i]()
	}
}
