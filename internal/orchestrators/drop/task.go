package drop

// Task is a unit of follow-up work scheduled after a commit. The work starts
// immediately in its own goroutine; the caller may Await the result or let
// the task run detached.
type Task struct {
	done chan struct{}
	err  error
}

func newTask(fn func() error) *Task {
	t := &Task{done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.err = fn()
	}()
	return t
}

// Await blocks until the task finishes and returns its error. Awaiting a nil
// task returns immediately.
func (t *Task) Await() error {
	if t == nil {
		return nil
	}
	<-t.done
	return t.err
}

// Done returns a channel closed when the task finishes
func (t *Task) Done() <-chan struct{} {
	if t == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return t.done
}
