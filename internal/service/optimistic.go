package service

// Optimistic is a locally applied value together with whether a write of it
// is still outstanding and the error of the most recent failed write.
type Optimistic[T any] struct {
	Value     T
	Pending   bool
	LastError error
}

// PendingSave tracks one asynchronous save. Callers that need the write to
// be durable before continuing call Wait; others may ignore it.
type PendingSave struct {
	done chan struct{}
	err  error
}

func newPendingSave() *PendingSave {
	return &PendingSave{done: make(chan struct{})}
}

func (p *PendingSave) complete(err error) {
	p.err = err
	close(p.done)
}

// Done is closed once the save has finished.
func (p *PendingSave) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the save finishes and returns its error.
func (p *PendingSave) Wait() error {
	<-p.done
	return p.err
}
