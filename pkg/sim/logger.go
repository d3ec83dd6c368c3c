package sim

// Recorder is a runtime.Logger that keeps every record in order. Tests and
// the CLI inspect (or re-emit) the captured entries after a run.
type Recorder struct {
	records []string
}

func (r *Recorder) Record(message string) {
	r.records = append(r.records, message)
}

// Records returns a copy of everything recorded so far.
func (r *Recorder) Records() []string {
	out := make([]string, len(r.records))
	copy(out, r.records)
	return out
}
