package cron

import "context"

// Job represents a scheduled task that runs inside the cron worker.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry tracks cron jobs keyed by name. Registering a name twice replaces
// the earlier job, so a sweep reconfigured at startup never runs double.
type Registry struct {
	order []string
	jobs  map[string]Job
}

// NewRegistry builds a registry preloaded with the provided jobs.
func NewRegistry(jobs ...Job) *Registry {
	registry := &Registry{jobs: map[string]Job{}}
	for _, job := range jobs {
		registry.Register(job)
	}
	return registry
}

// Register adds a job, replacing any earlier job with the same name.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	name := job.Name()
	if _, exists := r.jobs[name]; !exists {
		r.order = append(r.order, name)
	}
	r.jobs[name] = job
}

// Len reports the number of registered jobs.
func (r *Registry) Len() int {
	return len(r.jobs)
}

// Jobs returns the registered jobs in first-registration order.
func (r *Registry) Jobs() []Job {
	out := make([]Job, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.jobs[name])
	}
	return out
}
