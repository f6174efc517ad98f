package executor

import "github.com/specialistvlad/tickgrid/internal/pipeline"

// batches splits a stage's jobs into runs of consecutive jobs that may execute
// together. A job joins the current batch only if it conflicts with none of
// its members, so conflicting jobs keep their registration order.
func batches(jobs []pipeline.Job) [][]pipeline.Job {
	var out [][]pipeline.Job
	var current []pipeline.Job

	flush := func() {
		if len(current) > 0 {
			out = append(out, current)
			current = nil
		}
	}

	for _, job := range jobs {
		access := job.Access()
		if access.IsExclusive() {
			flush()
			out = append(out, []pipeline.Job{job})
			continue
		}
		for _, member := range current {
			if access.Conflicts(member.Access()) {
				flush()
				break
			}
		}
		current = append(current, job)
	}
	flush()
	return out
}
