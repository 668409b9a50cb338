package main

import (
	"context"
)

// DeleteOutcome is the result for one requested path. A nil Err means the
// path was moved to the trash.
type DeleteOutcome struct {
	Path string
	Err  error
}

func (o DeleteOutcome) Deleted() bool { return o.Err == nil }

type DeleteReport struct {
	Outcomes []DeleteOutcome
}

func (r DeleteReport) Deleted() int {
	count := 0
	for _, o := range r.Outcomes {
		if o.Deleted() {
			count++
		}
	}
	return count
}

func (r DeleteReport) Failed() int {
	return len(r.Outcomes) - r.Deleted()
}

type deleteProgressFunc func(done, total int, outcome DeleteOutcome)

// DeleteAll soft-deletes every path in order. A failure never stops the run:
// the report always holds one outcome per input path, in input order. Once
// ctx is cancelled the remaining paths are recorded as failed without being
// attempted.
func DeleteAll(ctx context.Context, paths []string, deleter SoftDeleter, onProgress deleteProgressFunc) DeleteReport {
	report := DeleteReport{Outcomes: make([]DeleteOutcome, 0, len(paths))}
	for i, path := range paths {
		outcome := DeleteOutcome{Path: path}
		if err := ctx.Err(); err != nil {
			outcome.Err = &SoftDeleteError{Path: path, Err: err}
		} else if err := deleter.SoftDelete(path); err != nil {
			outcome.Err = &SoftDeleteError{Path: path, Err: err}
		}
		report.Outcomes = append(report.Outcomes, outcome)
		if onProgress != nil {
			onProgress(i+1, len(paths), outcome)
		}
	}
	return report
}
