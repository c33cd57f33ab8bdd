package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckEmpty indicates a component that works but holds no data.
	CheckEmpty CheckResult = "empty"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status     Status
	Checks     map[string]CheckResult
	CorpusSize int
}

// Service coordinates health checks.
type Service struct {
	corpus CorpusProbe
	pool   PoolProbe
}

// New creates a Service. pool can be nil when sessions are disabled.
func New(corpus CorpusProbe, pool PoolProbe) *Service {
	return &Service{corpus: corpus, pool: pool}
}

// Check runs health checks against all components.
// An empty corpus degrades; a closed session pool with no corpus is unhealthy.
func (s *Service) Check(_ context.Context) Report {
	checks := make(map[string]CheckResult)
	size := 0

	switch {
	case s.corpus == nil:
		checks["corpus"] = CheckError
	case s.corpus.Len() == 0:
		checks["corpus"] = CheckEmpty
	default:
		size = s.corpus.Len()
		checks["corpus"] = CheckOK
	}

	if s.pool != nil {
		if s.pool.IsClosed() {
			checks["sessions"] = CheckError
		} else {
			checks["sessions"] = CheckOK
		}
	}

	failed := 0
	for _, v := range checks {
		if v != CheckOK {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == len(checks) && checks["corpus"] == CheckError:
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}

	return Report{Status: status, Checks: checks, CorpusSize: size}
}
