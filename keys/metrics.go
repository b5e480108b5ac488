package bskeys

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace string = "bsteth"
	resultSuccess    string = "success"
)

// Counters for submission attempts
type submissionMetrics struct {
	attempts      *prometheus.CounterVec
	submittedKeys prometheus.Counter
}

func newSubmissionMetrics(registerer prometheus.Registerer) (*submissionMetrics, error) {
	m := &submissionMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "key_submissions_total",
			Help:      "Number of key submission attempts by result.",
		}, []string{"result"}),
		submittedKeys: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "submitted_keys_total",
			Help:      "Number of validator keys sent to BstETH.",
		}),
	}
	if registerer == nil {
		return m, nil
	}

	// Reuse the existing counters if another submitter already registered them
	err := registerer.Register(m.attempts)
	if err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, fmt.Errorf("error registering submission counter: %w", err)
		}
		m.attempts = already.ExistingCollector.(*prometheus.CounterVec)
	}
	err = registerer.Register(m.submittedKeys)
	if err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, fmt.Errorf("error registering submitted key counter: %w", err)
		}
		m.submittedKeys = already.ExistingCollector.(prometheus.Counter)
	}
	return m, nil
}

func (m *submissionMetrics) recordSuccess(keyCount int) {
	m.attempts.WithLabelValues(resultSuccess).Inc()
	m.submittedKeys.Add(float64(keyCount))
}

func (m *submissionMetrics) recordFailure(kind ErrorKind) {
	m.attempts.WithLabelValues(string(kind)).Inc()
}
