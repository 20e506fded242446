package payments

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultMissingField      = "missing_field"
	resultInvalidAmount     = "invalid_amount"
	resultNonPositiveAmount = "non_positive_amount"
	resultSuccess           = "success"
	resultRejected          = "rejected"
	resultTransportError    = "transport_error"
	resultInternalError     = "internal_error"
)

// Metrics counts submit actions by how they ended. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	submissions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_form_submissions_total",
			Help: "Submit actions on the payment form, by result.",
		},
		[]string{"result"},
	)
	if err := reg.Register(submissions); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("collector %q already registered with type %T", "payment_form_submissions_total", are.ExistingCollector)
		}
		submissions = existing
	}
	return &Metrics{submissions: submissions}, nil
}

func (m *Metrics) observe(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case errors.Is(err, ErrMissingField):
		return resultMissingField
	case errors.Is(err, ErrInvalidAmount):
		return resultInvalidAmount
	case errors.Is(err, ErrNonPositiveAmount):
		return resultNonPositiveAmount
	case errors.Is(err, ErrRejected):
		return resultRejected
	case errors.Is(err, ErrTransport):
		return resultTransportError
	}
	return resultInternalError
}
