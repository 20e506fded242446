package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestForm(t *testing.T, url string) (*Form, *Metrics) {
	t.Helper()
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	processor := NewPaymentProcessor(&http.Client{}, url, "user_id", discardLogger())
	return NewForm(processor, metrics, discardLogger()), metrics
}

func TestForm_ScenarioA_Success(t *testing.T) {
	backend := newRecordingBackend(t, http.StatusOK)
	form, metrics := newTestForm(t, backend.URL)

	outcome := form.Submit(context.Background(), Input{Identifier: "alice", Reference: "INV-1", Amount: "100"})

	assert.Equal(t, NoticeSuccess, outcome.Kind)
	assert.Equal(t, MsgSuccess, outcome.Message)
	assert.NoError(t, outcome.Err)
	assert.EqualValues(t, 1, backend.calls.Load())
	assert.Equal(t, map[string]json.Number{
		"user_id":   "string:alice",
		"reference": "string:INV-1",
		"amount":    "100",
	}, backend.body(t))

	require.NotNil(t, outcome.Record)
	assert.Equal(t, "alice", outcome.Record.Identifier)
	assert.JSONEq(t, `{"user_id":"alice","reference":"INV-1","amount":100}`, outcome.RecordJSON)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.submissions.WithLabelValues(resultSuccess)))
}

func TestForm_ValidationWarningsNeverCallBackend(t *testing.T) {
	cases := []struct {
		name    string
		in      Input
		message string
		result  string
	}{
		{"scenario B missing identifier", Input{Identifier: "", Reference: "INV-2", Amount: "50"}, MsgMissingField, resultMissingField},
		{"scenario C negative amount", Input{Identifier: "bob", Reference: "INV-3", Amount: "-10"}, MsgNonPositiveAmount, resultNonPositiveAmount},
		{"scenario D not a number", Input{Identifier: "bob", Reference: "INV-4", Amount: "notanumber"}, MsgInvalidAmount, resultInvalidAmount},
		{"zero amount", Input{Identifier: "bob", Reference: "INV-5", Amount: "0"}, MsgNonPositiveAmount, resultNonPositiveAmount},
		{"huge exponent", Input{Identifier: "bob", Reference: "INV-6", Amount: "1e100000000"}, MsgInvalidAmount, resultInvalidAmount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := newRecordingBackend(t, http.StatusOK)
			form, metrics := newTestForm(t, backend.URL)

			outcome := form.Submit(context.Background(), tc.in)

			assert.Equal(t, NoticeWarning, outcome.Kind)
			assert.Equal(t, tc.message, outcome.Message)
			assert.False(t, outcome.Submitted())
			assert.Empty(t, outcome.RecordJSON)
			assert.Zero(t, backend.calls.Load())
			assert.Equal(t, 1.0, testutil.ToFloat64(metrics.submissions.WithLabelValues(tc.result)))
		})
	}
}

func TestForm_ScenarioE_ServerErrorNoRetry(t *testing.T) {
	backend := newRecordingBackend(t, http.StatusInternalServerError)
	form, _ := newTestForm(t, backend.URL)

	outcome := form.Submit(context.Background(), Input{Identifier: "alice", Reference: "INV-1", Amount: "100"})

	assert.Equal(t, NoticeError, outcome.Kind)
	assert.Equal(t, MsgFailure, outcome.Message)
	assert.ErrorIs(t, outcome.Err, ErrRejected)
	assert.True(t, outcome.Submitted())
	assert.NotEmpty(t, outcome.RecordJSON)
	assert.EqualValues(t, 1, backend.calls.Load())
}

func TestForm_ScenarioF_ConnectionRefused(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	form, metrics := newTestForm(t, url)

	outcome := form.Submit(context.Background(), Input{Identifier: "alice", Reference: "INV-1", Amount: "100"})

	assert.Equal(t, NoticeError, outcome.Kind)
	assert.ErrorIs(t, outcome.Err, ErrTransport)
	assert.Contains(t, outcome.Message, "An error occurred: ")
	assert.Contains(t, outcome.Message, "connection refused")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.submissions.WithLabelValues(resultTransportError)))
}

func TestForm_IndependentSubmissions(t *testing.T) {
	backend := newRecordingBackend(t, http.StatusOK)
	form, _ := newTestForm(t, backend.URL)

	first := form.Submit(context.Background(), Input{Identifier: "", Reference: "INV-1", Amount: "1"})
	second := form.Submit(context.Background(), Input{Identifier: "carol", Reference: "INV-9", Amount: "2.75"})

	assert.Equal(t, NoticeWarning, first.Kind)
	assert.Equal(t, NoticeSuccess, second.Kind)
	assert.EqualValues(t, 1, backend.calls.Load())
	assert.Equal(t, json.Number("2.75"), backend.body(t)["amount"])
}

func TestNewMetrics_ReusesRegisteredCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)

	first.observe(resultRejected)
	assert.Equal(t, 1.0, testutil.ToFloat64(second.submissions.WithLabelValues(resultRejected)))
}

func TestNewMetrics_ConflictingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "payment_form_submissions_total",
			Help: "Submit actions on the payment form, by result.",
		},
		[]string{"result"},
	)))

	metrics, err := NewMetrics(reg)
	assert.Error(t, err)
	assert.Nil(t, metrics)
}
