package payments

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type NoticeKind string

const (
	NoticeWarning NoticeKind = "warning"
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

const (
	MsgMissingField      = "All fields are required. Please fill them in."
	MsgInvalidAmount     = "Invalid amount. Please enter a valid number."
	MsgNonPositiveAmount = "Amount must be a positive number."
	MsgSuccess           = "Payment processed successfully!"
	MsgFailure           = "Failed to process payment."
	msgErrorPrefix       = "An error occurred: "
)

// Processor delivers a validated payment to the backend.
type Processor interface {
	Process(ctx context.Context, payment PaymentRequest) error
	IdentifierField() string
}

// Outcome is what the user is told after one submit action. Record and
// RecordJSON are set once validation has passed, whether or not the backend
// accepted the payment.
type Outcome struct {
	Kind       NoticeKind
	Message    string
	Record     *PaymentRequest
	RecordJSON string
	Err        error
}

func (o Outcome) Submitted() bool { return o.Record != nil }

// Form runs validate, display, submit and report for one submit action.
// It keeps no state between calls.
type Form struct {
	processor Processor
	metrics   *Metrics
	logger    *slog.Logger
}

func NewForm(processor Processor, metrics *Metrics, logger *slog.Logger) *Form {
	return &Form{
		processor: processor,
		metrics:   metrics,
		logger:    logger,
	}
}

func (f *Form) IdentifierField() string { return f.processor.IdentifierField() }

func (f *Form) Submit(ctx context.Context, in Input) Outcome {
	tracer := otel.Tracer("payment-form")
	ctx, span := tracer.Start(ctx, "payment-form.submit")
	defer span.End()

	outcome := f.submit(ctx, in)

	f.metrics.observe(resultOf(outcome.Err))
	span.SetAttributes(
		attribute.String("form.outcome", string(outcome.Kind)),
		attribute.Bool("form.submitted", outcome.Submitted()),
	)
	if outcome.Err != nil {
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, outcome.Message)
	}

	return outcome
}

func (f *Form) submit(ctx context.Context, in Input) Outcome {
	payment, err := Validate(in)
	if err != nil {
		f.logger.Info("payment input rejected", "error", err)
		return Outcome{Kind: NoticeWarning, Message: warningFor(err), Err: err}
	}

	outcome := Outcome{Record: &payment}
	display, err := payment.MarshalIndentFor(f.processor.IdentifierField())
	if err != nil {
		f.logger.Error("failed to render payment record", "error", err)
	} else {
		outcome.RecordJSON = string(display)
	}

	err = f.processor.Process(ctx, payment)
	switch {
	case err == nil:
		f.logger.Info("payment processed", "reference", payment.Reference, "amount", payment.Amount.String())
		outcome.Kind, outcome.Message = NoticeSuccess, MsgSuccess
	case errors.Is(err, ErrRejected):
		outcome.Kind, outcome.Message, outcome.Err = NoticeError, MsgFailure, err
	default:
		f.logger.Error("payment submission failed", "reference", payment.Reference, "error", err)
		outcome.Kind, outcome.Message, outcome.Err = NoticeError, msgErrorPrefix+err.Error(), err
	}

	return outcome
}

func warningFor(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		return MsgInvalidAmount
	case errors.Is(err, ErrNonPositiveAmount):
		return MsgNonPositiveAmount
	}
	return MsgMissingField
}
