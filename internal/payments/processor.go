package payments

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrRejected  = errors.New("payment rejected by processor")
	ErrTransport = errors.New("payment processor unreachable")
)

// RejectedError reports a response other than 200. The body is never read.
type RejectedError struct {
	StatusCode int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("processor responded with status %d", e.StatusCode)
}

func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

// TransportError wraps the error returned by the http client. Its message is
// the underlying one, unchanged, so it can be shown to the user.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

type PaymentProcessor struct {
	processorURL    string
	identifierField string
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewPaymentProcessor(httpClient *http.Client, processorURL, identifierField string, logger *slog.Logger) *PaymentProcessor {
	return &PaymentProcessor{
		httpClient:      httpClient,
		processorURL:    processorURL,
		identifierField: identifierField,
		logger:          logger,
	}
}

func (s *PaymentProcessor) IdentifierField() string { return s.identifierField }

// Process sends exactly one POST. There is no retry.
func (s *PaymentProcessor) Process(ctx context.Context, payment PaymentRequest) error {
	tracer := otel.Tracer("payment-processor")
	ctx, span := tracer.Start(ctx, "call-payment-processor", trace.WithAttributes(
		attribute.String("processor.url", s.processorURL),
		attribute.String("processor.identifier_field", s.identifierField),
		attribute.String("payment.reference", payment.Reference),
		attribute.String("payment.amount", payment.Amount.String()),
	))
	defer span.End()

	body, err := payment.MarshalFor(s.identifierField)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize request body")
		return fmt.Errorf("failed to serialize the request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.processorURL, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create http request")
		return fmt.Errorf("unable to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	span.AddEvent("sending-http-request")
	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "error sending http request")
		s.logger.Warn("payment processor request failed", "url", s.processorURL, "error", err)
		return &TransportError{Err: err}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, "payment rejected")
		s.logger.Warn("payment processor rejected payment", "url", s.processorURL, "status", resp.StatusCode)
		return &RejectedError{StatusCode: resp.StatusCode}
	}

	span.SetStatus(codes.Ok, "payment processor call successful")
	return nil
}
