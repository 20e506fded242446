package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"paygen/internal/payments"
)

type PaymentHandler struct {
	form            *payments.Form
	title           string
	identifierLabel string
}

type notice struct {
	Kind    payments.NoticeKind
	Message string
}

type formView struct {
	Title           string
	IdentifierLabel string
	Input           payments.Input
	Notice          *notice
	RecordJSON      string
}

func NewPaymentHandler(form *payments.Form, title, identifierLabel string) *PaymentHandler {
	return &PaymentHandler{
		form:            form,
		title:           title,
		identifierLabel: identifierLabel,
	}
}

func (h *PaymentHandler) Show(c echo.Context) error {
	return c.Render(http.StatusOK, "form.html", h.view(payments.Input{}))
}

func (h *PaymentHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()
	tracer := otel.Tracer("payment-handler")
	ctx, span := tracer.Start(ctx, "payment-handler", trace.WithAttributes(
		attribute.String("handler", "payment"),
	))
	defer span.End()

	var in payments.Input
	if err := c.Bind(&in); err != nil {
		span.RecordError(err)
		c.Logger().Errorf("error while binding the payment form: %v", err)
		return echo.NewHTTPError(http.StatusBadRequest, "malformed form submission")
	}

	outcome := h.form.Submit(ctx, in)

	view := h.view(in)
	view.Notice = &notice{Kind: outcome.Kind, Message: outcome.Message}
	view.RecordJSON = outcome.RecordJSON

	return c.Render(statusFor(outcome), "form.html", view)
}

func (h *PaymentHandler) view(in payments.Input) formView {
	return formView{
		Title:           h.title,
		IdentifierLabel: h.identifierLabel,
		Input:           in,
	}
}

func statusFor(outcome payments.Outcome) int {
	switch outcome.Kind {
	case payments.NoticeSuccess:
		return http.StatusOK
	case payments.NoticeWarning:
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
