package payments

import (
	"encoding/json"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
)

// Input holds the three form fields exactly as the user typed them.
type Input struct {
	Identifier string `form:"identifier" json:"identifier"`
	Reference  string `form:"reference" json:"reference"`
	Amount     string `form:"amount" json:"amount"`
}

// PaymentRequest is built only by Validate, so a value of this type always
// carries a non-empty identifier and reference and a positive amount.
type PaymentRequest struct {
	Identifier string
	Reference  string
	Amount     decimal.Decimal
}

// Fields returns the record as sent to the backend, with the identifier under
// identifierField and the amount as a JSON number literal.
func (p PaymentRequest) Fields(identifierField string) map[string]any {
	return map[string]any{
		identifierField: p.Identifier,
		"reference":     p.Reference,
		"amount":        json.RawMessage(p.Amount.String()),
	}
}

func (p PaymentRequest) MarshalFor(identifierField string) ([]byte, error) {
	return sonic.ConfigStd.Marshal(p.Fields(identifierField))
}

func (p PaymentRequest) MarshalIndentFor(identifierField string) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(p.Fields(identifierField), "", "  ")
}
