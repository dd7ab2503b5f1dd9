package amqp

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ledger/internal/core"
)

// WireDateLayout is the date format carried in messages, independent of the
// layout configured for the tabular store.
const WireDateLayout = "2006-01-02"

// TransactionAppendedMessage announces a record that was appended to the
// primary store. It carries the full record so consumers never need to read
// the producer's store; Ref is the backend row reference returned by Append.
type TransactionAppendedMessage struct {
	ID          string    `json:"id"`
	Ref         string    `json:"ref"`
	Date        string    `json:"date"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewTransactionAppendedMessage builds the message for a stored transaction.
func NewTransactionAppendedMessage(ref string, t core.Transaction) *TransactionAppendedMessage {
	return &TransactionAppendedMessage{
		ID:          uuid.NewString(),
		Ref:         ref,
		Date:        t.Date.Format(WireDateLayout),
		Amount:      t.Amount.String(),
		Category:    string(t.Category),
		Description: string(t.Description),
		Timestamp:   time.Now(),
	}
}

// Transaction rebuilds and re-validates the carried record.
func (m *TransactionAppendedMessage) Transaction(v *core.Validator) (core.Transaction, error) {
	d, err := time.Parse(WireDateLayout, strings.TrimSpace(m.Date))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("message date %q: %w", m.Date, core.ErrInvalidDate)
	}
	amount, err := v.Amount(m.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	category, err := v.StoredCategory(m.Category)
	if err != nil {
		return core.Transaction{}, err
	}
	desc, err := v.Description(m.Description)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Date:        core.DateOf(d),
		Amount:      amount,
		Category:    category,
		Description: desc,
	}, nil
}

// ToJSON converts the message to JSON bytes
func (m *TransactionAppendedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionAppendedMessageFromJSON decodes a message body.
func TransactionAppendedMessageFromJSON(data []byte) (*TransactionAppendedMessage, error) {
	var msg TransactionAppendedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
