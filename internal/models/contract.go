package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Contract описывает сгенерированный договор по заказу.
// На заказ может существовать не более одного контракта, подписи монотонны:
// однажды установленный флаг подписи никогда не снимается.
type Contract struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	OrderID            uuid.UUID       `db:"order_id" json:"order_id"`
	ContractNumber     string          `db:"contract_number" json:"contract_number"`
	ServiceDescription string          `db:"service_description" json:"service_description"`
	Deliverables       string          `db:"deliverables" json:"deliverables"`
	Timeline           string          `db:"timeline" json:"timeline"`
	PaymentAmount      decimal.Decimal `db:"payment_amount" json:"payment_amount"`
	PaymentTerms       string          `db:"payment_terms" json:"payment_terms"`
	RevisionPolicy     string          `db:"revision_policy" json:"revision_policy"`
	IPOwnership        string          `db:"ip_ownership" json:"ip_ownership"`
	CancellationPolicy string          `db:"cancellation_policy" json:"cancellation_policy"`
	AdditionalTerms    *string         `db:"additional_terms" json:"additional_terms,omitempty"`
	ProviderSigned     bool            `db:"provider_signed" json:"provider_signed"`
	ProviderSignedAt   *time.Time      `db:"provider_signed_at" json:"provider_signed_at,omitempty"`
	ProviderIP         *string         `db:"provider_ip" json:"provider_ip,omitempty"`
	ClientSigned       bool            `db:"client_signed" json:"client_signed"`
	ClientSignedAt     *time.Time      `db:"client_signed_at" json:"client_signed_at,omitempty"`
	ClientIP           *string         `db:"client_ip" json:"client_ip,omitempty"`
	Status             string          `db:"status" json:"status"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// IsFullySigned сообщает, подписан ли контракт обеими сторонами.
func (c *Contract) IsFullySigned() bool {
	return c.ProviderSigned && c.ClientSigned
}
