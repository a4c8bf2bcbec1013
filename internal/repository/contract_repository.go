package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillbridge/backend/internal/models"
)

// ContractRepository отвечает за контракты заказов.
// Уникальность order_id и contract_number обеспечена ограничениями БД,
// подписи ставятся условными UPDATE и потому монотонны даже при гонках.
type ContractRepository struct {
	db *sqlx.DB
}

// ErrContractNumberTaken сигнализирует о коллизии номера контракта.
// Вызывающая сторона генерирует новый номер и повторяет вставку.
var ErrContractNumberTaken = errors.New("contract number taken")

// NewContractRepository создаёт новый экземпляр.
func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

const contractColumns = `id, order_id, contract_number, service_description, deliverables, timeline,
	payment_amount, payment_terms, revision_policy, ip_ownership, cancellation_policy, additional_terms,
	provider_signed, provider_signed_at, provider_ip, client_signed, client_signed_at, client_ip,
	status, created_at, updated_at`

// Create сохраняет новый контракт.
func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract) error {
	query := `
		INSERT INTO contracts (order_id, contract_number, service_description, deliverables, timeline,
			payment_amount, payment_terms, revision_policy, ip_ownership, cancellation_policy, additional_terms, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		contract.OrderID, contract.ContractNumber, contract.ServiceDescription, contract.Deliverables,
		contract.Timeline, contract.PaymentAmount, contract.PaymentTerms, contract.RevisionPolicy,
		contract.IPOwnership, contract.CancellationPolicy, contract.AdditionalTerms, contract.Status,
	).Scan(&contract.ID, &contract.CreatedAt, &contract.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err, "contracts_contract_number_key") {
			return fmt.Errorf("contract repository: %w", ErrContractNumberTaken)
		}
		if IsUniqueViolation(err, "") {
			return fmt.Errorf("contract repository: %w", ErrDuplicate)
		}
		return fmt.Errorf("contract repository: create %w", err)
	}
	return nil
}

// GetByID возвращает контракт по идентификатору.
func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1`
	if err := r.db.GetContext(ctx, &contract, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("contract repository: get by id %w", err)
	}
	return &contract, nil
}

// GetByOrderID возвращает контракт заказа.
func (r *ContractRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	query := `SELECT ` + contractColumns + ` FROM contracts WHERE order_id = $1`
	if err := r.db.GetContext(ctx, &contract, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("contract repository: get by order %w", err)
	}
	return &contract, nil
}

// SignResult — итог транзакции подписи.
type SignResult struct {
	Signed        bool // подпись поставлена именно этим вызовом
	FullySigned   bool
	OrderPromoted bool
	Status        string
}

// SignAsParty выполняет подпись стороны, пересчёт статуса контракта и
// продвижение заказа pending -> in_progress одной транзакцией.
// Если подпись уже стояла, транзакция откатывается и Signed=false:
// исходные отметка времени и IP сохраняются.
func (r *ContractRepository) SignAsParty(ctx context.Context, id uuid.UUID, asProvider bool, signedAt time.Time, ip string) (*SignResult, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("contract repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	signQuery := `
		UPDATE contracts
		SET provider_signed = TRUE, provider_signed_at = $2, provider_ip = $3, updated_at = NOW()
		WHERE id = $1 AND provider_signed = FALSE
		RETURNING order_id, provider_signed, client_signed
	`
	if !asProvider {
		signQuery = `
			UPDATE contracts
			SET client_signed = TRUE, client_signed_at = $2, client_ip = $3, updated_at = NOW()
			WHERE id = $1 AND client_signed = FALSE
			RETURNING order_id, provider_signed, client_signed
		`
	}

	var (
		orderID        uuid.UUID
		providerSigned bool
		clientSigned   bool
	)
	err = tx.QueryRowxContext(ctx, signQuery, id, signedAt, ip).Scan(&orderID, &providerSigned, &clientSigned)
	if errors.Is(err, sql.ErrNoRows) {
		// Подпись уже стояла: проигравший гонку вызов не перезаписывает её.
		err = nil
		_ = tx.Rollback()
		return &SignResult{Signed: false}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("contract repository: sign %w", err)
	}

	result := &SignResult{Signed: true, FullySigned: providerSigned && clientSigned}

	result.Status = models.ContractStatusPartiallySigned
	if result.FullySigned {
		result.Status = models.ContractStatusSigned
	}
	if _, err = tx.ExecContext(ctx, `UPDATE contracts SET status = $2 WHERE id = $1`, id, result.Status); err != nil {
		return nil, fmt.Errorf("contract repository: update status %w", err)
	}

	if result.FullySigned {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `
			UPDATE orders SET status = 'in_progress', updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
		`, orderID)
		if err != nil {
			return nil, fmt.Errorf("contract repository: promote order %w", err)
		}
		n, _ := res.RowsAffected()
		result.OrderPromoted = n > 0
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("contract repository: commit %w", err)
	}
	return result, nil
}
