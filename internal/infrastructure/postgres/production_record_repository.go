package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/domain"
	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

var _ repository.ProductionRecordRepository = (*ProductionRecordRepo)(nil)

const recordColumns = `id, order_id, quantity, registered_at, notes, movement_id, created_at, created_by`

// ProductionRecordRepo registros de producción sobre PostgreSQL.
type ProductionRecordRepo struct {
	q Querier
}

// NewProductionRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionRecordRepository(q Querier) *ProductionRecordRepo {
	return &ProductionRecordRepo{q: q}
}

// Create persiste un registro de producción.
func (r *ProductionRecordRepo) Create(rec *entity.ProductionRecord) error {
	query := `
		INSERT INTO production_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.OrderID, rec.Quantity, rec.RegisteredAt,
		rec.Notes, rec.MovementID, rec.CreatedAt, rec.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert production record: %w", err)
	}
	return nil
}

// GetByID obtiene un registro por ID (nil si no existe).
func (r *ProductionRecordRepo) GetByID(id string) (*entity.ProductionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM production_records WHERE id = $1`
	var rec entity.ProductionRecord
	err := scanRecord(r.q.QueryRow(context.Background(), query, id), &rec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// ListByOrder lista los registros de la orden, del más viejo al más nuevo.
func (r *ProductionRecordRepo) ListByOrder(orderID string) ([]*entity.ProductionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM production_records WHERE order_id = $1 ORDER BY registered_at`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list production records: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductionRecord
	for rows.Next() {
		var rec entity.ProductionRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, fmt.Errorf("scan production record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// SumByOrder devuelve el total producido hasta ahora para la orden.
func (r *ProductionRecordRepo) SumByOrder(orderID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM production_records WHERE order_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, orderID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum production records: %w", err)
	}
	return sum, nil
}

// Update actualiza cantidad y movimiento emparejado de un registro.
func (r *ProductionRecordRepo) Update(rec *entity.ProductionRecord) error {
	query := `
		UPDATE production_records
		SET quantity = $2, registered_at = $3, notes = $4, movement_id = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		rec.ID, rec.Quantity, rec.RegisteredAt, rec.Notes, rec.MovementID,
	)
	if err != nil {
		return fmt.Errorf("update production record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra físicamente el registro.
func (r *ProductionRecordRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM production_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete production record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByOrder cuenta los registros de la orden.
func (r *ProductionRecordRepo) CountByOrder(orderID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM production_records WHERE order_id = $1`
	if err := r.q.QueryRow(context.Background(), query, orderID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count production records: %w", err)
	}
	return count, nil
}

func scanRecord(row pgx.Row, rec *entity.ProductionRecord) error {
	return row.Scan(
		&rec.ID, &rec.OrderID, &rec.Quantity, &rec.RegisteredAt,
		&rec.Notes, &rec.MovementID, &rec.CreatedAt, &rec.CreatedBy,
	)
}
