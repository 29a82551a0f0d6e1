package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/induplast/produccion-api/internal/domain"
	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseColumns = `id, code, supplier_id, status, order_date, expected_arrival, received_at, created_at, updated_at`

// PurchaseOrderRepo órdenes de compra con sus renglones sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la orden y sus renglones.
func (r *PurchaseOrderRepo) Create(p *entity.PurchaseOrder) error {
	ctx := context.Background()
	query := `
		INSERT INTO purchase_orders (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Code, p.SupplierID, p.Status, p.OrderDate,
		p.ExpectedArrival, p.ReceivedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return r.insertLines(ctx, p.ID, p.Lines)
}

// GetByID obtiene la compra con sus renglones (nil si no existe).
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_orders WHERE id = $1`
	return r.getOne(query, id)
}

// GetForUpdate obtiene la compra bloqueando su fila.
func (r *PurchaseOrderRepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_orders WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// List lista compras (sin renglones), opcionalmente filtradas por estado.
func (r *PurchaseOrderRepo) List(status entity.PurchaseStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase_orders`
	var args []any
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var p entity.PurchaseOrder
		if err := scanPurchase(rows, &p); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// UpdateStatus actualiza estado y marcas de tiempo de la compra.
func (r *PurchaseOrderRepo) UpdateStatus(p *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders
		SET status = $2, received_at = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, p.ID, p.Status, p.ReceivedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceLines reemplaza los renglones completos de la compra.
func (r *PurchaseOrderRepo) ReplaceLines(purchaseID string, lines []entity.PurchaseLine) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_lines WHERE purchase_id = $1`, purchaseID); err != nil {
		return fmt.Errorf("clear purchase lines: %w", err)
	}
	return r.insertLines(ctx, purchaseID, lines)
}

// Delete borra la compra; los renglones caen por FK ON DELETE CASCADE.
func (r *PurchaseOrderRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseOrderRepo) insertLines(ctx context.Context, purchaseID string, lines []entity.PurchaseLine) error {
	query := `
		INSERT INTO purchase_lines (id, purchase_id, material_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, query, l.ID, purchaseID, l.MaterialID, l.Quantity, l.UnitPrice); err != nil {
			return fmt.Errorf("insert purchase line: %w", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) getOne(query, id string) (*entity.PurchaseOrder, error) {
	var p entity.PurchaseOrder
	if err := scanPurchase(r.q.QueryRow(context.Background(), query, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	lines, err := r.linesOf(p.ID)
	if err != nil {
		return nil, err
	}
	p.Lines = lines
	return &p, nil
}

func (r *PurchaseOrderRepo) linesOf(purchaseID string) ([]entity.PurchaseLine, error) {
	query := `
		SELECT id, purchase_id, material_id, quantity, unit_price
		FROM purchase_lines WHERE purchase_id = $1
		ORDER BY material_id`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.PurchaseLine
	for rows.Next() {
		var l entity.PurchaseLine
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.MaterialID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func scanPurchase(row pgx.Row, p *entity.PurchaseOrder) error {
	return row.Scan(
		&p.ID, &p.Code, &p.SupplierID, &p.Status, &p.OrderDate,
		&p.ExpectedArrival, &p.ReceivedAt, &p.CreatedAt, &p.UpdatedAt,
	)
}
