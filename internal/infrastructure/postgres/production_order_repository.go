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

var _ repository.ProductionOrderRepository = (*ProductionOrderRepo)(nil)

const orderColumns = `id, code, product_id, client_id, quantity, status, scheduled_date, started_at, finished_at, created_at, updated_at`

// ProductionOrderRepo persistencia de órdenes de producción sobre PostgreSQL.
type ProductionOrderRepo struct {
	q Querier
}

// NewProductionOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionOrderRepository(q Querier) *ProductionOrderRepo {
	return &ProductionOrderRepo{q: q}
}

// Create persiste la orden (los requerimientos van por su propio repo).
func (r *ProductionOrderRepo) Create(o *entity.ProductionOrder) error {
	query := `
		INSERT INTO production_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	clientID := (*string)(nil)
	if o.ClientID != "" {
		clientID = &o.ClientID
	}
	_, err := r.q.Exec(context.Background(), query,
		o.ID, o.Code, o.ProductID, clientID, o.Quantity, o.Status,
		o.ScheduledDate, o.StartedAt, o.FinishedAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert production order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID (nil si no existe, sin requerimientos).
func (r *ProductionOrderRepo) GetByID(id string) (*entity.ProductionOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM production_orders WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la orden bloqueando su fila: dos transiciones
// concurrentes sobre la misma orden se serializan aquí.
func (r *ProductionOrderRepo) GetForUpdate(id string) (*entity.ProductionOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM production_orders WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// List lista órdenes, opcionalmente filtradas por estado.
func (r *ProductionOrderRepo) List(status entity.OrderStatus, limit, offset int) ([]*entity.ProductionOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM production_orders`
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
		return nil, fmt.Errorf("list production orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductionOrder
	for rows.Next() {
		var o entity.ProductionOrder
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("scan production order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// Update actualiza la orden (atributos, estado y marcas de tiempo).
func (r *ProductionOrderRepo) Update(o *entity.ProductionOrder) error {
	query := `
		UPDATE production_orders
		SET product_id = $2, client_id = $3, quantity = $4, status = $5,
		    scheduled_date = $6, started_at = $7, finished_at = $8, updated_at = $9
		WHERE id = $1`
	clientID := (*string)(nil)
	if o.ClientID != "" {
		clientID = &o.ClientID
	}
	tag, err := r.q.Exec(context.Background(), query,
		o.ID, o.ProductID, clientID, o.Quantity, o.Status,
		o.ScheduledDate, o.StartedAt, o.FinishedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update production order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra físicamente la orden.
func (r *ProductionOrderRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM production_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete production order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductionOrderRepo) scanOne(row pgx.Row) (*entity.ProductionOrder, error) {
	var o entity.ProductionOrder
	if err := scanOrder(row, &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func scanOrder(row pgx.Row, o *entity.ProductionOrder) error {
	var clientID *string
	err := row.Scan(
		&o.ID, &o.Code, &o.ProductID, &clientID, &o.Quantity, &o.Status,
		&o.ScheduledDate, &o.StartedAt, &o.FinishedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if clientID != nil {
		o.ClientID = *clientID
	}
	return nil
}
