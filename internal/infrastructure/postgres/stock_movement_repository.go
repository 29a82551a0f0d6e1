package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, subject_type, subject_id, direction, quantity, origin, reason, ref_type, ref_id, resulting_stock, created_at, created_by`

// StockMovementRepo es el libro de stock sobre PostgreSQL. Solo inserta:
// no expone UPDATE ni DELETE sobre stock_movements.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create anexa una fila al libro.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	refType := (*string)(nil)
	refID := (*string)(nil)
	if m.RefType != "" {
		refType = &m.RefType
		refID = &m.RefID
	}
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.SubjectType, m.SubjectID, m.Direction, m.Quantity,
		m.Origin, m.Reason, refType, refID, m.ResultingStock,
		m.CreatedAt, m.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID (nil si no existe).
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Last devuelve el movimiento más reciente del sujeto; su ResultingStock es el
// stock actual. La secuencia seq desempata movimientos del mismo instante.
func (r *StockMovementRepo) Last(subjectType entity.SubjectType, subjectID string) (*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE subject_type = $1 AND subject_id = $2
		ORDER BY seq DESC LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, subjectType, subjectID))
}

// List lista el kardex según el filtro, del más reciente al más viejo.
func (r *StockMovementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	var args []any
	pos := 1
	if filter.SubjectType != "" {
		query += fmt.Sprintf(" AND subject_type = $%d", pos)
		args = append(args, filter.SubjectType)
		pos++
	}
	if filter.SubjectID != "" {
		query += fmt.Sprintf(" AND subject_id = $%d", pos)
		args = append(args, filter.SubjectID)
		pos++
	}
	if filter.Origin != "" {
		query += fmt.Sprintf(" AND origin = $%d", pos)
		args = append(args, filter.Origin)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY seq DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByRef devuelve los movimientos generados por un documento padre.
func (r *StockMovementRepo) ListByRef(refType, refID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE ref_type = $1 AND ref_id = $2
		ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, refType, refID)
	if err != nil {
		return nil, fmt.Errorf("list by ref: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// FindReversal devuelve el movimiento compensatorio de un movimiento dado
// (nil si nunca fue reversado).
func (r *StockMovementRepo) FindReversal(movementID string) (*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE ref_type = $1 AND ref_id = $2
		LIMIT 1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, entity.RefReversal, movementID))
}

// SumSigned suma las cantidades firmadas de todos los movimientos del sujeto.
// Debe coincidir siempre con el ResultingStock del último movimiento.
func (r *StockMovementRepo) SumSigned(subjectType entity.SubjectType, subjectID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'in' THEN quantity ELSE -quantity END), 0)
		FROM stock_movements
		WHERE subject_type = $1 AND subject_id = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, subjectType, subjectID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}

func (r *StockMovementRepo) scanOne(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	if err := scanMovement(row, &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := scanMovement(rows, &m); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row, m *entity.StockMovement) error {
	var refType, refID *string
	err := row.Scan(
		&m.ID, &m.SubjectType, &m.SubjectID, &m.Direction, &m.Quantity,
		&m.Origin, &m.Reason, &refType, &refID, &m.ResultingStock,
		&m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return err
	}
	if refType != nil {
		m.RefType = *refType
	}
	if refID != nil {
		m.RefID = *refID
	}
	return nil
}
