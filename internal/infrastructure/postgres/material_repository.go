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

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, code, name, type, unit, min_stock, max_stock, active, created_at, updated_at`

// MaterialRepo implementación del puerto MaterialRepository sobre PostgreSQL.
// Usable con pool o tx (Querier).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// Create persiste un material nuevo.
func (r *MaterialRepo) Create(m *entity.Material) error {
	query := `
		INSERT INTO materials (` + materialColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Code, m.Name, m.Type, m.Unit,
		m.MinStock, m.MaxStock, m.Active, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// GetByID obtiene un material por ID (nil si no existe).
func (r *MaterialRepo) GetByID(id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene el material bloqueando su fila. Esta es la pieza que
// serializa el check-then-append del libro por sujeto; solo tiene sentido
// dentro de una transacción.
func (r *MaterialRepo) GetForUpdate(id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// List lista materiales, opcionalmente solo los activos.
func (r *MaterialRepo) List(onlyActive bool, limit, offset int) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials`
	if onlyActive {
		query += ` WHERE active`
	}
	query += ` ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.Material
	for rows.Next() {
		var m entity.Material
		if err := scanMaterial(rows, &m); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Update actualiza los atributos del material.
func (r *MaterialRepo) Update(m *entity.Material) error {
	query := `
		UPDATE materials
		SET code = $2, name = $3, type = $4, unit = $5,
		    min_stock = $6, max_stock = $7, active = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		m.ID, m.Code, m.Name, m.Type, m.Unit,
		m.MinStock, m.MaxStock, m.Active, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActive activa o desactiva el material.
func (r *MaterialRepo) SetActive(id string, active bool) error {
	query := `UPDATE materials SET active = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, active)
	if err != nil {
		return fmt.Errorf("set material active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IsReferenced indica si el material aparece en movimientos, requerimientos o
// renglones de compra.
func (r *MaterialRepo) IsReferenced(id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM stock_movements WHERE subject_type = 'material' AND subject_id = $1)
		    OR EXISTS (SELECT 1 FROM material_requirements WHERE material_id = $1)
		    OR EXISTS (SELECT 1 FROM purchase_lines WHERE material_id = $1)`
	var referenced bool
	if err := r.q.QueryRow(context.Background(), query, id).Scan(&referenced); err != nil {
		return false, fmt.Errorf("material referenced: %w", err)
	}
	return referenced, nil
}

// Delete borra físicamente el material (solo si nada lo referencia).
func (r *MaterialRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MaterialRepo) scanOne(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	if err := scanMaterial(row, &m); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func scanMaterial(row pgx.Row, m *entity.Material) error {
	return row.Scan(
		&m.ID, &m.Code, &m.Name, &m.Type, &m.Unit,
		&m.MinStock, &m.MaxStock, &m.Active, &m.CreatedAt, &m.UpdatedAt,
	)
}
