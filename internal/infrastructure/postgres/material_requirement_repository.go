package postgres

import (
	"context"
	"fmt"

	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

var _ repository.MaterialRequirementRepository = (*MaterialRequirementRepo)(nil)

// MaterialRequirementRepo requerimientos de material de una orden.
type MaterialRequirementRepo struct {
	q Querier
}

// NewMaterialRequirementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRequirementRepository(q Querier) *MaterialRequirementRepo {
	return &MaterialRequirementRepo{q: q}
}

// ReplaceForOrder reemplaza el set completo de requerimientos de la orden.
func (r *MaterialRequirementRepo) ReplaceForOrder(orderID string, reqs []entity.MaterialRequirement) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM material_requirements WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("clear requirements: %w", err)
	}
	query := `INSERT INTO material_requirements (order_id, material_id, quantity) VALUES ($1, $2, $3)`
	for _, req := range reqs {
		if _, err := r.q.Exec(ctx, query, orderID, req.MaterialID, req.Quantity); err != nil {
			return fmt.Errorf("insert requirement: %w", err)
		}
	}
	return nil
}

// ListByOrder lista los requerimientos de la orden.
func (r *MaterialRequirementRepo) ListByOrder(orderID string) ([]entity.MaterialRequirement, error) {
	query := `
		SELECT order_id, material_id, quantity
		FROM material_requirements
		WHERE order_id = $1
		ORDER BY material_id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	defer rows.Close()
	var list []entity.MaterialRequirement
	for rows.Next() {
		var req entity.MaterialRequirement
		if err := rows.Scan(&req.OrderID, &req.MaterialID, &req.Quantity); err != nil {
			return nil, fmt.Errorf("scan requirement: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// DeleteForOrder borra los requerimientos de la orden.
func (r *MaterialRequirementRepo) DeleteForOrder(orderID string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM material_requirements WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete requirements: %w", err)
	}
	return nil
}
