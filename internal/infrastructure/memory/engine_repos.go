package memory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*movementRepo)(nil)
var _ repository.ProductionOrderRepository = (*orderRepo)(nil)
var _ repository.MaterialRequirementRepository = (*requirementRepo)(nil)
var _ repository.ProductionRecordRepository = (*recordRepo)(nil)
var _ repository.PurchaseOrderRepository = (*purchaseRepo)(nil)

type movementRepo struct {
	s    *Store
	inTx bool
}

func (r *movementRepo) Create(m *entity.StockMovement) error {
	defer r.s.acquire(r.inTx)()
	r.s.data.movements = append(r.s.data.movements, *m)
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.StockMovement, error) {
	defer r.s.acquire(r.inTx)()
	for i := range r.s.data.movements {
		if r.s.data.movements[i].ID == id {
			m := r.s.data.movements[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) Last(subjectType entity.SubjectType, subjectID string) (*entity.StockMovement, error) {
	defer r.s.acquire(r.inTx)()
	for i := len(r.s.data.movements) - 1; i >= 0; i-- {
		m := r.s.data.movements[i]
		if m.SubjectType == subjectType && m.SubjectID == subjectID {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) List(filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	defer r.s.acquire(r.inTx)()
	var out []*entity.StockMovement
	for i := range r.s.data.movements {
		m := r.s.data.movements[i]
		if filter.SubjectType != "" && m.SubjectType != filter.SubjectType {
			continue
		}
		if filter.SubjectID != "" && m.SubjectID != filter.SubjectID {
			continue
		}
		if filter.Origin != "" && m.Origin != filter.Origin {
			continue
		}
		if filter.From != nil && m.CreatedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.CreatedAt.After(*filter.To) {
			continue
		}
		out = append(out, &m)
	}
	// Más recientes primero, como el kardex de la web.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *movementRepo) ListByRef(refType, refID string) ([]*entity.StockMovement, error) {
	defer r.s.acquire(r.inTx)()
	var out []*entity.StockMovement
	for i := range r.s.data.movements {
		m := r.s.data.movements[i]
		if m.RefType == refType && m.RefID == refID {
			out = append(out, &m)
		}
	}
	return out, nil
}

func (r *movementRepo) FindReversal(movementID string) (*entity.StockMovement, error) {
	defer r.s.acquire(r.inTx)()
	for i := range r.s.data.movements {
		m := r.s.data.movements[i]
		if m.RefType == entity.RefReversal && m.RefID == movementID {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) SumSigned(subjectType entity.SubjectType, subjectID string) (decimal.Decimal, error) {
	defer r.s.acquire(r.inTx)()
	sum := decimal.Zero
	for i := range r.s.data.movements {
		m := r.s.data.movements[i]
		if m.SubjectType == subjectType && m.SubjectID == subjectID {
			sum = sum.Add(m.SignedQuantity())
		}
	}
	return sum, nil
}

type orderRepo struct {
	s    *Store
	inTx bool
}

func (r *orderRepo) Create(o *entity.ProductionOrder) error {
	defer r.s.acquire(r.inTx)()
	stored := *o
	stored.Requirements = nil // viven en su propio mapa
	r.s.data.orders[o.ID] = stored
	return nil
}

func (r *orderRepo) GetByID(id string) (*entity.ProductionOrder, error) {
	defer r.s.acquire(r.inTx)()
	o, ok := r.s.data.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *orderRepo) GetForUpdate(id string) (*entity.ProductionOrder, error) {
	return r.GetByID(id)
}

func (r *orderRepo) List(status entity.OrderStatus, limit, offset int) ([]*entity.ProductionOrder, error) {
	defer r.s.acquire(r.inTx)()
	var out []*entity.ProductionOrder
	for _, o := range r.s.data.orders {
		if status != "" && o.Status != status {
			continue
		}
		o := o
		out = append(out, &o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *orderRepo) Update(o *entity.ProductionOrder) error {
	defer r.s.acquire(r.inTx)()
	stored := *o
	stored.Requirements = nil
	r.s.data.orders[o.ID] = stored
	return nil
}

func (r *orderRepo) Delete(id string) error {
	defer r.s.acquire(r.inTx)()
	delete(r.s.data.orders, id)
	return nil
}

type requirementRepo struct {
	s    *Store
	inTx bool
}

func (r *requirementRepo) ReplaceForOrder(orderID string, reqs []entity.MaterialRequirement) error {
	defer r.s.acquire(r.inTx)()
	stored := make([]entity.MaterialRequirement, len(reqs))
	copy(stored, reqs)
	r.s.data.requirements[orderID] = stored
	return nil
}

func (r *requirementRepo) ListByOrder(orderID string) ([]entity.MaterialRequirement, error) {
	defer r.s.acquire(r.inTx)()
	reqs := r.s.data.requirements[orderID]
	out := make([]entity.MaterialRequirement, len(reqs))
	copy(out, reqs)
	return out, nil
}

func (r *requirementRepo) DeleteForOrder(orderID string) error {
	defer r.s.acquire(r.inTx)()
	delete(r.s.data.requirements, orderID)
	return nil
}

type recordRepo struct {
	s    *Store
	inTx bool
}

func (r *recordRepo) Create(rec *entity.ProductionRecord) error {
	defer r.s.acquire(r.inTx)()
	r.s.data.records[rec.ID] = *rec
	return nil
}

func (r *recordRepo) GetByID(id string) (*entity.ProductionRecord, error) {
	defer r.s.acquire(r.inTx)()
	rec, ok := r.s.data.records[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *recordRepo) ListByOrder(orderID string) ([]*entity.ProductionRecord, error) {
	defer r.s.acquire(r.inTx)()
	var out []*entity.ProductionRecord
	for _, rec := range r.s.data.records {
		if rec.OrderID != orderID {
			continue
		}
		rec := rec
		out = append(out, &rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
	return out, nil
}

func (r *recordRepo) SumByOrder(orderID string) (decimal.Decimal, error) {
	defer r.s.acquire(r.inTx)()
	sum := decimal.Zero
	for _, rec := range r.s.data.records {
		if rec.OrderID == orderID {
			sum = sum.Add(rec.Quantity)
		}
	}
	return sum, nil
}

func (r *recordRepo) Update(rec *entity.ProductionRecord) error {
	defer r.s.acquire(r.inTx)()
	r.s.data.records[rec.ID] = *rec
	return nil
}

func (r *recordRepo) Delete(id string) error {
	defer r.s.acquire(r.inTx)()
	delete(r.s.data.records, id)
	return nil
}

func (r *recordRepo) CountByOrder(orderID string) (int, error) {
	defer r.s.acquire(r.inTx)()
	n := 0
	for _, rec := range r.s.data.records {
		if rec.OrderID == orderID {
			n++
		}
	}
	return n, nil
}

type purchaseRepo struct {
	s    *Store
	inTx bool
}

func (r *purchaseRepo) Create(p *entity.PurchaseOrder) error {
	defer r.s.acquire(r.inTx)()
	stored := *p
	stored.Lines = make([]entity.PurchaseLine, len(p.Lines))
	copy(stored.Lines, p.Lines)
	r.s.data.purchases[p.ID] = stored
	return nil
}

func (r *purchaseRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	defer r.s.acquire(r.inTx)()
	p, ok := r.s.data.purchases[id]
	if !ok {
		return nil, nil
	}
	out := p
	out.Lines = make([]entity.PurchaseLine, len(p.Lines))
	copy(out.Lines, p.Lines)
	return &out, nil
}

func (r *purchaseRepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(id)
}

func (r *purchaseRepo) List(status entity.PurchaseStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	defer r.s.acquire(r.inTx)()
	var out []*entity.PurchaseOrder
	for _, p := range r.s.data.purchases {
		if status != "" && p.Status != status {
			continue
		}
		p := p
		lines := make([]entity.PurchaseLine, len(p.Lines))
		copy(lines, p.Lines)
		p.Lines = lines
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (r *purchaseRepo) UpdateStatus(p *entity.PurchaseOrder) error {
	defer r.s.acquire(r.inTx)()
	stored, ok := r.s.data.purchases[p.ID]
	if !ok {
		return nil
	}
	stored.Status = p.Status
	stored.ReceivedAt = p.ReceivedAt
	stored.UpdatedAt = p.UpdatedAt
	r.s.data.purchases[p.ID] = stored
	return nil
}

func (r *purchaseRepo) ReplaceLines(purchaseID string, lines []entity.PurchaseLine) error {
	defer r.s.acquire(r.inTx)()
	p, ok := r.s.data.purchases[purchaseID]
	if !ok {
		return nil
	}
	p.Lines = make([]entity.PurchaseLine, len(lines))
	copy(p.Lines, lines)
	r.s.data.purchases[purchaseID] = p
	return nil
}

func (r *purchaseRepo) Delete(id string) error {
	defer r.s.acquire(r.inTx)()
	delete(r.s.data.purchases, id)
	return nil
}
