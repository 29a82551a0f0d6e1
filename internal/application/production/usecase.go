package production

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/application/ledger"
	"github.com/induplast/produccion-api/internal/domain"
	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

// OrderUseCase gobierna la máquina de estados de las órdenes de producción
// (pending → started → finished) y todos sus efectos sobre el libro de stock.
// Las transiciones corren en transacciones cortas; los descuentos y abonos de
// stock son todo-o-nada.
type OrderUseCase struct {
	txRunner repository.TxRunner
	orders   repository.ProductionOrderRepository
	records  repository.ProductionRecordRepository
	reqs     repository.MaterialRequirementRepository
	products repository.ProductRepository
	clients  repository.ClientRepository
	mats     repository.MaterialRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	txRunner repository.TxRunner,
	orders repository.ProductionOrderRepository,
	records repository.ProductionRecordRepository,
	reqs repository.MaterialRequirementRepository,
	products repository.ProductRepository,
	clients repository.ClientRepository,
	mats repository.MaterialRepository,
) *OrderUseCase {
	return &OrderUseCase{
		txRunner: txRunner,
		orders:   orders,
		records:  records,
		reqs:     reqs,
		products: products,
		clients:  clients,
		mats:     mats,
	}
}

// RequirementInput un material requerido por la orden.
type RequirementInput struct {
	MaterialID string
	Quantity   decimal.Decimal
}

// CreateOrderInput datos para crear una orden de producción.
type CreateOrderInput struct {
	ProductID     string
	ClientID      string
	Quantity      decimal.Decimal
	ScheduledDate time.Time
	Requirements  []RequirementInput
}

// Create crea la orden en estado pending con su lista de requerimientos.
// Exige al menos un requerimiento y cantidades positivas.
func (uc *OrderUseCase) Create(ctx context.Context, in CreateOrderInput) (*entity.ProductionOrder, error) {
	reqs, err := uc.validateOrderInput(in.ProductID, in.ClientID, in.Quantity, in.Requirements)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.ProductionOrder{
		ID:            uuid.New().String(),
		Code:          newOrderCode(),
		ProductID:     in.ProductID,
		ClientID:      in.ClientID,
		Quantity:      in.Quantity,
		Status:        entity.OrderPending,
		ScheduledDate: in.ScheduledDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		if err := r.Orders.Create(order); err != nil {
			return err
		}
		return r.Requirements.ReplaceForOrder(order.ID, withOrderID(order.ID, reqs))
	})
	if err != nil {
		return nil, err
	}
	order.Requirements = withOrderID(order.ID, reqs)
	return order, nil
}

// EditOrderInput datos editables de una orden pending.
type EditOrderInput struct {
	ProductID     string
	ClientID      string
	Quantity      decimal.Decimal
	ScheduledDate time.Time
	Requirements  []RequirementInput
}

// Edit modifica una orden solo mientras siga en pending; el set de
// requerimientos se reemplaza completo. Una orden con producción ya registrada
// nunca vuelve a pending, así que esta regla también protege la historia.
func (uc *OrderUseCase) Edit(ctx context.Context, orderID string, in EditOrderInput) (*entity.ProductionOrder, error) {
	reqs, err := uc.validateOrderInput(in.ProductID, in.ClientID, in.Quantity, in.Requirements)
	if err != nil {
		return nil, err
	}

	var updated *entity.ProductionOrder
	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		order, err := r.Orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderPending {
			return &domain.StateError{Entity: "orden de producción", ID: orderID, Current: order.Status.String()}
		}
		order.ProductID = in.ProductID
		order.ClientID = in.ClientID
		order.Quantity = in.Quantity
		order.ScheduledDate = in.ScheduledDate
		order.UpdatedAt = time.Now()
		if err := r.Orders.Update(order); err != nil {
			return err
		}
		if err := r.Requirements.ReplaceForOrder(orderID, withOrderID(orderID, reqs)); err != nil {
			return err
		}
		order.Requirements = withOrderID(orderID, reqs)
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Start transiciona pending → started. Verifica la suficiencia de TODOS los
// materiales antes de descontar nada: si uno solo falta, la transición falla
// sin crear un solo movimiento. Los materiales se bloquean en orden
// determinista (por id) para evitar deadlocks entre starts concurrentes.
func (uc *OrderUseCase) Start(ctx context.Context, orderID, userID string) error {
	return uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		order, err := r.Orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Status.CanTransitionTo(entity.OrderStarted) {
			return &domain.StateError{
				Entity: "orden de producción", ID: orderID,
				Current: order.Status.String(), Target: entity.OrderStarted.String(),
			}
		}

		reqs, err := r.Requirements.ListByOrder(orderID)
		if err != nil {
			return err
		}
		if len(reqs) == 0 {
			return domain.ErrEmptyRequirements
		}
		sort.Slice(reqs, func(i, j int) bool { return reqs[i].MaterialID < reqs[j].MaterialID })

		// Fase 1: bloquear y verificar todo; ninguna escritura todavía.
		for _, req := range reqs {
			m, err := r.Materials.GetForUpdate(req.MaterialID)
			if err != nil {
				return err
			}
			if m == nil {
				return domain.ErrUnknownSubject
			}
			last, err := r.Movements.Last(entity.SubjectMaterial, req.MaterialID)
			if err != nil {
				return err
			}
			available := decimal.Zero
			if last != nil {
				available = last.ResultingStock
			}
			if available.LessThan(req.Quantity) {
				return &domain.InsufficientMaterialError{
					MaterialID: m.ID,
					Name:       m.Name,
					Required:   req.Quantity,
					Available:  available,
				}
			}
		}

		// Fase 2: descontar. Con todas las filas bloqueadas, nada puede haber
		// cambiado entre la verificación y el descuento.
		now := time.Now()
		for _, req := range reqs {
			_, err := ledger.AppendInTx(r, ledger.AppendInput{
				SubjectType: entity.SubjectMaterial,
				SubjectID:   req.MaterialID,
				Direction:   entity.DirectionOut,
				Quantity:    req.Quantity,
				Origin:      entity.OriginAutomatic,
				Reason:      "consumo de la orden " + order.Code,
				RefType:     entity.RefProductionOrder,
				RefID:       order.ID,
				UserID:      userID,
				At:          now,
			})
			if err != nil {
				return err
			}
		}

		order.Status = entity.OrderStarted
		order.StartedAt = &now
		order.UpdatedAt = now
		return r.Orders.Update(order)
	})
}

// RegisterProductionInput datos de un registro "se produjeron N unidades".
type RegisterProductionInput struct {
	OrderID      string
	Quantity     decimal.Decimal
	RegisteredAt time.Time
	Notes        string
	UserID       string
}

// RegisterProduction crea un registro de producción bajo una orden started y
// su movimiento automático de entrada sobre el producto, en una transacción.
// El acumulado nunca supera el objetivo de la orden.
func (uc *OrderUseCase) RegisterProduction(ctx context.Context, in RegisterProductionInput) (*entity.ProductionRecord, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	var created *entity.ProductionRecord
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		order, err := r.Orders.GetForUpdate(in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.OrderStarted {
			return &domain.StateError{Entity: "orden de producción", ID: in.OrderID, Current: order.Status.String()}
		}

		produced, err := r.Records.SumByOrder(in.OrderID)
		if err != nil {
			return err
		}
		if produced.Add(in.Quantity).GreaterThan(order.Quantity) {
			return &domain.ExceedsTargetError{
				OrderID:   in.OrderID,
				Produced:  produced,
				Requested: in.Quantity,
				Target:    order.Quantity,
			}
		}

		if err := ledger.LockSubject(r, entity.SubjectProduct, order.ProductID, false); err != nil {
			return err
		}

		now := time.Now()
		registeredAt := in.RegisteredAt
		if registeredAt.IsZero() {
			registeredAt = now
		}
		recordID := uuid.New().String()
		mov, err := ledger.AppendInTx(r, ledger.AppendInput{
			SubjectType: entity.SubjectProduct,
			SubjectID:   order.ProductID,
			Direction:   entity.DirectionIn,
			Quantity:    in.Quantity,
			Origin:      entity.OriginProduction,
			Reason:      "producción de la orden " + order.Code,
			RefType:     entity.RefProductionRecord,
			RefID:       recordID,
			UserID:      in.UserID,
			At:          now,
		})
		if err != nil {
			return err
		}

		record := &entity.ProductionRecord{
			ID:           recordID,
			OrderID:      in.OrderID,
			Quantity:     in.Quantity,
			RegisteredAt: registeredAt,
			Notes:        in.Notes,
			MovementID:   mov.ID,
			CreatedAt:    now,
			CreatedBy:    in.UserID,
		}
		if err := r.Records.Create(record); err != nil {
			return err
		}
		created = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// EditRecord corrige la cantidad de un registro mientras la orden siga
// started. El movimiento emparejado se reversa y se reaplica: el stock del
// producto queda consistente y el libro conserva toda la historia.
func (uc *OrderUseCase) EditRecord(ctx context.Context, recordID string, newQuantity decimal.Decimal, userID string) (*entity.ProductionRecord, error) {
	if !newQuantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	var updated *entity.ProductionRecord
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		record, order, err := uc.recordForMutation(r, recordID)
		if err != nil {
			return err
		}

		produced, err := r.Records.SumByOrder(order.ID)
		if err != nil {
			return err
		}
		withoutThis := produced.Sub(record.Quantity)
		if withoutThis.Add(newQuantity).GreaterThan(order.Quantity) {
			return &domain.ExceedsTargetError{
				OrderID:   order.ID,
				Produced:  withoutThis,
				Requested: newQuantity,
				Target:    order.Quantity,
			}
		}

		if err := ledger.LockSubject(r, entity.SubjectProduct, order.ProductID, false); err != nil {
			return err
		}
		paired, err := r.Movements.GetByID(record.MovementID)
		if err != nil {
			return err
		}
		if paired == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		if _, err := ledger.ReverseInTx(r, paired, userID, now); err != nil {
			return err
		}
		mov, err := ledger.AppendInTx(r, ledger.AppendInput{
			SubjectType: entity.SubjectProduct,
			SubjectID:   order.ProductID,
			Direction:   entity.DirectionIn,
			Quantity:    newQuantity,
			Origin:      entity.OriginProduction,
			Reason:      "corrección de producción de la orden " + order.Code,
			RefType:     entity.RefProductionRecord,
			RefID:       record.ID,
			UserID:      userID,
			At:          now,
		})
		if err != nil {
			return err
		}

		record.Quantity = newQuantity
		record.MovementID = mov.ID
		if err := r.Records.Update(record); err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRecord elimina un registro mientras la orden siga started, reversando
// su movimiento emparejado para que el stock del producto no derive.
func (uc *OrderUseCase) DeleteRecord(ctx context.Context, recordID, userID string) error {
	return uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		record, order, err := uc.recordForMutation(r, recordID)
		if err != nil {
			return err
		}
		if err := ledger.LockSubject(r, entity.SubjectProduct, order.ProductID, false); err != nil {
			return err
		}
		paired, err := r.Movements.GetByID(record.MovementID)
		if err != nil {
			return err
		}
		if paired == nil {
			return domain.ErrNotFound
		}
		if _, err := ledger.ReverseInTx(r, paired, userID, time.Now()); err != nil {
			return err
		}
		return r.Records.Delete(recordID)
	})
}

// Finish transiciona started → finished (terminal). Después de esto ni los
// registros ni los requerimientos admiten cambios.
func (uc *OrderUseCase) Finish(ctx context.Context, orderID string) error {
	return uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		order, err := r.Orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Status.CanTransitionTo(entity.OrderFinished) {
			return &domain.StateError{
				Entity: "orden de producción", ID: orderID,
				Current: order.Status.String(), Target: entity.OrderFinished.String(),
			}
		}
		now := time.Now()
		order.Status = entity.OrderFinished
		order.FinishedAt = &now
		order.UpdatedAt = now
		return r.Orders.Update(order)
	})
}

// Delete borra una orden solo si sigue en pending y sin producción registrada.
func (uc *OrderUseCase) Delete(ctx context.Context, orderID string) error {
	return uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		order, err := r.Orders.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		count, err := r.Records.CountByOrder(orderID)
		if err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrHasProduction
		}
		if order.Status != entity.OrderPending {
			return &domain.StateError{Entity: "orden de producción", ID: orderID, Current: order.Status.String()}
		}
		if err := r.Requirements.DeleteForOrder(orderID); err != nil {
			return err
		}
		return r.Orders.Delete(orderID)
	})
}

// OrderDetail orden con sus requerimientos, registros y avance.
type OrderDetail struct {
	Order    *entity.ProductionOrder
	Records  []*entity.ProductionRecord
	Produced decimal.Decimal
}

// Get devuelve la orden con requerimientos, registros y total producido.
func (uc *OrderUseCase) Get(ctx context.Context, orderID string) (*OrderDetail, error) {
	order, err := uc.orders.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	reqs, err := uc.reqs.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	order.Requirements = reqs
	records, err := uc.records.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	produced, err := uc.records.SumByOrder(orderID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: order, Records: records, Produced: produced}, nil
}

// List lista órdenes, opcionalmente filtradas por estado.
func (uc *OrderUseCase) List(ctx context.Context, status entity.OrderStatus, limit, offset int) ([]*entity.ProductionOrder, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.orders.List(status, limit, offset)
}

// recordForMutation carga un registro y su orden bloqueada, validando que la
// orden siga started (una orden finished congela su historia).
func (uc *OrderUseCase) recordForMutation(r repository.TxRepos, recordID string) (*entity.ProductionRecord, *entity.ProductionOrder, error) {
	record, err := r.Records.GetByID(recordID)
	if err != nil {
		return nil, nil, err
	}
	if record == nil {
		return nil, nil, domain.ErrNotFound
	}
	order, err := r.Orders.GetForUpdate(record.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, domain.ErrNotFound
	}
	if order.Status != entity.OrderStarted {
		return nil, nil, &domain.StateError{Entity: "orden de producción", ID: order.ID, Current: order.Status.String()}
	}
	return record, order, nil
}

func (uc *OrderUseCase) validateOrderInput(productID, clientID string, quantity decimal.Decimal, reqs []RequirementInput) ([]entity.MaterialRequirement, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	if len(reqs) == 0 {
		return nil, domain.ErrEmptyRequirements
	}
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, domain.ErrUnknownSubject
	}
	if clientID != "" {
		client, err := uc.clients.GetByID(clientID)
		if err != nil {
			return nil, err
		}
		if client == nil {
			return nil, domain.ErrNotFound
		}
	}
	out := make([]entity.MaterialRequirement, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		if !req.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidQuantity
		}
		if seen[req.MaterialID] {
			return nil, domain.ErrDuplicate
		}
		seen[req.MaterialID] = true
		m, err := uc.mats.GetByID(req.MaterialID)
		if err != nil {
			return nil, err
		}
		if m == nil || !m.Active {
			return nil, domain.ErrUnknownSubject
		}
		out = append(out, entity.MaterialRequirement{MaterialID: req.MaterialID, Quantity: req.Quantity})
	}
	return out, nil
}

func withOrderID(orderID string, reqs []entity.MaterialRequirement) []entity.MaterialRequirement {
	out := make([]entity.MaterialRequirement, len(reqs))
	for i, req := range reqs {
		req.OrderID = orderID
		out[i] = req
	}
	return out
}

// newOrderCode genera un código legible tipo OP-20260829-7F3A2C.
func newOrderCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return "OP-" + time.Now().Format("20060102") + "-" + suffix
}
