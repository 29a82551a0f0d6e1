package purchasing

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

// PurchaseUseCase gobierna el flujo de compras
// (pending → ordered → in_transit → received, con void/cancel laterales).
// Solo la transición a received toca el libro de stock: una entrada automática
// por renglón, aplicadas de forma atómica.
type PurchaseUseCase struct {
	txRunner  repository.TxRunner
	purchases repository.PurchaseOrderRepository
	suppliers repository.SupplierRepository
	mats      repository.MaterialRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	txRunner repository.TxRunner,
	purchases repository.PurchaseOrderRepository,
	suppliers repository.SupplierRepository,
	mats repository.MaterialRepository,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txRunner:  txRunner,
		purchases: purchases,
		suppliers: suppliers,
		mats:      mats,
	}
}

// LineInput un renglón de compra.
type LineInput struct {
	MaterialID string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
}

// CreatePurchaseInput datos para crear una orden de compra.
type CreatePurchaseInput struct {
	SupplierID      string
	OrderDate       time.Time
	ExpectedArrival *time.Time
	Lines           []LineInput
}

// Create crea la compra en pending con sus renglones.
func (uc *PurchaseUseCase) Create(ctx context.Context, in CreatePurchaseInput) (*entity.PurchaseOrder, error) {
	supplier, err := uc.suppliers.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.validateLines(in.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}
	purchase := &entity.PurchaseOrder{
		ID:              uuid.New().String(),
		Code:            newPurchaseCode(),
		SupplierID:      in.SupplierID,
		Status:          entity.PurchasePending,
		OrderDate:       orderDate,
		ExpectedArrival: in.ExpectedArrival,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i := range lines {
		lines[i].PurchaseID = purchase.ID
	}
	purchase.Lines = lines

	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		return r.Purchases.Create(purchase)
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

// EditLines reemplaza los renglones completos; solo sobre compras en pending.
func (uc *PurchaseUseCase) EditLines(ctx context.Context, purchaseID string, in []LineInput) (*entity.PurchaseOrder, error) {
	lines, err := uc.validateLines(in)
	if err != nil {
		return nil, err
	}
	var updated *entity.PurchaseOrder
	err = uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		purchase, err := r.Purchases.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if purchase.Status != entity.PurchasePending {
			return &domain.StateError{Entity: "orden de compra", ID: purchaseID, Current: purchase.Status.String()}
		}
		for i := range lines {
			lines[i].PurchaseID = purchaseID
		}
		if err := r.Purchases.ReplaceLines(purchaseID, lines); err != nil {
			return err
		}
		purchase.Lines = lines
		purchase.UpdatedAt = time.Now()
		updated = purchase
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkOrdered transiciona pending → ordered.
func (uc *PurchaseUseCase) MarkOrdered(ctx context.Context, purchaseID string) error {
	return uc.transition(ctx, purchaseID, entity.PurchaseOrdered)
}

// MarkInTransit transiciona ordered → in_transit.
func (uc *PurchaseUseCase) MarkInTransit(ctx context.Context, purchaseID string) error {
	return uc.transition(ctx, purchaseID, entity.PurchaseInTransit)
}

// Void anula la compra desde cualquier estado no terminal.
func (uc *PurchaseUseCase) Void(ctx context.Context, purchaseID string) error {
	return uc.transition(ctx, purchaseID, entity.PurchaseVoided)
}

// Cancel cancela la compra desde cualquier estado no terminal.
func (uc *PurchaseUseCase) Cancel(ctx context.Context, purchaseID string) error {
	return uc.transition(ctx, purchaseID, entity.PurchaseCancelled)
}

// Receive transiciona in_transit → received y acredita el stock: una entrada
// automática de origen purchase por cada renglón, todas en la misma
// transacción. Los materiales se bloquean en orden determinista.
func (uc *PurchaseUseCase) Receive(ctx context.Context, purchaseID, userID string) error {
	return uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		purchase, err := r.Purchases.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if !purchase.Status.CanTransitionTo(entity.PurchaseReceived) {
			return &domain.StateError{
				Entity: "orden de compra", ID: purchaseID,
				Current: purchase.Status.String(), Target: entity.PurchaseReceived.String(),
			}
		}

		lines := make([]entity.PurchaseLine, len(purchase.Lines))
		copy(lines, purchase.Lines)
		sort.Slice(lines, func(i, j int) bool { return lines[i].MaterialID < lines[j].MaterialID })

		now := time.Now()
		for _, line := range lines {
			if err := ledger.LockSubject(r, entity.SubjectMaterial, line.MaterialID, false); err != nil {
				return err
			}
			_, err := ledger.AppendInTx(r, ledger.AppendInput{
				SubjectType: entity.SubjectMaterial,
				SubjectID:   line.MaterialID,
				Direction:   entity.DirectionIn,
				Quantity:    line.Quantity,
				Origin:      entity.OriginPurchase,
				Reason:      "recepción de la compra " + purchase.Code,
				RefType:     entity.RefPurchaseOrder,
				RefID:       purchase.ID,
				UserID:      userID,
				At:          now,
			})
			if err != nil {
				return err
			}
		}

		purchase.Status = entity.PurchaseReceived
		purchase.ReceivedAt = &now
		purchase.UpdatedAt = now
		return r.Purchases.UpdateStatus(purchase)
	})
}

// Delete borra la compra solo en pending/ordered/in_transit. Una compra
// recibida jamás se borra (solo anulación hacia adelante) para conservar el
// rastro del libro.
func (uc *PurchaseUseCase) Delete(ctx context.Context, purchaseID string) error {
	return uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		purchase, err := r.Purchases.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if !purchase.Status.CanDelete() {
			return &domain.StateError{Entity: "orden de compra", ID: purchaseID, Current: purchase.Status.String()}
		}
		return r.Purchases.Delete(purchaseID)
	})
}

// Get devuelve la compra con sus renglones.
func (uc *PurchaseUseCase) Get(ctx context.Context, purchaseID string) (*entity.PurchaseOrder, error) {
	purchase, err := uc.purchases.GetByID(purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	return purchase, nil
}

// List lista compras, opcionalmente filtradas por estado.
func (uc *PurchaseUseCase) List(ctx context.Context, status entity.PurchaseStatus, limit, offset int) ([]*entity.PurchaseOrder, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.purchases.List(status, limit, offset)
}

func (uc *PurchaseUseCase) transition(ctx context.Context, purchaseID string, target entity.PurchaseStatus) error {
	return uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		purchase, err := r.Purchases.GetForUpdate(purchaseID)
		if err != nil {
			return err
		}
		if purchase == nil {
			return domain.ErrNotFound
		}
		if !purchase.Status.CanTransitionTo(target) {
			return &domain.StateError{
				Entity: "orden de compra", ID: purchaseID,
				Current: purchase.Status.String(), Target: target.String(),
			}
		}
		purchase.Status = target
		purchase.UpdatedAt = time.Now()
		return r.Purchases.UpdateStatus(purchase)
	})
}

func (uc *PurchaseUseCase) validateLines(in []LineInput) ([]entity.PurchaseLine, error) {
	if len(in) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines := make([]entity.PurchaseLine, 0, len(in))
	for _, l := range in {
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidQuantity
		}
		if l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		m, err := uc.mats.GetByID(l.MaterialID)
		if err != nil {
			return nil, err
		}
		if m == nil || !m.Active {
			return nil, domain.ErrUnknownSubject
		}
		lines = append(lines, entity.PurchaseLine{
			ID:         uuid.New().String(),
			MaterialID: l.MaterialID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		})
	}
	return lines, nil
}

// newPurchaseCode genera un código legible tipo OC-20260829-7F3A2C.
func newPurchaseCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return "OC-" + time.Now().Format("20060102") + "-" + suffix
}
