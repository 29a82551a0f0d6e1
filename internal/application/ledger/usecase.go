package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/domain"
	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

// MovementUseCase expone las operaciones del libro de stock: registro manual,
// consulta de stock actual, kardex y reversas. Cada operación mutadora corre
// en una transacción corta con la fila del sujeto bloqueada
// (SELECT FOR UPDATE + Commit/Rollback vía TxRunner).
type MovementUseCase struct {
	txRunner  repository.TxRunner
	movements repository.StockMovementRepository
	materials repository.MaterialRepository
	products  repository.ProductRepository
}

// NewMovementUseCase construye el caso de uso. Los repositorios recibidos son
// de solo lectura (atados al pool); las escrituras pasan por txRunner.
func NewMovementUseCase(
	txRunner repository.TxRunner,
	movements repository.StockMovementRepository,
	materials repository.MaterialRepository,
	products repository.ProductRepository,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:  txRunner,
		movements: movements,
		materials: materials,
		products:  products,
	}
}

// ManualMovementInput entrada para registrar un movimiento manual.
type ManualMovementInput struct {
	SubjectType entity.SubjectType
	SubjectID   string
	Direction   entity.Direction
	Quantity    decimal.Decimal
	Reason      string
	UserID      string
}

// RegisterManual registra un movimiento de origen manual (ajustes de un
// usuario). Valida sujeto activo, cantidad positiva y no-negatividad del stock
// proyectado, todo dentro de una transacción.
func (uc *MovementUseCase) RegisterManual(ctx context.Context, in ManualMovementInput) (*entity.StockMovement, error) {
	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		if err := LockSubject(r, in.SubjectType, in.SubjectID, true); err != nil {
			return err
		}
		mov, err := AppendInTx(r, AppendInput{
			SubjectType: in.SubjectType,
			SubjectID:   in.SubjectID,
			Direction:   in.Direction,
			Quantity:    in.Quantity,
			Origin:      entity.OriginManual,
			Reason:      in.Reason,
			UserID:      in.UserID,
			At:          time.Now(),
		})
		if err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CurrentStock devuelve el stock actual del sujeto: el ResultingStock de su
// movimiento más reciente, o cero si no tiene movimientos.
func (uc *MovementUseCase) CurrentStock(ctx context.Context, subjectType entity.SubjectType, subjectID string) (decimal.Decimal, error) {
	if err := uc.subjectExists(subjectType, subjectID); err != nil {
		return decimal.Zero, err
	}
	last, err := uc.movements.Last(subjectType, subjectID)
	if err != nil {
		return decimal.Zero, err
	}
	if last == nil {
		return decimal.Zero, nil
	}
	return last.ResultingStock, nil
}

// Reverse anexa el movimiento compensatorio de un movimiento manual. Un
// movimiento se reversa a lo sumo una vez; la reversa misma es de origen
// automático y por tanto irreversible por esta vía.
func (uc *MovementUseCase) Reverse(ctx context.Context, movementID, userID string) (*entity.StockMovement, error) {
	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		mov, err := r.Movements.GetByID(movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		if !mov.Origin.Mutable() {
			return domain.ErrImmutableOrigin
		}
		if err := LockSubject(r, mov.SubjectType, mov.SubjectID, false); err != nil {
			return err
		}
		// Releer la reversa ya con la fila bloqueada: dos Reverse concurrentes
		// sobre el mismo movimiento se serializan aquí.
		existing, err := r.Movements.FindReversal(movementID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyReversed
		}
		rev, err := ReverseInTx(r, mov, userID, time.Now())
		if err != nil {
			return err
		}
		created = rev
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// EditManual corrige la cantidad de un movimiento manual como "reversar el
// viejo y anexar uno nuevo" en una sola transacción; jamás se muta una fila
// pasada del libro.
func (uc *MovementUseCase) EditManual(ctx context.Context, movementID string, newQuantity decimal.Decimal, reason, userID string) (*entity.StockMovement, error) {
	var created *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(r repository.TxRepos) error {
		mov, err := r.Movements.GetByID(movementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrNotFound
		}
		if !mov.Origin.Mutable() {
			return domain.ErrImmutableOrigin
		}
		if err := LockSubject(r, mov.SubjectType, mov.SubjectID, false); err != nil {
			return err
		}
		existing, err := r.Movements.FindReversal(movementID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyReversed
		}
		now := time.Now()
		if _, err := ReverseInTx(r, mov, userID, now); err != nil {
			return err
		}
		if reason == "" {
			reason = mov.Reason
		}
		repl, err := AppendInTx(r, AppendInput{
			SubjectType: mov.SubjectType,
			SubjectID:   mov.SubjectID,
			Direction:   mov.Direction,
			Quantity:    newQuantity,
			Origin:      entity.OriginManual,
			Reason:      reason,
			UserID:      userID,
			At:          now,
		})
		if err != nil {
			return err
		}
		created = repl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// History lista el kardex según filtro (solo lectura, fuera de transacción).
func (uc *MovementUseCase) History(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.movements.List(filter)
}

// ReconcileResult resultado de auditar la consistencia del libro de un sujeto.
type ReconcileResult struct {
	SubjectType entity.SubjectType
	SubjectID   string
	Cached      decimal.Decimal // ResultingStock del último movimiento
	Replayed    decimal.Decimal // suma firmada de toda la historia
	Consistent  bool
}

// Reconcile re-suma toda la historia del sujeto y la compara contra el stock
// cacheado en el último movimiento. Las dos cifras deben coincidir siempre;
// una discrepancia indica corrupción del libro.
func (uc *MovementUseCase) Reconcile(ctx context.Context, subjectType entity.SubjectType, subjectID string) (*ReconcileResult, error) {
	if err := uc.subjectExists(subjectType, subjectID); err != nil {
		return nil, err
	}
	sum, err := uc.movements.SumSigned(subjectType, subjectID)
	if err != nil {
		return nil, err
	}
	cached := decimal.Zero
	last, err := uc.movements.Last(subjectType, subjectID)
	if err != nil {
		return nil, err
	}
	if last != nil {
		cached = last.ResultingStock
	}
	return &ReconcileResult{
		SubjectType: subjectType,
		SubjectID:   subjectID,
		Cached:      cached,
		Replayed:    sum,
		Consistent:  cached.Equal(sum),
	}, nil
}

func (uc *MovementUseCase) subjectExists(subjectType entity.SubjectType, subjectID string) error {
	switch subjectType {
	case entity.SubjectMaterial:
		m, err := uc.materials.GetByID(subjectID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrUnknownSubject
		}
	case entity.SubjectProduct:
		p, err := uc.products.GetByID(subjectID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrUnknownSubject
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}
