package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/induplast/produccion-api/internal/domain"
	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

// AppendInput datos para anexar un movimiento al libro de stock.
type AppendInput struct {
	SubjectType entity.SubjectType
	SubjectID   string
	Direction   entity.Direction
	Quantity    decimal.Decimal
	Origin      entity.Origin
	Reason      string
	RefType     string
	RefID       string
	UserID      string
	At          time.Time
}

// AppendInTx anexa un movimiento dentro de la transacción del caller y devuelve
// la fila creada con su ResultingStock calculado. El caller DEBE tener
// bloqueada la fila del sujeto (LockSubject o GetForUpdate) antes de llamar:
// el cálculo lee el último movimiento y cualquier lectura sin bloqueo abre la
// carrera check-then-act que este motor existe para cerrar.
func AppendInTx(r repository.TxRepos, in AppendInput) (*entity.StockMovement, error) {
	if !in.SubjectType.IsValid() || !in.Direction.IsValid() || !in.Origin.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	last, err := r.Movements.Last(in.SubjectType, in.SubjectID)
	if err != nil {
		return nil, err
	}
	prev := decimal.Zero
	if last != nil {
		prev = last.ResultingStock
	}

	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		SubjectType: in.SubjectType,
		SubjectID:   in.SubjectID,
		Direction:   in.Direction,
		Quantity:    in.Quantity,
		Origin:      in.Origin,
		Reason:      in.Reason,
		RefType:     in.RefType,
		RefID:       in.RefID,
		CreatedAt:   in.At,
		CreatedBy:   in.UserID,
	}
	mov.ResultingStock = prev.Add(mov.SignedQuantity())

	// Chequeo sobre el stock proyectado post-operación, nunca el previo.
	if mov.ResultingStock.IsNegative() {
		return nil, domain.ErrInsufficientStock
	}

	if err := r.Movements.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// LockSubject valida que el sujeto exista y bloquea su fila de catálogo
// (SELECT FOR UPDATE). Ese bloqueo serializa todos los appends del sujeto
// durante la transacción. Con requireActive se rechazan sujetos desactivados
// (movimientos manuales); los flujos del motor reversan/ajustan historia
// aunque el sujeto ya esté inactivo.
func LockSubject(r repository.TxRepos, subjectType entity.SubjectType, subjectID string, requireActive bool) error {
	switch subjectType {
	case entity.SubjectMaterial:
		m, err := r.Materials.GetForUpdate(subjectID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrUnknownSubject
		}
		if requireActive && !m.Active {
			return domain.ErrInactiveSubject
		}
	case entity.SubjectProduct:
		p, err := r.Products.GetForUpdate(subjectID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrUnknownSubject
		}
		if requireActive && !p.Active {
			return domain.ErrInactiveSubject
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

// ReverseInTx anexa el movimiento compensatorio de mov (dirección opuesta,
// misma cantidad, origen automático) dentro de la transacción del caller.
// La historia nunca se borra: reversar es escribir más historia.
func ReverseInTx(r repository.TxRepos, mov *entity.StockMovement, userID string, at time.Time) (*entity.StockMovement, error) {
	return AppendInTx(r, AppendInput{
		SubjectType: mov.SubjectType,
		SubjectID:   mov.SubjectID,
		Direction:   mov.Direction.Opposite(),
		Quantity:    mov.Quantity,
		Origin:      entity.OriginAutomatic,
		Reason:      "reversa del movimiento " + mov.ID,
		RefType:     entity.RefReversal,
		RefID:       mov.ID,
		UserID:      userID,
		At:          at,
	})
}
