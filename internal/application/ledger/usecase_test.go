package ledger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/induplast/produccion-api/internal/application/ledger"
	"github.com/induplast/produccion-api/internal/domain"
	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
	"github.com/induplast/produccion-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type ledgerFixture struct {
	store      *memory.Store
	uc         *ledger.MovementUseCase
	materialID string
	productID  string
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()

	materialID := uuid.New().String()
	require.NoError(t, repos.Materials.Create(&entity.Material{
		ID: materialID, Name: "Resina PET", Unit: "kg", Active: true,
	}))
	productID := uuid.New().String()
	require.NoError(t, repos.Products.Create(&entity.Product{
		ID: productID, Name: "Botella 500ml", Unit: "un", Active: true,
	}))

	uc := ledger.NewMovementUseCase(store.TxRunner(), repos.Movements, repos.Materials, repos.Products)
	return &ledgerFixture{store: store, uc: uc, materialID: materialID, productID: productID}
}

func (f *ledgerFixture) manualIn(t *testing.T, qty int64) *entity.StockMovement {
	t.Helper()
	mov, err := f.uc.RegisterManual(context.Background(), ledger.ManualMovementInput{
		SubjectType: entity.SubjectMaterial,
		SubjectID:   f.materialID,
		Direction:   entity.DirectionIn,
		Quantity:    decimal.NewFromInt(qty),
		Reason:      "ajuste inicial",
		UserID:      "tester",
	})
	require.NoError(t, err)
	return mov
}

func (f *ledgerFixture) stock(t *testing.T) decimal.Decimal {
	t.Helper()
	s, err := f.uc.CurrentStock(context.Background(), entity.SubjectMaterial, f.materialID)
	require.NoError(t, err)
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro manual
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterManual_EntradaYSalida(t *testing.T) {
	f := newLedgerFixture(t)

	in := f.manualIn(t, 100)
	assert.True(t, in.ResultingStock.Equal(decimal.NewFromInt(100)),
		"el resulting_stock de la primera entrada debe ser la propia cantidad")

	out, err := f.uc.RegisterManual(context.Background(), ledger.ManualMovementInput{
		SubjectType: entity.SubjectMaterial,
		SubjectID:   f.materialID,
		Direction:   entity.DirectionOut,
		Quantity:    decimal.NewFromInt(30),
		Reason:      "merma",
		UserID:      "tester",
	})
	require.NoError(t, err)
	assert.True(t, out.ResultingStock.Equal(decimal.NewFromInt(70)))
	assert.True(t, f.stock(t).Equal(decimal.NewFromInt(70)))
	assert.Equal(t, entity.OriginManual, out.Origin)
}

func TestRegisterManual_CantidadInvalida(t *testing.T) {
	f := newLedgerFixture(t)
	for _, qty := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := f.uc.RegisterManual(context.Background(), ledger.ManualMovementInput{
			SubjectType: entity.SubjectMaterial,
			SubjectID:   f.materialID,
			Direction:   entity.DirectionIn,
			Quantity:    qty,
			UserID:      "tester",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cantidad %s", qty)
	}
}

func TestRegisterManual_SujetoDesconocido(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := f.uc.RegisterManual(context.Background(), ledger.ManualMovementInput{
		SubjectType: entity.SubjectMaterial,
		SubjectID:   uuid.New().String(),
		Direction:   entity.DirectionIn,
		Quantity:    decimal.NewFromInt(10),
		UserID:      "tester",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownSubject)
}

func TestRegisterManual_SujetoInactivo(t *testing.T) {
	f := newLedgerFixture(t)
	require.NoError(t, f.store.Repos().Materials.SetActive(f.materialID, false))

	_, err := f.uc.RegisterManual(context.Background(), ledger.ManualMovementInput{
		SubjectType: entity.SubjectMaterial,
		SubjectID:   f.materialID,
		Direction:   entity.DirectionIn,
		Quantity:    decimal.NewFromInt(10),
		UserID:      "tester",
	})
	assert.ErrorIs(t, err, domain.ErrInactiveSubject)
}

// Una salida que dejaría el stock proyectado en negativo se rechaza sin
// escribir nada en el libro.
func TestRegisterManual_StockInsuficiente(t *testing.T) {
	f := newLedgerFixture(t)
	f.manualIn(t, 5)

	_, err := f.uc.RegisterManual(context.Background(), ledger.ManualMovementInput{
		SubjectType: entity.SubjectMaterial,
		SubjectID:   f.materialID,
		Direction:   entity.DirectionOut,
		Quantity:    decimal.NewFromInt(10),
		UserID:      "tester",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	history, err := f.uc.History(context.Background(), repository.MovementFilter{
		SubjectType: entity.SubjectMaterial, SubjectID: f.materialID,
	})
	require.NoError(t, err)
	assert.Len(t, history, 1, "el rechazo no debe dejar filas en el libro")
	assert.True(t, f.stock(t).Equal(decimal.NewFromInt(5)))
}

func TestCurrentStock_SinMovimientos(t *testing.T) {
	f := newLedgerFixture(t)
	assert.True(t, f.stock(t).IsZero())

	_, err := f.uc.CurrentStock(context.Background(), entity.SubjectProduct, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrUnknownSubject)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reversas
// ──────────────────────────────────────────────────────────────────────────────

func TestReverse_CompensaYEsIdempotente(t *testing.T) {
	f := newLedgerFixture(t)
	mov := f.manualIn(t, 50)

	rev, err := f.uc.Reverse(context.Background(), mov.ID, "tester")
	require.NoError(t, err)
	assert.Equal(t, entity.DirectionOut, rev.Direction)
	assert.Equal(t, entity.OriginAutomatic, rev.Origin)
	assert.Equal(t, entity.RefReversal, rev.RefType)
	assert.Equal(t, mov.ID, rev.RefID)
	assert.True(t, f.stock(t).IsZero(), "la reversa devuelve el stock al valor previo")

	// Segunda reversa del mismo movimiento: rechazada.
	_, err = f.uc.Reverse(context.Background(), mov.ID, "tester")
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)

	// La compensación es de origen automático: tampoco es reversible.
	_, err = f.uc.Reverse(context.Background(), rev.ID, "tester")
	assert.ErrorIs(t, err, domain.ErrImmutableOrigin)
}

func TestReverse_NoExiste(t *testing.T) {
	f := newLedgerFixture(t)
	_, err := f.uc.Reverse(context.Background(), uuid.New().String(), "tester")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Reversar una entrada cuyo stock ya fue consumido dejaría el saldo negativo:
// guarda de no-negatividad del §4.1.
func TestReverse_GuardaNoNegatividad(t *testing.T) {
	f := newLedgerFixture(t)
	in := f.manualIn(t, 50)

	_, err := f.uc.RegisterManual(context.Background(), ledger.ManualMovementInput{
		SubjectType: entity.SubjectMaterial,
		SubjectID:   f.materialID,
		Direction:   entity.DirectionOut,
		Quantity:    decimal.NewFromInt(30),
		UserID:      "tester",
	})
	require.NoError(t, err)

	_, err = f.uc.Reverse(context.Background(), in.ID, "tester")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stock(t).Equal(decimal.NewFromInt(20)), "el rechazo no toca el stock")
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición manual = reversar + anexar, nunca mutación in situ
// ──────────────────────────────────────────────────────────────────────────────

func TestEditManual_ReversaYReaplica(t *testing.T) {
	f := newLedgerFixture(t)
	mov := f.manualIn(t, 50)

	repl, err := f.uc.EditManual(context.Background(), mov.ID, decimal.NewFromInt(80), "conteo corregido", "tester")
	require.NoError(t, err)
	assert.True(t, f.stock(t).Equal(decimal.NewFromInt(80)))
	assert.Equal(t, entity.OriginManual, repl.Origin)

	// El libro conserva toda la historia: original, compensación y reemplazo.
	history, err := f.uc.History(context.Background(), repository.MovementFilter{
		SubjectType: entity.SubjectMaterial, SubjectID: f.materialID,
	})
	require.NoError(t, err)
	assert.Len(t, history, 3)

	res, err := f.uc.Reconcile(context.Background(), entity.SubjectMaterial, f.materialID)
	require.NoError(t, err)
	assert.True(t, res.Consistent)
}

func TestEditManual_OrigenInmutable(t *testing.T) {
	f := newLedgerFixture(t)
	mov := f.manualIn(t, 50)
	rev, err := f.uc.Reverse(context.Background(), mov.ID, "tester")
	require.NoError(t, err)

	_, err = f.uc.EditManual(context.Background(), rev.ID, decimal.NewFromInt(10), "", "tester")
	assert.ErrorIs(t, err, domain.ErrImmutableOrigin)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedad central: el stock cacheado siempre coincide con re-sumar el libro
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_LibroConsistente(t *testing.T) {
	f := newLedgerFixture(t)
	f.manualIn(t, 100)
	mov := f.manualIn(t, 25)

	_, err := f.uc.RegisterManual(context.Background(), ledger.ManualMovementInput{
		SubjectType: entity.SubjectMaterial,
		SubjectID:   f.materialID,
		Direction:   entity.DirectionOut,
		Quantity:    decimal.NewFromInt(40),
		UserID:      "tester",
	})
	require.NoError(t, err)
	_, err = f.uc.Reverse(context.Background(), mov.ID, "tester")
	require.NoError(t, err)

	res, err := f.uc.Reconcile(context.Background(), entity.SubjectMaterial, f.materialID)
	require.NoError(t, err)
	assert.True(t, res.Consistent)
	assert.True(t, res.Cached.Equal(decimal.NewFromInt(60)))
	assert.True(t, res.Replayed.Equal(res.Cached))
}
