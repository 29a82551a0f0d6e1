package purchasing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/induplast/produccion-api/internal/application/ledger"
	"github.com/induplast/produccion-api/internal/application/purchasing"
	"github.com/induplast/produccion-api/internal/domain"
	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type purchaseFixture struct {
	store      *memory.Store
	uc         *purchasing.PurchaseUseCase
	ledgerUC   *ledger.MovementUseCase
	supplierID string
}

func newPurchaseFixture(t *testing.T) *purchaseFixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()

	supplierID := uuid.New().String()
	require.NoError(t, store.Suppliers().Create(&entity.Supplier{
		ID: supplierID, Name: "Polímeros del Sur", Active: true,
	}))

	uc := purchasing.NewPurchaseUseCase(store.TxRunner(), repos.Purchases, store.Suppliers(), repos.Materials)
	ledgerUC := ledger.NewMovementUseCase(store.TxRunner(), repos.Movements, repos.Materials, repos.Products)
	return &purchaseFixture{store: store, uc: uc, ledgerUC: ledgerUC, supplierID: supplierID}
}

func (f *purchaseFixture) newMaterial(t *testing.T, name string) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, f.store.Repos().Materials.Create(&entity.Material{
		ID: id, Name: name, Unit: "kg", Active: true,
	}))
	return id
}

func (f *purchaseFixture) stockOf(t *testing.T, materialID string) decimal.Decimal {
	t.Helper()
	s, err := f.ledgerUC.CurrentStock(context.Background(), entity.SubjectMaterial, materialID)
	require.NoError(t, err)
	return s
}

func line(materialID string, qty, price int64) purchasing.LineInput {
	return purchasing.LineInput{
		MaterialID: materialID,
		Quantity:   decimal.NewFromInt(qty),
		UnitPrice:  decimal.NewFromInt(price),
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y edición de renglones
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_Pending(t *testing.T) {
	f := newPurchaseFixture(t)
	m := f.newMaterial(t, "Resina PET")

	purchase, err := f.uc.Create(context.Background(), purchasing.CreatePurchaseInput{
		SupplierID: f.supplierID,
		Lines:      []purchasing.LineInput{line(m, 100, 3)},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchasePending, purchase.Status)
	assert.Contains(t, purchase.Code, "OC-")
	assert.True(t, purchase.Total().Equal(decimal.NewFromInt(300)))

	// Crear no toca el libro.
	assert.True(t, f.stockOf(t, m).IsZero())
}

func TestCreate_Invalidas(t *testing.T) {
	f := newPurchaseFixture(t)
	m := f.newMaterial(t, "Resina PET")
	ctx := context.Background()

	_, err := f.uc.Create(ctx, purchasing.CreatePurchaseInput{
		SupplierID: uuid.New().String(),
		Lines:      []purchasing.LineInput{line(m, 10, 1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "proveedor inexistente")

	_, err = f.uc.Create(ctx, purchasing.CreatePurchaseInput{SupplierID: f.supplierID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin renglones")

	_, err = f.uc.Create(ctx, purchasing.CreatePurchaseInput{
		SupplierID: f.supplierID,
		Lines:      []purchasing.LineInput{line(m, 0, 1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.uc.Create(ctx, purchasing.CreatePurchaseInput{
		SupplierID: f.supplierID,
		Lines:      []purchasing.LineInput{line(uuid.New().String(), 10, 1)},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownSubject, "material inexistente")
}

func TestEditLines_SoloPending(t *testing.T) {
	f := newPurchaseFixture(t)
	m := f.newMaterial(t, "Resina PET")
	ctx := context.Background()

	purchase, err := f.uc.Create(ctx, purchasing.CreatePurchaseInput{
		SupplierID: f.supplierID,
		Lines:      []purchasing.LineInput{line(m, 100, 3)},
	})
	require.NoError(t, err)

	edited, err := f.uc.EditLines(ctx, purchase.ID, []purchasing.LineInput{line(m, 150, 2)})
	require.NoError(t, err)
	require.Len(t, edited.Lines, 1)
	assert.True(t, edited.Lines[0].Quantity.Equal(decimal.NewFromInt(150)))

	require.NoError(t, f.uc.MarkOrdered(ctx, purchase.ID))
	_, err = f.uc.EditLines(ctx, purchase.ID, []purchasing.LineInput{line(m, 10, 2)})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_FlujoCompleto(t *testing.T) {
	f := newPurchaseFixture(t)
	mA := f.newMaterial(t, "Resina PET")
	mB := f.newMaterial(t, "Pigmento azul")
	ctx := context.Background()

	purchase, err := f.uc.Create(ctx, purchasing.CreatePurchaseInput{
		SupplierID: f.supplierID,
		Lines:      []purchasing.LineInput{line(mA, 100, 3), line(mB, 25, 8)},
	})
	require.NoError(t, err)

	require.NoError(t, f.uc.MarkOrdered(ctx, purchase.ID))
	require.NoError(t, f.uc.MarkInTransit(ctx, purchase.ID))

	// Hasta aquí el libro sigue vacío.
	assert.True(t, f.stockOf(t, mA).IsZero())

	require.NoError(t, f.uc.Receive(ctx, purchase.ID, "tester"))

	assert.True(t, f.stockOf(t, mA).Equal(decimal.NewFromInt(100)))
	assert.True(t, f.stockOf(t, mB).Equal(decimal.NewFromInt(25)))

	got, err := f.uc.Get(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReceived, got.Status)
	require.NotNil(t, got.ReceivedAt)

	movs, err := f.store.Repos().Movements.ListByRef(entity.RefPurchaseOrder, purchase.ID)
	require.NoError(t, err)
	require.Len(t, movs, 2, "una entrada por renglón")
	for _, mov := range movs {
		assert.Equal(t, entity.OriginPurchase, mov.Origin)
		assert.Equal(t, entity.DirectionIn, mov.Direction)
	}

	// received es terminal.
	assert.ErrorIs(t, f.uc.Receive(ctx, purchase.ID, "tester"), domain.ErrInvalidState)
	assert.ErrorIs(t, f.uc.Void(ctx, purchase.ID), domain.ErrInvalidState)
}

func TestReceive_SoloDesdeInTransit(t *testing.T) {
	f := newPurchaseFixture(t)
	m := f.newMaterial(t, "Resina PET")
	ctx := context.Background()

	purchase, err := f.uc.Create(ctx, purchasing.CreatePurchaseInput{
		SupplierID: f.supplierID,
		Lines:      []purchasing.LineInput{line(m, 100, 3)},
	})
	require.NoError(t, err)

	// pending → received y ordered → received saltan estados.
	assert.ErrorIs(t, f.uc.Receive(ctx, purchase.ID, "tester"), domain.ErrInvalidState)
	require.NoError(t, f.uc.MarkOrdered(ctx, purchase.ID))
	assert.ErrorIs(t, f.uc.Receive(ctx, purchase.ID, "tester"), domain.ErrInvalidState)
	assert.True(t, f.stockOf(t, m).IsZero(), "ningún intento fallido acredita stock")
}

// Si un renglón apunta a un material borrado entre la compra y la recepción,
// la recepción completa se revierte: ni estado nuevo ni entradas parciales.
func TestReceive_TodoONada(t *testing.T) {
	f := newPurchaseFixture(t)
	mA := f.newMaterial(t, "Resina PET")
	mB := f.newMaterial(t, "Pigmento azul")
	ctx := context.Background()

	purchase, err := f.uc.Create(ctx, purchasing.CreatePurchaseInput{
		SupplierID: f.supplierID,
		Lines:      []purchasing.LineInput{line(mA, 100, 3), line(mB, 25, 8)},
	})
	require.NoError(t, err)
	require.NoError(t, f.uc.MarkOrdered(ctx, purchase.ID))
	require.NoError(t, f.uc.MarkInTransit(ctx, purchase.ID))

	// mB desaparece del catálogo antes de recibir.
	require.NoError(t, f.store.Repos().Materials.Delete(mB))

	err = f.uc.Receive(ctx, purchase.ID, "tester")
	assert.ErrorIs(t, err, domain.ErrUnknownSubject)

	assert.True(t, f.stockOf(t, mA).IsZero(), "el renglón bueno tampoco se acredita")
	got, err := f.uc.Get(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseInTransit, got.Status)
}

func TestVoidYCancel(t *testing.T) {
	f := newPurchaseFixture(t)
	m := f.newMaterial(t, "Resina PET")
	ctx := context.Background()

	for _, target := range []struct {
		name string
		call func(string) error
		want entity.PurchaseStatus
	}{
		{"void", func(id string) error { return f.uc.Void(ctx, id) }, entity.PurchaseVoided},
		{"cancel", func(id string) error { return f.uc.Cancel(ctx, id) }, entity.PurchaseCancelled},
	} {
		t.Run(target.name, func(t *testing.T) {
			purchase, err := f.uc.Create(ctx, purchasing.CreatePurchaseInput{
				SupplierID: f.supplierID,
				Lines:      []purchasing.LineInput{line(m, 10, 1)},
			})
			require.NoError(t, err)
			require.NoError(t, f.uc.MarkOrdered(ctx, purchase.ID))

			require.NoError(t, target.call(purchase.ID))
			got, err := f.uc.Get(ctx, purchase.ID)
			require.NoError(t, err)
			assert.Equal(t, target.want, got.Status)

			// Terminal: no admite más transiciones ni borrado.
			assert.ErrorIs(t, f.uc.MarkInTransit(ctx, purchase.ID), domain.ErrInvalidState)
			assert.ErrorIs(t, f.uc.Delete(ctx, purchase.ID), domain.ErrInvalidState)
		})
	}
}

func TestDelete_Reglas(t *testing.T) {
	f := newPurchaseFixture(t)
	m := f.newMaterial(t, "Resina PET")
	ctx := context.Background()

	purchase, err := f.uc.Create(ctx, purchasing.CreatePurchaseInput{
		SupplierID: f.supplierID,
		Lines:      []purchasing.LineInput{line(m, 10, 1)},
	})
	require.NoError(t, err)
	require.NoError(t, f.uc.Delete(ctx, purchase.ID))
	_, err = f.uc.Get(ctx, purchase.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Una compra recibida jamás se borra.
	received, err := f.uc.Create(ctx, purchasing.CreatePurchaseInput{
		SupplierID: f.supplierID,
		Lines:      []purchasing.LineInput{line(m, 10, 1)},
	})
	require.NoError(t, err)
	require.NoError(t, f.uc.MarkOrdered(ctx, received.ID))
	require.NoError(t, f.uc.MarkInTransit(ctx, received.ID))
	require.NoError(t, f.uc.Receive(ctx, received.ID, "tester"))
	assert.ErrorIs(t, f.uc.Delete(ctx, received.ID), domain.ErrInvalidState)
}

// Las entradas de origen purchase no se reversan por la vía de usuario; una
// devolución se modela como salida manual, sin tocar el estado de la compra.
func TestReceive_EntradasInmutables(t *testing.T) {
	f := newPurchaseFixture(t)
	m := f.newMaterial(t, "Resina PET")
	ctx := context.Background()

	purchase, err := f.uc.Create(ctx, purchasing.CreatePurchaseInput{
		SupplierID: f.supplierID,
		Lines:      []purchasing.LineInput{line(m, 100, 3)},
	})
	require.NoError(t, err)
	require.NoError(t, f.uc.MarkOrdered(ctx, purchase.ID))
	require.NoError(t, f.uc.MarkInTransit(ctx, purchase.ID))
	require.NoError(t, f.uc.Receive(ctx, purchase.ID, "tester"))

	movs, err := f.store.Repos().Movements.ListByRef(entity.RefPurchaseOrder, purchase.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)

	_, err = f.ledgerUC.Reverse(ctx, movs[0].ID, "tester")
	assert.ErrorIs(t, err, domain.ErrImmutableOrigin)

	// La devolución va como salida manual.
	_, err = f.ledgerUC.RegisterManual(ctx, ledger.ManualMovementInput{
		SubjectType: entity.SubjectMaterial,
		SubjectID:   m,
		Direction:   entity.DirectionOut,
		Quantity:    decimal.NewFromInt(100),
		Reason:      "devolución al proveedor",
		UserID:      "tester",
	})
	require.NoError(t, err)
	assert.True(t, f.stockOf(t, m).IsZero())

	got, err := f.uc.Get(ctx, purchase.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseReceived, got.Status, "la devolución no retrocede la compra")

	res, err := f.ledgerUC.Reconcile(ctx, entity.SubjectMaterial, m)
	require.NoError(t, err)
	assert.True(t, res.Consistent)
}
