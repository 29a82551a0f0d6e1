package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/induplast/produccion-api/internal/application/ledger"
	"github.com/induplast/produccion-api/internal/application/production"
	"github.com/induplast/produccion-api/internal/domain"
	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
	"github.com/induplast/produccion-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type orderFixture struct {
	store     *memory.Store
	ledgerUC  *ledger.MovementUseCase
	orderUC   *production.OrderUseCase
	productID string
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()

	productID := uuid.New().String()
	require.NoError(t, repos.Products.Create(&entity.Product{
		ID: productID, Name: "Botella 500ml", Unit: "un", Active: true,
	}))

	ledgerUC := ledger.NewMovementUseCase(store.TxRunner(), repos.Movements, repos.Materials, repos.Products)
	orderUC := production.NewOrderUseCase(
		store.TxRunner(), repos.Orders, repos.Records, repos.Requirements,
		repos.Products, store.Clients(), repos.Materials,
	)
	return &orderFixture{store: store, ledgerUC: ledgerUC, orderUC: orderUC, productID: productID}
}

// newMaterial crea un material activo con el stock inicial dado (vía libro).
func (f *orderFixture) newMaterial(t *testing.T, name string, initialStock int64) string {
	t.Helper()
	id := uuid.New().String()
	require.NoError(t, f.store.Repos().Materials.Create(&entity.Material{
		ID: id, Name: name, Unit: "kg", Active: true,
	}))
	if initialStock > 0 {
		_, err := f.ledgerUC.RegisterManual(context.Background(), ledger.ManualMovementInput{
			SubjectType: entity.SubjectMaterial,
			SubjectID:   id,
			Direction:   entity.DirectionIn,
			Quantity:    decimal.NewFromInt(initialStock),
			Reason:      "stock inicial",
			UserID:      "tester",
		})
		require.NoError(t, err)
	}
	return id
}

func (f *orderFixture) newOrder(t *testing.T, target int64, reqs ...production.RequirementInput) *entity.ProductionOrder {
	t.Helper()
	order, err := f.orderUC.Create(context.Background(), production.CreateOrderInput{
		ProductID:     f.productID,
		Quantity:      decimal.NewFromInt(target),
		ScheduledDate: time.Now().AddDate(0, 0, 1),
		Requirements:  reqs,
	})
	require.NoError(t, err)
	return order
}

func (f *orderFixture) stockOf(t *testing.T, subjectType entity.SubjectType, id string) decimal.Decimal {
	t.Helper()
	s, err := f.ledgerUC.CurrentStock(context.Background(), subjectType, id)
	require.NoError(t, err)
	return s
}

func req(materialID string, qty int64) production.RequirementInput {
	return production.RequirementInput{MaterialID: materialID, Quantity: decimal.NewFromInt(qty)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación y edición
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_SinRequerimientos(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.orderUC.Create(context.Background(), production.CreateOrderInput{
		ProductID: f.productID,
		Quantity:  decimal.NewFromInt(10),
	})
	assert.ErrorIs(t, err, domain.ErrEmptyRequirements)
}

func TestCreate_Pending(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 100)

	order := f.newOrder(t, 50, req(m, 30))
	assert.Equal(t, entity.OrderPending, order.Status)
	assert.Contains(t, order.Code, "OP-")
	assert.Len(t, order.Requirements, 1)
}

func TestEdit_SoloPending(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 100)
	order := f.newOrder(t, 50, req(m, 30))

	// En pending el set de requerimientos se reemplaza completo.
	edited, err := f.orderUC.Edit(context.Background(), order.ID, production.EditOrderInput{
		ProductID:     f.productID,
		Quantity:      decimal.NewFromInt(60),
		ScheduledDate: time.Now().AddDate(0, 0, 2),
		Requirements:  []production.RequirementInput{req(m, 45)},
	})
	require.NoError(t, err)
	assert.True(t, edited.Quantity.Equal(decimal.NewFromInt(60)))
	require.Len(t, edited.Requirements, 1)
	assert.True(t, edited.Requirements[0].Quantity.Equal(decimal.NewFromInt(45)))

	require.NoError(t, f.orderUC.Start(context.Background(), order.ID, "tester"))
	_, err = f.orderUC.Edit(context.Background(), order.ID, production.EditOrderInput{
		ProductID:    f.productID,
		Quantity:     decimal.NewFromInt(70),
		Requirements: []production.RequirementInput{req(m, 10)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Start: descuento atómico de materiales
// ──────────────────────────────────────────────────────────────────────────────

func TestStart_DescuentaMateriales(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 100)
	order := f.newOrder(t, 50, req(m, 30))

	require.NoError(t, f.orderUC.Start(context.Background(), order.ID, "tester"))

	assert.True(t, f.stockOf(t, entity.SubjectMaterial, m).Equal(decimal.NewFromInt(70)))

	detail, err := f.orderUC.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStarted, detail.Order.Status)
	require.NotNil(t, detail.Order.StartedAt)

	movs, err := f.store.Repos().Movements.ListByRef(entity.RefProductionOrder, order.ID)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.OriginAutomatic, movs[0].Origin)
	assert.Equal(t, entity.DirectionOut, movs[0].Direction)
}

// Si un solo material no alcanza, la transición completa falla y NO se
// descuenta nada (todo-o-nada).
func TestStart_TodoONada(t *testing.T) {
	f := newOrderFixture(t)
	mOK := f.newMaterial(t, "Resina", 100)
	mShort := f.newMaterial(t, "Pigmento", 5)
	order := f.newOrder(t, 50, req(mOK, 30), req(mShort, 10))

	err := f.orderUC.Start(context.Background(), order.ID, "tester")
	require.Error(t, err)

	var insufficient *domain.InsufficientMaterialError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, mShort, insufficient.MaterialID)
	assert.True(t, insufficient.Missing().Equal(decimal.NewFromInt(5)))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Cero movimientos nuevos, cero descuentos.
	assert.True(t, f.stockOf(t, entity.SubjectMaterial, mOK).Equal(decimal.NewFromInt(100)))
	assert.True(t, f.stockOf(t, entity.SubjectMaterial, mShort).Equal(decimal.NewFromInt(5)))
	movs, err := f.store.Repos().Movements.ListByRef(entity.RefProductionOrder, order.ID)
	require.NoError(t, err)
	assert.Empty(t, movs)

	detail, err := f.orderUC.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderPending, detail.Order.Status, "la orden sigue en pending")
}

func TestStart_DobleStart(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 100)
	order := f.newOrder(t, 50, req(m, 30))

	require.NoError(t, f.orderUC.Start(context.Background(), order.ID, "tester"))
	err := f.orderUC.Start(context.Background(), order.ID, "tester")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.True(t, f.stockOf(t, entity.SubjectMaterial, m).Equal(decimal.NewFromInt(70)),
		"el segundo start no descuenta otra vez")
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de producción: escenario del diseño
// M=100, la orden requiere 30, objetivo 50
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterProduction_EscenarioCompleto(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 100)
	order := f.newOrder(t, 50, req(m, 30))
	ctx := context.Background()

	require.NoError(t, f.orderUC.Start(ctx, order.ID, "tester"))
	assert.True(t, f.stockOf(t, entity.SubjectMaterial, m).Equal(decimal.NewFromInt(70)))

	// 20/50
	rec, err := f.orderUC.RegisterProduction(ctx, production.RegisterProductionInput{
		OrderID: order.ID, Quantity: decimal.NewFromInt(20), UserID: "tester",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.MovementID, "cada registro queda emparejado con su movimiento")
	assert.True(t, f.stockOf(t, entity.SubjectProduct, f.productID).Equal(decimal.NewFromInt(20)))

	// 20+40 > 50: rechazado con detalle.
	_, err = f.orderUC.RegisterProduction(ctx, production.RegisterProductionInput{
		OrderID: order.ID, Quantity: decimal.NewFromInt(40), UserID: "tester",
	})
	var exceeds *domain.ExceedsTargetError
	require.ErrorAs(t, err, &exceeds)
	assert.True(t, exceeds.Produced.Equal(decimal.NewFromInt(20)))
	assert.True(t, exceeds.Target.Equal(decimal.NewFromInt(50)))

	// 20+30 = 50: aceptado, progreso completo.
	_, err = f.orderUC.RegisterProduction(ctx, production.RegisterProductionInput{
		OrderID: order.ID, Quantity: decimal.NewFromInt(30), UserID: "tester",
	})
	require.NoError(t, err)

	detail, err := f.orderUC.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, detail.Produced.Equal(decimal.NewFromInt(50)))

	// Terminar y verificar que la orden queda congelada.
	require.NoError(t, f.orderUC.Finish(ctx, order.ID))
	_, err = f.orderUC.RegisterProduction(ctx, production.RegisterProductionInput{
		OrderID: order.ID, Quantity: decimal.NewFromInt(1), UserID: "tester",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	// Propiedad de reconstrucción: el libro de ambos sujetos se re-suma exacto.
	for _, check := range []struct {
		st entity.SubjectType
		id string
	}{{entity.SubjectMaterial, m}, {entity.SubjectProduct, f.productID}} {
		res, err := f.ledgerUC.Reconcile(ctx, check.st, check.id)
		require.NoError(t, err)
		assert.True(t, res.Consistent, "libro inconsistente para %s", check.id)
	}
}

func TestRegisterProduction_SoloStarted(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 100)
	order := f.newOrder(t, 50, req(m, 30))

	_, err := f.orderUC.RegisterProduction(context.Background(), production.RegisterProductionInput{
		OrderID: order.ID, Quantity: decimal.NewFromInt(10), UserID: "tester",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición y borrado de registros: reversar + reaplicar
// ──────────────────────────────────────────────────────────────────────────────

func TestEditRecord_RecalculaStock(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 100)
	order := f.newOrder(t, 50, req(m, 30))
	ctx := context.Background()

	require.NoError(t, f.orderUC.Start(ctx, order.ID, "tester"))
	rec, err := f.orderUC.RegisterProduction(ctx, production.RegisterProductionInput{
		OrderID: order.ID, Quantity: decimal.NewFromInt(20), UserID: "tester",
	})
	require.NoError(t, err)

	edited, err := f.orderUC.EditRecord(ctx, rec.ID, decimal.NewFromInt(35), "tester")
	require.NoError(t, err)
	assert.True(t, edited.Quantity.Equal(decimal.NewFromInt(35)))
	assert.NotEqual(t, rec.MovementID, edited.MovementID, "el registro queda emparejado al movimiento nuevo")
	assert.True(t, f.stockOf(t, entity.SubjectProduct, f.productID).Equal(decimal.NewFromInt(35)))

	res, err := f.ledgerUC.Reconcile(ctx, entity.SubjectProduct, f.productID)
	require.NoError(t, err)
	assert.True(t, res.Consistent)
}

func TestEditRecord_NoSuperaObjetivo(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 100)
	order := f.newOrder(t, 50, req(m, 30))
	ctx := context.Background()

	require.NoError(t, f.orderUC.Start(ctx, order.ID, "tester"))
	rec, err := f.orderUC.RegisterProduction(ctx, production.RegisterProductionInput{
		OrderID: order.ID, Quantity: decimal.NewFromInt(20), UserID: "tester",
	})
	require.NoError(t, err)
	_, err = f.orderUC.RegisterProduction(ctx, production.RegisterProductionInput{
		OrderID: order.ID, Quantity: decimal.NewFromInt(25), UserID: "tester",
	})
	require.NoError(t, err)

	// 25 + 30 > 50
	_, err = f.orderUC.EditRecord(ctx, rec.ID, decimal.NewFromInt(30), "tester")
	assert.ErrorIs(t, err, domain.ErrExceedsTarget)
	assert.True(t, f.stockOf(t, entity.SubjectProduct, f.productID).Equal(decimal.NewFromInt(45)),
		"el rechazo no toca el stock del producto")
}

func TestEditRecord_OrdenTerminada(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 100)
	order := f.newOrder(t, 50, req(m, 30))
	ctx := context.Background()

	require.NoError(t, f.orderUC.Start(ctx, order.ID, "tester"))
	rec, err := f.orderUC.RegisterProduction(ctx, production.RegisterProductionInput{
		OrderID: order.ID, Quantity: decimal.NewFromInt(20), UserID: "tester",
	})
	require.NoError(t, err)
	require.NoError(t, f.orderUC.Finish(ctx, order.ID))

	_, err = f.orderUC.EditRecord(ctx, rec.ID, decimal.NewFromInt(10), "tester")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	err = f.orderUC.DeleteRecord(ctx, rec.ID, "tester")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDeleteRecord_CompensaElMovimiento(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 100)
	order := f.newOrder(t, 50, req(m, 30))
	ctx := context.Background()

	require.NoError(t, f.orderUC.Start(ctx, order.ID, "tester"))
	rec, err := f.orderUC.RegisterProduction(ctx, production.RegisterProductionInput{
		OrderID: order.ID, Quantity: decimal.NewFromInt(20), UserID: "tester",
	})
	require.NoError(t, err)

	require.NoError(t, f.orderUC.DeleteRecord(ctx, rec.ID, "tester"))
	assert.True(t, f.stockOf(t, entity.SubjectProduct, f.productID).IsZero())

	detail, err := f.orderUC.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Records)
	assert.True(t, detail.Produced.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones inválidas y borrado de órdenes
// ──────────────────────────────────────────────────────────────────────────────

func TestFinish_SoloDesdeStarted(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 100)
	order := f.newOrder(t, 50, req(m, 30))

	err := f.orderUC.Finish(context.Background(), order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "pending → finished salta un estado")
}

func TestDelete_Reglas(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 100)
	ctx := context.Background()

	// pending sin registros: borrable.
	order := f.newOrder(t, 50, req(m, 10))
	require.NoError(t, f.orderUC.Delete(ctx, order.ID))
	_, err := f.orderUC.Get(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// started: no borrable.
	order2 := f.newOrder(t, 50, req(m, 10))
	require.NoError(t, f.orderUC.Start(ctx, order2.ID, "tester"))
	assert.ErrorIs(t, f.orderUC.Delete(ctx, order2.ID), domain.ErrInvalidState)

	// con producción registrada: HasProduction.
	_, err = f.orderUC.RegisterProduction(ctx, production.RegisterProductionInput{
		OrderID: order2.ID, Quantity: decimal.NewFromInt(5), UserID: "tester",
	})
	require.NoError(t, err)
	assert.ErrorIs(t, f.orderUC.Delete(ctx, order2.ID), domain.ErrHasProduction)
}

// La no-negatividad vale para cualquier secuencia de operaciones válidas.
func TestNoNegatividad_TrasSecuencia(t *testing.T) {
	f := newOrderFixture(t)
	m := f.newMaterial(t, "Resina", 40)
	ctx := context.Background()

	order := f.newOrder(t, 10, req(m, 40))
	require.NoError(t, f.orderUC.Start(ctx, order.ID, "tester"))

	// Stock del material quedó en 0; otra orden sobre el mismo material no inicia.
	order2 := f.newOrder(t, 10, req(m, 1))
	err := f.orderUC.Start(ctx, order2.ID, "tester")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.stockOf(t, entity.SubjectMaterial, m).IsZero())

	var hist []*entity.StockMovement
	hist, err = f.store.Repos().Movements.List(repository.MovementFilter{
		SubjectType: entity.SubjectMaterial, SubjectID: m, Limit: 50,
	})
	require.NoError(t, err)
	for _, mov := range hist {
		assert.False(t, mov.ResultingStock.IsNegative(), "ninguna fila del libro es negativa")
	}
}
