package catalog_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/induplast/produccion-api/internal/application/catalog"
	"github.com/induplast/produccion-api/internal/application/ledger"
	"github.com/induplast/produccion-api/internal/domain"
	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type catalogFixture struct {
	store    *memory.Store
	mats     *catalog.MaterialUseCase
	prods    *catalog.ProductUseCase
	ledgerUC *ledger.MovementUseCase
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	return &catalogFixture{
		store:    store,
		mats:     catalog.NewMaterialUseCase(repos.Materials, repos.Movements),
		prods:    catalog.NewProductUseCase(repos.Products),
		ledgerUC: ledger.NewMovementUseCase(store.TxRunner(), repos.Movements, repos.Materials, repos.Products),
	}
}

func (f *catalogFixture) newMaterial(t *testing.T, name string, minStock int64) *entity.Material {
	t.Helper()
	m, err := f.mats.Create(context.Background(), catalog.MaterialInput{
		Code:     "MAT-" + name,
		Name:     name,
		Type:     "materia_prima",
		Unit:     "kg",
		MinStock: decimal.NewFromInt(minStock),
	})
	require.NoError(t, err)
	return m
}

func (f *catalogFixture) seedStock(t *testing.T, materialID string, qty int64) {
	t.Helper()
	_, err := f.ledgerUC.RegisterManual(context.Background(), ledger.ManualMovementInput{
		SubjectType: entity.SubjectMaterial,
		SubjectID:   materialID,
		Direction:   entity.DirectionIn,
		Quantity:    decimal.NewFromInt(qty),
		Reason:      "carga inicial",
		UserID:      "tester",
	})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD de materiales
// ──────────────────────────────────────────────────────────────────────────────

func TestMaterialCreate_Validaciones(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.mats.Create(context.Background(), catalog.MaterialInput{Unit: "kg"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "material sin nombre debe rechazarse")

	_, err = f.mats.Create(context.Background(), catalog.MaterialInput{Name: "Resina"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "material sin unidad debe rechazarse")

	m := f.newMaterial(t, "Resina PET", 0)
	assert.True(t, m.Active, "el material nace activo")
	assert.NotEmpty(t, m.ID)
}

func TestMaterialUpdate_NoExiste(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.mats.Update(context.Background(), "no-existe", catalog.MaterialInput{
		Name: "Algo", Unit: "kg",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrar vs desactivar
// ──────────────────────────────────────────────────────────────────────────────

// Un material sin historia en el libro se puede borrar; uno con movimientos
// no: la salida correcta es desactivarlo y conservar el kardex.
func TestMaterialDelete_ReferenciadoDevuelveInUse(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	libre := f.newMaterial(t, "Pigmento Azul", 0)
	usado := f.newMaterial(t, "Resina PET", 0)
	f.seedStock(t, usado.ID, 100)

	require.NoError(t, f.mats.Delete(ctx, libre.ID), "material sin referencias debe poder borrarse")
	_, err := f.mats.Get(ctx, libre.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.mats.Delete(ctx, usado.ID)
	assert.ErrorIs(t, err, domain.ErrInUse, "material con movimientos no puede borrarse")

	// Deactivate sí procede, y la historia queda intacta.
	require.NoError(t, f.mats.Deactivate(ctx, usado.ID))
	m, err := f.mats.Get(ctx, usado.ID)
	require.NoError(t, err)
	assert.False(t, m.Active)

	stock, err := f.ledgerUC.CurrentStock(ctx, entity.SubjectMaterial, usado.ID)
	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(100)), "desactivar no toca el libro")
}

func TestProductDelete_ReferenciadoDevuelveInUse(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	p, err := f.prods.Create(ctx, catalog.ProductInput{
		Code: "PRD-1", Name: "Botella 500ml", Type: "terminado", Unit: "un",
	})
	require.NoError(t, err)

	_, err = f.ledgerUC.RegisterManual(ctx, ledger.ManualMovementInput{
		SubjectType: entity.SubjectProduct,
		SubjectID:   p.ID,
		Direction:   entity.DirectionIn,
		Quantity:    decimal.NewFromInt(10),
		Reason:      "conteo físico",
		UserID:      "tester",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.prods.Delete(ctx, p.ID), domain.ErrInUse)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock bajo mínimo
// ──────────────────────────────────────────────────────────────────────────────

func TestLowStock_SoloActivosBajoMinimo(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	bajo := f.newMaterial(t, "Resina PET", 50)
	f.seedStock(t, bajo.ID, 20)

	sobrado := f.newMaterial(t, "Pigmento Azul", 10)
	f.seedStock(t, sobrado.ID, 30)

	// Sin mínimo configurado: nunca aparece aunque esté en cero.
	f.newMaterial(t, "Tapa Rosca", 0)

	items, err := f.mats.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1, "solo el material bajo mínimo debe listarse")
	assert.Equal(t, bajo.ID, items[0].Material.ID)
	assert.True(t, items[0].Current.Equal(decimal.NewFromInt(20)))
	assert.True(t, items[0].Missing.Equal(decimal.NewFromInt(30)), "faltante = mínimo - actual")
}

func TestLowStock_IgnoraDesactivados(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	m := f.newMaterial(t, "Resina PET", 50)
	f.seedStock(t, m.ID, 5)
	require.NoError(t, f.mats.Deactivate(ctx, m.ID))

	items, err := f.mats.LowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "material desactivado no alimenta compras")
}
