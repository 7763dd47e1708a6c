package stock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abplast/estoque-api/internal/application/stock"
	"github.com/abplast/estoque-api/internal/domain/entity"
	domstock "github.com/abplast/estoque-api/internal/domain/stock"
)

// fakeProductQuery implementa solo lo que LowStockUseCase consulta.
type fakeProductQuery struct {
	memProductRepo // métodos no usados heredan "no implementado"
	products       []*entity.Product
}

func (r *fakeProductQuery) ListBelowQuantity(threshold int64) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.Quantity < threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

func (r *fakeSupplierRepo) Create(s *entity.Supplier) error { return errors.New("no implementado") }
func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	return r.suppliers[id], nil
}
func (r *fakeSupplierRepo) List(limit, offset int) ([]*entity.Supplier, error) { return nil, nil }
func (r *fakeSupplierRepo) Delete(id string) error                             { return errors.New("no implementado") }

func lowStockFixture(products ...*entity.Product) *stock.LowStockUseCase {
	return stock.NewLowStockUseCase(
		&fakeProductQuery{products: products},
		&fakeSupplierRepo{suppliers: map[string]*entity.Supplier{
			"forn-a": {ID: "forn-a", Name: "Catarinense"},
			"forn-b": {ID: "forn-b", Name: "ABPlast"},
		}},
	)
}

// Escenario de referencia: [{A qty 2}, {A qty 8}, {B qty 1}], umbral 5 →
// A alerta solo el de 2 unidades, B el de 1.
func TestComputeAlerts_AgrupaPorProveedor(t *testing.T) {
	uc := lowStockFixture(
		&entity.Product{ID: "p1", Name: "Parafuso", SupplierID: "forn-a", Quantity: 2},
		&entity.Product{ID: "p2", Name: "Porca", SupplierID: "forn-a", Quantity: 8},
		&entity.Product{ID: "p3", Name: "Arruela", SupplierID: "forn-b", Quantity: 1},
	)

	groups, err := uc.ComputeAlerts(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, groups, 2)
	// Orden por nombre de proveedor: ABPlast antes que Catarinense.
	assert.Equal(t, "ABPlast", groups[0].SupplierName)
	require.Len(t, groups[0].Products, 1)
	assert.Equal(t, "p3", groups[0].Products[0].ID)

	assert.Equal(t, "Catarinense", groups[1].SupplierName)
	require.Len(t, groups[1].Products, 1)
	assert.Equal(t, "p1", groups[1].Products[0].ID)
}

// Productos sin proveedor, o con proveedor que ya no existe, van al grupo
// "unassigned" al final; nada se descarta.
func TestComputeAlerts_ProveedorNoResoluble(t *testing.T) {
	uc := lowStockFixture(
		&entity.Product{ID: "p1", Name: "Cola", SupplierID: "", Quantity: 2},
		&entity.Product{ID: "p2", Name: "Fita", SupplierID: "forn-x", Quantity: 1}, // borrado
		&entity.Product{ID: "p3", Name: "Lixa", SupplierID: "forn-a", Quantity: 3},
	)

	groups, err := uc.ComputeAlerts(context.Background(), 5)

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Catarinense", groups[0].SupplierName)

	last := groups[len(groups)-1]
	assert.Equal(t, domstock.SupplierUnassigned, last.SupplierID)
	require.Len(t, last.Products, 2)
	// Cantidad ascendente dentro del grupo fundido.
	assert.Equal(t, "p2", last.Products[0].ID)
	assert.Equal(t, "p1", last.Products[1].ID)
}

// Sin productos bajo el umbral: lista vacía, nunca error.
func TestComputeAlerts_SinAlertas(t *testing.T) {
	uc := lowStockFixture(
		&entity.Product{ID: "p1", Name: "Parafuso", SupplierID: "forn-a", Quantity: 50},
	)

	groups, err := uc.ComputeAlerts(context.Background(), 5)

	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.NotNil(t, groups, "debe devolver lista vacía, no nil")
}

// threshold <= 0 aplica el umbral por defecto (5).
func TestComputeAlerts_UmbralPorDefecto(t *testing.T) {
	uc := lowStockFixture(
		&entity.Product{ID: "p1", Name: "Parafuso", SupplierID: "forn-a", Quantity: 4},
	)

	groups, err := uc.ComputeAlerts(context.Background(), 0)

	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "p1", groups[0].Products[0].ID)
}
