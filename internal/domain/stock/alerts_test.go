package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abplast/estoque-api/internal/domain/entity"
	"github.com/abplast/estoque-api/internal/domain/stock"
)

func produto(id, name, supplierID string, qty int64) *entity.Product {
	return &entity.Product{ID: id, Name: name, SupplierID: supplierID, Quantity: qty}
}

// Caso base: solo los productos bajo el umbral aparecen, agrupados por proveedor.
func TestGroupLowStock_AgrupaPorProveedor(t *testing.T) {
	products := []*entity.Product{
		produto("p1", "Parafuso", "forn-a", 2),
		produto("p2", "Porca", "forn-a", 8),
		produto("p3", "Arruela", "forn-b", 1),
	}

	groups := stock.GroupLowStock(products, 5)

	require.Len(t, groups, 2, "solo los proveedores con productos bajo el umbral deben aparecer")
	require.Len(t, groups["forn-a"], 1)
	assert.Equal(t, "p1", groups["forn-a"][0].ID, "p2 tiene 8 unidades y no debe alertar")
	require.Len(t, groups["forn-b"], 1)
	assert.Equal(t, "p3", groups["forn-b"][0].ID)
}

// Productos sin proveedor van al grupo "unassigned", nunca se descartan.
func TestGroupLowStock_SinProveedorVaAUnassigned(t *testing.T) {
	products := []*entity.Product{
		produto("p1", "Cola", "", 0),
		produto("p2", "Fita", "forn-a", 3),
	}

	groups := stock.GroupLowStock(products, 5)

	require.Contains(t, groups, stock.SupplierUnassigned)
	require.Len(t, groups[stock.SupplierUnassigned], 1)
	assert.Equal(t, "p1", groups[stock.SupplierUnassigned][0].ID)
}

// Orden dentro del grupo: cantidad ascendente, nombre como desempate.
func TestGroupLowStock_OrdenDeterminista(t *testing.T) {
	products := []*entity.Product{
		produto("p1", "Zinco", "forn-a", 3),
		produto("p2", "Aço", "forn-a", 1),
		produto("p3", "Bronze", "forn-a", 3),
	}

	groups := stock.GroupLowStock(products, 5)

	require.Len(t, groups["forn-a"], 3)
	assert.Equal(t, []string{"p2", "p3", "p1"}, []string{
		groups["forn-a"][0].ID, groups["forn-a"][1].ID, groups["forn-a"][2].ID,
	})
}

// Entrada vacía o sin alertas: mapa vacío, nunca error ni nil panics.
func TestGroupLowStock_EntradaVacia(t *testing.T) {
	assert.Empty(t, stock.GroupLowStock(nil, 5))
	assert.Empty(t, stock.GroupLowStock([]*entity.Product{produto("p1", "Tinta", "forn-a", 10)}, 5))
}

// El umbral es estricto: quantity == threshold no alerta.
func TestGroupLowStock_UmbralEstricto(t *testing.T) {
	groups := stock.GroupLowStock([]*entity.Product{produto("p1", "Lixa", "forn-a", 5)}, 5)
	assert.Empty(t, groups)
}
