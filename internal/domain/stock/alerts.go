package stock

import (
	"sort"

	"github.com/abplast/estoque-api/internal/domain/entity"
)

// DefaultLowStockThreshold es el umbral de alerta heredado del negocio:
// menos de 5 unidades en existencia.
const DefaultLowStockThreshold int64 = 5

// SupplierUnassigned es la clave del grupo para productos cuyo proveedor
// no se puede resolver. Nunca se descartan productos: todo lo que queda
// bajo el umbral aparece en algún grupo.
const SupplierUnassigned = "unassigned"

// GroupLowStock filtra los productos con Quantity < threshold y los agrupa
// por SupplierID. Los productos sin proveedor caen en SupplierUnassigned.
// Dentro de cada grupo el orden es determinista: cantidad ascendente
// (lo más crítico primero) y nombre como desempate.
// Entrada vacía o sin productos bajo el umbral devuelve un mapa vacío,
// nunca un error.
func GroupLowStock(products []*entity.Product, threshold int64) map[string][]*entity.Product {
	groups := make(map[string][]*entity.Product)
	for _, p := range products {
		if p == nil || p.Quantity >= threshold {
			continue
		}
		key := p.SupplierID
		if key == "" {
			key = SupplierUnassigned
		}
		groups[key] = append(groups[key], p)
	}
	for _, list := range groups {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Quantity != list[j].Quantity {
				return list[i].Quantity < list[j].Quantity
			}
			return list[i].Name < list[j].Name
		})
	}
	return groups
}
