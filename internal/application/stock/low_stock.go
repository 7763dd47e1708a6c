package stock

import (
	"context"
	"sort"

	"github.com/abplast/estoque-api/internal/application/dto"
	"github.com/abplast/estoque-api/internal/domain/entity"
	"github.com/abplast/estoque-api/internal/domain/repository"
	domstock "github.com/abplast/estoque-api/internal/domain/stock"
)

// LowStockUseCase computa las alertas de stock bajo agrupadas por proveedor.
// Consulta de solo lectura: nunca muta estado y nunca falla por datos que
// no puede clasificar (esos caen en el grupo "unassigned").
type LowStockUseCase struct {
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(productRepo repository.ProductRepository, supplierRepo repository.SupplierRepository) *LowStockUseCase {
	return &LowStockUseCase{productRepo: productRepo, supplierRepo: supplierRepo}
}

// ComputeAlerts devuelve los grupos de alerta para productos con existencia
// bajo el umbral (threshold <= 0 aplica el umbral por defecto de 5).
// Productos sin proveedor, o con un proveedor que ya no existe, van al grupo
// "unassigned": nada se descarta. Los grupos vienen ordenados por nombre de
// proveedor con "unassigned" al final; dentro de cada grupo el orden es
// cantidad ascendente con nombre como desempate.
func (uc *LowStockUseCase) ComputeAlerts(ctx context.Context, threshold int64) ([]dto.LowStockGroupDTO, error) {
	if threshold <= 0 {
		threshold = domstock.DefaultLowStockThreshold
	}

	products, err := uc.productRepo.ListBelowQuantity(threshold)
	if err != nil {
		return nil, err
	}
	groups := domstock.GroupLowStock(products, threshold)
	if len(groups) == 0 {
		return []dto.LowStockGroupDTO{}, nil
	}

	// Resolver nombres; los grupos con proveedor no resoluble se funden en "unassigned".
	names := make(map[string]string, len(groups))
	unassigned := groups[domstock.SupplierUnassigned]
	delete(groups, domstock.SupplierUnassigned)
	for supplierID, list := range groups {
		supplier, err := uc.supplierRepo.GetByID(supplierID)
		if err != nil || supplier == nil {
			unassigned = append(unassigned, list...)
			delete(groups, supplierID)
			continue
		}
		names[supplierID] = supplier.Name
	}
	if len(unassigned) > 0 {
		sortByCriticality(unassigned)
		groups[domstock.SupplierUnassigned] = unassigned
	}

	result := make([]dto.LowStockGroupDTO, 0, len(groups))
	for supplierID, list := range groups {
		group := dto.LowStockGroupDTO{
			SupplierID:   supplierID,
			SupplierName: names[supplierID],
			Products:     make([]dto.LowStockProductDTO, 0, len(list)),
		}
		for _, p := range list {
			group.Products = append(group.Products, dto.LowStockProductDTO{
				ID: p.ID, Name: p.Name, Quantity: p.Quantity,
			})
		}
		result = append(result, group)
	}

	sort.SliceStable(result, func(i, j int) bool {
		// "unassigned" siempre al final
		if result[i].SupplierID == domstock.SupplierUnassigned {
			return false
		}
		if result[j].SupplierID == domstock.SupplierUnassigned {
			return true
		}
		if result[i].SupplierName != result[j].SupplierName {
			return result[i].SupplierName < result[j].SupplierName
		}
		return result[i].SupplierID < result[j].SupplierID
	})
	return result, nil
}

func sortByCriticality(list []*entity.Product) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Quantity != list[j].Quantity {
			return list[i].Quantity < list[j].Quantity
		}
		return list[i].Name < list[j].Name
	})
}
