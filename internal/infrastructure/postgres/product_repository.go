package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/abplast/estoque-api/internal/domain"
	"github.com/abplast/estoque-api/internal/domain/entity"
	"github.com/abplast/estoque-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, barcode, description, price, quantity, category_id, supplier_id, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. La cantidad inicial siempre es 0.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, barcode, description, price, quantity, category_id, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, nullable(product.Barcode), product.Description,
		product.Price, product.Quantity, product.CategoryID, nullable(product.SupplierID),
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(query, id)
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE).
// Dentro de una transacción, serializa los movimientos sobre el mismo producto.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(query, id)
}

// Update actualiza los datos descriptivos. Nunca toca quantity (se maneja vía movimientos).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, barcode = $3, description = $4, price = $5, category_id = $6, supplier_id = $7, updated_at = $8
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, nullable(product.Barcode), product.Description,
		product.Price, product.CategoryID, nullable(product.SupplierID), product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// UpdateQuantity fija la cantidad en existencia (usado por el motor de movimientos
// bajo la fila bloqueada). El CHECK quantity >= 0 de la tabla respalda el invariante.
func (r *ProductRepo) UpdateQuantity(productID string, quantity int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`,
		productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update product quantity: %w", err)
	}
	return nil
}

// List lista productos con paginación.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListBelowQuantity devuelve los productos con existencia bajo el umbral.
func (r *ProductRepo) ListBelowQuantity(threshold int64) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE quantity < $1 ORDER BY quantity, name`
	rows, err := r.q.Query(context.Background(), query, threshold)
	if err != nil {
		return nil, fmt.Errorf("list products below quantity: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepo) scanOne(query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	var barcode, supplierID *string
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&p.ID, &p.Name, &barcode, &p.Description, &p.Price, &p.Quantity,
		&p.CategoryID, &supplierID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if barcode != nil {
		p.Barcode = *barcode
	}
	if supplierID != nil {
		p.SupplierID = *supplierID
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		var barcode, supplierID *string
		if err := rows.Scan(&p.ID, &p.Name, &barcode, &p.Description, &p.Price, &p.Quantity,
			&p.CategoryID, &supplierID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if barcode != nil {
			p.Barcode = *barcode
		}
		if supplierID != nil {
			p.SupplierID = *supplierID
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// nullable convierte string vacío a NULL para columnas opcionales con unique.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
