package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/abplast/estoque-api/internal/domain/entity"
	"github.com/abplast/estoque-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, product_id, direction, quantity, unit_cost, reason, occurred_at, created_at, created_by`

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Append-only: no hay UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un asiento del libro.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, direction, quantity, unit_cost, reason, occurred_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, movement.Direction, movement.Quantity,
		movement.UnitCost, nullable(movement.Reason),
		movement.OccurredAt, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	var unitCost *decimal.Decimal
	var reason *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.Direction, &m.Quantity, &unitCost, &reason,
		&m.OccurredAt, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	m.UnitCost = unitCost
	if reason != nil {
		m.Reason = *reason
	}
	return &m, nil
}

// List lista movimientos, opcionalmente filtrados por dirección y rango de
// fechas, más recientes primero.
func (r *StockMovementRepo) List(direction string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	args := []any{}
	pos := 1
	if direction != "" {
		query += fmt.Sprintf(" AND direction = $%d", pos)
		args = append(args, direction)
		pos++
	}
	if from != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND occurred_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByProduct lista los movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements WHERE product_id = $1
		ORDER BY occurred_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var unitCost *decimal.Decimal
		var reason *string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Direction, &m.Quantity, &unitCost, &reason,
			&m.OccurredAt, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.UnitCost = unitCost
		if reason != nil {
			m.Reason = *reason
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
