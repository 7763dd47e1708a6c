package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrProductNotFound    = errors.New("producto no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInsufficientStock  = errors.New("stock insuficiente")
	ErrInvalidMovement    = errors.New("movimiento inválido")
)

// ProductNotFoundError indica que el producto referenciado no existe.
// errors.Is(err, ErrProductNotFound) == true.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("producto %s no encontrado", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return ErrProductNotFound }

// InsufficientStockError indica que una salida pide más unidades de las
// disponibles. Lleva lo solicitado y lo disponible para diagnóstico del operador.
// errors.Is(err, ErrInsufficientStock) == true.
type InsufficientStockError struct {
	ProductID string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: solicitado %d, disponible %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidMovementError indica un movimiento mal formado (cantidad <= 0,
// costo unitario ausente en entradas, motivo ausente o fuera del catálogo en salidas).
// errors.Is(err, ErrInvalidMovement) == true.
type InvalidMovementError struct {
	Detail string
}

func (e *InvalidMovementError) Error() string {
	return fmt.Sprintf("movimiento inválido: %s", e.Detail)
}

func (e *InvalidMovementError) Unwrap() error { return ErrInvalidMovement }
