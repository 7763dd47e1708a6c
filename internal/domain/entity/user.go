package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
)

// SystemUserID identidad de respaldo cuando un movimiento no trae usuario
// (llamadas internas, jobs). Política externa; el motor solo la aplica.
const SystemUserID = "system"

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca plano en dominio después de persistir
	Name         string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
