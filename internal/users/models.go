package users

import "time"

const (
	RoleAdministrador = "administrador"
	RoleCliente       = "cliente"

	RoleIDAdministrador = 1
	RoleIDCliente       = 2
)

type User struct {
	ID           int64     `json:"id"`
	Nombre       string    `json:"nombre"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       int       `json:"role_id"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdministrador }

func ValidRoleID(id int) bool {
	return id == RoleIDAdministrador || id == RoleIDCliente
}
