package entity

import (
	"github.com/francescogabrieli/budget-sociale/internal/domain/valueobject"
)

type User struct {
	ID           int64
	Username     string
	Name         string
	Surname      string
	Role         valueobject.Role
	PasswordHash string
}

// Principal аутентифицированный участник, от имени которого выполняется операция.
type Principal struct {
	UserID int64
	Role   valueobject.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == valueobject.RoleAdmin
}

func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Role: u.Role}
}
