package model

import "time"

// Role is the access level of a user.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleOrganizador Role = "organizador"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOrganizador
}

// User represents an authenticated user in the system.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	FirstName    string     `json:"nombre" gorm:"column:nombre;size:100;not null"`
	LastName     string     `json:"apellido" gorm:"column:apellido;size:100;not null"`
	Phone        *string    `json:"telefono" gorm:"column:telefono;size:20"`
	Role         Role       `json:"rol" gorm:"column:rol;size:20;not null;default:'organizador'"`
	Active       bool       `json:"activo" gorm:"column:activo;not null;default:true;index"`
	CreatedAt    time.Time  `json:"fecha_registro" gorm:"column:fecha_registro;autoCreateTime"`
	UpdatedAt    *time.Time `json:"fecha_actualizacion" gorm:"column:fecha_actualizacion"`
}

// TableName pins the Spanish table name.
func (User) TableName() string { return "usuarios" }

// UserPatch is a partial profile update; nil fields are left untouched.
type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
}

// Changes returns the column set to update.
func (p UserPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Email != nil {
		changes["email"] = *p.Email
	}
	if p.FirstName != nil {
		changes["nombre"] = *p.FirstName
	}
	if p.LastName != nil {
		changes["apellido"] = *p.LastName
	}
	if p.Phone != nil {
		changes["telefono"] = *p.Phone
	}
	return changes
}
