package model

import "time"

// DefaultCategory is used for organizations and events created without one.
const DefaultCategory = "General"

// Organization is an external organization that may sponsor events.
type Organization struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"nombre" gorm:"column:nombre;size:255;not null;uniqueIndex"`
	Email       *string    `json:"email" gorm:"column:email;size:255"`
	Phone       *string    `json:"telefono" gorm:"column:telefono;size:20"`
	Address     *string    `json:"direccion" gorm:"column:direccion;size:255"`
	Description *string    `json:"descripcion" gorm:"column:descripcion;type:text"`
	Type        string     `json:"tipo_organizacion" gorm:"column:tipo_organizacion;size:100;not null;default:'General';index"`
	Active      bool       `json:"activo" gorm:"column:activo;not null;default:true;index"`
	CreatedAt   time.Time  `json:"fecha_registro" gorm:"column:fecha_registro;autoCreateTime"`
	UpdatedAt   *time.Time `json:"fecha_actualizacion" gorm:"column:fecha_actualizacion"`
}

// TableName pins the Spanish table name.
func (Organization) TableName() string { return "organizaciones_externas" }

// OrganizationPatch is a partial update; nil fields are left untouched.
type OrganizationPatch struct {
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	Description *string
	Type        *string
	Active      *bool
}

// Changes returns the column set to update.
func (p OrganizationPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Name != nil {
		changes["nombre"] = *p.Name
	}
	if p.Email != nil {
		changes["email"] = *p.Email
	}
	if p.Phone != nil {
		changes["telefono"] = *p.Phone
	}
	if p.Address != nil {
		changes["direccion"] = *p.Address
	}
	if p.Description != nil {
		changes["descripcion"] = *p.Description
	}
	if p.Type != nil {
		changes["tipo_organizacion"] = *p.Type
	}
	if p.Active != nil {
		changes["activo"] = *p.Active
	}
	return changes
}

// OrganizationFilter narrows organization searches and listings.
type OrganizationFilter struct {
	Name   string
	Type   string
	Active bool
	Page   Page
}
