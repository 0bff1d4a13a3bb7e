package dto

import "time"

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	ContactInfo string `json:"contactInfo" validate:"required,min=1,max=200"`
	Address     string `json:"address" validate:"max=500"`
}

// UpdateSupplierRequest solo los campos presentes se modifican.
type UpdateSupplierRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	ContactInfo *string `json:"contactInfo" validate:"omitempty,min=1,max=200"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	ContactInfo string    `json:"contactInfo"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CategoryRequest entrada para crear o renombrar una categoría.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
