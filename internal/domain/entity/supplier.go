package entity

import "time"

// Supplier es el proveedor contra el que se registran compras y devoluciones.
type Supplier struct {
	ID          int64
	Name        string
	ContactInfo string
	Address     string
	CreatedAt   time.Time
}
