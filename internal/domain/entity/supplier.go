package entity

import "time"

// Supplier es un proveedor del catálogo (solo datos maestros, sin ciclo de vida).
type Supplier struct {
	ID        string
	Name      string
	TaxID     string
	Phone     string
	Email     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Client es un cliente del catálogo; las órdenes de producción pueden
// asociarse a un cliente.
type Client struct {
	ID        string
	Name      string
	TaxID     string
	Phone     string
	Email     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
