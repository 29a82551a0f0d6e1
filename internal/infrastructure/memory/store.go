// Package memory implementa los repositorios del dominio sobre estructuras en
// memoria. Sirve para pruebas del motor y para demos sin PostgreSQL: el
// TxRunner toma una copia del estado antes de cada operación y la restaura si
// la función falla, de modo que la atomicidad observable es la misma que con
// transacciones reales. Un mutex serializa todas las operaciones.
package memory

import (
	"context"
	"sync"

	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

// Store es el estado compartido de todos los repositorios en memoria.
type Store struct {
	mu   sync.Mutex
	data *data
}

type data struct {
	materials    map[string]entity.Material
	products     map[string]entity.Product
	suppliers    map[string]entity.Supplier
	clients      map[string]entity.Client
	movements    []entity.StockMovement // orden de inserción = orden del libro
	orders       map[string]entity.ProductionOrder
	requirements map[string][]entity.MaterialRequirement
	records      map[string]entity.ProductionRecord
	purchases    map[string]entity.PurchaseOrder
}

func newData() *data {
	return &data{
		materials:    make(map[string]entity.Material),
		products:     make(map[string]entity.Product),
		suppliers:    make(map[string]entity.Supplier),
		clients:      make(map[string]entity.Client),
		orders:       make(map[string]entity.ProductionOrder),
		requirements: make(map[string][]entity.MaterialRequirement),
		records:      make(map[string]entity.ProductionRecord),
		purchases:    make(map[string]entity.PurchaseOrder),
	}
}

// NewStore crea un estado vacío.
func NewStore() *Store {
	return &Store{data: newData()}
}

// clone copia profunda del estado (los structs con slices internos se copian
// renglón a renglón).
func (d *data) clone() *data {
	c := newData()
	for k, v := range d.materials {
		c.materials[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range d.clients {
		c.clients[k] = v
	}
	c.movements = make([]entity.StockMovement, len(d.movements))
	copy(c.movements, d.movements)
	for k, v := range d.orders {
		v.Requirements = nil // viven en su propio mapa
		c.orders[k] = v
	}
	for k, v := range d.requirements {
		reqs := make([]entity.MaterialRequirement, len(v))
		copy(reqs, v)
		c.requirements[k] = reqs
	}
	for k, v := range d.records {
		c.records[k] = v
	}
	for k, v := range d.purchases {
		lines := make([]entity.PurchaseLine, len(v.Lines))
		copy(lines, v.Lines)
		v.Lines = lines
		c.purchases[k] = v
	}
	return c
}

// acquire toma el mutex salvo que ya lo tenga la transacción en curso.
// Devuelve la función de liberación.
func (s *Store) acquire(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// Repos devuelve repositorios "atados al pool": cada llamada toma el mutex.
func (s *Store) Repos() repository.TxRepos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) repository.TxRepos {
	return repository.TxRepos{
		Materials:    &materialRepo{s: s, inTx: inTx},
		Products:     &productRepo{s: s, inTx: inTx},
		Movements:    &movementRepo{s: s, inTx: inTx},
		Orders:       &orderRepo{s: s, inTx: inTx},
		Requirements: &requirementRepo{s: s, inTx: inTx},
		Records:      &recordRepo{s: s, inTx: inTx},
		Purchases:    &purchaseRepo{s: s, inTx: inTx},
	}
}

// Suppliers repositorio de proveedores.
func (s *Store) Suppliers() repository.SupplierRepository {
	return &supplierRepo{s: s}
}

// Clients repositorio de clientes.
func (s *Store) Clients() repository.ClientRepository {
	return &clientRepo{s: s}
}

// TxRunner devuelve un runner con semántica todo-o-nada sobre el Store.
func (s *Store) TxRunner() repository.TxRunner {
	return &txRunner{s: s}
}

type txRunner struct {
	s *Store
}

// Run serializa la operación con el mutex, copia el estado y lo restaura si
// fn devuelve error: ningún estado parcial queda visible.
func (t *txRunner) Run(ctx context.Context, fn func(r repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	backup := t.s.data.clone()
	if err := fn(t.s.repos(true)); err != nil {
		t.s.data = backup
		return err
	}
	return nil
}
