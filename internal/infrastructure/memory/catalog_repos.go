package memory

import (
	"sort"

	"github.com/induplast/produccion-api/internal/domain/entity"
	"github.com/induplast/produccion-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*materialRepo)(nil)
var _ repository.ProductRepository = (*productRepo)(nil)

type materialRepo struct {
	s    *Store
	inTx bool
}

func (r *materialRepo) Create(m *entity.Material) error {
	defer r.s.acquire(r.inTx)()
	r.s.data.materials[m.ID] = *m
	return nil
}

func (r *materialRepo) GetByID(id string) (*entity.Material, error) {
	defer r.s.acquire(r.inTx)()
	m, ok := r.s.data.materials[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// GetForUpdate equivale a GetByID: el mutex del Store ya serializa.
func (r *materialRepo) GetForUpdate(id string) (*entity.Material, error) {
	return r.GetByID(id)
}

func (r *materialRepo) List(onlyActive bool, limit, offset int) ([]*entity.Material, error) {
	defer r.s.acquire(r.inTx)()
	var out []*entity.Material
	for _, m := range r.s.data.materials {
		if onlyActive && !m.Active {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *materialRepo) Update(m *entity.Material) error {
	defer r.s.acquire(r.inTx)()
	r.s.data.materials[m.ID] = *m
	return nil
}

func (r *materialRepo) SetActive(id string, active bool) error {
	defer r.s.acquire(r.inTx)()
	m, ok := r.s.data.materials[id]
	if !ok {
		return nil
	}
	m.Active = active
	r.s.data.materials[id] = m
	return nil
}

func (r *materialRepo) IsReferenced(id string) (bool, error) {
	defer r.s.acquire(r.inTx)()
	for _, mov := range r.s.data.movements {
		if mov.SubjectType == entity.SubjectMaterial && mov.SubjectID == id {
			return true, nil
		}
	}
	for _, reqs := range r.s.data.requirements {
		for _, req := range reqs {
			if req.MaterialID == id {
				return true, nil
			}
		}
	}
	for _, p := range r.s.data.purchases {
		for _, l := range p.Lines {
			if l.MaterialID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *materialRepo) Delete(id string) error {
	defer r.s.acquire(r.inTx)()
	delete(r.s.data.materials, id)
	return nil
}

type productRepo struct {
	s    *Store
	inTx bool
}

func (r *productRepo) Create(p *entity.Product) error {
	defer r.s.acquire(r.inTx)()
	r.s.data.products[p.ID] = *p
	return nil
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	defer r.s.acquire(r.inTx)()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *productRepo) List(onlyActive bool, limit, offset int) ([]*entity.Product, error) {
	defer r.s.acquire(r.inTx)()
	var out []*entity.Product
	for _, p := range r.s.data.products {
		if onlyActive && !p.Active {
			continue
		}
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *productRepo) Update(p *entity.Product) error {
	defer r.s.acquire(r.inTx)()
	r.s.data.products[p.ID] = *p
	return nil
}

func (r *productRepo) SetActive(id string, active bool) error {
	defer r.s.acquire(r.inTx)()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil
	}
	p.Active = active
	r.s.data.products[id] = p
	return nil
}

func (r *productRepo) IsReferenced(id string) (bool, error) {
	defer r.s.acquire(r.inTx)()
	for _, mov := range r.s.data.movements {
		if mov.SubjectType == entity.SubjectProduct && mov.SubjectID == id {
			return true, nil
		}
	}
	for _, o := range r.s.data.orders {
		if o.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *productRepo) Delete(id string) error {
	defer r.s.acquire(r.inTx)()
	delete(r.s.data.products, id)
	return nil
}

type supplierRepo struct {
	s *Store
}

func (r *supplierRepo) Create(sup *entity.Supplier) error {
	defer r.s.acquire(false)()
	r.s.data.suppliers[sup.ID] = *sup
	return nil
}

func (r *supplierRepo) GetByID(id string) (*entity.Supplier, error) {
	defer r.s.acquire(false)()
	sup, ok := r.s.data.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sup, nil
}

func (r *supplierRepo) List(limit, offset int) ([]*entity.Supplier, error) {
	defer r.s.acquire(false)()
	var out []*entity.Supplier
	for _, sup := range r.s.data.suppliers {
		sup := sup
		out = append(out, &sup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *supplierRepo) Update(sup *entity.Supplier) error {
	defer r.s.acquire(false)()
	r.s.data.suppliers[sup.ID] = *sup
	return nil
}

type clientRepo struct {
	s *Store
}

func (r *clientRepo) Create(c *entity.Client) error {
	defer r.s.acquire(false)()
	r.s.data.clients[c.ID] = *c
	return nil
}

func (r *clientRepo) GetByID(id string) (*entity.Client, error) {
	defer r.s.acquire(false)()
	c, ok := r.s.data.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *clientRepo) List(limit, offset int) ([]*entity.Client, error) {
	defer r.s.acquire(false)()
	var out []*entity.Client
	for _, c := range r.s.data.clients {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, limit, offset), nil
}

func (r *clientRepo) Update(c *entity.Client) error {
	defer r.s.acquire(false)()
	r.s.data.clients[c.ID] = *c
	return nil
}

func paginate[T any](in []*T, limit, offset int) []*T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
