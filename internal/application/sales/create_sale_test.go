package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/application/sales"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r *fakeProductRepo) List(q string, lowStock bool, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error { r.products[p.ID] = p; return nil }

func (r *fakeProductRepo) UpdateStock(id string, stock int) error {
	r.products[id].Stock = stock
	return nil
}

func (r *fakeProductRepo) Delete(id string) error { delete(r.products, id); return nil }

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, limit int) ([]*entity.StockMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) CountByProduct(productID string) (int, error) {
	return len(r.movements), nil
}

type fakeClientRepo struct {
	clients map[string]*entity.Client
}

func (r *fakeClientRepo) Create(c *entity.Client) error { r.clients[c.ID] = c; return nil }

func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}

func (r *fakeClientRepo) List(q string, limit, offset int) ([]*entity.Client, error) { return nil, nil }
func (r *fakeClientRepo) Update(c *entity.Client) error                              { return nil }
func (r *fakeClientRepo) Delete(id string) error                                     { return nil }

type fakeSaleRepo struct {
	sales map[string]*entity.Sale // por ID
	items []*entity.SaleItem
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[string]*entity.Sale)}
}

func (r *fakeSaleRepo) Create(s *entity.Sale) error {
	for _, existing := range r.sales {
		if existing.Code == s.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *s
	r.sales[s.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) CreateItem(item *entity.SaleItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *fakeSaleRepo) UpdateTotal(saleID string, total decimal.Decimal) error {
	r.sales[saleID].Total = total
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (r *fakeSaleRepo) GetByCode(code string) (*entity.Sale, error) {
	for _, s := range r.sales {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSaleRepo) GetItemsBySaleID(saleID string) ([]*entity.SaleItem, error) {
	var list []*entity.SaleItem
	for _, it := range r.items {
		if it.SaleID == saleID {
			list = append(list, it)
		}
	}
	return list, nil
}

func (r *fakeSaleRepo) List(q string, limit, offset int) ([]*entity.Sale, error) { return nil, nil }

// fakeTxRunner emula el comportamiento transaccional: toma una instantánea del
// estado antes de ejecutar el callback y la restaura si falla (rollback).
type fakeTxRunner struct {
	saleRepo    *fakeSaleRepo
	movRepo     *fakeMovementRepo
	productRepo *fakeProductRepo
}

func (r *fakeTxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	salesSnap := make(map[string]*entity.Sale, len(r.saleRepo.sales))
	for k, v := range r.saleRepo.sales {
		cp := *v
		salesSnap[k] = &cp
	}
	itemsSnap := append([]*entity.SaleItem(nil), r.saleRepo.items...)
	movSnap := append([]*entity.StockMovement(nil), r.movRepo.movements...)
	stockSnap := make(map[string]int, len(r.productRepo.products))
	for k, v := range r.productRepo.products {
		stockSnap[k] = v.Stock
	}

	if err := fn(r.saleRepo, r.movRepo, r.productRepo); err != nil {
		r.saleRepo.sales = salesSnap
		r.saleRepo.items = itemsSnap
		r.movRepo.movements = movSnap
		for k, stock := range stockSnap {
			r.productRepo.products[k].Stock = stock
		}
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type saleFixture struct {
	uc          *sales.SaleUseCase
	productRepo *fakeProductRepo
	movRepo     *fakeMovementRepo
	saleRepo    *fakeSaleRepo
}

func newSaleFixture(products ...*entity.Product) *saleFixture {
	productRepo := newFakeProductRepo(products...)
	movRepo := &fakeMovementRepo{}
	saleRepo := newFakeSaleRepo()
	clientRepo := &fakeClientRepo{clients: map[string]*entity.Client{
		"c1": {ID: "c1", Name: "Ana", Surname: "Gómez", Document: "1010"},
	}}
	runner := &fakeTxRunner{saleRepo: saleRepo, movRepo: movRepo, productRepo: productRepo}
	// RegisterOutInTx opera sobre los repos que recibe; el runner y el repo
	// del constructor no se usan en ese camino.
	ledger := inventory.NewRegisterMovementUseCase(nil, nil)
	return &saleFixture{
		uc:          sales.NewSaleUseCase(runner, ledger, clientRepo, productRepo, saleRepo),
		productRepo: productRepo,
		movRepo:     movRepo,
		saleRepo:    saleRepo,
	}
}

func product(id, price string, stock int) *entity.Product {
	return &entity.Product{
		ID:    id,
		Name:  "Producto " + id,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

func assertDecimalEqual(t *testing.T, expected string, actual decimal.Decimal, msg string) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual),
		"%s: se esperaba %s, se obtuvo %s", msg, expected, actual)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateSale
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateSale_TotalesSubtotalesYDescuento(t *testing.T) {
	f := newSaleFixture(
		product("p1", "10.00", 5),
		product("p2", "2.50", 10),
	)

	resp, err := f.uc.CreateSale(context.Background(), "vendedor1", dto.CreateSaleRequest{
		Code:     "V-001",
		ClientID: "c1",
		Items: []dto.SaleItemRequest{
			{ProductID: "p1", Quantity: 2}, // precio de lista 10.00
			{ProductID: "p2", Quantity: 2}, // precio de lista 2.50
		},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assertDecimalEqual(t, "25.00", resp.Total, "total de la venta")
	require.Len(t, resp.Items, 2)
	assertDecimalEqual(t, "20.00", resp.Items[0].Subtotal, "subtotal línea 1")
	assertDecimalEqual(t, "5.00", resp.Items[1].Subtotal, "subtotal línea 2")
	assert.Equal(t, "Ana Gómez", resp.ClientName)

	assert.Equal(t, 3, f.productRepo.products["p1"].Stock, "stock descontado por la venta")
	assert.Equal(t, 8, f.productRepo.products["p2"].Stock)

	require.Len(t, f.movRepo.movements, 2, "un movimiento OUT por línea")
	for _, m := range f.movRepo.movements {
		assert.Equal(t, entity.MovementTypeOUT, m.Type)
		assert.Equal(t, "Venta V-001", m.Reason)
		assert.Equal(t, "vendedor1", m.CreatedBy)
	}
}

func TestCreateSale_PrecioExplicitoPrevalece(t *testing.T) {
	f := newSaleFixture(product("p1", "10.00", 5))

	resp, err := f.uc.CreateSale(context.Background(), "vendedor1", dto.CreateSaleRequest{
		Code:     "V-002",
		ClientID: "c1",
		Items: []dto.SaleItemRequest{
			{ProductID: "p1", Quantity: 3, UnitPrice: decimal.RequireFromString("8.50")},
		},
	})
	require.NoError(t, err)

	assertDecimalEqual(t, "8.50", resp.Items[0].UnitPrice, "precio pactado en la línea")
	assertDecimalEqual(t, "25.50", resp.Total, "total con precio pactado")
}

func TestCreateSale_StockInsuficienteRevierteTodo(t *testing.T) {
	f := newSaleFixture(
		product("p1", "10.00", 5),
		product("p2", "2.50", 1),
	)

	_, err := f.uc.CreateSale(context.Background(), "vendedor1", dto.CreateSaleRequest{
		Code:     "V-003",
		ClientID: "c1",
		Items: []dto.SaleItemRequest{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 3}, // no hay existencia suficiente
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Empty(t, f.saleRepo.sales, "la cabecera no debe quedar persistida")
	assert.Empty(t, f.saleRepo.items, "los items no deben quedar persistidos")
	assert.Empty(t, f.movRepo.movements, "no deben quedar movimientos")
	assert.Equal(t, 5, f.productRepo.products["p1"].Stock, "el stock de la primera línea debe revertirse")
	assert.Equal(t, 1, f.productRepo.products["p2"].Stock)
}

func TestCreateSale_CodigoDuplicado(t *testing.T) {
	f := newSaleFixture(product("p1", "10.00", 5))

	_, err := f.uc.CreateSale(context.Background(), "vendedor1", dto.CreateSaleRequest{
		Code:     "V-004",
		ClientID: "c1",
		Items:    []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.uc.CreateSale(context.Background(), "vendedor1", dto.CreateSaleRequest{
		Code:     "V-004",
		ClientID: "c1",
		Items:    []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	assert.Len(t, f.saleRepo.sales, 1, "la segunda venta no debe persistirse")
	assert.Equal(t, 4, f.productRepo.products["p1"].Stock, "solo la primera venta descuenta stock")
}

func TestCreateSale_ClienteInexistente(t *testing.T) {
	f := newSaleFixture(product("p1", "10.00", 5))

	_, err := f.uc.CreateSale(context.Background(), "vendedor1", dto.CreateSaleRequest{
		Code:     "V-005",
		ClientID: "no-existe",
		Items:    []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.saleRepo.sales)
}

func TestCreateSale_ProductoInexistente(t *testing.T) {
	f := newSaleFixture(product("p1", "10.00", 5))

	_, err := f.uc.CreateSale(context.Background(), "vendedor1", dto.CreateSaleRequest{
		Code:     "V-006",
		ClientID: "c1",
		Items:    []dto.SaleItemRequest{{ProductID: "no-existe", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.saleRepo.sales)
}

func TestCreateSale_ValidacionEntrada(t *testing.T) {
	f := newSaleFixture(product("p1", "10.00", 5))
	ctx := context.Background()

	_, err := f.uc.CreateSale(ctx, "v", dto.CreateSaleRequest{
		ClientID: "c1",
		Items:    []dto.SaleItemRequest{{ProductID: "p1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "code es requerido")

	_, err = f.uc.CreateSale(ctx, "v", dto.CreateSaleRequest{
		Code:     "V-007",
		ClientID: "c1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "al menos un item es requerido")

	_, err = f.uc.CreateSale(ctx, "v", dto.CreateSaleRequest{
		Code:     "V-008",
		ClientID: "c1",
		Items:    []dto.SaleItemRequest{{ProductID: "p1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "quantity debe ser mayor a cero")
}

// Las líneas se aplican en orden, sin netear repeticiones del mismo producto:
// dos líneas del mismo producto producen dos movimientos.
func TestCreateSale_LineasRepetidasSinNetear(t *testing.T) {
	f := newSaleFixture(product("p1", "10.00", 10))

	resp, err := f.uc.CreateSale(context.Background(), "vendedor1", dto.CreateSaleRequest{
		Code:     "V-009",
		ClientID: "c1",
		Items: []dto.SaleItemRequest{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p1", Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, f.productRepo.products["p1"].Stock)
	assert.Len(t, f.movRepo.movements, 2)
	assertDecimalEqual(t, "50.00", resp.Total, "total de ambas líneas")
}
