package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/application/inventory"
	"github.com/tu-usuario/inventario-api/internal/application/usecase"
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

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*entity.Product)}
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

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
	var list []*entity.Product
	for _, p := range r.products {
		if lowStock && !p.IsLowStock() {
			continue
		}
		list = append(list, p)
	}
	return list, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	cp := *p
	cp.Stock = r.products[p.ID].Stock // Update nunca toca Stock
	r.products[p.ID] = &cp
	return nil
}

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
	var list []*entity.StockMovement
	for i := len(r.movements) - 1; i >= 0 && len(list) < limit; i-- {
		if r.movements[i].ProductID == productID {
			list = append(list, r.movements[i])
		}
	}
	return list, nil
}

func (r *fakeMovementRepo) CountByProduct(productID string) (int, error) {
	return len(r.movements), nil
}

type fakeTxRunner struct {
	movRepo     *fakeMovementRepo
	productRepo *fakeProductRepo
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return fn(r.movRepo, r.productRepo)
}

func buildProductUseCase() (*usecase.ProductUseCase, *fakeProductRepo, *fakeMovementRepo) {
	productRepo := newFakeProductRepo()
	movRepo := &fakeMovementRepo{}
	runner := &fakeTxRunner{movRepo: movRepo, productRepo: productRepo}
	ledger := inventory.NewRegisterMovementUseCase(runner, productRepo)
	return usecase.NewProductUseCase(productRepo, movRepo, ledger), productRepo, movRepo
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_StockInicialComoMovimiento(t *testing.T) {
	uc, productRepo, movRepo := buildProductUseCase()

	resp, err := uc.Create(context.Background(), "admin", dto.CreateProductRequest{
		Name:     "Teclado",
		Price:    decimal.RequireFromString("35.00"),
		Stock:    15,
		MinStock: 5,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, 15, resp.Stock)
	assert.Equal(t, 15, productRepo.products[resp.ID].Stock)
	require.Len(t, movRepo.movements, 1, "el stock inicial entra como movimiento")
	assert.Equal(t, entity.MovementTypeIN, movRepo.movements[0].Type)
	assert.Equal(t, "Stock inicial", movRepo.movements[0].Reason)
	assert.Equal(t, "admin", movRepo.movements[0].CreatedBy)
}

func TestProductCreate_SinStockInicialNoHayMovimiento(t *testing.T) {
	uc, _, movRepo := buildProductUseCase()

	resp, err := uc.Create(context.Background(), "admin", dto.CreateProductRequest{
		Name:  "Mouse",
		Price: decimal.RequireFromString("12.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, 0, resp.Stock)
	assert.Empty(t, movRepo.movements)
}

func TestProductCreate_ValidaEntrada(t *testing.T) {
	uc, _, _ := buildProductUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, "admin", dto.CreateProductRequest{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "name es requerido")

	_, err = uc.Create(ctx, "admin", dto.CreateProductRequest{
		Name:  "Monitor",
		Price: decimal.RequireFromString("-1.00"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo debe rechazarse")
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / GetDetail / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUpdate_NoTocaStock(t *testing.T) {
	uc, productRepo, _ := buildProductUseCase()
	created, err := uc.Create(context.Background(), "admin", dto.CreateProductRequest{
		Name:  "Teclado",
		Price: decimal.RequireFromString("35.00"),
		Stock: 10,
	})
	require.NoError(t, err)

	newName := "Teclado mecánico"
	updated, err := uc.Update(created.ID, dto.UpdateProductRequest{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "Teclado mecánico", updated.Name)
	assert.Equal(t, 10, productRepo.products[created.ID].Stock,
		"la actualización de producto nunca modifica la existencia")
}

func TestProductGetDetail_UltimosMovimientos(t *testing.T) {
	uc, _, movRepo := buildProductUseCase()
	created, err := uc.Create(context.Background(), "admin", dto.CreateProductRequest{
		Name:  "Teclado",
		Price: decimal.RequireFromString("35.00"),
		Stock: 3,
	})
	require.NoError(t, err)

	detail, err := uc.GetDetail(created.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Equal(t, created.ID, detail.Product.ID)
	require.Len(t, detail.Movements, len(movRepo.movements))
	assert.Equal(t, "Stock inicial", detail.Movements[0].Reason)
}

func TestProductGetDetail_Inexistente(t *testing.T) {
	uc, _, _ := buildProductUseCase()
	detail, err := uc.GetDetail("no-existe")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestProductDelete_Inexistente(t *testing.T) {
	uc, _, _ := buildProductUseCase()
	err := uc.Delete("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// LowStock en la respuesta es estrictamente menor al mínimo.
func TestProductResponse_LowStock(t *testing.T) {
	uc, _, _ := buildProductUseCase()

	resp, err := uc.Create(context.Background(), "admin", dto.CreateProductRequest{
		Name:     "Cable HDMI",
		Price:    decimal.RequireFromString("5.00"),
		Stock:    2,
		MinStock: 5,
	})
	require.NoError(t, err)
	assert.True(t, resp.LowStock)

	resp2, err := uc.Create(context.Background(), "admin", dto.CreateProductRequest{
		Name:     "Cable VGA",
		Price:    decimal.RequireFromString("4.00"),
		Stock:    5,
		MinStock: 5,
	})
	require.NoError(t, err)
	assert.False(t, resp2.LowStock, "stock igual al mínimo no es stock bajo")
}
