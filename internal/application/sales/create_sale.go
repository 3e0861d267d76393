package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/inventario-api/internal/application/dto"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

// SaleUseCase crea y consulta ventas. La creación descuenta stock a través del
// StockLedger en una sola transacción: si alguna línea no tiene existencia
// suficiente, la venta completa se revierte.
type SaleUseCase struct {
	txRunner    TxRunner
	ledger      StockLedger
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(
	txRunner TxRunner,
	ledger StockLedger,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) *SaleUseCase {
	return &SaleUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		saleRepo:    saleRepo,
	}
}

// CreateSale valida la venta completa antes de persistir nada (pase de
// pre-validación) y luego ejecuta el pase de commit en una transacción:
// cabecera, items con subtotal calculado, descuento de stock por línea vía el
// libro de movimientos, y total acumulado. Las líneas se aplican en orden, sin
// netear repeticiones del mismo producto.
func (uc *SaleUseCase) CreateSale(ctx context.Context, actor string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if in.Code == "" || in.ClientID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Pre-validación, solo lecturas: nada se persiste si algo está mal.
	existing, err := uc.saleRepo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	for i := range in.Items {
		item := &in.Items[i]
		if item.ProductID == "" || item.Quantity <= 0 || item.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		// Precio en cero: tomar el precio de lista del producto
		if item.UnitPrice.IsZero() {
			item.UnitPrice = product.Price
		}
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		Code:      in.Code,
		ClientID:  in.ClientID,
		Date:      now,
		Total:     decimal.Zero,
		CreatedAt: now,
	}
	reason := fmt.Sprintf("Venta %s", in.Code)
	var items []*entity.SaleItem

	err = uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Cabecera primero para que los items puedan referenciarla.
		// Una carrera sobre el código único termina aquí como ErrDuplicate.
		if err := saleRepo.Create(sale); err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range in.Items {
			subtotal := decimal.NewFromInt(int64(line.Quantity)).Mul(line.UnitPrice)
			item := &entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  subtotal,
			}
			if err := saleRepo.CreateItem(item); err != nil {
				return err
			}
			// Descuento por el mismo camino que los movimientos directos:
			// bloqueo de fila, chequeo de stock y registro de auditoría.
			if _, err := uc.ledger.RegisterOutInTx(
				movRepo, productRepo,
				line.ProductID, line.Quantity,
				reason, actor, now,
			); err != nil {
				return err
			}
			items = append(items, item)
			total = total.Add(subtotal)
		}

		if err := saleRepo.UpdateTotal(sale.ID, total); err != nil {
			return err
		}
		sale.Total = total
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uc.toResponse(sale, client.Name+" "+client.Surname, items), nil
}

// List lista ventas filtradas por q (código o nombre/apellido del cliente).
func (uc *SaleUseCase) List(q string, limit, offset int) (*dto.SaleListResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.saleRepo.List(q, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		resp := dto.SaleResponse{
			ID:       s.ID,
			Code:     s.Code,
			ClientID: s.ClientID,
			Date:     s.Date,
			Total:    s.Total,
		}
		if client, _ := uc.clientRepo.GetByID(s.ClientID); client != nil {
			resp.ClientName = client.Name + " " + client.Surname
		}
		items = append(items, resp)
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// GetByID obtiene una venta con sus items y el nombre del cliente.
func (uc *SaleUseCase) GetByID(id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.GetItemsBySaleID(id)
	if err != nil {
		return nil, err
	}
	clientName := ""
	if client, _ := uc.clientRepo.GetByID(sale.ClientID); client != nil {
		clientName = client.Name + " " + client.Surname
	}
	return uc.toResponse(sale, clientName, items), nil
}

func (uc *SaleUseCase) toResponse(sale *entity.Sale, clientName string, items []*entity.SaleItem) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:         sale.ID,
		Code:       sale.Code,
		ClientID:   sale.ClientID,
		ClientName: clientName,
		Date:       sale.Date,
		Total:      sale.Total,
		Items:      make([]dto.SaleItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return resp
}
