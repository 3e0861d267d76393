package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/inventario-api/internal/domain"
	"github.com/tu-usuario/inventario-api/internal/domain/entity"
	"github.com/tu-usuario/inventario-api/internal/domain/repository"
)

// Motivo por defecto de un ajuste de stock sin motivo explícito.
const defaultAdjustReason = "Ajuste de stock"

// RegisterMovementUseCase registra movimientos de stock de forma transaccional
// (IN, OUT y ajustes a valor absoluto) con bloqueo de fila (SELECT FOR UPDATE)
// y Commit/Rollback. Es el único camino por el que cambia Product.Stock:
// tanto el endpoint de movimientos como la creación de ventas pasan por aquí.
type RegisterMovementUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, productRepo repository.ProductRepository) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, productRepo: productRepo}
}

// MovementInput entrada para registrar un movimiento relativo (entrada o salida).
type MovementInput struct {
	ProductID string
	Type      string // entity.MovementTypeIN | entity.MovementTypeOUT
	Quantity  int    // > 0
	Reason    string
	Actor     string // etiqueta del usuario que registra
}

// AdjustInput entrada para ajustar la existencia a un valor absoluto.
type AdjustInput struct {
	ProductID string
	Target    int // >= 0
	Reason    string
	Actor     string
}

// RecordMovement inicia una transacción, bloquea la fila del producto y aplica
// el movimiento. Para OUT falla con ErrInsufficientStock si la existencia es
// menor a la cantidad; en ese caso no se observa ninguna mutación (rollback).
func (uc *RegisterMovementUseCase) RecordMovement(ctx context.Context, input MovementInput) (*entity.StockMovement, error) {
	if input.Type != entity.MovementTypeIN && input.Type != entity.MovementTypeOUT {
		return nil, domain.ErrInvalidInput
	}
	if input.ProductID == "" || input.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	var movement *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la fila del producto para serializar read-modify-write del stock
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		newStock := product.Stock
		switch input.Type {
		case entity.MovementTypeIN:
			newStock += input.Quantity
		case entity.MovementTypeOUT:
			if product.Stock < input.Quantity {
				return domain.ErrInsufficientStock
			}
			newStock -= input.Quantity
		}
		if err := productRepo.UpdateStock(product.ID, newStock); err != nil {
			return err
		}

		movement = &entity.StockMovement{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Type:      input.Type,
			Quantity:  input.Quantity,
			Reason:    input.Reason,
			Date:      now,
			CreatedBy: input.Actor,
		}
		return movRepo.Create(movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// AdjustToTarget fija la existencia del producto en Target y registra un único
// movimiento por la diferencia (IN si sube, OUT si baja). Si Target coincide
// con la existencia actual no se crea movimiento y retorna (nil, nil).
// La salida por ajuste no pasa por el chequeo de stock insuficiente: con
// Target >= 0 la diferencia siempre es realizable.
func (uc *RegisterMovementUseCase) AdjustToTarget(ctx context.Context, input AdjustInput) (*entity.StockMovement, error) {
	if input.ProductID == "" || input.Target < 0 {
		return nil, domain.ErrInvalidInput
	}
	reason := input.Reason
	if reason == "" {
		reason = defaultAdjustReason
	}

	now := time.Now()
	var movement *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		delta := input.Target - product.Stock
		if delta == 0 {
			return nil // sin cambios, no se registra movimiento
		}
		movType := entity.MovementTypeIN
		quantity := delta
		if delta < 0 {
			movType = entity.MovementTypeOUT
			quantity = -delta
		}
		if err := productRepo.UpdateStock(product.ID, input.Target); err != nil {
			return err
		}
		movement = &entity.StockMovement{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Type:      movType,
			Quantity:  quantity,
			Reason:    reason,
			Date:      now,
			CreatedBy: input.Actor,
		}
		return movRepo.Create(movement)
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

// RegisterOutInTx ejecuta una salida (OUT) usando los repositorios
// proporcionados (misma transacción del caller). Implementa la interfaz
// sales.StockLedger para que la creación de ventas descuente stock por el
// mismo camino que los movimientos directos, incluido el chequeo de
// stock insuficiente.
func (uc *RegisterMovementUseCase) RegisterOutInTx(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	quantity int,
	reason, actor string,
	now time.Time,
) (*entity.StockMovement, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := productRepo.GetForUpdate(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.Stock < quantity {
		return nil, domain.ErrInsufficientStock
	}
	if err := productRepo.UpdateStock(product.ID, product.Stock-quantity); err != nil {
		return nil, err
	}
	movement := &entity.StockMovement{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Type:      entity.MovementTypeOUT,
		Quantity:  quantity,
		Reason:    reason,
		Date:      now,
		CreatedBy: actor,
	}
	if err := movRepo.Create(movement); err != nil {
		return nil, err
	}
	return movement, nil
}
