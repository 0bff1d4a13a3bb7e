package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo se fija al crear;
// después lo mueve el ledger.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{
		repo:       repo,
		categories: categories,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create crea un producto con su stock inicial.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, domain.NewValidation("sku and name are required")
	}
	if in.Price.IsNegative() {
		return nil, domain.NewValidation("price must not be negative")
	}
	if in.StockQuantity < 0 || in.StockQuantity > inventory.MaxStock {
		return nil, domain.NewValidation("stockQuantity must be between 0 and %d", inventory.MaxStock)
	}
	if err := uc.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	now := uc.now()
	product := &entity.Product{
		CategoryID:    in.CategoryID,
		SKU:           sku,
		Name:          name,
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		ExpiryDate:    in.ExpiryDate,
		ImageURL:      in.ImageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List devuelve todos los productos, más recientes primero.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Search filtra por nombre o descripción sin distinguir mayúsculas.
func (uc *ProductUseCase) Search(ctx context.Context, text string) ([]dto.ProductResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return uc.List(ctx)
	}
	list, err := uc.repo.Search(ctx, text)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Update modifica los campos presentes. El stock nunca se toca aquí.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return nil, domain.NewValidation("sku must not be empty")
		}
		product.SKU = sku
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidation("name must not be empty")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.NewValidation("price must not be negative")
		}
		product.Price = *in.Price
	}
	if in.CategoryID != nil {
		if err := uc.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}
	if in.ExpiryDate != nil {
		product.ExpiryDate = in.ExpiryDate
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto sin transacciones asociadas.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) get(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound("Product", id)
	}
	return product, nil
}

func (uc *ProductUseCase) requireCategory(ctx context.Context, id int64) error {
	if id == 0 {
		return nil
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NewNotFound("Category", id)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	out := &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		ExpiryDate:    p.ExpiryDate,
		ImageURL:      p.ImageURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.CategoryID != 0 {
		id := p.CategoryID
		out.CategoryID = &id
	}
	return out
}

func toProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *toProductResponse(p))
	}
	return out
}
