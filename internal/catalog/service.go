package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/meridian-shop/meridian/internal/shared"
)

type Service struct {
	repo     Repository
	validate *validator.Validate
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	return s.repo.List(ctx, filters)
}

// ListPublic returns the storefront catalog: shown products plus out-of-stock
// ones, which stay visible but cannot be ordered.
func (s *Service) ListPublic(ctx context.Context) ([]Product, error) {
	return s.repo.ListPublic(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, shared.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// Create validates the form, derives discount/status and persists the
// product. The image reference must already point at a stored file.
func (s *Service) Create(ctx context.Context, form ProductForm, image string) (Product, error) {
	if image == "" {
		return Product{}, fmt.Errorf("%w: product image is required", errValidation)
	}
	product, err := s.fromForm(form)
	if err != nil {
		return Product{}, err
	}
	product.Image = image
	product.ApplyDerived()
	return s.repo.Create(ctx, product)
}

// Update validates the form and persists the product, replacing the stored
// image reference when a new one is supplied. It returns the previous image
// reference so the caller can remove the orphaned file after commit.
func (s *Service) Update(ctx context.Context, id int64, form ProductForm, newImage string) (Product, string, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, "", err
	}

	product, err := s.fromForm(form)
	if err != nil {
		return Product{}, "", err
	}
	product.ID = id
	product.Image = existing.Image
	replaced := ""
	if newImage != "" {
		product.Image = newImage
		replaced = existing.Image
	}
	product.ApplyDerived()

	if err := s.repo.Update(ctx, id, product); err != nil {
		return Product{}, "", err
	}
	return product, replaced, nil
}

// Delete removes the product and returns its image reference for cleanup.
func (s *Service) Delete(ctx context.Context, id int64) (string, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return "", err
	}
	return existing.Image, nil
}

func (s *Service) ImageRefs(ctx context.Context) ([]string, error) {
	return s.repo.ImageRefs(ctx)
}

func (s *Service) fromForm(form ProductForm) (Product, error) {
	form.Name = strings.TrimSpace(form.Name)
	if err := s.validate.Struct(form); err != nil {
		return Product{}, fmt.Errorf("%w: %s", errValidation, err.Error())
	}
	category, ok := matchCategory(form.Category)
	if !ok {
		return Product{}, fmt.Errorf("%w: unknown category %q", errValidation, form.Category)
	}
	status := Status(form.Status)
	if form.Status == "" {
		status = StatusShown
	}
	if !status.Valid() {
		return Product{}, fmt.Errorf("%w: unknown status %q", errValidation, form.Status)
	}
	return Product{
		Name:          form.Name,
		Category:      category,
		Price:         form.Price,
		OriginalPrice: form.OriginalPrice,
		Stock:         form.Stock,
		Status:        status,
		Description:   strings.TrimSpace(form.Description),
		AdLink:        strings.TrimSpace(form.AdLink),
	}, nil
}
