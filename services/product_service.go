package services

import (
	"context"
	"errors"
	"strings"

	"ecofinds/models"
)

const defaultListLimit = 20

type ProductRepo interface {
	Search(ctx context.Context, search, category string, limit int) ([]models.Product, error)
	ListApproved(ctx context.Context, category string, limit int) ([]models.Product, error)
	FindByID(ctx context.Context, id int) (*models.Product, error)
	ListByOwner(ctx context.Context, ownerID int) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int) error
}

type OwnerResolver interface {
	FindOwnerSummary(ctx context.Context, id int) (*models.OwnerSummary, error)
}

type StorageResolver interface {
	ResolveURL(ctx context.Context, storageID string) (string, error)
}

// ProductService is the listing query pipeline plus the owner-scoped listing
// lifecycle.
type ProductService struct {
	repo    ProductRepo
	owners  OwnerResolver
	storage StorageResolver
}

func NewProductService(repo ProductRepo, owners OwnerResolver, storage StorageResolver) *ProductService {
	return &ProductService{repo: repo, owners: owners, storage: storage}
}

// List retrieves approved listings. A search string routes through the text
// index (relevance order); otherwise category equality or the approved set,
// newest first. Both branches go through the same enrichment.
func (s *ProductService) List(ctx context.Context, category, search string, limit int) ([]models.EnrichedProduct, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var (
		raw []models.Product
		err error
	)

	search = strings.TrimSpace(search)
	if search != "" {
		raw, err = s.repo.Search(ctx, search, category, limit)
	} else {
		raw, err = s.repo.ListApproved(ctx, category, limit)
	}
	if err != nil {
		return nil, err
	}

	enriched := make([]models.EnrichedProduct, 0, len(raw))
	for _, p := range raw {
		enriched = append(enriched, s.enrich(ctx, p))
	}
	return enriched, nil
}

// GetByID returns (nil, nil) when the id does not resolve.
func (s *ProductService) GetByID(ctx context.Context, id int) (*models.EnrichedProduct, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	e := s.enrich(ctx, *p)
	return &e, nil
}

// GetMyProducts returns the caller's listings regardless of approval state,
// newest first; an unauthenticated caller gets an empty sequence.
func (s *ProductService) GetMyProducts(ctx context.Context, userID int) ([]models.Product, error) {
	if userID == 0 {
		return []models.Product{}, nil
	}
	return s.repo.ListByOwner(ctx, userID)
}

// enrich resolves the owner summary and display image. Failures degrade the
// affected field instead of failing the listing: a missing owner stays nil,
// an unresolvable storage id leaves the image URL empty.
func (s *ProductService) enrich(ctx context.Context, p models.Product) models.EnrichedProduct {
	e := models.EnrichedProduct{Product: p}

	if owner, err := s.owners.FindOwnerSummary(ctx, p.OwnerID); err == nil && owner != nil {
		e.Owner = owner
	}

	if e.ImageURL == "" && e.ImageStorageID != "" && s.storage != nil {
		if url, err := s.storage.ResolveURL(ctx, e.ImageStorageID); err == nil && url != "" {
			e.ImageURL = url
		}
	}

	return e
}

func (s *ProductService) Create(ctx context.Context, userID int, req models.CreateProductRequest) (*models.Product, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.New("title is required")
	}
	if req.Price <= 0 {
		return nil, errors.New("price must be greater than zero")
	}
	if !models.Categories[req.Category] {
		return nil, errors.New("invalid category")
	}
	if !models.Conditions[req.Condition] {
		return nil, errors.New("invalid condition")
	}

	// A chosen upload wins over a pasted URL.
	imageURL := req.ImageURL
	if req.ImageStorageID != "" {
		imageURL = ""
	}

	product := &models.Product{
		Title:          title,
		Description:    strings.TrimSpace(req.Description),
		Price:          req.Price,
		Category:       req.Category,
		Condition:      req.Condition,
		ImageURL:       imageURL,
		ImageStorageID: req.ImageStorageID,
		City:           strings.TrimSpace(req.City),
		OwnerID:        userID,
		IsApproved:     true,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies a partial patch to the caller's own listing. Omitted fields
// are left unchanged.
func (s *ProductService) Update(ctx context.Context, userID, id int, req models.UpdateProductRequest) (*models.Product, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	if product.OwnerID != userID {
		return nil, ErrNotAuthorized
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errors.New("title is required")
		}
		product.Title = title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, errors.New("price must be greater than zero")
		}
		product.Price = *req.Price
	}
	if req.Category != nil {
		if !models.Categories[*req.Category] {
			return nil, errors.New("invalid category")
		}
		product.Category = *req.Category
	}
	if req.Condition != nil {
		if !models.Conditions[*req.Condition] {
			return nil, errors.New("invalid condition")
		}
		product.Condition = *req.Condition
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.ImageStorageID != nil {
		product.ImageStorageID = *req.ImageStorageID
		if *req.ImageStorageID != "" {
			product.ImageURL = ""
		}
	}
	if req.City != nil {
		product.City = *req.City
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes the caller's own listing. Historical order items keep their
// snapshotted title and price, so no cascade is needed.
func (s *ProductService) Delete(ctx context.Context, userID, id int) error {
	if userID == 0 {
		return ErrAuthRequired
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrNotFound
	}
	if product.OwnerID != userID {
		return ErrNotAuthorized
	}

	return s.repo.Delete(ctx, id)
}
