package services

import (
	"context"
	"errors"
	"testing"

	"ecofinds/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepo struct {
	products map[int]models.Product
	nextID   int

	searchCalls int
	listCalls   int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int]models.Product), nextID: 0}
}

func (f *fakeProductRepo) put(p models.Product) models.Product {
	if p.ID == 0 {
		f.nextID++
		p.ID = f.nextID
	}
	f.products[p.ID] = p
	return p
}

func (f *fakeProductRepo) Search(ctx context.Context, search, category string, limit int) ([]models.Product, error) {
	f.searchCalls++
	out := []models.Product{}
	for _, p := range f.products {
		if p.IsApproved && (category == "" || p.Category == category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ListApproved(ctx context.Context, category string, limit int) ([]models.Product, error) {
	f.listCalls++
	out := []models.Product{}
	for _, p := range f.products {
		if p.IsApproved && (category == "" || p.Category == category) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id int) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProductRepo) ListByOwner(ctx context.Context, ownerID int) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.products {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Create(ctx context.Context, p *models.Product) error {
	*p = f.put(*p)
	return nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p *models.Product) error {
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id int) error {
	delete(f.products, id)
	return nil
}

type fakeOwners struct {
	owners map[int]models.OwnerSummary
	err    error
}

func (f *fakeOwners) FindOwnerSummary(ctx context.Context, id int) (*models.OwnerSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	o, ok := f.owners[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

type fakeStorage struct {
	urls map[string]string
	err  error
}

func (f *fakeStorage) ResolveURL(ctx context.Context, storageID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.urls[storageID], nil
}

func productFixture() (*ProductService, *fakeProductRepo, *fakeOwners, *fakeStorage) {
	repo := newFakeProductRepo()
	owners := &fakeOwners{owners: map[int]models.OwnerSummary{
		7: {Name: "Demo User", Email: "demo@ecofinds.test"},
	}}
	storage := &fakeStorage{urls: map[string]string{"st_1": "https://cdn/st_1.jpg"}}
	return NewProductService(repo, owners, storage), repo, owners, storage
}

func TestListEnrichment(t *testing.T) {
	ctx := context.Background()

	t.Run("owner summary carries name and email only", func(t *testing.T) {
		svc, repo, _, _ := productFixture()
		repo.put(models.Product{Title: "Chair", OwnerID: 7, IsApproved: true})

		out, err := svc.List(ctx, "", "", 0)
		require.NoError(t, err)
		require.Len(t, out, 1)
		require.NotNil(t, out[0].Owner)
		assert.Equal(t, "Demo User", out[0].Owner.Name)
		assert.Equal(t, "demo@ecofinds.test", out[0].Owner.Email)
	})

	t.Run("missing owner degrades to nil without failing the listing", func(t *testing.T) {
		svc, repo, _, _ := productFixture()
		repo.put(models.Product{Title: "Chair", OwnerID: 99, IsApproved: true})

		out, err := svc.List(ctx, "", "", 0)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Nil(t, out[0].Owner)
	})

	t.Run("owner lookup error degrades to nil", func(t *testing.T) {
		svc, repo, owners, _ := productFixture()
		owners.err = errors.New("db down")
		repo.put(models.Product{Title: "Chair", OwnerID: 7, IsApproved: true})

		out, err := svc.List(ctx, "", "", 0)
		require.NoError(t, err)
		assert.Nil(t, out[0].Owner)
	})

	t.Run("storage id resolves image url when direct url is empty", func(t *testing.T) {
		svc, repo, _, _ := productFixture()
		repo.put(models.Product{Title: "Chair", OwnerID: 7, IsApproved: true, ImageStorageID: "st_1"})

		out, err := svc.List(ctx, "", "", 0)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn/st_1.jpg", out[0].ImageURL)
	})

	t.Run("direct url wins over storage id", func(t *testing.T) {
		svc, repo, _, _ := productFixture()
		repo.put(models.Product{Title: "Chair", OwnerID: 7, IsApproved: true, ImageURL: "https://direct.jpg", ImageStorageID: "st_1"})

		out, err := svc.List(ctx, "", "", 0)
		require.NoError(t, err)
		assert.Equal(t, "https://direct.jpg", out[0].ImageURL)
	})

	t.Run("unresolvable storage id leaves image empty", func(t *testing.T) {
		svc, repo, _, storage := productFixture()
		storage.err = errors.New("storage down")
		repo.put(models.Product{Title: "Chair", OwnerID: 7, IsApproved: true, ImageStorageID: "st_1"})

		out, err := svc.List(ctx, "", "", 0)
		require.NoError(t, err)
		assert.Empty(t, out[0].ImageURL)
	})

	t.Run("search routes through the text index branch", func(t *testing.T) {
		svc, repo, _, _ := productFixture()
		repo.put(models.Product{Title: "Chair", OwnerID: 7, IsApproved: true})

		_, err := svc.List(ctx, "", "chair", 0)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.searchCalls)
		assert.Equal(t, 0, repo.listCalls)

		// Whitespace-only search falls back to the browse branch.
		_, err = svc.List(ctx, "", "   ", 0)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.listCalls)
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := productFixture()
	created := repo.put(models.Product{Title: "Chair", OwnerID: 7, IsApproved: true})

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Chair", got.Title)

	missing, err := svc.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetMyProducts(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := productFixture()
	repo.put(models.Product{Title: "Mine", OwnerID: 7, IsApproved: false})
	repo.put(models.Product{Title: "Theirs", OwnerID: 8, IsApproved: true})

	mine, err := svc.GetMyProducts(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Mine", mine[0].Title)

	// Unauthenticated caller sees an empty sequence, not an error.
	none, err := svc.GetMyProducts(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()

	valid := models.CreateProductRequest{
		Title: "Chair", Price: 25, Category: "furniture", Condition: "used",
	}

	t.Run("requires authentication", func(t *testing.T) {
		svc, _, _, _ := productFixture()
		_, err := svc.Create(ctx, 0, valid)
		assert.ErrorIs(t, err, ErrAuthRequired)
	})

	t.Run("creates approved by default", func(t *testing.T) {
		svc, _, _, _ := productFixture()
		p, err := svc.Create(ctx, 7, valid)
		require.NoError(t, err)
		assert.True(t, p.IsApproved)
		assert.Equal(t, 7, p.OwnerID)
		assert.NotZero(t, p.ID)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		svc, _, _, _ := productFixture()

		for name, req := range map[string]models.CreateProductRequest{
			"blank title":       {Title: "  ", Price: 25, Category: "furniture", Condition: "used"},
			"zero price":        {Title: "Chair", Price: 0, Category: "furniture", Condition: "used"},
			"unknown category":  {Title: "Chair", Price: 25, Category: "vehicles", Condition: "used"},
			"unknown condition": {Title: "Chair", Price: 25, Category: "furniture", Condition: "refurbished"},
		} {
			_, err := svc.Create(ctx, 7, req)
			assert.Error(t, err, name)
		}
	})

	t.Run("chosen upload clears a pasted url", func(t *testing.T) {
		svc, _, _, _ := productFixture()
		req := valid
		req.ImageURL = "https://pasted.jpg"
		req.ImageStorageID = "st_9"

		p, err := svc.Create(ctx, 7, req)
		require.NoError(t, err)
		assert.Empty(t, p.ImageURL)
		assert.Equal(t, "st_9", p.ImageStorageID)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := context.Background()

	setup := func() (*ProductService, models.Product) {
		svc, repo, _, _ := productFixture()
		p := repo.put(models.Product{Title: "Chair", Price: 25, Category: "furniture", Condition: "used", OwnerID: 7, IsApproved: true})
		return svc, p
	}

	t.Run("owner can patch fields", func(t *testing.T) {
		svc, p := setup()
		title := "Armchair"
		price := 30.0

		updated, err := svc.Update(ctx, 7, p.ID, models.UpdateProductRequest{Title: &title, Price: &price})
		require.NoError(t, err)
		assert.Equal(t, "Armchair", updated.Title)
		assert.Equal(t, 30.0, updated.Price)
		assert.Equal(t, "furniture", updated.Category)
	})

	t.Run("unknown id", func(t *testing.T) {
		svc, _ := setup()
		_, err := svc.Update(ctx, 7, 999, models.UpdateProductRequest{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("non-owner is rejected", func(t *testing.T) {
		svc, p := setup()
		_, err := svc.Update(ctx, 8, p.ID, models.UpdateProductRequest{})
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})

	t.Run("invalid patch values are rejected", func(t *testing.T) {
		svc, p := setup()
		bad := 0.0
		_, err := svc.Update(ctx, 7, p.ID, models.UpdateProductRequest{Price: &bad})
		assert.Error(t, err)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := productFixture()
	p := repo.put(models.Product{Title: "Chair", OwnerID: 7, IsApproved: true})

	assert.ErrorIs(t, svc.Delete(ctx, 8, p.ID), ErrNotAuthorized)
	assert.ErrorIs(t, svc.Delete(ctx, 7, 999), ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 0, p.ID), ErrAuthRequired)

	require.NoError(t, svc.Delete(ctx, 7, p.ID))
	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
