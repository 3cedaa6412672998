package category

import (
	"context"
	"strings"
	"testing"

	"catalog/domain"
	"catalog/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	nextID     uint
	categories map[uint]domain.Category
	updates    int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{categories: map[uint]domain.Category{}}
}

func (m *memoryRepository) GetCategories(_ context.Context, limit, offset int) ([]domain.Category, error) {
	res := []domain.Category{}
	for id := uint(1); id <= m.nextID; id++ {
		if c, ok := m.categories[id]; ok {
			res = append(res, c)
		}
	}
	if offset >= len(res) {
		return []domain.Category{}, nil
	}
	return res[offset:min(offset+limit, len(res))], nil
}

func (m *memoryRepository) CountCategories(context.Context) (int64, error) {
	return int64(len(m.categories)), nil
}

func (m *memoryRepository) GetCategory(_ context.Context, id uint) (domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return domain.Category{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *memoryRepository) CreateCategory(_ context.Context, c *domain.Category) error {
	m.nextID++
	c.ID = m.nextID
	m.categories[c.ID] = *c
	return nil
}

func (m *memoryRepository) UpdateCategory(_ context.Context, c *domain.Category) error {
	m.updates++
	m.categories[c.ID] = *c
	return nil
}

func (m *memoryRepository) DeleteCategory(_ context.Context, id uint) error {
	if _, ok := m.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

type memoryStore struct {
	repo *memoryRepository
}

func (s memoryStore) Read(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	return fn(ctx, s.repo)
}

func (s memoryStore) Transaction(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	return fn(ctx, s.repo)
}

func newTestService() (*Service, *memoryRepository) {
	repo := newMemoryRepository()
	return NewService(memoryStore{repo: repo}), repo
}

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var ve *validation.Error
	require.ErrorAs(t, err, &ve)
	return ve.Fields
}

func TestCreateCategory(t *testing.T) {
	service, _ := newTestService()

	category, err := service.Create(context.Background(), CreateInput{Name: "Electronics"})
	require.NoError(t, err)
	assert.Equal(t, uint(1), category.ID)
	assert.Equal(t, "Electronics", category.Name)
}

func TestCreateCategoryValidation(t *testing.T) {
	service, repo := newTestService()

	_, err := service.Create(context.Background(), CreateInput{})
	assert.Equal(t, map[string][]string{"name": {"The name field is required."}}, fieldErrors(t, err))

	_, err = service.Create(context.Background(), CreateInput{Name: strings.Repeat("a", 256)})
	assert.Equal(t, map[string][]string{"name": {"The name field must not be greater than 255 characters."}}, fieldErrors(t, err))

	assert.Empty(t, repo.categories)
}

func TestCategoryNamesAreTrimmed(t *testing.T) {
	service, repo := newTestService()

	_, err := service.Create(context.Background(), CreateInput{Name: "   "})
	assert.Equal(t, map[string][]string{"name": {"The name field is required."}}, fieldErrors(t, err))
	assert.Empty(t, repo.categories)

	created, err := service.Create(context.Background(), CreateInput{Name: " Electronics  "})
	require.NoError(t, err)
	assert.Equal(t, "Electronics", created.Name)

	blank := " \t "
	_, err = service.Update(context.Background(), created.ID, UpdateInput{Name: &blank})
	assert.Equal(t, map[string][]string{"name": {"The name field is required."}}, fieldErrors(t, err))
	assert.Zero(t, repo.updates)
}

func TestListCategoriesPaginates(t *testing.T) {
	service, _ := newTestService()
	for range 12 {
		_, err := service.Create(context.Background(), CreateInput{Name: "Category"})
		require.NoError(t, err)
	}

	firstPage, total, err := service.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, firstPage, PageSize)
	assert.Equal(t, int64(12), total)

	secondPage, _, err := service.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, secondPage, 2)
	assert.Equal(t, uint(11), secondPage[0].ID)
}

func TestUpdateCategoryOnlyTouchesSuppliedFields(t *testing.T) {
	service, _ := newTestService()
	description := "Gadgets"
	created, err := service.Create(context.Background(), CreateInput{Name: "Electronics", Description: &description})
	require.NoError(t, err)

	name := "Devices"
	updated, err := service.Update(context.Background(), created.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Devices", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Gadgets", *updated.Description)
}

func TestUpdateCategoryChecksExistenceBeforeValidation(t *testing.T) {
	service, repo := newTestService()
	empty := ""

	_, err := service.Update(context.Background(), 42, UpdateInput{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	created, err := service.Create(context.Background(), CreateInput{Name: "Electronics"})
	require.NoError(t, err)

	_, err = service.Update(context.Background(), created.ID, UpdateInput{Name: &empty})
	assert.Equal(t, map[string][]string{"name": {"The name field is required."}}, fieldErrors(t, err))
	assert.Zero(t, repo.updates)
}

func TestDeleteCategory(t *testing.T) {
	service, _ := newTestService()
	created, err := service.Create(context.Background(), CreateInput{Name: "Electronics"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))

	_, err = service.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, service.Delete(context.Background(), created.ID), domain.ErrNotFound)
}
