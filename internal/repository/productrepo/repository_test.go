package productrepo_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"furnishop/internal/domain"
	"furnishop/internal/pkg/cache"
	"furnishop/internal/pkg/logger"
	"furnishop/internal/repository/productrepo"
)

// MockCache é uma implementação mock de cache.Client
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

var productColumns = []string{"product_id", "name", "description", "price", "image_ref", "dimensions", "material", "color", "category"}

func sofa() domain.Product {
	return domain.Product{ID: "sofa", Name: "Sofá Oslo", Description: "Três lugares", Price: 899, ImageRef: "sofa.png", Dimensions: "220x90x85", Material: "Linho", Color: "Cinza", Category: "Sala"}
}

func TestFindAll_CacheMiss_QueriesDBAndPopulatesCache(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockCache := new(MockCache)
	repo := productrepo.NewProductRepository(db, mockCache, time.Second, time.Minute, logger.NewNopLogger())

	p := sofa()
	mockCache.On("Get", mock.Anything, "catalog:all").Return("", cache.ErrCacheMiss)
	mockCache.On("Set", mock.Anything, "catalog:all", mock.Anything, time.Minute).Return(nil)

	sqlMock.ExpectQuery(regexp.QuoteMeta("SELECT product_id, name, description, price")).
		WillReturnRows(sqlmock.NewRows(productColumns).
			AddRow(p.ID, p.Name, p.Description, p.Price, p.ImageRef, p.Dimensions, p.Material, p.Color, p.Category))

	products, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Product{p}, products)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
	mockCache.AssertExpectations(t)
}

func TestFindAll_CacheHit_SkipsDB(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cached, _ := json.Marshal([]domain.Product{sofa()})
	mockCache := new(MockCache)
	mockCache.On("Get", mock.Anything, "catalog:all").Return(string(cached), nil)

	repo := productrepo.NewProductRepository(db, mockCache, time.Second, time.Minute, logger.NewNopLogger())
	products, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.Product{sofa()}, products)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
	mockCache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFindAll_NoCache_DBError(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := productrepo.NewProductRepository(db, nil, time.Second, time.Minute, logger.NewNopLogger())
	sqlMock.ExpectQuery(regexp.QuoteMeta("SELECT product_id")).WillReturnError(errors.New("conn refused"))

	products, err := repo.FindAll(context.Background())

	assert.Error(t, err)
	assert.Nil(t, products)
	assert.Contains(t, err.Error(), "conn refused")
}

func TestUpsertAll_WritesEveryProductAndInvalidatesCache(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockCache := new(MockCache)
	mockCache.On("Delete", mock.Anything, "catalog:all").Return(nil)
	repo := productrepo.NewProductRepository(db, mockCache, time.Second, time.Minute, logger.NewNopLogger())

	p := sofa()
	q := p
	q.ID, q.Name = "mesa", "Mesa Nogueira"

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs(p.ID, p.Name, p.Description, p.Price, p.ImageRef, p.Dimensions, p.Material, p.Color, p.Category).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).
		WithArgs(q.ID, q.Name, q.Description, q.Price, q.ImageRef, q.Dimensions, q.Material, q.Color, q.Category).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	err = repo.UpsertAll(context.Background(), []domain.Product{p, q})

	require.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
	mockCache.AssertExpectations(t)
}

func TestUpsertAll_ExecFailure_RollsBack(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := productrepo.NewProductRepository(db, nil, time.Second, time.Minute, logger.NewNopLogger())

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec(regexp.QuoteMeta("INSERT INTO products")).WillReturnError(errors.New("constraint"))
	sqlMock.ExpectRollback()

	err = repo.UpsertAll(context.Background(), []domain.Product{sofa()})

	assert.Error(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
