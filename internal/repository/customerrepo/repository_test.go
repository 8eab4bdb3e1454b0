package customerrepo_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnishop/internal/domain"
	"furnishop/internal/pkg/logger"
	"furnishop/internal/repository/customerrepo"
)

var customerColumns = []string{"uid", "email", "display_name", "role", "address", "phone", "payment_method", "delivery_method", "password_hash", "updated_at"}

func newRepo(t *testing.T) (*customerrepo.CustomerRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return customerrepo.NewCustomerRepository(db, time.Second, logger.NewNopLogger()), mock
}

func TestUpsert_LowercasesEmail(t *testing.T) {
	repo, mock := newRepo(t)
	updated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers")).
		WithArgs("u1", "ana@loja.com", "Ana", "customer", "Rua A, 1", "79990001122", "Card", "courier", "hash", updated).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), domain.CustomerRecord{
		UID: "u1", Email: "Ana@Loja.com", DisplayName: "Ana", Role: domain.RoleCustomer,
		Address: "Rua A, 1", Phone: "79990001122", PaymentMethod: "Card", DeliveryMethod: "courier",
		PasswordHash: "hash", UpdatedAt: updated,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO customers")).WillReturnError(errors.New("conn refused"))

	err := repo.Upsert(context.Background(), domain.CustomerRecord{UID: "u1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "conn refused")
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock := newRepo(t)
	updated := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE email = $1")).
		WithArgs("admin@furniture.test").
		WillReturnRows(sqlmock.NewRows(customerColumns).
			AddRow("a1", "admin@furniture.test", "Admin", "admin", "", "", "Card", "courier", "h", updated))

	record, err := repo.FindByEmail(context.Background(), " ADMIN@furniture.test ")

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "a1", record.UID)
	assert.Equal(t, domain.RoleAdmin, record.Role)
	assert.Equal(t, "h", record.PasswordHash)
}

func TestFindByEmail_NotFoundReturnsNil(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE email = $1")).
		WithArgs("x@y.com").
		WillReturnRows(sqlmock.NewRows(customerColumns))

	record, err := repo.FindByEmail(context.Background(), "x@y.com")

	assert.NoError(t, err)
	assert.Nil(t, record)
}

func TestFindAll_UnknownRoleBecomesCustomer(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM customers ORDER BY uid")).
		WillReturnRows(sqlmock.NewRows(customerColumns).
			AddRow("u1", "a@b.com", "A", "superuser", "Rua 1", "", "Card", "courier", "", now).
			AddRow("u2", "c@d.com", "C", "admin", "", "", "Cash", "pickup", "", now))

	records, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.RoleCustomer, records[0].Role)
	assert.Equal(t, domain.RoleAdmin, records[1].Role)
	assert.Equal(t, "pickup", records[1].DeliveryMethod)
}

func TestStream_EmitsInitiallyAndOnEachChange(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers ORDER BY uid")).
		WillReturnRows(sqlmock.NewRows(customerColumns).
			AddRow("u1", "a@b.com", "A", "customer", "", "", "Card", "courier", "", now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM customers ORDER BY uid")).
		WillReturnRows(sqlmock.NewRows(customerColumns).
			AddRow("u1", "a@b.com", "A", "customer", "", "", "Card", "courier", "", now).
			AddRow("u2", "c@d.com", "C", "customer", "", "", "Card", "courier", "", now))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := make(chan struct{})
	stream := repo.Stream(ctx, changes)

	first := <-stream
	assert.Len(t, first, 1)

	changes <- struct{}{}
	second := <-stream
	assert.Len(t, second, 2)

	close(changes)
	_, open := <-stream
	assert.False(t, open)
	assert.NoError(t, mock.ExpectationsWereMet())
}
