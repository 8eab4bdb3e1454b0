package reducer_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
	"furnishop/internal/reducer"
)

type plainPrices struct{}

func (plainPrices) Format(base float64) string { return strconv.FormatFloat(base, 'f', 2, 64) }

var (
	table = domain.Product{ID: "oak-table", Name: "Mesa de jantar de carvalho", Price: 100}
	sofa  = domain.Product{ID: "leather-sofa", Name: "Sofá de couro", Price: 250}
)

func newState() domain.SessionState {
	return reducer.NewState([]domain.Address{
		{ID: "home", Label: "Casa", Line: "Rua das Flores, 10", Phone: "+55 11 91234-5678"},
	})
}

func TestAddToCart_MergesAndClamps(t *testing.T) {
	s := newState()
	s.CheckoutMessage = "pedido anterior"

	s = reducer.AddToCart(s, table, 2)
	s = reducer.AddToCart(s, sofa, 0) // clamped to 1
	s = reducer.AddToCart(s, table, 3)

	require.Len(t, s.Cart, 2)
	assert.Equal(t, 5, s.Cart[0].Quantity)
	assert.Equal(t, 1, s.Cart[1].Quantity)
	assert.Empty(t, s.CheckoutMessage)
	assert.Equal(t, 6, reducer.CartCount(s.Cart))
	assert.InDelta(t, 750.0, reducer.CartTotal(s.Cart), 1e-9)
}

func TestAddToCart_DoesNotMutatePreviousSnapshot(t *testing.T) {
	before := reducer.AddToCart(newState(), table, 1)

	after := reducer.AddToCart(before, table, 1)

	assert.Equal(t, 1, before.Cart[0].Quantity)
	assert.Equal(t, 2, after.Cart[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	s := reducer.AddToCart(newState(), table, 2)

	s = reducer.UpdateQuantity(s, "oak-table", 3)
	assert.Equal(t, 5, s.Cart[0].Quantity)

	unchanged := reducer.UpdateQuantity(s, "missing", -1)
	assert.Equal(t, s.Cart, unchanged.Cart)

	s = reducer.UpdateQuantity(s, "oak-table", -5)
	assert.Empty(t, s.Cart)
}

func TestRemoveFromCart(t *testing.T) {
	s := reducer.AddToCart(newState(), table, 1)
	s = reducer.AddToCart(s, sofa, 1)

	s = reducer.RemoveFromCart(s, "oak-table")

	require.Len(t, s.Cart, 1)
	assert.Equal(t, "leather-sofa", s.Cart[0].Product.ID)
	assert.Len(t, reducer.RemoveFromCart(s, "oak-table").Cart, 1)
}

func TestClearCart_ResetsPromoTogether(t *testing.T) {
	s := reducer.AddToCart(newState(), table, 1)
	s, err := reducer.ApplyPromoCode(s, "sale20")
	require.NoError(t, err)
	s = reducer.WithError(s, apperror.NewEmptyCartError())
	s.CheckoutMessage = "msg"

	s = reducer.ClearCart(s)

	assert.Empty(t, s.Cart)
	assert.Empty(t, s.PromoCode)
	assert.Zero(t, s.PromoDiscount)
	assert.Empty(t, s.Error)
	assert.Empty(t, s.CheckoutMessage)
}

func TestApplyPromoCode(t *testing.T) {
	s, err := reducer.ApplyPromoCode(newState(), "  sale10 ")
	require.NoError(t, err)
	assert.Equal(t, "SALE10", s.PromoCode)
	assert.Equal(t, 0.10, s.PromoDiscount)

	s, err = reducer.ApplyPromoCode(s, "bogus")
	assert.IsType(t, &apperror.InvalidPromoError{}, err)
	assert.Equal(t, "BOGUS", s.PromoCode)
	assert.Zero(t, s.PromoDiscount)
	assert.Equal(t, apperror.CategoryInvalidPromo, s.ErrorCategory)
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := newState()
	s.ShippingAddress = "Rua A, 1"

	next, _, err := reducer.Checkout(s, reducer.CheckoutInput{OrderID: "order-1"}, plainPrices{})

	assert.IsType(t, &apperror.EmptyCartError{}, err)
	assert.Empty(t, next.Orders)
	assert.Equal(t, apperror.CategoryEmptyCart, next.ErrorCategory)
}

func TestCheckout_MissingAddress(t *testing.T) {
	s := reducer.AddToCart(newState(), table, 2)
	s.ShippingAddress = "   "

	next, _, err := reducer.Checkout(s, reducer.CheckoutInput{OrderID: "order-1"}, plainPrices{})

	assert.IsType(t, &apperror.MissingAddressError{}, err)
	assert.Len(t, next.Cart, 1)
	assert.Empty(t, next.Orders)
}

func TestCheckout_WithPromo(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	s := reducer.AddToCart(newState(), table, 2)
	s, err := reducer.ApplyPromoCode(s, "SALE20")
	require.NoError(t, err)
	s.ShippingAddress = "Rua A, 1"

	next, order, err := reducer.Checkout(s, reducer.CheckoutInput{OrderID: "order-1", Now: now}, plainPrices{})
	require.NoError(t, err)

	assert.Empty(t, next.Cart)
	assert.Equal(t, "SALE20", next.PromoCode)
	assert.Equal(t, 0.20, next.PromoDiscount)
	require.Len(t, next.Orders, 1)
	assert.Equal(t, order, next.Orders[0])

	assert.Equal(t, "order-1", order.ID)
	assert.InDelta(t, 200.0, order.Total, 1e-9)
	assert.Equal(t, domain.OrderStatusNew, order.Status)
	assert.Equal(t, now, order.CreatedAt)
	assert.Equal(t, reducer.NoPhone, order.Address.Phone)
	assert.Equal(t, []domain.OrderLine{{ProductID: "oak-table", Name: table.Name, Price: 100, Quantity: 2}}, order.Lines)

	require.NotNil(t, next.LastCheckout)
	assert.InDelta(t, 160.0, next.LastCheckout.DiscountedTotal, 1e-9)
	assert.True(t, next.LastCheckout.Discounted)
	assert.Contains(t, next.CheckoutMessage, plainPrices{}.Format(160))
	assert.Contains(t, next.CheckoutMessage, "desconto")
	assert.Contains(t, next.CheckoutMessage, "Rua A, 1")
	assert.Contains(t, next.CheckoutMessage, domain.DefaultPaymentMethod)
}

func TestCheckout_ClampsDiscount(t *testing.T) {
	s := reducer.AddToCart(newState(), table, 1)
	s.ShippingAddress = "Rua A, 1"
	s.PromoDiscount = 1.5

	next, _, err := reducer.Checkout(s, reducer.CheckoutInput{OrderID: "order-1"}, plainPrices{})
	require.NoError(t, err)
	assert.Zero(t, next.LastCheckout.DiscountedTotal)
}

func TestSaveProfile(t *testing.T) {
	s := newState()
	_, err := reducer.SaveProfile(s, "Ana", "Rua A", "+55 11 91234-5678")
	assert.IsType(t, &apperror.NotAuthenticatedError{}, err)

	s.Profile = &domain.UserProfile{UID: "u-1", Email: "ana@loja.com", Role: domain.RoleCustomer}

	failed, err := reducer.SaveProfile(s, "Ana", "Rua A", "12345")
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Empty(t, failed.ShippingAddress)
	assert.Empty(t, failed.Profile.DisplayName)

	_, err = reducer.SaveProfile(s, " ", "Rua A", "+55 11 91234-5678")
	assert.IsType(t, &apperror.ValidationError{}, err)

	saved, err := reducer.SaveProfile(s, "Ana", "Rua A", "+55 11 91234-5678")
	require.NoError(t, err)
	assert.Equal(t, "Ana", saved.Profile.DisplayName)
	assert.Equal(t, "Rua A", saved.ShippingAddress)
	assert.NotEmpty(t, saved.ProfileMessage)
	assert.Empty(t, s.Profile.DisplayName, "snapshot anterior não muda")
}

func TestSelectAddress(t *testing.T) {
	s := reducer.SelectAddress(newState(), "home")
	assert.Equal(t, "Rua das Flores, 10", s.ShippingAddress)
	assert.Equal(t, "+55 11 91234-5678", s.Phone)

	same := reducer.SelectAddress(s, "nowhere")
	assert.Equal(t, s.ShippingAddress, same.ShippingAddress)
}

func TestValidateCredentials(t *testing.T) {
	assert.Error(t, reducer.ValidateCredentials("", "secret1"))
	assert.Error(t, reducer.ValidateCredentials("sem-arroba", "secret1"))
	assert.Error(t, reducer.ValidateCredentials("a@b.com", "12345"))
	assert.NoError(t, reducer.ValidateCredentials(" a@b.com ", "123456"))
}

func TestValidateCredentials_CountsCharactersNotBytes(t *testing.T) {
	// "ççç" ocupa 6 bytes, mas tem só 3 caracteres.
	err := reducer.ValidateCredentials("a@b.com", "ççç")
	assert.Equal(t, apperror.CategoryValidation, apperror.CategoryOf(err))

	assert.NoError(t, reducer.ValidateCredentials("a@b.com", "çãéíõú"))
	assert.Equal(t, 3, reducer.PasswordLength("ççç"))
	assert.Equal(t, 11, reducer.DigitCount("+7 (900) 123-45-67"))
}

func TestReconcile(t *testing.T) {
	s := newState()
	s.Profile = &domain.UserProfile{UID: "u-1", Email: "ana@loja.com"}
	s.ShippingAddress = "antigo"
	s.Phone = "fone antigo"

	records := []domain.CustomerRecord{
		{UID: "u-2", Email: "bia@loja.com", Address: "Rua B"},
		{UID: "other", Email: "ana@loja.com", Address: "Rua A, 1", Phone: ""},
	}
	next := reducer.Reconcile(s, records, "guest")

	assert.Len(t, next.Customers, 2)
	assert.Equal(t, "Rua A, 1", next.ShippingAddress)
	assert.Equal(t, "fone antigo", next.Phone, "telefone vazio no registro mantém o valor em memória")

	s.Profile = &domain.UserProfile{UID: "guest", Email: "guest@offline"}
	guest := reducer.Reconcile(s, []domain.CustomerRecord{{UID: "guest", Address: "Rua X"}}, "guest")
	assert.Equal(t, "antigo", guest.ShippingAddress)
	assert.Len(t, guest.Customers, 1)
}

func TestSignedIn_RestoresRecordFields(t *testing.T) {
	s := reducer.AddToCart(newState(), sofa, 1)
	s = reducer.WithError(s, apperror.NewInvalidCredentialsError())

	next := reducer.SignedIn(s, domain.UserProfile{UID: "u-1", Email: "ana@loja.com"}, reducer.Restored{
		Cart:      []domain.CartLine{{Product: table, Quantity: 3}},
		Favorites: []string{"sideboard"},
		Record: &domain.CustomerRecord{
			Address: "Rua A", Phone: "123", PaymentMethod: "Cash", DisplayName: "Ana",
		},
	})

	assert.Empty(t, next.Error)
	assert.Equal(t, []domain.CartLine{{Product: table, Quantity: 3}}, next.Cart)
	assert.True(t, next.Favorites.Has("sideboard"))
	assert.Equal(t, "Rua A", next.ShippingAddress)
	assert.Equal(t, "Cash", next.PaymentMethod)
	assert.Equal(t, domain.DefaultDeliveryMethod, next.DeliveryMethod)
	assert.Equal(t, "Ana", next.Profile.DisplayName)
}
