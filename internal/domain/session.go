package domain

// Valores padrão de uma sessão nova.
const (
	DefaultPaymentMethod  = "Card"
	DefaultDeliveryMethod = "courier"
)

// CheckoutSummary guarda os valores numéricos do último checkout bem-sucedido.
type CheckoutSummary struct {
	OrderID         string  `json:"order_id"`
	Total           float64 `json:"total"`
	DiscountedTotal float64 `json:"discounted_total"`
	Discounted      bool    `json:"discounted"`
}

// SessionState é a fotografia completa da sessão de compras.
// Tratado como imutável: redutores sempre constroem novas fatias e mapas.
type SessionState struct {
	Profile         *UserProfile     `json:"profile,omitempty"`
	Loading         bool             `json:"loading"`
	Error           string           `json:"error,omitempty"`
	ErrorCategory   string           `json:"error_category,omitempty"`
	CheckoutMessage string           `json:"checkout_message,omitempty"`
	ProfileMessage  string           `json:"profile_message,omitempty"`
	Products        []Product        `json:"products"`
	Cart            []CartLine       `json:"cart"`
	Favorites       FavoriteSet      `json:"favorites"`
	Addresses       []Address        `json:"addresses"`
	Orders          []Order          `json:"orders"`
	Customers       []UserProfile    `json:"customers,omitempty"`
	ShippingAddress string           `json:"shipping_address"`
	Phone           string           `json:"phone"`
	PaymentMethod   string           `json:"payment_method"`
	DeliveryMethod  string           `json:"delivery_method"`
	PromoCode       string           `json:"promo_code,omitempty"`
	PromoDiscount   float64          `json:"promo_discount"`
	LastCheckout    *CheckoutSummary `json:"last_checkout,omitempty"`
}

// UID retorna o identificador do perfil ativo, ou "" sem sessão.
func (s SessionState) UID() string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.UID
}

// Clone devolve uma cópia profunda, segura para entregar a observadores.
func (s SessionState) Clone() SessionState {
	out := s
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	if s.LastCheckout != nil {
		c := *s.LastCheckout
		out.LastCheckout = &c
	}
	out.Products = append([]Product(nil), s.Products...)
	out.Cart = append([]CartLine(nil), s.Cart...)
	out.Addresses = append([]Address(nil), s.Addresses...)
	out.Customers = append([]UserProfile(nil), s.Customers...)
	out.Orders = make([]Order, len(s.Orders))
	for i, o := range s.Orders {
		o.Lines = append([]OrderLine(nil), o.Lines...)
		out.Orders[i] = o
	}
	out.Favorites = NewFavoriteSet(s.Favorites.IDs()...)
	return out
}
