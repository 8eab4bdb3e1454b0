package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"furnishop/internal/domain"
	apperror "furnishop/internal/errors"
	"furnishop/internal/pkg/database"
	"furnishop/internal/pkg/logger"
	"furnishop/internal/pkg/money"
	"furnishop/internal/reducer"
	"furnishop/internal/repository/customerrepo"
	"furnishop/internal/service/catalogservice"
	"furnishop/internal/service/sessionservice"
)

// usageError indica argumentos inválidos na linha de comando.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func need(args []string, n int, form string) error {
	if len(args) < n {
		return &usageError{msg: "uso: furnishop " + form}
	}
	return nil
}

// command executa um comando da CLI sobre a sessão e imprime o resultado em JSON.
type command struct {
	svc      *sessionservice.Service
	catalog  *catalogservice.Service
	prices   *money.Formatter
	customer *customerrepo.CustomerRepository
	dsn      string
	log      logger.Logger
	out      io.Writer
}

// commandSeparator separa intenções executadas em sequência na mesma invocação
// (no shell: furnishop guest \; promo SALE20 \; checkout).
const commandSeparator = ";"

// splitCommands quebra a linha de comando nas intenções separadas por ";".
// Argumentos terminados em ";" (ex.: "SALE20;") também encerram a intenção.
func splitCommands(args []string) [][]string {
	var (
		out     [][]string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			out = append(out, current)
			current = nil
		}
	}
	for _, arg := range args {
		if arg == commandSeparator {
			flush()
			continue
		}
		if strings.HasSuffix(arg, commandSeparator) {
			current = append(current, strings.TrimSuffix(arg, commandSeparator))
			flush()
			continue
		}
		current = append(current, arg)
	}
	flush()
	return out
}

// runAll executa as intenções em ordem sobre a mesma sessão em memória, de modo que
// campos que só vivem na sessão (código promocional, endereço do convidado) chegam ao checkout.
// Para no primeiro erro.
func (c *command) runAll(ctx context.Context, args []string) error {
	commands := splitCommands(args)
	if len(commands) == 0 {
		return &usageError{msg: "nenhum comando informado"}
	}
	for _, cmd := range commands {
		if err := c.dispatch(ctx, cmd[0], cmd[1:]); err != nil {
			return err
		}
	}
	return nil
}

func (c *command) dispatch(ctx context.Context, name string, args []string) error {
	var err error

	switch name {
	// --- Sessão ---
	case "signup":
		if err = need(args, 2, "signup <email> <senha>"); err != nil {
			return err
		}
		err = c.svc.SignUp(ctx, args[0], args[1])
	case "signin":
		if err = need(args, 2, "signin <email> <senha>"); err != nil {
			return err
		}
		err = c.svc.SignIn(ctx, args[0], args[1])
	case "guest":
		err = c.svc.SignInAnonymously(ctx)
	case "signout":
		err = c.svc.SignOut(ctx)
	case "reset-password":
		if err = need(args, 2, "reset-password <email> <nova-senha>"); err != nil {
			return err
		}
		err = c.svc.ResetPassword(ctx, args[0], args[1])
	case "change-password":
		if err = need(args, 2, "change-password <atual> <nova>"); err != nil {
			return err
		}
		err = c.svc.ChangePassword(ctx, args[0], args[1])

	// --- Catálogo ---
	case "products":
		return c.products(args)

	// --- Carrinho e favoritos ---
	case "add":
		if err = need(args, 1, "add <id> [qtd]"); err != nil {
			return err
		}
		qty := 1
		if len(args) > 1 {
			if qty, err = strconv.Atoi(args[1]); err != nil {
				return &usageError{msg: "quantidade inválida: " + args[1]}
			}
		}
		err = c.svc.AddToCartByID(args[0], qty)
	case "qty":
		if err = need(args, 2, "qty <id> <delta>"); err != nil {
			return err
		}
		delta, convErr := strconv.Atoi(args[1])
		if convErr != nil {
			return &usageError{msg: "delta inválido: " + args[1]}
		}
		c.svc.UpdateQuantity(args[0], delta)
	case "remove":
		if err = need(args, 1, "remove <id>"); err != nil {
			return err
		}
		c.svc.RemoveFromCart(args[0])
	case "clear":
		c.svc.ClearCart()
	case "fav":
		if err = need(args, 1, "fav <id>"); err != nil {
			return err
		}
		c.svc.ToggleFavorite(args[0])
	case "promo":
		if err = need(args, 1, "promo <código>"); err != nil {
			return err
		}
		err = c.svc.ApplyPromoCode(args[0])
	case "checkout":
		err = c.svc.Checkout()

	// --- Perfil ---
	case "address":
		c.svc.UpdateShippingAddress(strings.Join(args, " "))
	case "phone":
		c.svc.UpdatePhone(strings.Join(args, " "))
	case "payment":
		if err = need(args, 1, "payment <método>"); err != nil {
			return err
		}
		c.svc.SetPaymentMethod(args[0])
	case "delivery":
		if err = need(args, 1, "delivery <método>"); err != nil {
			return err
		}
		c.svc.SetDeliveryMethod(args[0])
	case "name":
		err = c.svc.UpdateDisplayName(strings.Join(args, " "))
	case "profile":
		if err = need(args, 3, "profile <nome> <endereço> <telefone>"); err != nil {
			return err
		}
		err = c.svc.SaveProfile(args[0], args[1], args[2])
	case "select-address":
		if err = need(args, 1, "select-address <id>"); err != nil {
			return err
		}
		c.svc.SelectAddress(args[0])

	// --- Consultas ---
	case "orders":
		return printJSON(c.out, c.svc.Snapshot().Orders)
	case "show":
	case "customers":
		st := c.svc.Snapshot()
		if err := requireAdmin(st); err != nil {
			return err
		}
		return printJSON(c.out, st.Customers)
	case "watch":
		return c.watch(ctx)

	default:
		return &usageError{msg: "comando desconhecido: " + name}
	}

	if printErr := printJSON(c.out, newSessionView(c.svc.Snapshot(), c.prices)); printErr != nil {
		return printErr
	}
	return err
}

func requireAdmin(st domain.SessionState) error {
	if st.Profile == nil || st.Profile.Role != domain.RoleAdmin {
		return apperror.NewNotAuthenticatedError()
	}
	return nil
}

// --- products ---

type productView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	Material    string `json:"material,omitempty"`
	Dimensions  string `json:"dimensions,omitempty"`
	Color       string `json:"color,omitempty"`
	Favorite    bool   `json:"favorite"`
	Description string `json:"description,omitempty"`
}

type catalogView struct {
	Products   []productView `json:"products"`
	Categories []string      `json:"categories"`
	MinPrice   string        `json:"min_price"`
	MaxPrice   string        `json:"max_price"`
}

func (c *command) products(args []string) error {
	filter, err := parseProductFilter(args)
	if err != nil {
		return err
	}

	st := c.svc.Snapshot()
	filtered := c.catalog.Filter(st.Products, st.Favorites, filter)
	lo, hi := c.catalog.PriceBounds(st.Products)

	view := catalogView{
		Products:   make([]productView, 0, len(filtered)),
		Categories: catalogservice.Categories(st.Products),
		MinPrice:   formatDisplay(c.prices, lo),
		MaxPrice:   formatDisplay(c.prices, hi),
	}
	for _, p := range filtered {
		view.Products = append(view.Products, productView{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Price:       c.prices.Format(p.Price),
			Material:    p.Material,
			Dimensions:  p.Dimensions,
			Color:       p.Color,
			Favorite:    st.Favorites.Has(p.ID),
			Description: p.Description,
		})
	}
	return printJSON(c.out, view)
}

// formatDisplay formata um valor que já está na moeda de exibição.
func formatDisplay(prices *money.Formatter, display float64) string {
	return prices.Format(display / prices.Convert(1))
}

// parseProductFilter lê as opções do comando products.
func parseProductFilter(args []string) (domain.ProductFilter, error) {
	var (
		filter domain.ProductFilter
		band   string
		order  string
	)

	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&filter.Query, "q", "", "busca no nome e na descrição")
	fs.StringVar(&filter.Category, "category", "", "categoria")
	fs.StringVar(&band, "band", "", "faixa de preço: LOW, MID ou HIGH")
	fs.StringVar(&order, "sort", "", "PRICE_ASC ou PRICE_DESC")
	fs.BoolVar(&filter.FavoritesOnly, "fav", false, "somente favoritos")
	fs.Func("min", "preço mínimo (moeda de exibição)", floatPtr(&filter.MinPrice))
	fs.Func("max", "preço máximo (moeda de exibição)", floatPtr(&filter.MaxPrice))

	if err := fs.Parse(args); err != nil {
		return domain.ProductFilter{}, &usageError{msg: "products: " + err.Error()}
	}
	if fs.NArg() > 0 && filter.Query == "" {
		filter.Query = strings.Join(fs.Args(), " ")
	}

	filter.Band = catalogservice.ParseBand(band)
	filter.Sort = catalogservice.ParseSort(order)
	return filter, nil
}

func floatPtr(dst **float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("número inválido %q", s)
		}
		*dst = &v
		return nil
	}
}

// --- show ---

type cartLineView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

type sessionView struct {
	Profile         *domain.UserProfile     `json:"profile"`
	Error           string                  `json:"error,omitempty"`
	ErrorCategory   string                  `json:"error_category,omitempty"`
	CheckoutMessage string                  `json:"checkout_message,omitempty"`
	ProfileMessage  string                  `json:"profile_message,omitempty"`
	Cart            []cartLineView          `json:"cart"`
	CartCount       int                     `json:"cart_count"`
	CartTotal       string                  `json:"cart_total"`
	Favorites       domain.FavoriteSet      `json:"favorites"`
	ShippingAddress string                  `json:"shipping_address"`
	Phone           string                  `json:"phone"`
	PaymentMethod   string                  `json:"payment_method"`
	DeliveryMethod  string                  `json:"delivery_method"`
	PromoCode       string                  `json:"promo_code,omitempty"`
	PromoDiscount   float64                 `json:"promo_discount"`
	Addresses       []domain.Address        `json:"addresses"`
	Orders          int                     `json:"orders"`
	LastCheckout    *domain.CheckoutSummary `json:"last_checkout,omitempty"`
}

func newSessionView(st domain.SessionState, prices *money.Formatter) sessionView {
	lines := make([]cartLineView, 0, len(st.Cart))
	for _, l := range st.Cart {
		lines = append(lines, cartLineView{
			ID:       l.Product.ID,
			Name:     l.Product.Name,
			Quantity: l.Quantity,
			Subtotal: prices.Format(l.Subtotal()),
		})
	}
	return sessionView{
		Profile:         st.Profile,
		Error:           st.Error,
		ErrorCategory:   st.ErrorCategory,
		CheckoutMessage: st.CheckoutMessage,
		ProfileMessage:  st.ProfileMessage,
		Cart:            lines,
		CartCount:       reducer.CartCount(st.Cart),
		CartTotal:       prices.Format(reducer.CartTotal(st.Cart)),
		Favorites:       st.Favorites,
		ShippingAddress: st.ShippingAddress,
		Phone:           st.Phone,
		PaymentMethod:   st.PaymentMethod,
		DeliveryMethod:  st.DeliveryMethod,
		PromoCode:       st.PromoCode,
		PromoDiscount:   st.PromoDiscount,
		Addresses:       st.Addresses,
		Orders:          len(st.Orders),
		LastCheckout:    st.LastCheckout,
	}
}

// --- watch ---

// watch acompanha a tabela de clientes via LISTEN/NOTIFY e imprime a lista a cada mudança,
// até o processo receber SIGINT/SIGTERM.
func (c *command) watch(ctx context.Context) error {
	if err := requireAdmin(c.svc.Snapshot()); err != nil {
		return err
	}

	changes, err := database.Listen(ctx, c.dsn, database.CustomersChannel, c.log)
	if err != nil {
		return err
	}
	updates, cancel := c.svc.Subscribe()
	defer cancel()

	go c.svc.WatchCustomers(ctx, c.customer.Stream(ctx, changes))

	var last []byte
	for {
		select {
		case <-ctx.Done():
			return nil
		case st, ok := <-updates:
			if !ok {
				return nil
			}
			var buf bytes.Buffer
			if err := printJSON(&buf, st.Customers); err != nil {
				return err
			}
			if bytes.Equal(buf.Bytes(), last) {
				continue
			}
			last = buf.Bytes()
			if _, err := c.out.Write(last); err != nil {
				return err
			}
		}
	}
}
