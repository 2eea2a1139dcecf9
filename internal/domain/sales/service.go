package sales

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"salon/internal/domain/catalog"
)

var ErrEmptySale = errors.New("sale has no items")

type StoreAPI interface {
	Create(ctx context.Context, sale Sale) (string, error)
	Get(ctx context.Context, id string) (Sale, error)
	List(ctx context.Context, from, to time.Time, limit, offset int) ([]Sale, error)
}

type CatalogAPI interface {
	GetService(ctx context.Context, id string) (catalog.Service, error)
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
	DecrementStock(ctx context.Context, productID string, quantity int) error
	IncrementStock(ctx context.Context, productID string, quantity int) error
}

// PaymentLinkCreator turns a sale into a hosted checkout URL. Satisfied by
// the Stripe client; nil disables pay-by-link sales.
type PaymentLinkCreator interface {
	CreateCheckout(ctx context.Context, amountCents int64, description, customerEmail string) (string, error)
}

type Service struct {
	Store    StoreAPI
	Catalog  CatalogAPI
	Payments PaymentLinkCreator
}

func NewService(store StoreAPI, cat CatalogAPI, payments PaymentLinkCreator) *Service {
	return &Service{Store: store, Catalog: cat, Payments: payments}
}

// CreateSale resolves item descriptions and prices from the catalog,
// decrements product stock, and when the payment method is "link" attaches a
// hosted checkout URL.
func (s *Service) CreateSale(ctx context.Context, sale Sale, customerEmail string) (Sale, error) {
	if len(sale.Items) == 0 {
		return Sale{}, ErrEmptySale
	}
	if sale.SoldAt.IsZero() {
		sale.SoldAt = time.Now()
	}

	for i, item := range sale.Items {
		if item.Quantity <= 0 {
			return Sale{}, fmt.Errorf("item %d: quantity must be positive", i)
		}
		resolved, err := s.resolveItem(ctx, item)
		if err != nil {
			return Sale{}, err
		}
		sale.Items[i] = resolved
	}
	sale.Total = sale.ComputedTotal()

	// Stock is decremented before the sale is persisted, so every later
	// failure must put the decremented quantities back.
	decremented := make([]SaleItem, 0, len(sale.Items))
	restore := func() {
		for _, item := range decremented {
			if err := s.Catalog.IncrementStock(ctx, item.ReferenceID, item.Quantity); err != nil {
				slog.Error("restore stock after failed sale", "product", item.ReferenceID, "quantity", item.Quantity, "error", err)
			}
		}
	}
	for _, item := range sale.Items {
		if item.Kind != ItemKindProduct || item.ReferenceID == "" {
			continue
		}
		if err := s.Catalog.DecrementStock(ctx, item.ReferenceID, item.Quantity); err != nil {
			restore()
			return Sale{}, fmt.Errorf("product %s: %w", item.Description, err)
		}
		decremented = append(decremented, item)
	}

	if sale.PaymentMethod == PaymentLink {
		if s.Payments == nil {
			restore()
			return Sale{}, errors.New("pay-by-link is not configured")
		}
		url, err := s.Payments.CreateCheckout(ctx, toCents(sale.Total), saleDescription(sale), customerEmail)
		if err != nil {
			restore()
			return Sale{}, fmt.Errorf("create checkout: %w", err)
		}
		sale.PaymentURL = url
	}

	id, err := s.Store.Create(ctx, sale)
	if err != nil {
		restore()
		return Sale{}, err
	}
	sale.ID = id
	return sale, nil
}

func (s *Service) GetSale(ctx context.Context, id string) (Sale, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) ListSales(ctx context.Context, from, to time.Time, limit, offset int) ([]Sale, error) {
	return s.Store.List(ctx, from, to, limit, offset)
}

func (s *Service) resolveItem(ctx context.Context, item SaleItem) (SaleItem, error) {
	switch item.Kind {
	case ItemKindService:
		if item.ReferenceID == "" {
			break
		}
		sv, err := s.Catalog.GetService(ctx, item.ReferenceID)
		if err != nil {
			return SaleItem{}, fmt.Errorf("service %s: %w", item.ReferenceID, err)
		}
		if item.Description == "" {
			item.Description = sv.Name
		}
		if item.UnitPrice == 0 {
			item.UnitPrice = sv.Price
		}
	case ItemKindProduct:
		if item.ReferenceID == "" {
			break
		}
		p, err := s.Catalog.GetProduct(ctx, item.ReferenceID)
		if err != nil {
			return SaleItem{}, fmt.Errorf("product %s: %w", item.ReferenceID, err)
		}
		if item.Description == "" {
			item.Description = p.Name
		}
		if item.UnitPrice == 0 {
			item.UnitPrice = p.Price
		}
	default:
		return SaleItem{}, fmt.Errorf("unknown item kind %q", item.Kind)
	}
	return item, nil
}

func saleDescription(sale Sale) string {
	if len(sale.Items) == 1 {
		return sale.Items[0].Description
	}
	return fmt.Sprintf("%s and %d more", sale.Items[0].Description, len(sale.Items)-1)
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
