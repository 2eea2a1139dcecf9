package sales

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"salon/internal/domain/catalog"
)

type fakeSaleStore struct {
	created   []Sale
	createErr error
}

func (f *fakeSaleStore) Create(_ context.Context, sale Sale) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, sale)
	return "sale-1", nil
}

func (f *fakeSaleStore) Get(_ context.Context, id string) (Sale, error) {
	for _, s := range f.created {
		if s.ID == id {
			return s, nil
		}
	}
	return Sale{}, errors.New("no rows")
}

func (f *fakeSaleStore) List(_ context.Context, _, _ time.Time, _, _ int) ([]Sale, error) {
	return f.created, nil
}

type fakeCatalog struct {
	services    map[string]catalog.Service
	products    map[string]catalog.Product
	decremented map[string]int
}

func (f *fakeCatalog) GetService(_ context.Context, id string) (catalog.Service, error) {
	sv, ok := f.services[id]
	if !ok {
		return catalog.Service{}, errors.New("no rows")
	}
	return sv, nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, errors.New("no rows")
	}
	return p, nil
}

func (f *fakeCatalog) DecrementStock(_ context.Context, id string, quantity int) error {
	p, ok := f.products[id]
	if !ok {
		return errors.New("no rows")
	}
	if p.Stock < quantity {
		return catalog.ErrInsufficientStock
	}
	p.Stock -= quantity
	f.products[id] = p
	if f.decremented == nil {
		f.decremented = map[string]int{}
	}
	f.decremented[id] += quantity
	return nil
}

func (f *fakeCatalog) IncrementStock(_ context.Context, id string, quantity int) error {
	p, ok := f.products[id]
	if !ok {
		return errors.New("no rows")
	}
	p.Stock += quantity
	f.products[id] = p
	return nil
}

type fakePayments struct {
	calls int
	err   error
}

func (f *fakePayments) CreateCheckout(_ context.Context, amountCents int64, description, email string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://pay.example/session", nil
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: map[string]catalog.Service{
			"svc-cut": {ID: "svc-cut", Name: "Haircut", JobTitle: "stylist", DurationMinutes: 30, Price: 40},
		},
		products: map[string]catalog.Product{
			"prd-oil": {ID: "prd-oil", Name: "Argan Oil", Stock: 3, Price: 25},
		},
	}
}

func TestCreateSaleResolvesCatalogPrices(t *testing.T) {
	store := &fakeSaleStore{}
	cat := testCatalog()
	svc := NewService(store, cat, nil)

	sale, err := svc.CreateSale(context.Background(), Sale{
		PaymentMethod: PaymentCash,
		Items: []SaleItem{
			{Kind: ItemKindService, ReferenceID: "svc-cut", Quantity: 1},
			{Kind: ItemKindProduct, ReferenceID: "prd-oil", Quantity: 2},
		},
	}, "")
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if sale.Total != 40+2*25 {
		t.Fatalf("expected total 90, got %v", sale.Total)
	}
	if sale.Items[0].Description != "Haircut" {
		t.Fatalf("expected resolved description, got %q", sale.Items[0].Description)
	}
	if cat.decremented["prd-oil"] != 2 {
		t.Fatalf("expected stock decrement of 2, got %d", cat.decremented["prd-oil"])
	}
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	store := &fakeSaleStore{}
	cat := testCatalog()
	svc := NewService(store, cat, nil)

	_, err := svc.CreateSale(context.Background(), Sale{
		PaymentMethod: PaymentCash,
		Items:         []SaleItem{{Kind: ItemKindProduct, ReferenceID: "prd-oil", Quantity: 5}},
	}, "")
	if !errors.Is(err, catalog.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if len(store.created) != 0 {
		t.Fatal("sale must not be persisted when stock runs out")
	}
}

func TestCreateSaleRestoresStockWhenLaterItemRunsOut(t *testing.T) {
	store := &fakeSaleStore{}
	cat := testCatalog()
	cat.products["prd-gel"] = catalog.Product{ID: "prd-gel", Name: "Hair Gel", Stock: 0, Price: 12}
	svc := NewService(store, cat, nil)

	_, err := svc.CreateSale(context.Background(), Sale{
		PaymentMethod: PaymentCash,
		Items: []SaleItem{
			{Kind: ItemKindProduct, ReferenceID: "prd-oil", Quantity: 2},
			{Kind: ItemKindProduct, ReferenceID: "prd-gel", Quantity: 1},
		},
	}, "")
	if !errors.Is(err, catalog.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}
	if got := cat.products["prd-oil"].Stock; got != 3 {
		t.Fatalf("expected oil stock restored to 3, got %d", got)
	}
	if len(store.created) != 0 {
		t.Fatal("sale must not be persisted when stock runs out")
	}
}

func TestCreateSaleRestoresStockOnCheckoutFailure(t *testing.T) {
	cat := testCatalog()
	pay := &fakePayments{err: errors.New("stripe is down")}
	svc := NewService(&fakeSaleStore{}, cat, pay)

	_, err := svc.CreateSale(context.Background(), Sale{
		PaymentMethod: PaymentLink,
		Items:         []SaleItem{{Kind: ItemKindProduct, ReferenceID: "prd-oil", Quantity: 2}},
	}, "client@example.com")
	if err == nil {
		t.Fatal("expected checkout error")
	}
	if got := cat.products["prd-oil"].Stock; got != 3 {
		t.Fatalf("expected stock restored to 3, got %d", got)
	}
}

func TestCreateSaleRestoresStockOnStoreFailure(t *testing.T) {
	cat := testCatalog()
	store := &fakeSaleStore{createErr: errors.New("connection reset")}
	svc := NewService(store, cat, nil)

	_, err := svc.CreateSale(context.Background(), Sale{
		PaymentMethod: PaymentCash,
		Items:         []SaleItem{{Kind: ItemKindProduct, ReferenceID: "prd-oil", Quantity: 2}},
	}, "")
	if err == nil {
		t.Fatal("expected store error")
	}
	if got := cat.products["prd-oil"].Stock; got != 3 {
		t.Fatalf("expected stock restored to 3, got %d", got)
	}
}

func TestCreateSalePaymentLink(t *testing.T) {
	store := &fakeSaleStore{}
	pay := &fakePayments{}
	svc := NewService(store, testCatalog(), pay)

	sale, err := svc.CreateSale(context.Background(), Sale{
		PaymentMethod: PaymentLink,
		Items:         []SaleItem{{Kind: ItemKindService, ReferenceID: "svc-cut", Quantity: 1}},
	}, "client@example.com")
	if err != nil {
		t.Fatalf("create sale: %v", err)
	}
	if pay.calls != 1 {
		t.Fatalf("expected one checkout call, got %d", pay.calls)
	}
	if !strings.HasPrefix(sale.PaymentURL, "https://pay.example/") {
		t.Fatalf("expected payment url, got %q", sale.PaymentURL)
	}
}

func TestCreateSalePaymentLinkUnconfigured(t *testing.T) {
	svc := NewService(&fakeSaleStore{}, testCatalog(), nil)
	_, err := svc.CreateSale(context.Background(), Sale{
		PaymentMethod: PaymentLink,
		Items:         []SaleItem{{Kind: ItemKindService, ReferenceID: "svc-cut", Quantity: 1}},
	}, "")
	if err == nil {
		t.Fatal("expected error when pay-by-link is not configured")
	}
}

func TestCreateSaleEmpty(t *testing.T) {
	svc := NewService(&fakeSaleStore{}, testCatalog(), nil)
	if _, err := svc.CreateSale(context.Background(), Sale{PaymentMethod: PaymentCash}, ""); !errors.Is(err, ErrEmptySale) {
		t.Fatalf("expected ErrEmptySale, got %v", err)
	}
}
