package tools

import (
	"context"

	"shop-chatbot-be/pkg/commerce"

	"github.com/stretchr/testify/mock"
)

type mockClient struct {
	mock.Mock
}

func cartArg(args mock.Arguments) (*commerce.Cart, error) {
	cart, _ := args.Get(0).(*commerce.Cart)
	return cart, args.Error(1)
}

func (m *mockClient) SearchProducts(ctx context.Context, query string, limit int, regionID string) ([]commerce.Product, error) {
	args := m.Called(ctx, query, limit, regionID)
	products, _ := args.Get(0).([]commerce.Product)
	return products, args.Error(1)
}

func (m *mockClient) GetProduct(ctx context.Context, productID, regionID string) (*commerce.Product, error) {
	args := m.Called(ctx, productID, regionID)
	p, _ := args.Get(0).(*commerce.Product)
	return p, args.Error(1)
}

func (m *mockClient) GetOrder(ctx context.Context, orderID string) (*commerce.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(*commerce.Order)
	return o, args.Error(1)
}

func (m *mockClient) ListOrders(ctx context.Context, limit, offset int) ([]commerce.Order, error) {
	args := m.Called(ctx, limit, offset)
	orders, _ := args.Get(0).([]commerce.Order)
	return orders, args.Error(1)
}

func (m *mockClient) ListCustomers(ctx context.Context, query string, limit int) ([]commerce.Customer, error) {
	args := m.Called(ctx, query, limit)
	customers, _ := args.Get(0).([]commerce.Customer)
	return customers, args.Error(1)
}

func (m *mockClient) CreateCart(ctx context.Context, regionID string) (*commerce.Cart, error) {
	return cartArg(m.Called(ctx, regionID))
}

func (m *mockClient) GetCart(ctx context.Context, cartID string) (*commerce.Cart, error) {
	return cartArg(m.Called(ctx, cartID))
}

func (m *mockClient) AddLineItem(ctx context.Context, cartID, variantID string, quantity int) (*commerce.Cart, error) {
	return cartArg(m.Called(ctx, cartID, variantID, quantity))
}

func (m *mockClient) DeleteLineItem(ctx context.Context, cartID, lineItemID string) (*commerce.Cart, error) {
	return cartArg(m.Called(ctx, cartID, lineItemID))
}

func (m *mockClient) GetShippingOptions(ctx context.Context, cartID string) ([]commerce.ShippingOption, error) {
	args := m.Called(ctx, cartID)
	options, _ := args.Get(0).([]commerce.ShippingOption)
	return options, args.Error(1)
}

func (m *mockClient) AddShippingMethod(ctx context.Context, cartID, optionID string) (*commerce.Cart, error) {
	return cartArg(m.Called(ctx, cartID, optionID))
}

type fixedRegion string

func (r fixedRegion) RegionID(ctx context.Context) (string, error) {
	return string(r), nil
}

func (r fixedRegion) Invalidate() {}

type countingRegion struct {
	id          string
	invalidated int
}

func (r *countingRegion) RegionID(ctx context.Context) (string, error) {
	return r.id, nil
}

func (r *countingRegion) Invalidate() {
	r.invalidated++
}
