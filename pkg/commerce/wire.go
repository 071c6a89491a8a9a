package commerce

import "time"

// Platform JSON shapes. Only the fields the assistant reads are declared.

type wirePrice struct {
	Amount       *float64 `json:"amount"`
	CurrencyCode string   `json:"currency_code"`
}

type wireCalculatedPrice struct {
	CalculatedAmount *float64 `json:"calculated_amount"`
	CurrencyCode     string   `json:"currency_code"`
}

type wireVariant struct {
	ID                string               `json:"id"`
	Title             string               `json:"title"`
	SKU               *string              `json:"sku"`
	ProductID         string               `json:"product_id"`
	AllowBackorder    bool                 `json:"allow_backorder"`
	ManageInventory   *bool                `json:"manage_inventory"`
	InventoryQuantity *int                 `json:"inventory_quantity"`
	CalculatedPrice   *wireCalculatedPrice `json:"calculated_price"`
	Prices            []wirePrice          `json:"prices"`
}

type wireProduct struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Handle      string        `json:"handle"`
	Subtitle    *string       `json:"subtitle"`
	Description *string       `json:"description"`
	Thumbnail   *string       `json:"thumbnail"`
	Status      string        `json:"status"`
	Variants    []wireVariant `json:"variants"`
}

type wireLineItem struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	ProductID string   `json:"product_id"`
	VariantID string   `json:"variant_id"`
	Thumbnail *string  `json:"thumbnail"`
	Quantity  int      `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
}

type wireShippingMethod struct {
	ID               string   `json:"id"`
	ShippingOptionID string   `json:"shipping_option_id"`
	Amount           *float64 `json:"amount"`
}

type wireCart struct {
	ID              string               `json:"id"`
	RegionID        string               `json:"region_id"`
	CustomerID      *string              `json:"customer_id"`
	Email           *string              `json:"email"`
	CurrencyCode    string               `json:"currency_code"`
	Total           *float64             `json:"total"`
	Items           []wireLineItem       `json:"items"`
	ShippingMethods []wireShippingMethod `json:"shipping_methods"`
	CompletedAt     *time.Time           `json:"completed_at"`
}

type wireShippingOption struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Amount *float64 `json:"amount"`
}

type wireAddress struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Address1  *string `json:"address_1"`
	City      *string `json:"city"`
	Phone     *string `json:"phone"`
}

type wireOrder struct {
	ID              string         `json:"id"`
	DisplayID       int            `json:"display_id"`
	Status          string         `json:"status"`
	CustomerID      *string        `json:"customer_id"`
	Email           *string        `json:"email"`
	CurrencyCode    string         `json:"currency_code"`
	Total           *float64       `json:"total"`
	Items           []wireLineItem `json:"items"`
	ShippingAddress *wireAddress   `json:"shipping_address"`
	CreatedAt       *time.Time     `json:"created_at"`
}

type wireRegion struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currency_code"`
}

type wireCustomer struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	HasAccount bool    `json:"has_account"`
}

// Response envelopes.

type productsEnvelope struct {
	Products []wireProduct `json:"products"`
}

type productEnvelope struct {
	Product *wireProduct `json:"product"`
}

type cartEnvelope struct {
	Cart *wireCart `json:"cart"`
}

// lineItemDeleteEnvelope carries the updated cart under "parent".
type lineItemDeleteEnvelope struct {
	Parent *wireCart `json:"parent"`
}

type orderEnvelope struct {
	Order *wireOrder `json:"order"`
}

type ordersEnvelope struct {
	Orders []wireOrder `json:"orders"`
}

type regionsEnvelope struct {
	Regions []wireRegion `json:"regions"`
}

type shippingOptionsEnvelope struct {
	ShippingOptions []wireShippingOption `json:"shipping_options"`
}

type customersEnvelope struct {
	Customers []wireCustomer `json:"customers"`
}

type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
