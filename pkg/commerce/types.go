// Package commerce talks to the shop's commerce platform (store and admin
// APIs). Platform JSON is converted once, at this boundary, into the
// canonical shapes below.
package commerce

import (
	"strings"
	"time"
)

type Price struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currency_code"`
}

type Variant struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	SKU               string `json:"sku,omitempty"`
	ProductID         string `json:"product_id,omitempty"`
	Price             *Price `json:"price,omitempty"`
	InventoryQuantity int    `json:"inventory_quantity"`
	ManageInventory   bool   `json:"manage_inventory"`
	AllowBackorder    bool   `json:"allow_backorder"`
}

type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Description string    `json:"description,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Status      string    `json:"status,omitempty"`
	Variants    []Variant `json:"variants"`
}

// MinPrice is the cheapest priced variant. ok is false when no variant has a price.
func (p Product) MinPrice() (Price, bool) {
	var (
		best  Price
		found bool
	)
	for _, v := range p.Variants {
		if v.Price == nil {
			continue
		}
		if !found || v.Price.Amount < best.Amount {
			best, found = *v.Price, true
		}
	}
	return best, found
}

// FirstVariantID is what a one-tap "add to cart" buys.
func (p Product) FirstVariantID() string {
	if len(p.Variants) == 0 {
		return ""
	}
	return p.Variants[0].ID
}

// TotalInventory sums inventory across variants.
func (p Product) TotalInventory() int {
	total := 0
	for _, v := range p.Variants {
		total += v.InventoryQuantity
	}
	return total
}

type LineItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	ProductID string  `json:"product_id,omitempty"`
	VariantID string  `json:"variant_id,omitempty"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type ShippingMethod struct {
	ID               string  `json:"id"`
	ShippingOptionID string  `json:"shipping_option_id"`
	Amount           float64 `json:"amount"`
}

type Cart struct {
	ID              string           `json:"id"`
	RegionID        string           `json:"region_id,omitempty"`
	CustomerID      string           `json:"customer_id,omitempty"`
	Email           string           `json:"email,omitempty"`
	CurrencyCode    string           `json:"currency_code"`
	Total           float64          `json:"total"`
	Items           []LineItem       `json:"items"`
	ShippingMethods []ShippingMethod `json:"shipping_methods,omitempty"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
}

type ShippingOption struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type Address struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Address1  string `json:"address_1,omitempty"`
	City      string `json:"city,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type Order struct {
	ID              string     `json:"id"`
	DisplayID       int        `json:"display_id"`
	Status          string     `json:"status"`
	CustomerID      string     `json:"customer_id,omitempty"`
	Email           string     `json:"email,omitempty"`
	CurrencyCode    string     `json:"currency_code"`
	Total           float64    `json:"total"`
	Items           []LineItem `json:"items"`
	ShippingAddress *Address   `json:"shipping_address,omitempty"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

type Region struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currency_code"`
}

type Customer struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	HasAccount bool   `json:"has_account"`
}

func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
