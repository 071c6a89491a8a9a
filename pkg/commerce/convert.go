package commerce

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// variantPrice prefers the region-calculated price over the raw price list.
func variantPrice(v wireVariant) *Price {
	if cp := v.CalculatedPrice; cp != nil && cp.CalculatedAmount != nil {
		return &Price{Amount: *cp.CalculatedAmount, CurrencyCode: cp.CurrencyCode}
	}
	for _, p := range v.Prices {
		if p.Amount != nil {
			return &Price{Amount: *p.Amount, CurrencyCode: p.CurrencyCode}
		}
	}
	return nil
}

func toVariant(v wireVariant) Variant {
	out := Variant{
		ID:              v.ID,
		Title:           v.Title,
		SKU:             str(v.SKU),
		ProductID:       v.ProductID,
		Price:           variantPrice(v),
		AllowBackorder:  v.AllowBackorder,
		ManageInventory: true,
	}
	if v.ManageInventory != nil {
		out.ManageInventory = *v.ManageInventory
	}
	if v.InventoryQuantity != nil {
		out.InventoryQuantity = *v.InventoryQuantity
	}
	return out
}

func toProduct(p wireProduct) Product {
	out := Product{
		ID:          p.ID,
		Title:       p.Title,
		Handle:      p.Handle,
		Subtitle:    str(p.Subtitle),
		Description: str(p.Description),
		Thumbnail:   str(p.Thumbnail),
		Status:      p.Status,
		Variants:    make([]Variant, 0, len(p.Variants)),
	}
	if out.Status == "" {
		out.Status = "draft"
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, toVariant(v))
	}
	return out
}

func toProducts(in []wireProduct) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		out = append(out, toProduct(p))
	}
	return out
}

func toLineItems(in []wireLineItem) []LineItem {
	out := make([]LineItem, 0, len(in))
	for _, li := range in {
		out = append(out, LineItem{
			ID:        li.ID,
			Title:     li.Title,
			ProductID: li.ProductID,
			VariantID: li.VariantID,
			Thumbnail: str(li.Thumbnail),
			Quantity:  li.Quantity,
			UnitPrice: num(li.UnitPrice),
		})
	}
	return out
}

func toCart(c wireCart) *Cart {
	out := &Cart{
		ID:           c.ID,
		RegionID:     c.RegionID,
		CustomerID:   str(c.CustomerID),
		Email:        str(c.Email),
		CurrencyCode: c.CurrencyCode,
		Total:        num(c.Total),
		Items:        toLineItems(c.Items),
		CompletedAt:  c.CompletedAt,
	}
	for _, m := range c.ShippingMethods {
		out.ShippingMethods = append(out.ShippingMethods, ShippingMethod{
			ID:               m.ID,
			ShippingOptionID: m.ShippingOptionID,
			Amount:           num(m.Amount),
		})
	}
	return out
}

func toOrder(o wireOrder) *Order {
	out := &Order{
		ID:           o.ID,
		DisplayID:    o.DisplayID,
		Status:       o.Status,
		CustomerID:   str(o.CustomerID),
		Email:        str(o.Email),
		CurrencyCode: o.CurrencyCode,
		Total:        num(o.Total),
		Items:        toLineItems(o.Items),
		CreatedAt:    o.CreatedAt,
	}
	if a := o.ShippingAddress; a != nil {
		out.ShippingAddress = &Address{
			FirstName: str(a.FirstName),
			LastName:  str(a.LastName),
			Address1:  str(a.Address1),
			City:      str(a.City),
			Phone:     str(a.Phone),
		}
	}
	return out
}

func toOrders(in []wireOrder) []Order {
	out := make([]Order, 0, len(in))
	for _, o := range in {
		out = append(out, *toOrder(o))
	}
	return out
}

func toShippingOptions(in []wireShippingOption) []ShippingOption {
	out := make([]ShippingOption, 0, len(in))
	for _, s := range in {
		out = append(out, ShippingOption{ID: s.ID, Name: s.Name, Amount: num(s.Amount)})
	}
	return out
}

func toRegions(in []wireRegion) []Region {
	out := make([]Region, 0, len(in))
	for _, r := range in {
		out = append(out, Region(r))
	}
	return out
}

func toCustomers(in []wireCustomer) []Customer {
	out := make([]Customer, 0, len(in))
	for _, c := range in {
		out = append(out, Customer{
			ID:         c.ID,
			Email:      c.Email,
			FirstName:  str(c.FirstName),
			LastName:   str(c.LastName),
			Phone:      str(c.Phone),
			HasAccount: c.HasAccount,
		})
	}
	return out
}
