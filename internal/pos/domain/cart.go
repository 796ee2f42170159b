package domain

// CartLine represents one product's presence in the in-progress sale.
// UnitPrice is snapshotted when the line is created and never changes for
// the life of the line. Ceiling is the on-hand quantity recorded at the
// last stock read; Quantity must stay within [1, Ceiling].
type CartLine struct {
	InventoryID uint    `json:"inventory_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Ceiling     int     `json:"ceiling"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Subtotal returns unit price times quantity for this line.
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// Cart is an ordered collection of lines, at most one per stock record.
// Totals are always recomputed from the lines; there is no stored running
// total that could drift.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

func (c *Cart) find(inventoryID uint) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].InventoryID == inventoryID {
			return &c.Lines[i]
		}
	}
	return nil
}

// AddOrIncrement adds a new line for the stock record with quantity 1, or
// increments the existing line by 1. Returns ErrOutOfStock for a record
// with no stock and ErrStockCeiling when the increment would exceed the
// line's ceiling; in both cases the cart is left unchanged.
func (c *Cart) AddOrIncrement(rec StockRecord) error {
	if !rec.InStock() {
		return ErrOutOfStock
	}

	if line := c.find(rec.InventoryID); line != nil {
		if line.Quantity+1 > line.Ceiling {
			return ErrStockCeiling
		}
		line.Quantity++
		return nil
	}

	c.Lines = append(c.Lines, CartLine{
		InventoryID: rec.InventoryID,
		ProductID:   rec.ProductID,
		ProductName: rec.ProductName,
		UnitPrice:   rec.UnitPrice,
		Quantity:    1,
		Ceiling:     rec.Quantity,
		ImageURL:    rec.ImageURL,
	})
	return nil
}

// AdjustQuantity moves a line's quantity by delta, clamped to
// [1, ceiling]. Dropping to zero is not possible through this path; use
// Remove for that.
func (c *Cart) AdjustQuantity(inventoryID uint, delta int) error {
	line := c.find(inventoryID)
	if line == nil {
		return ErrLineNotFound
	}

	quantity := line.Quantity + delta
	if quantity < 1 {
		quantity = 1
	}
	if quantity > line.Ceiling {
		quantity = line.Ceiling
	}

	line.Quantity = quantity
	return nil
}

// Remove deletes the line unconditionally.
func (c *Cart) Remove(inventoryID uint) error {
	for i := range c.Lines {
		if c.Lines[i].InventoryID == inventoryID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// Clear empties the cart. Used on successful checkout and on branch change.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// LineCount returns the number of distinct lines.
func (c *Cart) LineCount() int {
	return len(c.Lines)
}

// TotalQuantity returns the sum of quantities across all lines.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Total returns the sum of unit price times quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.Subtotal()
	}
	return total
}

// RefreshCeilings re-binds each line's ceiling to freshly fetched stock.
// Quantities above the new ceiling are clamped down and lines whose
// product no longer has stock are dropped, keeping the invariant that no
// line ever exceeds the last fetched on-hand quantity.
func (c *Cart) RefreshCeilings(records []StockRecord) {
	byInventory := make(map[uint]StockRecord, len(records))
	for _, rec := range records {
		byInventory[rec.InventoryID] = rec
	}

	kept := c.Lines[:0]
	for _, line := range c.Lines {
		rec, ok := byInventory[line.InventoryID]
		if !ok || rec.Quantity <= 0 {
			continue
		}
		line.Ceiling = rec.Quantity
		if line.Quantity > line.Ceiling {
			line.Quantity = line.Ceiling
		}
		kept = append(kept, line)
	}
	c.Lines = kept
}

// Snapshot copies the current lines into sale lines. The copy is detached
// from the cart, so later cart mutations cannot alter an in-flight
// submission built from it.
func (c *Cart) Snapshot() []SaleLine {
	lines := make([]SaleLine, 0, len(c.Lines))
	for _, line := range c.Lines {
		lines = append(lines, SaleLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}
	return lines
}
