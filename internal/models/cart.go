package models

// CartLine is one entry in a cart. Lines are identified by the
// (ProductID, Size) pair: the same product in two sizes is two lines,
// while adding the same product+size again merges quantities.
type CartLine struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Slug        string  `json:"slug"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Size        string  `json:"size,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Cart is a visitor's working set of intended purchases. Lines keep
// insertion order. Total is derived and recomputed after every mutation;
// it is persisted only as part of the snapshot, never maintained
// independently.
type Cart struct {
	Lines []CartLine `json:"lines"`
	Total float64    `json:"total"`
}

// Recompute rederives Total from the current lines.
func (c *Cart) Recompute() {
	var total float64
	for _, l := range c.Lines {
		total += l.UnitPrice * float64(l.Quantity)
	}
	c.Total = total
}

// ItemCount returns the summed quantity across all lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// FindLine returns the index of the line matching (productID, size),
// or -1 when absent.
func (c *Cart) FindLine(productID, size string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID && l.Size == size {
			return i
		}
	}
	return -1
}
