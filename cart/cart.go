package cart

import (
	"errors"
	"time"

	"storefront-service/model"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidItem     = errors.New("invalid cart item")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Cart is the ordered line sequence of one owner. At most one line exists per
// (productId, size, color) and every line has quantity >= 1.
type Cart struct {
	Lines []model.CartLine
}

// Add merges item into an existing line of the same variant, or appends it with a
// fresh cartLineId.
func (c *Cart) Add(item model.CartLine, now time.Time) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if item.ProductID <= 0 || item.UnitPrice < 0 {
		return ErrInvalidItem
	}

	for i := range c.Lines {
		if c.Lines[i].SameVariant(item.ProductID, item.Size, item.Color) {
			c.Lines[i].Quantity += item.Quantity
			return nil
		}
	}

	item.CartLineID = model.NewCartLineID(item.ProductID, item.Size, item.Color, now)
	c.Lines = append(c.Lines, item)
	return nil
}

// normalize restores the line invariants on data read back from storage: lines with
// quantity < 1 or no product are dropped and repeated variants fold into the first
// line. It reports whether anything changed.
func (c *Cart) normalize() bool {
	kept := c.Lines[:0:0]
	changed := false
	for _, l := range c.Lines {
		if l.Quantity < 1 || l.ProductID <= 0 {
			changed = true
			continue
		}
		merged := false
		for i := range kept {
			if kept[i].SameVariant(l.ProductID, l.Size, l.Color) {
				kept[i].Quantity += l.Quantity
				merged = true
				break
			}
		}
		if merged {
			changed = true
			continue
		}
		kept = append(kept, l)
	}
	if len(kept) == 0 {
		kept = nil
	}
	c.Lines = kept
	return changed
}

func (c *Cart) Remove(lineID string) error {
	for i := range c.Lines {
		if c.Lines[i].CartLineID == lineID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// SetQuantity replaces a line's quantity; n < 1 removes the line.
func (c *Cart) SetQuantity(lineID string, n int) error {
	if n < 1 {
		return c.Remove(lineID)
	}
	for i := range c.Lines {
		if c.Lines[i].CartLineID == lineID {
			c.Lines[i].Quantity = n
			return nil
		}
	}
	return ErrLineNotFound
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) TotalLines() int {
	return len(c.Lines)
}

// TotalItems is the sum of quantities across lines.
func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.LineTotal()
	}
	return total
}

func (c *Cart) Contains(productID int, size, color string) bool {
	for _, l := range c.Lines {
		if l.SameVariant(productID, size, color) {
			return true
		}
	}
	return false
}

func (c *Cart) View() model.CartView {
	lines := c.Lines
	if lines == nil {
		lines = []model.CartLine{}
	}
	return model.CartView{
		Lines:      lines,
		TotalLines: c.TotalLines(),
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}
