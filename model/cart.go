package model

import (
	"fmt"
	"time"
)

type CartLine struct {
	ProductID  int    `json:"productId"`
	Title      string `json:"title"`
	Image      string `json:"image"`
	UnitPrice  int64  `json:"unitPrice"`
	Quantity   int    `json:"quantity"`
	Size       string `json:"size"`
	Color      string `json:"color"`
	CartLineID string `json:"cartLineId"`
}

// SameVariant reports whether two lines describe the same product/size/color combination.
func (l CartLine) SameVariant(productID int, size, color string) bool {
	return l.ProductID == productID && l.Size == size && l.Color == color
}

func (l CartLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// NewCartLineID builds the composite line key from the variant and its creation time.
func NewCartLineID(productID int, size, color string, created time.Time) string {
	return fmt.Sprintf("%d-%s-%s-%d", productID, size, color, created.UnixMilli())
}

type CartView struct {
	Lines      []CartLine `json:"lines"`
	TotalLines int        `json:"totalLines"`
	TotalItems int        `json:"totalItems"`
	TotalPrice int64      `json:"totalPrice"`
}
