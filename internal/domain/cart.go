package domain

// MaxLineQuantity bounds the quantity of a single cart line.
const MaxLineQuantity = 100

// LineKey identifies a cart line. Two lines with equal keys never coexist.
type LineKey struct {
	ProductID int    `json:"id"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// CartLine is one product variant in a cart. Name, Price and Image are
// captured when the line is first added and are not refreshed afterwards.
type CartLine struct {
	ProductID int    `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// Key returns the line's identity.
func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Color: l.Color, Size: l.Size}
}

// Subtotal is price times quantity.
func (l CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

// ItemCount sums quantities across lines.
func ItemCount(lines []CartLine) int {
	var count int
	for _, l := range lines {
		count += l.Quantity
	}
	return count
}

// TotalPrice sums price times quantity across lines.
func TotalPrice(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}

// FindLine returns the index of the line with key k, or -1.
func FindLine(lines []CartLine, k LineKey) int {
	for i := range lines {
		if lines[i].Key() == k {
			return i
		}
	}
	return -1
}

// NormalizeLines drops lines with a quantity below 1 and merges lines that
// share a key by summing their quantities. The first occurrence keeps its
// position and snapshot. The result is a new slice; it reports whether
// anything changed.
func NormalizeLines(lines []CartLine) ([]CartLine, bool) {
	out := make([]CartLine, 0, len(lines))
	changed := false
	for _, l := range lines {
		if l.Quantity < 1 {
			changed = true
			continue
		}
		if i := FindLine(out, l.Key()); i >= 0 {
			out[i].Quantity += l.Quantity
			changed = true
			continue
		}
		out = append(out, l)
	}
	return out, changed
}

// NormalizeWishlist keeps the first entry for each product ID.
func NormalizeWishlist(products []Product) ([]Product, bool) {
	out := make([]Product, 0, len(products))
	seen := make(map[int]struct{}, len(products))
	for _, p := range products {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, len(out) != len(products)
}
