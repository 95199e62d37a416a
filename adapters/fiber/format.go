package fiber

import "strconv"

// formatPrice renders a catalog price the way the listing shows it, e.g. "59.99 €"
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64) + " €"
}
