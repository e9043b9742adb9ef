package models

// CartLine is one (product, quantity) pairing held in the cart slot prior to
// checkout. Title, price and image are snapshotted at add time; later edits
// to the product do not flow back into existing lines.
type CartLine struct {
	ProductID int     `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}
