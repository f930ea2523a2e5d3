package models

type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	Price       float64  `json:"price"`
	Status      bool     `json:"status"`
	Stock       float64  `json:"stock"`
	Category    string   `json:"category"`
	Thumbnails  []string `json:"thumbnails"`
}

// LineItem is one product entry in a cart. Product holds the product id.
type LineItem struct {
	Product  int `json:"product"`
	Quantity int `json:"quantity"`
}

type Cart struct {
	ID       int        `json:"id"`
	Products []LineItem `json:"products"`
}
