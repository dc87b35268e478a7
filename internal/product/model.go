package product

// Product is an immutable snapshot as returned by the server; the client
// never computes derived stock.
type Product struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
}

type Sort string

const (
	SortName      Sort = "name"
	SortPriceAsc  Sort = "price-asc"
	SortPriceDesc Sort = "price-desc"
)

type Filter struct {
	Category string
	Search   string
	Sort     Sort
	Page     int
	PageSize int
}

// ListResult is the server's answer to a product page query.
type ListResult struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
}
