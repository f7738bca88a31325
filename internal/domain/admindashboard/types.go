package admindashboard

import "context"

type Overview struct {
	TotalProducts   int64 `json:"total_products"`
	TotalCategories int64 `json:"total_categories"`
	OutOfStock      int64 `json:"out_of_stock"`
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
}

type Store interface {
	GetOverview(ctx context.Context) (*Overview, error)
}
