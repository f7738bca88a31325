package catalog

import (
	"strings"

	"autostyle/internal/params"
)

// ProductColumns is the select list shared by search and single product
// lookups; category_name comes from the LEFT JOIN on categories.
const ProductColumns = `p.id, p.name, p.description, p.price, p.original_price, p.brand,
	p.category_id, p.image, p.images, p.part_number, p.rating, p.reviews_count,
	p.in_stock, p.created_at, c.name`

// Query is a ready to execute statement.
type Query struct {
	SQL  string
	Args []any
}

// Build folds the predicates into one parameterized statement ordered by
// recency. DISTINCT is added only when the vehicle join is present.
func Build(preds []Predicate, page params.Pagination) Query {
	b := &binder{}

	var where []string
	vehicleJoin := false
	for _, p := range preds {
		if _, ok := p.(VehicleMatch); ok {
			vehicleJoin = true
		}
		if clause := p.render(b); clause != "" {
			where = append(where, clause)
		}
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if vehicleJoin {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(ProductColumns)
	sb.WriteString("\nFROM products p\nLEFT JOIN categories c ON c.id = p.category_id")
	if vehicleJoin {
		sb.WriteString("\nJOIN product_vehicles pv ON pv.product_id = p.id\nJOIN vehicles v ON v.id = pv.vehicle_id")
	}
	if len(where) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(where, "\n  AND "))
	}
	sb.WriteString("\nORDER BY p.created_at DESC, p.id")
	sb.WriteString("\nLIMIT " + b.bind(page.Limit) + " OFFSET " + b.bind(page.Offset))

	return Query{SQL: sb.String(), Args: b.args}
}
