package catalog

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Predicate is one AND-ed condition of a product search. Every user supplied
// value goes through the binder, never into the SQL text.
type Predicate interface {
	render(b *binder) string
}

type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// PartNumberSearch matches a part number prefix or a name substring.
type PartNumberSearch struct {
	Term string
}

func (p PartNumberSearch) render(b *binder) string {
	term := escapeLike(p.Term)
	return "(p.part_number ILIKE " + b.bind(term+"%") + " OR p.name ILIKE " + b.bind("%"+term+"%") + ")"
}

// TextSearch is a full-text match over name and part number.
type TextSearch struct {
	TSQuery string
}

func (t TextSearch) render(b *binder) string {
	return "to_tsvector('simple', p.name || ' ' || coalesce(p.part_number, '')) @@ to_tsquery('simple', " + b.bind(t.TSQuery) + ")"
}

// CategoryIn restricts to a resolved category subtree.
type CategoryIn struct {
	IDs []string
}

func (c CategoryIn) render(b *binder) string {
	ids := c.IDs
	if ids == nil {
		ids = []string{}
	}
	return "p.category_id = ANY(" + b.bind(ids) + ")"
}

// BrandIn matches any of the listed brands exactly.
type BrandIn struct {
	Brands []string
}

func (br BrandIn) render(b *binder) string {
	return "p.brand = ANY(" + b.bind(br.Brands) + ")"
}

// PriceRange is inclusive on both ends; a nil bound is open.
type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

func (pr PriceRange) render(b *binder) string {
	var parts []string
	if pr.Min != nil {
		parts = append(parts, "p.price >= "+b.bind(*pr.Min))
	}
	if pr.Max != nil {
		parts = append(parts, "p.price <= "+b.bind(*pr.Max))
	}
	return strings.Join(parts, " AND ")
}

// VehicleMatch needs the compatibility join; each non-empty field is an
// exact match.
type VehicleMatch struct {
	Make  string
	Model string
	Year  string
}

func (v VehicleMatch) render(b *binder) string {
	var parts []string
	if v.Make != "" {
		parts = append(parts, "v.make = "+b.bind(v.Make))
	}
	if v.Model != "" {
		parts = append(parts, "v.model = "+b.bind(v.Model))
	}
	if v.Year != "" {
		switch y := yearValue(v.Year).(type) {
		case int:
			parts = append(parts, "v.year = "+b.bind(y))
		default:
			parts = append(parts, "v.year::text = "+b.bind(v.Year))
		}
	}
	return strings.Join(parts, " AND ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
