package catalog

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"autostyle/internal/params"

	"github.com/shopspring/decimal"
)

// AllCategories is the storefront's "no category selected" value.
const AllCategories = "all-categories"

const (
	priceExponentBound = 12
	maxPriceDigits     = 24
)

var partNumberPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Filter is the parsed form of the /api/products query string. Zero values
// mean "not supplied".
type Filter struct {
	Query    string
	Category string
	Brands   []string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Make     string
	Model    string
	Year     string
	Page     params.Pagination
}

// ParseFilter never fails: malformed numeric bounds are dropped and
// pagination falls back to its defaults.
func ParseFilter(q url.Values) Filter {
	f := Filter{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
		Make:     strings.TrimSpace(q.Get("make")),
		Model:    strings.TrimSpace(q.Get("model")),
		Year:     strings.TrimSpace(q.Get("year")),
		Page:     params.ParsePagination(q),
	}

	if f.Category == AllCategories {
		f.Category = ""
	}

	if raw := q.Get("brands"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				f.Brands = append(f.Brands, b)
			}
		}
	}

	f.MinPrice = parsePrice(q.Get("min_price"))
	f.MaxPrice = parsePrice(q.Get("max_price"))

	return f
}

func parsePrice(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	// prices are NUMERIC(10,2); bounds far outside that range are ignored
	if exp := d.Exponent(); exp < -priceExponentBound || exp > priceExponentBound {
		return nil
	}
	if len(d.Coefficient().String()) > maxPriceDigits {
		return nil
	}
	return &d
}

// HasVehicle reports whether any compatibility field was supplied.
func (f Filter) HasVehicle() bool {
	return f.Make != "" || f.Model != "" || f.Year != ""
}

// Predicates turns the filter into its predicate list. categoryIDs is the
// resolved subtree for f.Category and is ignored when no category was asked
// for; an empty subtree matches nothing.
func (f Filter) Predicates(categoryIDs []string) []Predicate {
	var preds []Predicate

	if f.Query != "" {
		if LooksLikePartNumber(f.Query) {
			preds = append(preds, PartNumberSearch{Term: f.Query})
		} else if tsq := toTSQuery(f.Query); tsq != "" {
			preds = append(preds, TextSearch{TSQuery: tsq})
		}
	}

	if f.Category != "" {
		preds = append(preds, CategoryIn{IDs: categoryIDs})
	}

	if len(f.Brands) > 0 {
		preds = append(preds, BrandIn{Brands: f.Brands})
	}

	if f.MinPrice != nil || f.MaxPrice != nil {
		preds = append(preds, PriceRange{Min: f.MinPrice, Max: f.MaxPrice})
	}

	if f.HasVehicle() {
		preds = append(preds, VehicleMatch{Make: f.Make, Model: f.Model, Year: f.Year})
	}

	return preds
}

// LooksLikePartNumber is true for terms with a hyphen or made only of
// letters, digits and hyphens.
func LooksLikePartNumber(q string) bool {
	return strings.Contains(q, "-") || partNumberPattern.MatchString(q)
}

// toTSQuery ORs the search words together and makes the last one a prefix
// match. Words are reduced to letters and digits so the result is always a
// syntactically valid tsquery.
func toTSQuery(q string) string {
	var terms []string
	for _, word := range strings.Fields(q) {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, word)
		if clean != "" {
			terms = append(terms, clean)
		}
	}
	if len(terms) == 0 {
		return ""
	}
	terms[len(terms)-1] += ":*"
	return strings.Join(terms, " | ")
}

// yearValue returns an int when year fits the INT column, otherwise the raw
// text, which is compared as text and matches nothing.
func yearValue(year string) any {
	if y, err := strconv.ParseInt(year, 10, 32); err == nil {
		return int(y)
	}
	return year
}
