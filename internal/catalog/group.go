package catalog

import (
	"sort"
	"strings"

	"filmgrid/internal/domain"
)

// GroupOptions selects the vocabularies used to key the tree. Zero values
// fall back to Categories and EquipmentBrands.
type GroupOptions struct {
	Categories Normalizer
	Brands     Normalizer
}

// Product is one leaf bucket: every record sharing a category, brand and
// title key. Title is the representative record's title.
type Product struct {
	Key           string           `json:"key"`
	Title         string           `json:"title"`
	Records       []domain.Listing `json:"records"`
	MinRate       float64          `json:"minRate"`
	MaxRate       float64          `json:"maxRate"`
	ActiveCount   int              `json:"activeCount"`
	VerifiedCount int              `json:"verifiedCount"`
	OwnerCount    int              `json:"ownerCount"`

	owners map[string]struct{}
}

func (p *Product) add(r domain.Listing) {
	if len(p.Records) == 0 || r.DailyRate < p.MinRate {
		p.MinRate = r.DailyRate
	}
	if len(p.Records) == 0 || r.DailyRate > p.MaxRate {
		p.MaxRate = r.DailyRate
	}
	if r.IsActive {
		p.ActiveCount++
	}
	if r.IsVerified {
		p.VerifiedCount++
	}
	owner := r.OwnerID
	if owner == "" {
		owner = r.OwnerName
	}
	if owner != "" {
		if _, ok := p.owners[owner]; !ok {
			p.owners[owner] = struct{}{}
			p.OwnerCount++
		}
	}
	p.Records = append(p.Records, r)
}

// Grouped is the category -> brand -> title key -> records tree.
type Grouped struct {
	tree  map[string]map[string]map[string]*Product
	total int
}

// Group buckets every record into exactly one leaf.
func Group(records []domain.Listing, opts GroupOptions) *Grouped {
	cats := opts.Categories
	if cats.Sentinel == "" && len(cats.Rules) == 0 {
		cats = Categories
	}
	brands := opts.Brands
	if brands.Sentinel == "" && len(brands.Rules) == 0 {
		brands = EquipmentBrands
	}

	g := &Grouped{tree: make(map[string]map[string]map[string]*Product)}
	for _, r := range records {
		cat := cats.Normalize(r.Category)
		brand := brands.Normalize(r.Brand)
		key, title := titleKey(r.Title)

		byBrand, ok := g.tree[cat]
		if !ok {
			byBrand = make(map[string]map[string]*Product)
			g.tree[cat] = byBrand
		}
		byKey, ok := byBrand[brand]
		if !ok {
			byKey = make(map[string]*Product)
			byBrand[brand] = byKey
		}
		p, ok := byKey[key]
		if !ok {
			p = &Product{Key: key, Title: title, owners: make(map[string]struct{})}
			byKey[key] = p
		}
		p.add(r)
		g.total++
	}
	return g
}

// titleKey returns the de-duplication key and the display title.
func titleKey(raw string) (string, string) {
	title := strings.TrimSpace(raw)
	if title == "" {
		title = Unknown
	}
	return strings.ToLower(title), title
}

// Total is the number of grouped records.
func (g *Grouped) Total() int { return g.total }

// Categories lists category keys in ordinal order.
func (g *Grouped) Categories() []string {
	return sortedKeys(g.tree)
}

// BrandsFor lists the brand keys of a category in ordinal order.
func (g *Grouped) BrandsFor(category string) []string {
	return sortedKeys(g.tree[category])
}

// ProductsFor lists a brand's leaf buckets sorted by representative title.
func (g *Grouped) ProductsFor(category, brand string) []Product {
	byKey := g.tree[category][brand]
	out := make([]Product, 0, len(byKey))
	for _, p := range byKey {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// CountFor sums the records of every leaf under category.
func (g *Grouped) CountFor(category string) int {
	n := 0
	for _, byKey := range g.tree[category] {
		for _, p := range byKey {
			n += len(p.Records)
		}
	}
	return n
}

// DistinctProductCount is the number of leaf buckets under a brand.
func (g *Grouped) DistinctProductCount(category, brand string) int {
	return len(g.tree[category][brand])
}

// Leaves walks the tree in display order.
func (g *Grouped) Leaves() []Product {
	var out []Product
	for _, cat := range g.Categories() {
		for _, brand := range g.BrandsFor(cat) {
			out = append(out, g.ProductsFor(cat, brand)...)
		}
	}
	return out
}

// CategoryNode and BrandNode are the serializable form of the tree.
type CategoryNode struct {
	Name   string      `json:"name"`
	Count  int         `json:"count"`
	Brands []BrandNode `json:"brands"`
}

type BrandNode struct {
	Name             string    `json:"name"`
	DistinctProducts int       `json:"distinctProducts"`
	Products         []Product `json:"products"`
}

// Tree renders the grouping in display order.
func (g *Grouped) Tree() []CategoryNode {
	cats := g.Categories()
	out := make([]CategoryNode, 0, len(cats))
	for _, cat := range cats {
		node := CategoryNode{Name: cat, Count: g.CountFor(cat)}
		for _, brand := range g.BrandsFor(cat) {
			node.Brands = append(node.Brands, BrandNode{
				Name:             brand,
				DistinctProducts: g.DistinctProductCount(cat, brand),
				Products:         g.ProductsFor(cat, brand),
			})
		}
		out = append(out, node)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
