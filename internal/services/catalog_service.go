package services

import (
	"sync"

	"filmgrid/internal/catalog"
	"filmgrid/internal/domain"
)

// TableRequest is one admin table view of a single listing kind.
type TableRequest struct {
	Kind     string
	Text     string
	Category string
	Brand    string
	Status   string // active | inactive
	Verified string // true | false
	Page     int
}

var listingSearchFields = []domain.Field{
	domain.FieldTitle, domain.FieldBrand, domain.FieldCategory, domain.FieldOwnerName,
}

// CatalogService keeps the latest listing snapshot and answers table and
// tree views from it.
type CatalogService struct {
	PageSize int

	mu          sync.RWMutex
	snap        []domain.Listing
	unsubscribe func()
}

func NewCatalogService(feed *Feed, pageSize int) *CatalogService {
	s := &CatalogService{PageSize: pageSize}
	s.unsubscribe = feed.Subscribe(s.onSnapshot)
	return s
}

func (s *CatalogService) onSnapshot(snap []domain.Listing) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

// Close stops receiving snapshots. The last one stays readable.
func (s *CatalogService) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

func (s *CatalogService) listings() []domain.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// ofKind returns the listings of kind, or all of them for an empty kind.
func (s *CatalogService) ofKind(kind string) []domain.Listing {
	return catalog.Filter(s.listings(), catalog.Query{
		Filters: map[domain.Field]string{domain.FieldKind: kind},
	})
}

func (s *CatalogService) Table(req TableRequest) catalog.Page[domain.Listing] {
	pipelineRuns.WithLabelValues("filter").Inc()
	brands := catalog.BrandsFor(req.Kind)
	return catalog.FilterAndPaginate(s.listings(), catalog.Query{
		Text:         req.Text,
		SearchFields: listingSearchFields,
		Filters: map[domain.Field]string{
			domain.FieldKind:     req.Kind,
			domain.FieldCategory: req.Category,
			domain.FieldBrand:    req.Brand,
			domain.FieldStatus:   req.Status,
			domain.FieldVerified: req.Verified,
		},
		Canon: map[domain.Field]func(string) string{
			domain.FieldCategory: catalog.Categories.Normalize,
			domain.FieldBrand:    brands.Normalize,
		},
		PageSize: s.PageSize,
		Page:     req.Page,
	})
}

func (s *CatalogService) group(kind string) *catalog.Grouped {
	pipelineRuns.WithLabelValues("group").Inc()
	return catalog.Group(s.ofKind(kind), catalog.GroupOptions{
		Categories: catalog.Categories,
		Brands:     catalog.BrandsFor(kind),
	})
}

// Tree groups the listings of kind. A non-empty category keeps only that
// branch; it is matched after normalization.
func (s *CatalogService) Tree(kind, category string) []catalog.CategoryNode {
	tree := s.group(kind).Tree()
	if category == "" {
		return tree
	}
	want := catalog.Categories.Normalize(category)
	for _, node := range tree {
		if node.Name == want {
			return []catalog.CategoryNode{node}
		}
	}
	return []catalog.CategoryNode{}
}

// CategoryOptions lists the canonical categories present for kind.
func (s *CatalogService) CategoryOptions(kind string) []string {
	return s.group(kind).Categories()
}

func (s *CatalogService) Stats() domain.Stats {
	all := s.listings()
	st := domain.Stats{Total: len(all), ByKind: map[string]int{}}
	for _, l := range all {
		if l.IsActive {
			st.Active++
		}
		if l.IsVerified {
			st.Verified++
		}
		st.ByKind[l.Kind]++
	}
	st.Categories = len(s.group("").Categories())
	return st
}
