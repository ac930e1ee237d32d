package services

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"filmgrid/internal/domain"
	"filmgrid/internal/repos"

	"github.com/google/uuid"
)

var ErrInvalidListing = errors.New("invalid listing")

// NewListing is what an admin submits to create a listing.
type NewListing struct {
	Kind      string
	Category  string
	Brand     string
	Title     string
	DailyRate float64
	OwnerID   string
	OwnerName string
	Active    bool
}

// ListingService performs admin writes. Every successful write reloads the
// table and publishes the new snapshot on Feed.
type ListingService struct {
	Repo *repos.ListingRepo
	Feed *Feed
}

func NewListingService(repo *repos.ListingRepo, feed *Feed) *ListingService {
	return &ListingService{Repo: repo, Feed: feed}
}

// Refresh loads a fresh snapshot and publishes it.
func (s *ListingService) Refresh() error {
	snap, err := s.Repo.Snapshot()
	if err != nil {
		return err
	}
	s.Feed.Publish(snap)
	return nil
}

func (s *ListingService) Create(in NewListing) (domain.Listing, error) {
	if !slices.Contains(domain.Kinds, in.Kind) {
		return domain.Listing{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidListing, in.Kind)
	}
	if strings.TrimSpace(in.Title) == "" {
		return domain.Listing{}, fmt.Errorf("%w: title is required", ErrInvalidListing)
	}
	if math.IsNaN(in.DailyRate) || math.IsInf(in.DailyRate, 0) || in.DailyRate < 0 {
		return domain.Listing{}, fmt.Errorf("%w: rate must be a non-negative number", ErrInvalidListing)
	}
	l := domain.Listing{
		ID:        uuid.NewString(),
		Kind:      in.Kind,
		Category:  strings.TrimSpace(in.Category),
		Brand:     strings.TrimSpace(in.Brand),
		Title:     strings.TrimSpace(in.Title),
		IsActive:  in.Active,
		DailyRate: in.DailyRate,
		OwnerID:   in.OwnerID,
		OwnerName: in.OwnerName,
	}
	err := s.Repo.Create(l)
	countWrite("create", err)
	if err != nil {
		return domain.Listing{}, err
	}
	return l, s.Refresh()
}

func (s *ListingService) SetActive(id string, active bool) error {
	return s.write("active", func() error { return s.Repo.SetActive(id, active) })
}

func (s *ListingService) SetVerified(id string, verified bool) error {
	return s.write("verified", func() error { return s.Repo.SetVerified(id, verified) })
}

func (s *ListingService) Delete(id string) error {
	return s.write("delete", func() error { return s.Repo.Delete(id) })
}

func (s *ListingService) write(action string, op func() error) error {
	err := op()
	countWrite(action, err)
	if err != nil {
		return err
	}
	return s.Refresh()
}
