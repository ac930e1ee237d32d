package handlers

import (
	"filmgrid/internal/config"
	"filmgrid/internal/repos"
	"filmgrid/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler  *AuthHandler
	AdminHandler *AdminHandler
	APIHandler   *APIHandler

	Feed     *services.Feed
	Listings *services.ListingService
	Catalog  *services.CatalogService
}

// NewDeps wires the listing pipeline. The first snapshot is loaded before
// it returns so the catalog never starts empty by accident.
func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) (*Deps, error) {
	feed := services.NewFeed()
	listingSvc := services.NewListingService(repos.NewListingRepo(db), feed)
	if err := listingSvc.Refresh(); err != nil {
		return nil, err
	}
	catalogSvc := services.NewCatalogService(feed, cfg.PageSize)
	userSvc := &services.UserService{Users: auth.Users, PageSize: cfg.PageSize}

	return &Deps{
		AuthHandler:  &AuthHandler{Auth: auth},
		AdminHandler: &AdminHandler{Listings: listingSvc, Catalog: catalogSvc, Users: userSvc},
		APIHandler:   &APIHandler{Catalog: catalogSvc},
		Feed:         feed,
		Listings:     listingSvc,
		Catalog:      catalogSvc,
	}, nil
}

// Close detaches the catalog from the feed.
func (d *Deps) Close() { d.Catalog.Close() }
