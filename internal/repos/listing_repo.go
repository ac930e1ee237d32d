package repos

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"filmgrid/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

const listingCols = `
    id, kind, category, brand, title, is_active, is_verified,
    daily_rate, price_per_day, owner_id, owner_name,
    created_at, COALESCE(updated_at,'') AS updated_at`

// Snapshot returns every listing in creation order, assembled into the
// normalized record type.
func (r *ListingRepo) Snapshot() ([]domain.Listing, error) {
	var rows []domain.ListingRow
	if err := r.db.Select(&rows, `SELECT `+listingCols+` FROM listings ORDER BY created_at, id`); err != nil {
		return nil, fmt.Errorf("listings: snapshot: %w", err)
	}
	out := make([]domain.Listing, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Listing())
	}
	return out, nil
}

func (r *ListingRepo) Get(id string) (domain.Listing, error) {
	var row domain.ListingRow
	err := r.db.Get(&row, r.db.Rebind(`SELECT `+listingCols+` FROM listings WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Listing{}, fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Listing{}, err
	}
	return row.Listing(), nil
}

// Create inserts a listing. New rows always carry daily_rate.
func (r *ListingRepo) Create(l domain.Listing) error {
	if l.CreatedAt == "" {
		l.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := r.db.Exec(r.db.Rebind(`
	  INSERT INTO listings
	    (id, kind, category, brand, title, is_active, is_verified, daily_rate, owner_id, owner_name, created_at)
	  VALUES
	    (?,  ?,    ?,        ?,     ?,     ?,         ?,           ?,          ?,        ?,          ?)
	`), l.ID, l.Kind, l.Category, l.Brand, l.Title, l.IsActive, l.IsVerified, l.DailyRate, l.OwnerID, l.OwnerName, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("listings: create %s: %w", l.ID, err)
	}
	return nil
}

func (r *ListingRepo) SetActive(id string, active bool) error {
	return r.patch(id, `is_active`, active)
}

func (r *ListingRepo) SetVerified(id string, verified bool) error {
	return r.patch(id, `is_verified`, verified)
}

// patch updates one boolean column; column is always a constant from this file.
func (r *ListingRepo) patch(id, column string, v bool) error {
	res, err := r.db.Exec(r.db.Rebind(`UPDATE listings SET `+column+` = ?, updated_at = ? WHERE id = ?`),
		v, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("listings: update %s: %w", id, err)
	}
	return mustAffect(res, id)
}

// Delete removes a listing for good.
func (r *ListingRepo) Delete(id string) error {
	res, err := r.db.Exec(r.db.Rebind(`DELETE FROM listings WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("listings: delete %s: %w", id, err)
	}
	return mustAffect(res, id)
}

func mustAffect(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("listing %s: %w", id, ErrNotFound)
	}
	return nil
}
