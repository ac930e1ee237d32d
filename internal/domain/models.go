package domain

import (
	"database/sql"
	"strconv"
)

// Listing kinds as stored in listings.kind.
const (
	KindEquipment   = "equipment"
	KindStore       = "store"
	KindLocation    = "location"
	KindCrew        = "crew"
	KindCompetition = "competition"
)

// Kinds lists every accepted listing kind.
var Kinds = []string{KindEquipment, KindStore, KindLocation, KindCrew, KindCompetition}

// Field names a searchable or filterable attribute of a record.
type Field string

const (
	FieldID        Field = "id"
	FieldKind      Field = "kind"
	FieldCategory  Field = "category"
	FieldBrand     Field = "brand"
	FieldTitle     Field = "title"
	FieldOwnerID   Field = "ownerId"
	FieldOwnerName Field = "ownerName"
	FieldStatus    Field = "status" // active | inactive
	FieldVerified  Field = "verified"
	FieldEmail     Field = "email"
	FieldName      Field = "name"
	FieldRole      Field = "role"
)

// Listing is the single normalized record the catalog pipeline works on.
type Listing struct {
	ID         string  `json:"id"`
	Kind       string  `json:"kind"`
	Category   string  `json:"category"`
	Brand      string  `json:"brand"`
	Title      string  `json:"title"`
	IsActive   bool    `json:"isActive"`
	IsVerified bool    `json:"isVerified"`
	DailyRate  float64 `json:"dailyRate"`
	OwnerID    string  `json:"ownerId"`
	OwnerName  string  `json:"ownerName"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt,omitempty"`
}

// Value returns the string form of f, or "" for fields a listing does not carry.
func (l Listing) Value(f Field) string {
	switch f {
	case FieldID:
		return l.ID
	case FieldKind:
		return l.Kind
	case FieldCategory:
		return l.Category
	case FieldBrand:
		return l.Brand
	case FieldTitle:
		return l.Title
	case FieldOwnerID:
		return l.OwnerID
	case FieldOwnerName:
		return l.OwnerName
	case FieldStatus:
		if l.IsActive {
			return "active"
		}
		return "inactive"
	case FieldVerified:
		return strconv.FormatBool(l.IsVerified)
	}
	return ""
}

// ListingRow mirrors the listings table. Older rows carry price_per_day
// instead of daily_rate.
type ListingRow struct {
	ID          string          `db:"id"`
	Kind        string          `db:"kind"`
	Category    sql.NullString  `db:"category"`
	Brand       sql.NullString  `db:"brand"`
	Title       sql.NullString  `db:"title"`
	IsActive    bool            `db:"is_active"`
	IsVerified  bool            `db:"is_verified"`
	DailyRate   sql.NullFloat64 `db:"daily_rate"`
	PricePerDay sql.NullFloat64 `db:"price_per_day"`
	OwnerID     sql.NullString  `db:"owner_id"`
	OwnerName   sql.NullString  `db:"owner_name"`
	CreatedAt   string          `db:"created_at"`
	UpdatedAt   string          `db:"updated_at"`
}

// Listing assembles the normalized record. Rate falls back from daily_rate
// to price_per_day to 0 and never goes negative.
func (r ListingRow) Listing() Listing {
	rate := 0.0
	switch {
	case r.DailyRate.Valid:
		rate = r.DailyRate.Float64
	case r.PricePerDay.Valid:
		rate = r.PricePerDay.Float64
	}
	if rate < 0 {
		rate = 0
	}
	return Listing{
		ID:         r.ID,
		Kind:       r.Kind,
		Category:   r.Category.String,
		Brand:      r.Brand.String,
		Title:      r.Title.String,
		IsActive:   r.IsActive,
		IsVerified: r.IsVerified,
		DailyRate:  rate,
		OwnerID:    r.OwnerID.String,
		OwnerName:  r.OwnerName.String,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// Stats is the dashboard summary.
type Stats struct {
	Total      int            `json:"total"`
	Active     int            `json:"active"`
	Verified   int            `json:"verified"`
	ByKind     map[string]int `json:"byKind"`
	Categories int            `json:"categories"`
}
