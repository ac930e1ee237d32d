package repos

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a targeted row does not exist.
var ErrNotFound = errors.New("not found")

// DriverFor maps a DSN to the database/sql driver that serves it.
func DriverFor(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

func OpenDB(dsn string) (*sqlx.DB, error) {
	driver := DriverFor(dsn)
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// :memory: databases are per connection.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo listings if the table is empty
	if err := seedListings(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	if db.DriverName() == "sqlite" {
		if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
			return err
		}
	}
	schema := `
-- Listings (equipment, store items, locations, crew, competitions)
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL CHECK (kind IN ('equipment','store','location','crew','competition')),
  category TEXT,
  brand TEXT,
  title TEXT,
  is_active BOOLEAN NOT NULL DEFAULT FALSE,
  is_verified BOOLEAN NOT NULL DEFAULT FALSE,
  daily_rate DOUBLE PRECISION,
  price_per_day DOUBLE PRECISION,
  owner_id TEXT,
  owner_name TEXT,
  created_at TEXT NOT NULL,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_listings_kind       ON listings(kind);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedListings(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo listings")

	type row struct {
		ID, Kind, Category, Brand, Title string
		Active, Verified                 bool
		Rate                             float64
		LegacyRate                       bool
		OwnerID, OwnerName               string
	}
	rows := []row{
		{"eq-fx3-1", "equipment", "camera", "sony", "FX3", true, true, 120, false, "u-ravi", "Ravi"},
		{"eq-fx3-2", "equipment", "Cameras", "Sony FF", "fx3", true, false, 110, true, "u-meera", "Meera"},
		{"eq-gm-1", "equipment", "lens", "SONY_G_M", "FE 24-70 GM II", true, true, 45, false, "u-ravi", "Ravi"},
		{"eq-rf50-1", "equipment", "LENS", "canon", "RF 50mm f/1.2", false, false, 35, false, "u-arjun", "Arjun"},
		{"eq-mini-1", "equipment", "drone", "DJI", "Mini 4 Pro", true, true, 60, true, "u-meera", "Meera"},
		{"eq-unk-1", "equipment", "", "", "", false, false, 0, false, "", ""},
		{"st-sd-1", "store", "accessories", "sandisk", "Extreme Pro 128GB", true, true, 15, false, "u-store", "FilmGrid Store"},
		{"st-gm-1", "store", "lenses", "sony g master", "FE 85mm f/1.4 GM", true, false, 50, false, "u-store", "FilmGrid Store"},
		{"st-cage-1", "store", "grip", "small rig", "FX3 Cage", true, true, 8, false, "u-store", "FilmGrid Store"},
		{"loc-1", "location", "studio", "", "Andheri Green Room", true, true, 500, false, "u-loc", "Studio Nine"},
		{"crew-1", "crew", "gaffer", "", "Lighting Gaffer (Day)", true, false, 250, true, "u-crew", "Kiran"},
		{"comp-1", "competition", "short film", "", "Monsoon Shorts 2026", false, false, 0, false, "u-admin", "Admin"},
	}

	now := time.Now().UTC().Format(time.RFC3339)
	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()
	for _, r := range rows {
		var daily, legacy any
		if r.LegacyRate {
			legacy = r.Rate
		} else {
			daily = r.Rate
		}
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO listings(id,kind,category,brand,title,is_active,is_verified,daily_rate,price_per_day,owner_id,owner_name,created_at)
			VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
			ON CONFLICT(id) DO NOTHING
		`), r.ID, r.Kind, r.Category, r.Brand, r.Title, r.Active, r.Verified, daily, legacy, r.OwnerID, r.OwnerName, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedUsers ensures two USERs and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-ravi", "ravi@filmgrid.test", "Ravi", "USER", "Passw0rd!"),
		mk("u-meera", "meera@filmgrid.test", "Meera", "USER", "Passw0rd!"),
		mk("u-admin", "admin@filmgrid.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(tx.Rebind(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`), x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
