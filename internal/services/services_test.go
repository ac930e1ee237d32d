package services_test

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmgrid/internal/domain"
	"filmgrid/internal/repos"
	"filmgrid/internal/services"
)

type fixture struct {
	listings *services.ListingService
	catalog  *services.CatalogService
	feed     *services.Feed
	users    *repos.UserRepo
}

func setup(t *testing.T) fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	feed := services.NewFeed()
	ls := services.NewListingService(repos.NewListingRepo(db), feed)
	require.NoError(t, ls.Refresh())
	cs := services.NewCatalogService(feed, 5)
	t.Cleanup(cs.Close)
	return fixture{listings: ls, catalog: cs, feed: feed, users: repos.NewUserRepo(db)}
}

func TestFeedDeliversSnapshotOnSubscribe(t *testing.T) {
	feed := services.NewFeed()
	feed.Publish([]domain.Listing{{ID: "a"}, {ID: "b"}})

	var got []domain.Listing
	unsub := feed.Subscribe(func(snap []domain.Listing) { got = snap })
	require.Len(t, got, 2)

	got[0].ID = "mutated"
	assert.Equal(t, "a", feed.Latest()[0].ID, "subscribers get their own copy")

	feed.Publish([]domain.Listing{{ID: "c"}})
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)

	unsub()
	unsub()
	assert.Equal(t, 0, feed.Subscribers())
	feed.Publish(nil)
	assert.Len(t, got, 1, "no deliveries after unsubscribe")
}

func TestFeedConcurrentPublish(t *testing.T) {
	feed := services.NewFeed()
	var mu sync.Mutex
	calls := 0
	unsub := feed.Subscribe(func([]domain.Listing) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	defer unsub()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			feed.Publish([]domain.Listing{{ID: "x"}})
		}()
	}
	wg.Wait()
	assert.Equal(t, 21, calls)
}

func TestTableFiltersByKindAndCanonicalCategory(t *testing.T) {
	f := setup(t)

	page := f.catalog.Table(services.TableRequest{Kind: domain.KindEquipment, Category: "lens", Page: 1})
	assert.Equal(t, 2, page.TotalCount)
	for _, l := range page.Items {
		assert.Equal(t, domain.KindEquipment, l.Kind)
	}

	page = f.catalog.Table(services.TableRequest{Kind: domain.KindEquipment, Text: "FX3", Page: 1})
	assert.Equal(t, 2, page.TotalCount)

	page = f.catalog.Table(services.TableRequest{Text: "fx3", Page: 1})
	assert.Equal(t, 3, page.TotalCount, "empty kind searches every listing")

	page = f.catalog.Table(services.TableRequest{Kind: domain.KindEquipment, Brand: "sony alpha", Page: 1})
	assert.Equal(t, 3, page.TotalCount)

	page = f.catalog.Table(services.TableRequest{Kind: domain.KindEquipment, Page: 2})
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)

	page = f.catalog.Table(services.TableRequest{Kind: domain.KindEquipment, Text: "no such thing", Page: 1})
	assert.Equal(t, 0, page.TotalCount)
	assert.Equal(t, 1, page.TotalPages)
	assert.NotNil(t, page.Items)
}

func TestTreeUsesPerKindBrandRules(t *testing.T) {
	f := setup(t)

	eq := f.catalog.Tree(domain.KindEquipment, "")
	names := make([]string, 0, len(eq))
	for _, n := range eq {
		names = append(names, n.Name)
	}
	assert.Equal(t, []string{"Cameras", "Drones", "Lenses", "Uncategorized"}, names)
	assert.Equal(t, 2, eq[0].Count)
	require.Len(t, eq[0].Brands, 1)
	assert.Equal(t, "Sony", eq[0].Brands[0].Name)
	assert.Equal(t, 1, eq[0].Brands[0].DistinctProducts)

	lenses := f.catalog.Tree(domain.KindStore, "LENS")
	require.Len(t, lenses, 1)
	assert.Equal(t, "Sony G Master", lenses[0].Brands[0].Name)

	assert.Empty(t, f.catalog.Tree(domain.KindStore, "drone"))
	assert.Equal(t, []string{"Accessories", "Grip", "Lenses"}, f.catalog.CategoryOptions(domain.KindStore))
}

func TestWritesRepublishSnapshot(t *testing.T) {
	f := setup(t)
	before := f.catalog.Stats()
	assert.Equal(t, 12, before.Total)
	assert.Equal(t, 9, before.Active)
	assert.Equal(t, 6, before.Verified)
	assert.Equal(t, 6, before.ByKind[domain.KindEquipment])

	l, err := f.listings.Create(services.NewListing{
		Kind: domain.KindEquipment, Category: "gimbal", Brand: "dji", Title: "RS 4", DailyRate: 25, Active: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, 13, f.catalog.Stats().Total)

	require.NoError(t, f.listings.SetVerified(l.ID, true))
	assert.Equal(t, 7, f.catalog.Stats().Verified)

	require.NoError(t, f.listings.SetActive(l.ID, false))
	assert.Equal(t, 9, f.catalog.Stats().Active)

	require.NoError(t, f.listings.Delete(l.ID))
	assert.Equal(t, 12, f.catalog.Stats().Total)

	assert.True(t, errors.Is(f.listings.Delete(l.ID), repos.ErrNotFound))
}

func TestCreateValidates(t *testing.T) {
	f := setup(t)
	_, err := f.listings.Create(services.NewListing{Kind: "spaceship", Title: "x"})
	assert.True(t, errors.Is(err, services.ErrInvalidListing))
	_, err = f.listings.Create(services.NewListing{Kind: domain.KindCrew, Title: "  "})
	assert.True(t, errors.Is(err, services.ErrInvalidListing))
	for _, rate := range []float64{-1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = f.listings.Create(services.NewListing{Kind: domain.KindCrew, Title: "DOP", DailyRate: rate})
		assert.True(t, errors.Is(err, services.ErrInvalidListing), "rate %v", rate)
	}
	assert.Equal(t, 12, len(f.feed.Latest()), "rejected creates publish nothing")
}

func TestClosedCatalogKeepsLastSnapshot(t *testing.T) {
	f := setup(t)
	f.catalog.Close()
	_, err := f.listings.Create(services.NewListing{Kind: domain.KindCrew, Title: "Focus Puller"})
	require.NoError(t, err)
	assert.Equal(t, 12, f.catalog.Stats().Total)
	assert.Equal(t, 13, len(f.feed.Latest()))
}

func TestIsAdminHonoursAllowList(t *testing.T) {
	admin := &domain.User{Email: "Admin@FilmGrid.test", Role: domain.RoleAdmin}
	user := &domain.User{Email: "ravi@filmgrid.test", Role: domain.RoleUser}

	open := &services.AuthService{}
	assert.True(t, open.IsAdmin(admin))
	assert.False(t, open.IsAdmin(user))
	assert.False(t, open.IsAdmin(nil))

	narrowed := &services.AuthService{AdminEmails: []string{"ops@filmgrid.test"}}
	assert.False(t, narrowed.IsAdmin(admin))

	listed := &services.AuthService{AdminEmails: []string{"admin@filmgrid.test"}}
	assert.True(t, listed.IsAdmin(admin))
}

func TestLoginAndUserTable(t *testing.T) {
	f := setup(t)
	auth := &services.AuthService{Users: f.users}

	_, err := auth.Login("sid-x", "admin@filmgrid.test", "wrong-Passw0rd")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	u, err := auth.Login("sid-x", "admin@filmgrid.test", "Passw0rd!")
	require.NoError(t, err)
	cur, err := auth.CurrentUser("sid-x")
	require.NoError(t, err)
	assert.Equal(t, u.ID, cur.ID)
	require.NoError(t, auth.Logout("sid-x"))

	_, err = auth.Login("sid-y", "ravi@filmgrid.test", "Passw0rd!")
	assert.ErrorIs(t, err, services.ErrNotAdmin)
	_, err = auth.CurrentUser("sid-y")
	assert.Error(t, err, "a refused login binds no session")

	us := &services.UserService{Users: f.users, PageSize: 2}
	page, err := us.Table("", domain.RoleUser, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalCount)

	page, err = us.Table("MEERA", "", 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "u-meera", page.Items[0].ID)

	page, err = us.Table("", "", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
}
