package catalog

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmgrid/internal/domain"
)

var searchFields = []domain.Field{domain.FieldTitle, domain.FieldBrand, domain.FieldOwnerName}

func numbered(n int) []domain.Listing {
	out := make([]domain.Listing, n)
	for i := range out {
		out[i] = domain.Listing{ID: fmt.Sprintf("r%02d", i), Title: fmt.Sprintf("Item %d", i)}
	}
	return out
}

func ids(ls []domain.Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func TestPaginateThirdPageOfTwentyFive(t *testing.T) {
	in := numbered(25)
	p := FilterAndPaginate(in, Query{PageSize: 10, Page: 3})
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 25, p.TotalCount)
	assert.Equal(t, ids(in[20:25]), ids(p.Items))
}

func TestPaginateEdges(t *testing.T) {
	empty := Paginate([]domain.Listing{}, 10, 1)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Equal(t, 0, empty.TotalCount)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)

	in := numbered(20)
	assert.Equal(t, 2, Paginate(in, 10, 1).TotalPages)
	assert.Empty(t, Paginate(in, 10, 3).Items, "pages past the end are empty")
	assert.Empty(t, Paginate(in, 10, 0).Items, "page zero is empty")
	assert.Equal(t, DefaultPageSize, Paginate(in, 0, 1).Size)
}

func TestPaginateHugePageNumbersAreEmpty(t *testing.T) {
	in := numbered(25)
	for _, n := range []int{math.MaxInt64, 1844674407370955162, math.MaxInt64/10 + 1} {
		require.NotPanics(t, func() {
			p := Paginate(in, 10, n)
			assert.Empty(t, p.Items)
			assert.Equal(t, n, p.Number)
			assert.Equal(t, 3, p.TotalPages)
		}, "page %d", n)
	}
}

func TestPaginationCoverage(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 37} {
		for _, size := range []int{1, 3, 10} {
			in := numbered(n)
			first := Paginate(in, size, 1)
			var all []string
			for page := 1; page <= first.TotalPages; page++ {
				all = append(all, ids(Paginate(in, size, page).Items)...)
			}
			if n == 0 {
				assert.Empty(t, all)
				continue
			}
			assert.Equal(t, ids(in), all, "n=%d size=%d", n, size)
		}
	}
}

func TestSearchMatchesAnyField(t *testing.T) {
	in := []domain.Listing{
		{ID: "1", Title: "FX3", Brand: "Sony"},
		{ID: "2", Title: "R5", Brand: "Canon", OwnerName: "Sonya K"},
		{ID: "3", Title: "Alexa", Brand: "ARRI"},
	}
	got := Filter(in, Query{Text: "SON", SearchFields: searchFields})
	assert.Equal(t, []string{"1", "2"}, ids(got))

	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(in, Query{SearchFields: searchFields})))
	assert.Empty(t, Filter(in, Query{Text: "zzz", SearchFields: searchFields}))
	assert.Empty(t, Filter(in, Query{Text: "son"}), "no search fields means nothing can match a query")
}

func TestSearchMonotonicity(t *testing.T) {
	in := generated(120)
	queries := []string{"", "f", "fx", "fx3", "a", "a "}
	for i, q1 := range queries {
		for _, q2 := range queries[i:] {
			if !strings.Contains(q2, q1) {
				continue
			}
			narrow := map[string]bool{}
			for _, l := range Filter(in, Query{Text: q2, SearchFields: searchFields}) {
				narrow[l.ID] = true
			}
			wide := map[string]bool{}
			for _, l := range Filter(in, Query{Text: q1, SearchFields: searchFields}) {
				wide[l.ID] = true
			}
			for id := range narrow {
				assert.True(t, wide[id], "%q matched %s but %q did not", q2, id, q1)
			}
		}
	}
}

func TestFiltersAreANDed(t *testing.T) {
	in := []domain.Listing{
		{ID: "1", Category: "lens", Brand: "sony", IsActive: true, IsVerified: true},
		{ID: "2", Category: "Lenses", Brand: "canon", IsActive: true},
		{ID: "3", Category: "camera", Brand: "sony", IsActive: false},
		{ID: "4", Category: "LENS", Brand: "Sony FF", IsActive: false},
	}
	q := Query{
		Filters: map[domain.Field]string{
			domain.FieldCategory: "Lenses",
			domain.FieldStatus:   "active",
			domain.FieldVerified: "",
		},
		Canon: map[domain.Field]func(string) string{domain.FieldCategory: Categories.Normalize},
	}
	assert.Equal(t, []string{"1", "2"}, ids(Filter(in, q)))

	q.Filters[domain.FieldVerified] = "true"
	assert.Equal(t, []string{"1"}, ids(Filter(in, q)))

	raw := Query{Filters: map[domain.Field]string{domain.FieldCategory: "Lenses"}}
	assert.Empty(t, Filter(in[:1], raw), "without canon the raw value is compared")
}

func TestFilterIsPureAndRepeatable(t *testing.T) {
	in := generated(40)
	snapshot := append([]domain.Listing(nil), in...)
	q := Query{Text: "fx", SearchFields: searchFields, Filters: map[domain.Field]string{domain.FieldStatus: "active"}, PageSize: 5, Page: 1}

	a := FilterAndPaginate(in, q)
	b := FilterAndPaginate(in, q)
	assert.Equal(t, a, b)
	require.Equal(t, snapshot, in)

	for i := range a.Items {
		a.Items[i].Title = "changed"
	}
	for _, l := range in {
		assert.NotEqual(t, "changed", l.Title)
	}
}

func TestFilterWorksOnUsers(t *testing.T) {
	users := []domain.User{
		{ID: "u1", Email: "a@x.test", Name: "Asha", Role: domain.RoleAdmin},
		{ID: "u2", Email: "b@x.test", Name: "Bala", Role: domain.RoleUser},
	}
	p := FilterAndPaginate(users, Query{Filters: map[domain.Field]string{domain.FieldRole: "user"}})
	require.Len(t, p.Items, 1)
	assert.Equal(t, "u2", p.Items[0].ID)
}

