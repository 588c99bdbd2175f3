// Package search defines the searchable capability shared by every entity
// kind that appears in the global type-ahead.
package search

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// Kind identifies the entity kind of a search result
type Kind string

const (
	KindOwner    Kind = "owner"
	KindBuilding Kind = "building"
	KindUnit     Kind = "unit"
	KindTenant   Kind = "tenant"
	KindContract Kind = "contract"
)

type kindInfo struct {
	label string
	order int
}

var kinds = map[Kind]kindInfo{
	KindOwner:    {"Owner", 0},
	KindBuilding: {"Building", 1},
	KindUnit:     {"Unit", 2},
	KindTenant:   {"Tenant", 3},
	KindContract: {"Contract", 4},
}

// AllKinds returns every kind in merge order
func AllKinds() []Kind {
	return []Kind{KindOwner, KindBuilding, KindUnit, KindTenant, KindContract}
}

func (k Kind) String() string { return string(k) }

// Label returns the display label
func (k Kind) Label() string {
	if info, ok := kinds[k]; ok {
		return info.label
	}
	return string(k)
}

// Order returns the merge position of the kind. Unknown kinds sort last.
func (k Kind) Order() int {
	if info, ok := kinds[k]; ok {
		return info.order
	}
	return len(kinds)
}

// Result is the normalized projection of a matched record. It is never persisted.
type Result struct {
	ID       uuid.UUID `json:"id"`
	Kind     Kind      `json:"type"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Route    string    `json:"route"`

	// Position is the zero based index in the order the store returned the row
	Position int `json:"-"`
}

// Searchable is implemented once per entity kind
type Searchable interface {
	Kind() Kind
	// Match returns up to limit office-scoped results for the query,
	// in the order the store returned them.
	Match(ctx context.Context, officeID uuid.UUID, query string, limit int) ([]Result, error)
}

// Ranking orders merged results
type Ranking func(a, b Result) bool

// KindThenStoreOrder ranks by fixed kind order, then by store order within a kind.
// No cross-kind relevance is applied.
func KindThenStoreOrder(a, b Result) bool {
	if a.Kind.Order() != b.Kind.Order() {
		return a.Kind.Order() < b.Kind.Order()
	}
	return a.Position < b.Position
}

// Rank sorts results in place with the given ranking, keeping equal elements stable
func Rank(results []Result, ranking Ranking) {
	sort.SliceStable(results, func(i, j int) bool {
		return ranking(results[i], results[j])
	})
}
