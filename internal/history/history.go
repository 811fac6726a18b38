// Package history is the view model of the saved-offers list.
package history

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/offer-desk/internal/common"
	"github.com/Veraticus/offer-desk/internal/model"
	"golang.org/x/sync/errgroup"
)

// Backend is what the history view needs from the REST backend.
type Backend interface {
	ListOffers(ctx context.Context) ([]model.OfferRecord, error)
	DeleteOffer(ctx context.Context, id int64) error
	GetConfig(ctx context.Context) (model.BackendConfig, error)
}

// View holds the loaded offers and the current search term.
type View struct {
	backend   Backend
	records   []model.OfferRecord
	reference model.BackendConfig
	term      string
	mu        sync.Mutex
}

// NewView creates an empty view. Call Load to fetch offers.
func NewView(backend Backend) *View {
	return &View{backend: backend}
}

// Load fetches the offers and the reference data together.
func (v *View) Load(ctx context.Context) error {
	var (
		records []model.OfferRecord
		ref     model.BackendConfig
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = v.backend.ListOffers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ref, err = v.backend.GetConfig(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return common.NewUserError("Erro ao carregar dados.", fmt.Errorf("failed to load history: %w", err))
	}

	SortNewestFirst(records)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.records = records
	v.reference = ref
	return nil
}

// Reference returns the programs and currencies loaded with the offers.
func (v *View) Reference() model.BackendConfig {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.reference
}

// SetFilter changes the search term.
func (v *View) SetFilter(term string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.term = term
}

// Filter returns the current search term.
func (v *View) Filter() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.term
}

// All returns every loaded offer, newest first.
func (v *View) All() []model.OfferRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.records)
}

// Visible returns the offers matching the search term.
func (v *View) Visible() []model.OfferRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Filter(v.records, v.term)
}

// Find returns a loaded offer by id.
func (v *View) Find(id int64) (model.OfferRecord, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, r := range v.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.OfferRecord{}, false
}

// Delete removes an offer from the list at once and then from the backend.
// When the backend refuses, the list is fetched again and a user error returned.
func (v *View) Delete(ctx context.Context, id int64) error {
	v.mu.Lock()
	v.records = slices.DeleteFunc(v.records, func(r model.OfferRecord) bool { return r.ID == id })
	v.mu.Unlock()

	err := v.backend.DeleteOffer(ctx, id)
	if err == nil {
		common.LogInfo("Offer deleted", common.Fields{"id": id})
		return nil
	}

	if reloadErr := v.Load(ctx); reloadErr != nil {
		common.LogError(reloadErr, "Failed to reload history after delete", common.Fields{"id": id})
	}
	return common.NewUserError("Erro ao excluir. Tente novamente.", fmt.Errorf("failed to delete offer %d: %w", id, err))
}

// SortNewestFirst orders offers by creation time, newest first. Offers
// without a readable timestamp are placed by id.
func SortNewestFirst(records []model.OfferRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return sortKey(records[i]).After(sortKey(records[j]))
	})
}

func sortKey(r model.OfferRecord) time.Time {
	if t, ok := r.Created(); ok {
		return t
	}
	return time.UnixMilli(r.ID)
}

// Filter keeps offers whose origin, destination or airline contains term,
// ignoring case. An empty term keeps everything.
func Filter(records []model.OfferRecord, term string) []model.OfferRecord {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]model.OfferRecord, 0, len(records))
	for _, r := range records {
		if needle == "" ||
			strings.Contains(strings.ToLower(r.Origin), needle) ||
			strings.Contains(strings.ToLower(r.Destination), needle) ||
			strings.Contains(strings.ToLower(r.Operator), needle) {
			out = append(out, r)
		}
	}
	return out
}
