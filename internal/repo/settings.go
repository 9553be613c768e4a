package repo

import (
	"github.com/ResetToBasics/M-Ecosmeticos/internal/revision"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
)

// SettingsRepository owns the admin-editable site settings. Loads merge
// stored values over defaults so partially-saved settings still render
// a complete page.
type SettingsRepository struct {
	col *Collection[shop.SiteSettings]
}

func NewSettingsRepository(store shop.KVStore, rev *revision.Clock, wall shop.Clock, logger shop.Logger) *SettingsRepository {
	return &SettingsRepository{
		col: NewCollection(shop.KeySettings, store, rev, wall, logger, shop.DefaultSettings),
	}
}

// Load returns the stored settings merged over defaults.
func (r *SettingsRepository) Load() shop.SiteSettings {
	return r.col.Load().MergeDefaults()
}

// Save replaces the stored settings as given, persists and bumps.
func (r *SettingsRepository) Save(s shop.SiteSettings) shop.SiteSettings {
	saved := r.col.Mutate(func(shop.SiteSettings) (shop.SiteSettings, bool) {
		return s, true
	})
	return saved.MergeDefaults()
}
