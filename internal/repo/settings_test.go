package repo

import (
	"testing"
	"time"

	"github.com/ResetToBasics/M-Ecosmeticos/internal/revision"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/shop"
	"github.com/ResetToBasics/M-Ecosmeticos/internal/testutil"
)

func newTestSettings(store shop.KVStore, wall shop.Clock) (*SettingsRepository, *revision.Clock) {
	rev := revision.NewClock(store, wall, shop.NewNopLogger(), revision.NewNotifier(), nil, time.Millisecond)
	return NewSettingsRepository(store, rev, wall, shop.NewNopLogger()), rev
}

func TestSettingsLoadSeedsDefaults(t *testing.T) {
	store := testutil.NewStubStore()
	r, _ := newTestSettings(store, testutil.FixedClock())

	settings := r.Load()

	if settings != shop.DefaultSettings() {
		t.Errorf("Expected default settings, got %+v", settings)
	}
	if _, ok := store.Raw(shop.KeySettings); !ok {
		t.Error("Expected the seed to be persisted")
	}
}

func TestSettingsLoadMergesDefaults(t *testing.T) {
	store := testutil.NewStubStore()
	// Legacy bare object with only some fields set.
	store.Seed(shop.KeySettings, []byte(`{"siteName":"Loja da Ana","contactEmail":"ana@example.com"}`))
	r, _ := newTestSettings(store, testutil.FixedClock())

	settings := r.Load()

	if settings.SiteName != "Loja da Ana" {
		t.Errorf("Expected stored siteName, got %q", settings.SiteName)
	}
	if settings.ContactEmail != "ana@example.com" {
		t.Errorf("Expected stored contactEmail, got %q", settings.ContactEmail)
	}
	if settings.HeroSubtitle != shop.DefaultSettings().HeroSubtitle {
		t.Errorf("Expected default heroSubtitle, got %q", settings.HeroSubtitle)
	}
}

func TestSettingsSaveBumpsRevision(t *testing.T) {
	store := testutil.NewStubStore()
	wall := testutil.FixedClock()
	r, rev := newTestSettings(store, wall)

	before := rev.Read()
	wall.Advance(10 * time.Millisecond)

	saved := r.Save(shop.SiteSettings{SiteName: "Loja Nova"})

	if saved.SiteName != "Loja Nova" {
		t.Errorf("Expected saved siteName, got %q", saved.SiteName)
	}
	if saved.ContactEmail != shop.DefaultSettings().ContactEmail {
		t.Errorf("Expected default contactEmail merged in, got %q", saved.ContactEmail)
	}
	if rev.Read() <= before {
		t.Error("Expected save to bump the revision")
	}

	raw, ok := store.Raw(shop.KeySettings)
	if !ok {
		t.Fatal("Expected settings snapshot to be persisted")
	}
	var stored shop.SiteSettings
	stamp, err := shop.DecodeSnapshot(raw, &stored)
	if err != nil {
		t.Fatalf("Decoding stored settings: %v", err)
	}
	if stored.SiteName != "Loja Nova" {
		t.Errorf("Expected persisted siteName, got %q", stored.SiteName)
	}
	if stamp != rev.Read() {
		t.Errorf("Expected snapshot stamp %d to match revision %d", stamp, rev.Read())
	}
}
