package shop

// SiteSettings holds the admin-editable storefront copy and contact
// fields. The storefront renders these read-only.
type SiteSettings struct {
	SiteName        string `json:"siteName"`
	HeroTitle       string `json:"heroTitle"`
	HeroSubtitle    string `json:"heroSubtitle"`
	ContactWhatsApp string `json:"contactWhatsApp"`
	ContactEmail    string `json:"contactEmail"`
	ContactHours    string `json:"contactHours"`
}

// DefaultSettings returns the seed settings used when no snapshot exists
// or the stored one is unreadable.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		SiteName:        "M&E Fracionados",
		HeroTitle:       "M&E Fracionados",
		HeroSubtitle:    "Seu hub completo sobre produtos fracionados e cuidados personalizados.",
		ContactWhatsApp: "(11) 99999-9999",
		ContactEmail:    "contato@mefracionados.com.br",
		ContactHours:    "Seg-Sex 9h às 18h",
	}
}

// MergeDefaults fills any empty field from the defaults, so settings
// saved by an older frontend still render a complete page.
func (s SiteSettings) MergeDefaults() SiteSettings {
	d := DefaultSettings()
	if s.SiteName == "" {
		s.SiteName = d.SiteName
	}
	if s.HeroTitle == "" {
		s.HeroTitle = d.HeroTitle
	}
	if s.HeroSubtitle == "" {
		s.HeroSubtitle = d.HeroSubtitle
	}
	if s.ContactWhatsApp == "" {
		s.ContactWhatsApp = d.ContactWhatsApp
	}
	if s.ContactEmail == "" {
		s.ContactEmail = d.ContactEmail
	}
	if s.ContactHours == "" {
		s.ContactHours = d.ContactHours
	}
	return s
}
