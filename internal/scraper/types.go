package scraper

// Company is one record extracted from a card on the source page.
type Company struct {
	Name string `json:"name"`
	// SourceURL is the page that was requested, not the company's own site.
	SourceURL string `json:"sourceUrl"`
	Email     string `json:"email"`
}

// Selectors describes the page structure the extractor is bound to.
type Selectors struct {
	Card    string `mapstructure:"card"`
	Name    string `mapstructure:"name"`
	Website string `mapstructure:"website"`
	Email   string `mapstructure:"email"`
	// Ready defaults to Card when empty.
	Ready string `mapstructure:"ready"`
}

// DefaultSelectors returns the selector set for the stock company listing layout.
func DefaultSelectors() Selectors {
	return Selectors{
		Card:    ".company-card",
		Name:    ".company-name",
		Website: "a.website",
		Email:   "a[href^='mailto:']",
	}
}

// ReadySelector returns the selector whose presence marks the page as rendered.
func (s Selectors) ReadySelector() string {
	if s.Ready != "" {
		return s.Ready
	}
	return s.Card
}

// withFallback fills empty fields from def.
func (s Selectors) withFallback(def Selectors) Selectors {
	if s.Card == "" {
		s.Card = def.Card
	}
	if s.Name == "" {
		s.Name = def.Name
	}
	if s.Website == "" {
		s.Website = def.Website
	}
	if s.Email == "" {
		s.Email = def.Email
	}
	if s.Ready == "" {
		s.Ready = def.Ready
	}
	return s
}
