package domain

// Domain identifies one of the three decoder tools.
type Domain string

const (
	DomainEmotion Domain = "emotion"
	DomainAllergy Domain = "allergy"
	DomainBelief  Domain = "belief"
)

// Domains lists every decoder domain in presentation order.
func Domains() []Domain {
	return []Domain{DomainEmotion, DomainAllergy, DomainBelief}
}

// Valid reports whether the domain is one of the known decoder tools.
func (d Domain) Valid() bool {
	switch d {
	case DomainEmotion, DomainAllergy, DomainBelief:
		return true
	}
	return false
}

// Slug returns the URL path segment for the domain's tool.
func (d Domain) Slug() string {
	switch d {
	case DomainEmotion:
		return "emotion-decoder"
	case DomainAllergy:
		return "allergy-identifier"
	case DomainBelief:
		return "belief-decoder"
	}
	return ""
}

// ItemField is the JSON field name carrying the selected item's label on
// the use endpoint.
func (d Domain) ItemField() string {
	switch d {
	case DomainEmotion:
		return "emotion"
	case DomainAllergy:
		return "allergen"
	case DomainBelief:
		return "belief"
	}
	return "item"
}

// DomainFromSlug resolves a URL path segment back to its domain.
func DomainFromSlug(slug string) (Domain, bool) {
	for _, d := range Domains() {
		if d.Slug() == slug {
			return d, true
		}
	}
	return "", false
}

// BucketCount is the fixed number of thematic groups per catalog.
const BucketCount = 6

// BucketOrder returns the bucket identifiers in fixed rendering order,
// "Row 1" through "Row 6".
func BucketOrder() []string {
	return []string{"Row 1", "Row 2", "Row 3", "Row 4", "Row 5", "Row 6"}
}

// CatalogItem is one parsed row of a domain dataset. Attributes carry the
// per-domain descriptive fields keyed by the domain descriptor's field names.
type CatalogItem struct {
	Bucket     string
	Label      string
	Frequency  int
	Attributes map[string]string
}

// BucketTheme is the static presentation metadata for one bucket,
// independent of the loaded data.
type BucketTheme struct {
	Title       string
	Color       string
	Description string
}
