package catalog

import (
	"fmt"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

// AttributeColumn maps one dataset column onto a named item attribute.
type AttributeColumn struct {
	Name    string
	Index   int
	Numeric bool
}

// Descriptor is the configuration value that turns the generic decoder
// workflow into one concrete tool. Each domain is a Descriptor, not a code
// fork.
type Descriptor struct {
	Domain      domain.Domain
	Title       string
	DatasetPath string
	MinColumns  int

	// Column layout: column 0 is the bucket, column 1 the label, the rest
	// are attributes.
	Attributes []AttributeColumn

	// Attribute names feeding the ritual copy.
	LocationAttr string
	ColorAttr    string
	SupportAttr  string

	Themes        map[int]domain.BucketTheme
	FallbackTheme domain.BucketTheme

	ColumnATitle string
	ColumnBTitle string
}

var descriptors = map[domain.Domain]Descriptor{
	domain.DomainEmotion: {
		Domain:      domain.DomainEmotion,
		Title:       "Emotion Decoder",
		DatasetPath: "/data/emotion-decoder.csv",
		MinColumns:  6,
		Attributes: []AttributeColumn{
			{Name: "frequency", Index: 2, Numeric: true},
			{Name: "chakraBodyArea", Index: 3},
			{Name: "soulArtColor", Index: 4},
			{Name: "additionalSupport", Index: 5},
		},
		LocationAttr: "chakraBodyArea",
		ColorAttr:    "soulArtColor",
		SupportAttr:  "additionalSupport",
		Themes: map[int]domain.BucketTheme{
			1: {Title: "Foundation Emotions", Color: "#E74C3C", Description: "Root chakra - Shame, guilt, unworthiness"},
			2: {Title: "Fear-Based Emotions", Color: "#F39C12", Description: "Solar Plexus - Fear, panic, worry"},
			3: {Title: "Heart Emotions", Color: "#27AE60", Description: "Heart chakra - Grief, loss, loneliness"},
			4: {Title: "Anger Emotions", Color: "#E67E22", Description: "Liver/Fire - Anger, rage, resentment"},
			5: {Title: "Communication Emotions", Color: "#3498DB", Description: "Throat/Heart - Rejection, betrayal"},
			6: {Title: "Higher Mind Emotions", Color: "#9B59B6", Description: "Crown/Third Eye - Doubt, confusion"},
		},
		FallbackTheme: domain.BucketTheme{Color: "#8F5AFF", Description: "Various emotions"},
		ColumnATitle:  "Foundation & Heart",
		ColumnBTitle:  "Fire & Higher Mind",
	},
	domain.DomainAllergy: {
		Domain:      domain.DomainAllergy,
		Title:       "Allergy Identifier",
		DatasetPath: "/data/allergy-identifier.csv",
		MinColumns:  6,
		Attributes: []AttributeColumn{
			{Name: "category", Index: 2},
			{Name: "bodySystem", Index: 3},
			{Name: "color", Index: 4},
			{Name: "healingSupport", Index: 5},
		},
		LocationAttr: "bodySystem",
		ColorAttr:    "color",
		SupportAttr:  "healingSupport",
		Themes: map[int]domain.BucketTheme{
			1: {Title: "Common Food Intolerances", Color: "#E74C3C", Description: "Digestive system impacts"},
			2: {Title: "Environmental Allergens", Color: "#F39C12", Description: "Respiratory system triggers"},
			3: {Title: "Food Allergies", Color: "#27AE60", Description: "Immune system reactions"},
			4: {Title: "Material Sensitivities", Color: "#E67E22", Description: "Skin system responses"},
			5: {Title: "Environmental Patterns", Color: "#3498DB", Description: "Nervous system triggers"},
			6: {Title: "Chemical Sensitivities", Color: "#9B59B6", Description: "Liver system impacts"},
		},
		FallbackTheme: domain.BucketTheme{Color: "#8F5AFF", Description: "Various allergens"},
		ColumnATitle:  "Food & Environmental Allergies",
		ColumnBTitle:  "Sensitivities & Patterns",
	},
	domain.DomainBelief: {
		Domain:      domain.DomainBelief,
		Title:       "Belief Decoder",
		DatasetPath: "/data/belief-decoder.csv",
		MinColumns:  7,
		Attributes: []AttributeColumn{
			{Name: "category", Index: 2},
			{Name: "vibrationalLevel", Index: 3},
			{Name: "chakraArea", Index: 4},
			{Name: "color", Index: 5},
			{Name: "healingSupport", Index: 6},
		},
		LocationAttr: "chakraArea",
		ColorAttr:    "color",
		SupportAttr:  "healingSupport",
		Themes: map[int]domain.BucketTheme{
			1: {Title: "Self-Worth Beliefs", Color: "#E74C3C", Description: "Core identity & value beliefs"},
			2: {Title: "Abundance Beliefs", Color: "#F39C12", Description: "Money & success limitations"},
			3: {Title: "Relationship Beliefs", Color: "#27AE60", Description: "Love & connection patterns"},
			4: {Title: "Personal Growth Beliefs", Color: "#E67E22", Description: "Change & learning blocks"},
			5: {Title: "Health Beliefs", Color: "#3498DB", Description: "Body & wellness patterns"},
			6: {Title: "Safety Beliefs", Color: "#9B59B6", Description: "World & life security"},
		},
		FallbackTheme: domain.BucketTheme{Color: "#8F5AFF", Description: "Various beliefs"},
		ColumnATitle:  "Core Beliefs & Relationships",
		ColumnBTitle:  "Growth & Safety Beliefs",
	},
}

// ForDomain returns the descriptor for one decoder tool.
func ForDomain(d domain.Domain) (Descriptor, bool) {
	desc, ok := descriptors[d]
	return desc, ok
}

// Theme resolves the static presentation for a bucket number, falling back
// to a generic theme titled after the bucket itself.
func (d Descriptor) Theme(bucketNumber int) domain.BucketTheme {
	if theme, ok := d.Themes[bucketNumber]; ok {
		return theme
	}
	theme := d.FallbackTheme
	theme.Title = fmt.Sprintf("Row %d", bucketNumber)
	return theme
}
