package catalog

import (
	"strconv"
	"strings"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

// Tile is one selectable item with its full attribute set attached, so
// interaction handlers retrieve data directly instead of re-parsing display
// text.
type Tile struct {
	Label      string
	Color      string
	Frequency  int
	Attributes map[string]string
}

// Section is one themed bucket of tiles.
type Section struct {
	Bucket string
	Theme  domain.BucketTheme
	Tiles  []Tile
}

// Column is one of the two visual columns of a decoder page.
type Column struct {
	Title    string
	Sections []Section
}

// Page is the renderable catalog view for one domain: six buckets in fixed
// order, split across two columns, empty buckets omitted.
type Page struct {
	Title   string
	Domain  domain.Domain
	ColumnA Column
	ColumnB Column
}

// BuildPage assembles the two-column tile layout from bucketized items.
func BuildPage(desc Descriptor, bucketed map[string][]domain.CatalogItem) Page {
	page := Page{
		Title:   desc.Title,
		Domain:  desc.Domain,
		ColumnA: Column{Title: desc.ColumnATitle},
		ColumnB: Column{Title: desc.ColumnBTitle},
	}

	for i, bucket := range domain.BucketOrder() {
		items := bucketed[bucket]
		if len(items) == 0 {
			continue
		}

		number := bucketNumber(bucket, i+1)
		theme := desc.Theme(number)
		section := Section{Bucket: bucket, Theme: theme}
		for _, item := range items {
			section.Tiles = append(section.Tiles, Tile{
				Label:      item.Label,
				Color:      item.Attributes[desc.ColorAttr],
				Frequency:  item.Frequency,
				Attributes: item.Attributes,
			})
		}

		// Buckets 1-3 fill column A, 4-6 column B.
		if number <= 3 {
			page.ColumnA.Sections = append(page.ColumnA.Sections, section)
		} else {
			page.ColumnB.Sections = append(page.ColumnB.Sections, section)
		}
	}
	return page
}

func bucketNumber(bucket string, fallback int) int {
	parts := strings.Fields(bucket)
	if len(parts) == 2 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			return n
		}
	}
	return fallback
}
