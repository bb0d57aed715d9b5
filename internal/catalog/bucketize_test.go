package catalog

import (
	"testing"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

func item(bucket, label string) domain.CatalogItem {
	return domain.CatalogItem{Bucket: bucket, Label: label, Attributes: map[string]string{}}
}

func TestBucketizeIsStablePartition(t *testing.T) {
	items := []domain.CatalogItem{
		item("Row 2", "b1"),
		item("Row 1", "a1"),
		item("Row 2", "b2"),
		item("Row 9", "dropped"),
		item("Row 1", "a2"),
	}

	buckets, dropped := Bucketize(items, domain.BucketOrder())
	if dropped != 1 {
		t.Fatalf("expected 1 dropped item, got %d", dropped)
	}

	// Concatenating buckets in order reproduces the recognized subsequence
	// in original order.
	var labels []string
	for _, bucket := range domain.BucketOrder() {
		for _, it := range buckets[bucket] {
			labels = append(labels, it.Label)
		}
	}
	want := []string{"a1", "a2", "b1", "b2"}
	if len(labels) != len(want) {
		t.Fatalf("expected %v, got %v", want, labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, labels)
		}
	}
}

func TestBuildPageSplitsColumnsAndOmitsEmptyBuckets(t *testing.T) {
	desc := emotionDescriptor(t)
	items := []domain.CatalogItem{
		{Bucket: "Row 1", Label: "Shame", Frequency: 20, Attributes: map[string]string{"soulArtColor": "Deep Red"}},
		{Bucket: "Row 4", Label: "Anger", Frequency: 150, Attributes: map[string]string{"soulArtColor": "Burnt Orange"}},
	}
	buckets, _ := Bucketize(items, domain.BucketOrder())

	page := BuildPage(desc, buckets)
	if len(page.ColumnA.Sections) != 1 {
		t.Fatalf("expected 1 section in column A, got %d", len(page.ColumnA.Sections))
	}
	if len(page.ColumnB.Sections) != 1 {
		t.Fatalf("expected 1 section in column B, got %d", len(page.ColumnB.Sections))
	}

	sectionA := page.ColumnA.Sections[0]
	if sectionA.Bucket != "Row 1" {
		t.Fatalf("expected Row 1 in column A, got %q", sectionA.Bucket)
	}
	if sectionA.Theme.Title != "Foundation Emotions" {
		t.Fatalf("unexpected theme title %q", sectionA.Theme.Title)
	}
	if len(sectionA.Tiles) != 1 || sectionA.Tiles[0].Color != "Deep Red" {
		t.Fatalf("tile should carry the item color, got %+v", sectionA.Tiles)
	}

	if page.ColumnB.Sections[0].Bucket != "Row 4" {
		t.Fatalf("expected Row 4 in column B, got %q", page.ColumnB.Sections[0].Bucket)
	}
}

func TestThemeFallsBackForUnknownBucket(t *testing.T) {
	desc := emotionDescriptor(t)
	theme := desc.Theme(9)
	if theme.Title != "Row 9" {
		t.Fatalf("expected generic title Row 9, got %q", theme.Title)
	}
	if theme.Color != "#8F5AFF" {
		t.Fatalf("expected fallback color, got %q", theme.Color)
	}
}
