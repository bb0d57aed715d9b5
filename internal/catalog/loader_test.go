package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soulart2024-ship-it/Tem/internal/domain"
)

func emotionDescriptor(t *testing.T) Descriptor {
	t.Helper()
	desc, ok := ForDomain(domain.DomainEmotion)
	if !ok {
		t.Fatal("missing emotion descriptor")
	}
	return desc
}

func TestParseAcceptsValidRows(t *testing.T) {
	desc := emotionDescriptor(t)
	text := "h1,h2,h3,h4,h5,h6\nRow 1, Anger ,150, Liver Area , Burnt Orange , Exercise \n"

	items, dropped := Parse(desc, text)
	if dropped != 0 {
		t.Fatalf("expected no dropped rows, got %d", dropped)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	item := items[0]
	if item.Bucket != "Row 1" {
		t.Fatalf("expected bucket Row 1, got %q", item.Bucket)
	}
	if item.Label != "Anger" {
		t.Fatalf("expected trimmed label Anger, got %q", item.Label)
	}
	if item.Frequency != 150 {
		t.Fatalf("expected frequency 150, got %d", item.Frequency)
	}
	if item.Attributes["chakraBodyArea"] != "Liver Area" {
		t.Fatalf("expected trimmed attribute, got %q", item.Attributes["chakraBodyArea"])
	}
}

func TestParseDropsShortRows(t *testing.T) {
	desc := emotionDescriptor(t)
	text := "h1,h2,h3,h4,h5,h6\nRow 1,Anger,150,Liver,Orange,Exercise\nRow 2,Fear,100\n\nRow 3,Grief,75,Heart,Green,Meditation\n"

	items, dropped := Parse(desc, text)
	if dropped != 1 {
		t.Fatalf("expected 1 dropped row, got %d", dropped)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestParseNumericFailureYieldsZero(t *testing.T) {
	desc := emotionDescriptor(t)
	text := "h1,h2,h3,h4,h5,h6\nRow 1,Anger,unknown,Liver,Orange,Exercise\nRow 2,Fear,396 Hz,Plexus,Yellow,Breathing\n"

	items, _ := Parse(desc, text)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Frequency != 0 {
		t.Fatalf("expected 0 for unparsable frequency, got %d", items[0].Frequency)
	}
	if items[1].Frequency != 396 {
		t.Fatalf("expected leading integer 396, got %d", items[1].Frequency)
	}
}

func TestParseDiscardsHeader(t *testing.T) {
	desc := emotionDescriptor(t)
	text := "Row,Emotion,Frequency,Area,Color,Support\n"

	items, dropped := Parse(desc, text)
	if len(items) != 0 || dropped != 0 {
		t.Fatalf("header-only input should produce nothing, got %d items %d dropped", len(items), dropped)
	}
}

func TestLoadFetchesAndParses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/emotion-decoder.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("h1,h2,h3,h4,h5,h6\nRow 1,Anger,150,Liver,Orange,Exercise\n"))
	}))
	defer server.Close()

	loader, err := NewLoader(server.URL, server.Client())
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	items := loader.Load(context.Background(), domain.DomainEmotion)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Label != "Anger" {
		t.Fatalf("expected Anger, got %q", items[0].Label)
	}
}

func TestLoadFailureYieldsEmptyCatalog(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	loader, err := NewLoader(server.URL, server.Client())
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}

	if items := loader.Load(context.Background(), domain.DomainEmotion); len(items) != 0 {
		t.Fatalf("expected empty catalog on failure, got %d items", len(items))
	}
}

func TestEmbeddedDatasetsParseCleanly(t *testing.T) {
	for _, d := range domain.Domains() {
		desc, ok := ForDomain(d)
		if !ok {
			t.Fatalf("missing descriptor for %s", d)
		}
		raw, err := DatasetFS.ReadFile("data/" + d.Slug() + ".csv")
		if err != nil {
			t.Fatalf("read embedded dataset for %s: %v", d, err)
		}
		items, dropped := Parse(desc, string(raw))
		if dropped != 0 {
			t.Fatalf("%s: embedded dataset dropped %d rows", d, dropped)
		}
		if len(items) == 0 {
			t.Fatalf("%s: embedded dataset produced no items", d)
		}
		buckets, droppedItems := Bucketize(items, domain.BucketOrder())
		if droppedItems != 0 {
			t.Fatalf("%s: %d items fell outside known buckets", d, droppedItems)
		}
		for _, bucket := range domain.BucketOrder() {
			if len(buckets[bucket]) == 0 {
				t.Fatalf("%s: bucket %q is empty in curated dataset", d, bucket)
			}
		}
	}
}
