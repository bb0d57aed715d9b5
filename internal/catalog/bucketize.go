package catalog

import "github.com/soulart2024-ship-it/Tem/internal/domain"

// Bucketize groups items into the named buckets, preserving the original
// relative order within each bucket. Items whose bucket is not present in
// order are dropped; the count of dropped items is returned so curated-data
// regressions stay visible in logs.
func Bucketize(items []domain.CatalogItem, order []string) (map[string][]domain.CatalogItem, int) {
	buckets := make(map[string][]domain.CatalogItem, len(order))
	known := make(map[string]bool, len(order))
	for _, bucket := range order {
		buckets[bucket] = nil
		known[bucket] = true
	}

	dropped := 0
	for _, item := range items {
		if !known[item.Bucket] {
			dropped++
			continue
		}
		buckets[item.Bucket] = append(buckets[item.Bucket], item)
	}
	return buckets, dropped
}
