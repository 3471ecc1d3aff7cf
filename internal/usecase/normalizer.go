package usecase

import (
	"sort"
	"strings"

	"github.com/marketmind/backend/internal/domain"
)

// Row admission policies
const (
	PolicyImpute = "impute"
	PolicyDrop   = "drop"
)

const (
	// GenericBrand is used when a product has no name to take a brand from
	GenericBrand = "Generic"
	// OtherBrand is the bucket for brands outside the most frequent set
	OtherBrand = "Other"
)

// NormalizerConfig holds configuration for the feature normalizer
type NormalizerConfig struct {
	Policy             string
	DefaultRating      float64
	DefaultRatingCount int64
	TopBrands          int
}

// Normalizer derives feature vectors for training rows and queries through
// one shared function, so identical inputs always encode identically.
type Normalizer struct {
	policy             string
	defaultRating      float64
	defaultRatingCount int64
	topBrands          int
}

// NewNormalizer creates a normalizer, filling zero config values with defaults
func NewNormalizer(config NormalizerConfig) *Normalizer {
	policy := config.Policy
	if policy != PolicyDrop {
		policy = PolicyImpute
	}

	rating := config.DefaultRating
	if rating == 0 {
		rating = 4.0
	}

	count := config.DefaultRatingCount
	if count == 0 {
		count = 100
	}

	top := config.TopBrands
	if top <= 0 {
		top = 50
	}

	return &Normalizer{
		policy:             policy,
		defaultRating:      rating,
		defaultRatingCount: count,
		topBrands:          top,
	}
}

// Policy returns the active row admission policy
func (n *Normalizer) Policy() string {
	return n.policy
}

// BrandBuckets maps raw brands to the categories the model was trained on.
// Only brands in the training table's most frequent set keep their identity.
type BrandBuckets struct {
	keep  map[string]struct{}
	order []string
}

// Bucket returns brand itself when it was frequent at training time, and
// OtherBrand for everything else, including brands never seen before.
func (b *BrandBuckets) Bucket(brand string) string {
	if b == nil {
		return OtherBrand
	}
	if _, ok := b.keep[brand]; ok {
		return brand
	}
	return OtherBrand
}

// Brands returns the retained brands, most frequent first
func (b *BrandBuckets) Brands() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.order...)
}

// ExtractBrand returns the first whitespace-delimited token of name, or
// GenericBrand when name is blank.
func ExtractBrand(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return GenericBrand
	}
	return fields[0]
}

// CanonicalCategory reduces a free-text category to a lowercase
// alphabetic-only token. Only the first segment of a "|"-delimited path is
// used, and a standalone "and" counts as a connective like "&":
//
//	"Computers & Accessories"         -> "computersaccessories"
//	"  Computers And Accessories "    -> "computersaccessories"
//	"Computers&Accessories|Cables|USB" -> "computersaccessories"
func CanonicalCategory(category string) string {
	if i := strings.Index(category, "|"); i >= 0 {
		category = category[:i]
	}
	words := strings.FieldsFunc(strings.ToLower(category), func(r rune) bool {
		return r < 'a' || r > 'z'
	})

	var b strings.Builder
	for _, w := range words {
		if w == "and" {
			continue
		}
		b.WriteString(w)
	}
	return b.String()
}

// Admit applies the row admission policy. With PolicyImpute, missing
// ratings and counts get defaults; with PolicyDrop, such rows are removed.
// Records are copied, never modified in place.
func (n *Normalizer) Admit(records []domain.ProductRecord) []domain.ProductRecord {
	admitted := make([]domain.ProductRecord, 0, len(records))
	for _, r := range records {
		if r.Rating == nil || r.RatingCount == nil {
			if n.policy == PolicyDrop {
				continue
			}
			if r.Rating == nil {
				v := n.defaultRating
				r.Rating = &v
			}
			if r.RatingCount == nil {
				v := n.defaultRatingCount
				r.RatingCount = &v
			}
		}
		admitted = append(admitted, r)
	}
	return admitted
}

// FitBrands computes the brand buckets from the training records only.
// Ties at the cut-off are broken by first appearance.
func (n *Normalizer) FitBrands(records []domain.ProductRecord) *BrandBuckets {
	counts := make(map[string]int)
	var firstSeen []string
	for _, r := range records {
		brand := ExtractBrand(r.Name)
		if counts[brand] == 0 {
			firstSeen = append(firstSeen, brand)
		}
		counts[brand]++
	}

	ranked := append([]string(nil), firstSeen...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	if len(ranked) > n.topBrands {
		ranked = ranked[:n.topBrands]
	}

	keep := make(map[string]struct{}, len(ranked))
	for _, b := range ranked {
		keep[b] = struct{}{}
	}
	return &BrandBuckets{keep: keep, order: ranked}
}

// Fit turns admitted records into a training table and the brand buckets
// that queries must be encoded with.
func (n *Normalizer) Fit(records []domain.ProductRecord) (domain.TrainingTable, *BrandBuckets) {
	buckets := n.FitBrands(records)
	table := make(domain.TrainingTable, 0, len(records))
	for _, r := range records {
		if r.Rating == nil || r.RatingCount == nil {
			continue
		}
		table = append(table, domain.TrainingRow{
			Features: n.featurize(r.Name, r.Category, *r.Rating, *r.RatingCount, buckets),
			Price:    r.Price,
		})
	}
	return table, buckets
}

// RecordFeatures derives the feature vector of an admitted record
func (n *Normalizer) RecordFeatures(r domain.ProductRecord, buckets *BrandBuckets) domain.FeatureVector {
	rating, count := n.defaultRating, n.defaultRatingCount
	if r.Rating != nil {
		rating = *r.Rating
	}
	if r.RatingCount != nil {
		count = *r.RatingCount
	}
	return n.featurize(r.Name, r.Category, rating, count, buckets)
}

// QueryFeatures derives the feature vector of a query
func (n *Normalizer) QueryFeatures(q domain.Query, buckets *BrandBuckets) domain.FeatureVector {
	return n.featurize(q.Name, q.Category, q.Rating, q.RatingCount, buckets)
}

func (n *Normalizer) featurize(name, category string, rating float64, count int64, buckets *BrandBuckets) domain.FeatureVector {
	return domain.FeatureVector{
		Category:    CanonicalCategory(category),
		Brand:       buckets.Bucket(ExtractBrand(name)),
		Rating:      rating,
		RatingCount: count,
	}
}
