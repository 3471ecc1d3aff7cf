package domain

// ProductRecord represents one historical catalogue entry after the source's
// columns have been mapped and its price cleaned. Rating and RatingCount stay
// nil when the source value could not be coerced to a number.
type ProductRecord struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int64   `json:"rating_count,omitempty"`
}

// FeatureVector is the model input derived from a ProductRecord or a Query.
// Both paths must go through the same normalization function.
type FeatureVector struct {
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Rating      float64 `json:"rating"`
	RatingCount int64   `json:"rating_count"`
}

// TrainingRow pairs a feature vector with its observed price
type TrainingRow struct {
	Features FeatureVector
	Price    float64
}

// TrainingTable is an ordered multiset of training rows. Duplicates are kept
// on purpose since multiplicity weights the fit.
type TrainingTable []TrainingRow

// Query is the externally supplied description of the product to price
type Query struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	RatingCount int64   `json:"rating_count"`
}

// Data source names reported in Provenance
const (
	SourceDatabase = "database"
	SourceCSV      = "csv"
	SourceFallback = "fallback"
)

// Provenance records which branch of the acquisition ladder produced the
// training data, and why earlier branches were skipped.
type Provenance struct {
	Source string `json:"source"`
	Reason string `json:"reason,omitempty"`
	Rows   int    `json:"rows"`
}

// Dataset is the output of acquisition: admitted records plus provenance
type Dataset struct {
	Records    []ProductRecord
	Provenance Provenance
}
