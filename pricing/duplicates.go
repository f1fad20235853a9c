package pricing

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"

	"facturacion-backend/models"
)

// Recommendation tags for duplicate candidate pairs.
const (
	RecommendBetterSupplier = "better_supplier"
	RecommendSamePattern    = "same_supplier_pattern"
)

// CandidatePair links a candidate line item to an existing one it likely
// duplicates. Transient: callers decide whether to persist or just surface it.
type CandidatePair struct {
	Candidate *models.InvoiceLineItem `json:"candidate"`
	Existing  *models.InvoiceLineItem `json:"existing"`
	// In [0, 1]; pure function of the two items.
	SimilarityScore float64 `json:"similarity_score"`
	// Candidate cost minus existing cost; negative means the new supplier is
	// cheaper.
	PriceDifference decimal.Decimal `json:"price_difference"`
	IsDuplicate     bool            `json:"is_duplicate"`
	Recommendation  string          `json:"recommendation"`
}

// SkippedComparison reports a pair that could not be scored (e.g. an empty
// description). Reported, never raised.
type SkippedComparison struct {
	ExistingID string `json:"existing_id"`
	Reason     string `json:"reason"`
}

// DuplicateReport is the outcome of scanning one candidate against a set of
// existing items.
type DuplicateReport struct {
	Pairs   []CandidatePair     `json:"pairs"`
	Skipped []SkippedComparison `json:"skipped"`
}

// DuplicateDetector flags line items that likely describe a product the
// tenant already buys, and recommends the cheaper supplier. Comparison is
// naive O(N*M); invoices carry at most a few hundred lines.
type DuplicateDetector struct {
	duplicateThreshold float64
	possibleThreshold  float64
	priceNoiseRatio    decimal.Decimal
	maxCandidates      int
}

func NewDuplicateDetector(cfg Config) *DuplicateDetector {
	return &DuplicateDetector{
		duplicateThreshold: cfg.DuplicateThreshold,
		possibleThreshold:  cfg.PossibleThreshold,
		priceNoiseRatio:    cfg.PriceNoiseRatio,
		maxCandidates:      cfg.MaxCandidates,
	}
}

// Similarity scores two descriptions in [0, 1]. Case, accents, punctuation
// and word order are ignored. When every word of the shorter description
// also appears in the other (extra descriptors like "shoes size" on one
// side), the pair scores as a near-certain duplicate.
func (d *DuplicateDetector) Similarity(a, b string) float64 {
	fa, fb := fold(a), fold(b)
	if fa == "" || fb == "" {
		return 0
	}
	if fa == fb {
		return 1
	}

	base := levenshteinRatio(fa, fb)
	if s := levenshteinRatio(sortedTokens(fa), sortedTokens(fb)); s > base {
		base = s
	}
	if tokensContained(fa, fb) || tokensContained(fb, fa) {
		if s := 0.90 + 0.10*base; s > base {
			base = s
		}
	}
	return base
}

func levenshteinRatio(a, b string) float64 {
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// tokensContained reports whether every word of a appears inside b with its
// spacing removed, so "nike airmax 42" matches "nike air max shoes size 42".
// Very short strings are excluded to keep stray token hits from matching.
func tokensContained(a, b string) bool {
	if len(a) < 6 {
		return false
	}
	stripped := strings.ReplaceAll(b, " ", "")
	for _, tok := range tokens(a) {
		if !strings.Contains(stripped, tok) {
			return false
		}
	}
	return true
}

// FindDuplicates scores candidate against every existing item and returns the
// ranked pairs at or above the possible threshold. Pairs at or above the
// duplicate threshold are flagged; the band in between is surfaced for the
// caller to resolve.
func (d *DuplicateDetector) FindDuplicates(candidate *models.InvoiceLineItem, existing []models.InvoiceLineItem) DuplicateReport {
	var report DuplicateReport

	if fold(candidate.Description) == "" {
		report.Skipped = append(report.Skipped, SkippedComparison{
			ExistingID: "", Reason: "candidate description empty",
		})
		return report
	}

	candidateCode := fold(candidate.ProductCode)
	for i := range existing {
		other := &existing[i]
		if other.Id != "" && other.Id == candidate.Id {
			continue
		}
		if fold(other.Description) == "" {
			report.Skipped = append(report.Skipped, SkippedComparison{
				ExistingID: other.Id, Reason: "existing description empty",
			})
			continue
		}

		score := d.Similarity(candidate.Description, other.Description)
		if candidateCode != "" && candidateCode == fold(other.ProductCode) {
			score += 0.05
			if score > 1 {
				score = 1
			}
		}
		if score < d.possibleThreshold {
			continue
		}

		report.Pairs = append(report.Pairs, CandidatePair{
			Candidate:       candidate,
			Existing:        other,
			SimilarityScore: score,
			PriceDifference: candidate.UnitPrice.Sub(other.UnitPrice),
			IsDuplicate:     score >= d.duplicateThreshold,
			Recommendation:  d.recommend(candidate.UnitPrice, other.UnitPrice),
		})
	}

	sort.SliceStable(report.Pairs, func(i, j int) bool {
		if report.Pairs[i].SimilarityScore != report.Pairs[j].SimilarityScore {
			return report.Pairs[i].SimilarityScore > report.Pairs[j].SimilarityScore
		}
		return report.Pairs[i].Existing.Id < report.Pairs[j].Existing.Id
	})
	if d.maxCandidates > 0 && len(report.Pairs) > d.maxCandidates {
		report.Pairs = report.Pairs[:d.maxCandidates]
	}
	return report
}

func (d *DuplicateDetector) recommend(candidatePrice, existingPrice decimal.Decimal) string {
	if existingPrice.IsPositive() {
		noise := existingPrice.Mul(d.priceNoiseRatio)
		if existingPrice.Sub(candidatePrice).GreaterThan(noise) {
			return RecommendBetterSupplier
		}
	}
	return RecommendSamePattern
}
