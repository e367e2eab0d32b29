package profile

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"skintech-consultant-be/internal/entity"

	"github.com/go-playground/validator/v10"
)

// Extraction is the fixed schema the model must answer with.
// Scalars overwrite the stored value, lists are unioned into it.
type Extraction struct {
	SkinType        *string  `json:"skin_type" validate:"omitempty,oneof=oily dry combination sensitive normal"`
	Sensitivities   []string `json:"sensitivities"`
	PreferredBrands []string `json:"preferred_brands"`
	BudgetRange     *string  `json:"budget_range" validate:"omitempty,oneof=budget mid-range luxury"`
	Concerns        []string `json:"concerns"`
}

var validate = validator.New()

func (e Extraction) IsEmpty() bool {
	return e.SkinType == nil && e.BudgetRange == nil &&
		len(e.Sensitivities) == 0 && len(e.PreferredBrands) == 0 && len(e.Concerns) == 0
}

// ParseExtraction decodes and validates a model answer. Markdown code fences are tolerated.
func ParseExtraction(raw string) (Extraction, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var ex Extraction
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &ex); err != nil {
		return Extraction{}, fmt.Errorf("decode extraction: %w", err)
	}

	ex.SkinType = normalizeScalar(ex.SkinType)
	ex.BudgetRange = normalizeScalar(ex.BudgetRange)
	ex.Sensitivities = normalizeSet(ex.Sensitivities)
	ex.PreferredBrands = normalizeSet(ex.PreferredBrands)
	ex.Concerns = normalizeSet(ex.Concerns)

	if err := validate.Struct(ex); err != nil {
		return Extraction{}, fmt.Errorf("invalid extraction: %w", err)
	}
	return ex, nil
}

func normalizeScalar(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.ToLower(strings.TrimSpace(*v))
	if s == "" || s == "null" {
		return nil
	}
	return &s
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func union(current, extra []string) ([]string, bool) {
	merged := normalizeSet(append(append([]string{}, current...), extra...))
	if len(merged) == len(normalizeSet(current)) {
		return current, false
	}
	return merged, true
}

func overwrite(current **string, next *string) bool {
	if next == nil {
		return false
	}
	if *current != nil && **current == *next {
		return false
	}
	v := *next
	*current = &v
	return true
}

// Merge folds ex into p and reports whether anything changed. Set fields never shrink.
func Merge(p *entity.UserProfile, ex Extraction) bool {
	changed := false

	if overwrite(&p.SkinType, ex.SkinType) {
		changed = true
	}
	if overwrite(&p.BudgetRange, ex.BudgetRange) {
		changed = true
	}

	var grew bool
	if p.Sensitivities, grew = union(p.Sensitivities, ex.Sensitivities); grew {
		changed = true
	}
	if p.PreferredBrands, grew = union(p.PreferredBrands, ex.PreferredBrands); grew {
		changed = true
	}
	if p.Concerns, grew = union(p.Concerns, ex.Concerns); grew {
		changed = true
	}

	return changed
}

// Apply merges a non-empty extraction and bumps the version by exactly one,
// even when every extracted value was already stored. An empty extraction is a no-op.
func Apply(p *entity.UserProfile, ex Extraction) bool {
	if ex.IsEmpty() {
		return false
	}
	Merge(p, ex)
	p.Version++
	return true
}
