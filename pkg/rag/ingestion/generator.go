package ingestion

import (
	"math/rand"

	"skintech-consultant-be/internal/entity"

	"github.com/google/uuid"
)

var (
	Brands = []string{
		"SK-II", "La Mer", "Estee Lauder", "Lancome", "Kiehl's",
		"The Ordinary", "CeraVe", "La Roche-Posay", "Shiseido", "Clarins",
	}
	Ingredients = []string{
		"Niacinamide", "Retinol", "Hyaluronic Acid", "Vitamin C", "Salicylic Acid",
		"Ceramides", "Peptides", "Snail Mucin", "Centella Asiatica", "Tea Tree Oil",
	}
	Efficacies = []string{
		"Moisturizing", "Anti-aging", "Brightening", "Acne Control",
		"Soothing", "Exfoliating", "Sun Protection",
	}
	Risks = []string{"Alcohol", "Fragrance", "Parabens", "Sulfates", "Essential Oils"}

	SkinTypes = []string{
		entity.SkinTypeOily, entity.SkinTypeDry, entity.SkinTypeCombination,
		entity.SkinTypeSensitive, entity.SkinTypeNormal,
	}
	PriceRanges = []string{entity.BudgetLow, entity.BudgetMid, entity.BudgetLuxury}

	productForms = []string{"Cream", "Serum", "Toner", "Cleanser"}
	lineWords    = []string{
		"水光", "焕颜", "臻萃", "修护", "净澈", "柔润", "晶透", "赋活",
		"Hydra", "Pure", "Radiance", "Calm", "Renew", "Velvet", "Aqua", "Glow",
	}
)

// Generator produces mock catalogue entries. A fixed seed yields the same catalogue.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) Generate(count int) []entity.Product {
	products := make([]entity.Product, 0, count)
	for i := 0; i < count; i++ {
		products = append(products, g.product())
	}
	return products
}

func (g *Generator) product() entity.Product {
	var risks []string
	// Roughly 30% of products carry a caution ingredient draw.
	if g.rng.Float64() > 0.7 {
		risks = g.sample(Risks, g.rng.Intn(2))
	}
	if risks == nil {
		risks = []string{}
	}

	return entity.Product{
		Id:                uuid.NewString(),
		ProductName:       g.pick(Brands) + " " + g.pick(lineWords) + " " + g.pick(productForms),
		Brand:             g.pick(Brands),
		CoreIngredients:   g.sample(Ingredients, 1+g.rng.Intn(3)),
		SuitableSkinTypes: g.sample(SkinTypes, 1+g.rng.Intn(3)),
		Efficacy:          g.sample(Efficacies, 1+g.rng.Intn(2)),
		RiskIngredients:   risks,
		PriceRange:        g.pick(PriceRanges),
	}
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

// sample draws k distinct values without replacement.
func (g *Generator) sample(values []string, k int) []string {
	if k <= 0 {
		return nil
	}
	idx := g.rng.Perm(len(values))[:k]
	out := make([]string, k)
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
