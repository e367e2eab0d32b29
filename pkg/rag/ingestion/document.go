package ingestion

import (
	"fmt"
	"strings"

	"skintech-consultant-be/internal/entity"
)

// Document renders the text that is embedded for a product.
func Document(p entity.Product) string {
	caution := "None"
	if len(p.RiskIngredients) > 0 {
		caution = strings.Join(p.RiskIngredients, ", ")
	}
	return fmt.Sprintf("Product: %s, Brand: %s, Contains: %s, Good for: %s, Effects: %s, Caution: %s, Price: %s",
		p.ProductName,
		p.Brand,
		strings.Join(p.CoreIngredients, ", "),
		strings.Join(p.SuitableSkinTypes, ", "),
		strings.Join(p.Efficacy, ", "),
		caution,
		p.PriceRange,
	)
}
