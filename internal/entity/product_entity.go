package entity

// Product is read-only evidence from the knowledge base. The json layout matches
// the metadata stored next to each product embedding.
type Product struct {
	Id                string   `json:"id" validate:"required"`
	ProductName       string   `json:"product_name" validate:"required"`
	Brand             string   `json:"brand" validate:"required"`
	CoreIngredients   []string `json:"core_ingredients"`
	SuitableSkinTypes []string `json:"suitable_skin_types" validate:"dive,oneof=oily dry combination sensitive normal"`
	Efficacy          []string `json:"efficacy"`
	RiskIngredients   []string `json:"risk_ingredients"`
	PriceRange        string   `json:"price_range" validate:"omitempty,oneof=budget mid-range luxury"`
}
