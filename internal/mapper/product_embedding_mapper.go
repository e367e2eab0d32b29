package mapper

import (
	"encoding/json"

	"skintech-consultant-be/internal/entity"
	"skintech-consultant-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ProductEmbeddingMapper struct{}

func NewProductEmbeddingMapper() *ProductEmbeddingMapper {
	return &ProductEmbeddingMapper{}
}

// ToModel stores the product itself as metadata so retrieval can rebuild it.
func (m *ProductEmbeddingMapper) ToModel(product *entity.Product, document string, vector []float32) (*model.ProductEmbedding, error) {
	metadata, err := json.Marshal(product)
	if err != nil {
		return nil, err
	}
	return &model.ProductEmbedding{
		Id:        product.Id,
		Document:  document,
		Embedding: pgvector.NewVector(vector),
		Metadata:  datatypes.JSON(metadata),
	}, nil
}
