package implementation

import (
	"context"

	"skintech-consultant-be/internal/mapper"
	"skintech-consultant-be/internal/model"
	"skintech-consultant-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductEmbeddingMapper
}

func NewProductEmbeddingRepository(db *gorm.DB) contract.ProductEmbeddingRepository {
	return &ProductEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductEmbeddingMapper(),
	}
}

func (r *ProductEmbeddingRepositoryImpl) UpsertBulk(ctx context.Context, docs []contract.ProductDocument) error {
	if len(docs) == 0 {
		return nil
	}
	models := make([]*model.ProductEmbedding, 0, len(docs))
	for _, doc := range docs {
		m, err := r.mapper.ToModel(doc.Product, doc.Document, doc.Vector)
		if err != nil {
			return err
		}
		models = append(models, m)
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "embedding", "metadata", "updated_at"}),
	}).Create(&models).Error
}

type productEmbeddingHit struct {
	Id       string
	Distance float64
	Metadata datatypes.JSON
}

func (r *ProductEmbeddingRepositoryImpl) SearchNearest(ctx context.Context, vector []float32, limit int) ([]*contract.ScoredProductEmbedding, error) {
	var hits []productEmbeddingHit

	// <=> is pgvector cosine distance
	err := r.db.WithContext(ctx).
		Model(&model.ProductEmbedding{}).
		Select("id, metadata, embedding <=> ? AS distance", pgvector.NewVector(vector)).
		Order("distance").
		Limit(limit).
		Scan(&hits).Error
	if err != nil {
		return nil, err
	}

	results := make([]*contract.ScoredProductEmbedding, len(hits))
	for i, h := range hits {
		results[i] = &contract.ScoredProductEmbedding{
			Id:       h.Id,
			Distance: h.Distance,
			Metadata: []byte(h.Metadata),
		}
	}
	return results, nil
}

func (r *ProductEmbeddingRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ProductEmbedding{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
