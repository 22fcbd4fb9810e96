package postgres

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// AdjudicationRepository implements repository.AdjudicationRepo over the
// adjudications table. SourceAnnIDs is stored as a jsonb array and is
// excluded from the struct's db tags, so it's handled by hand.
type AdjudicationRepository struct{}

func NewAdjudicationRepository() *AdjudicationRepository {
	return &AdjudicationRepository{}
}

func (r *AdjudicationRepository) Create(ctx context.Context, ext sqlx.ExtContext, a *domain.Adjudication) error {
	sourceIDs, err := json.Marshal(a.SourceAnnIDs)
	if err != nil {
		return translate("encode adjudication sources", err)
	}

	const q = `
		INSERT INTO adjudications (sentence_id, curator_id, final_penman, note, source_annotation_ids)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`
	row := sqlx.QueryRowxContext(ctx, ext, q, a.SentenceID, a.CuratorID, a.FinalPenman, a.Note, sourceIDs)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return translate("create adjudication", err)
	}
	return nil
}

func (r *AdjudicationRepository) GetForSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) (*domain.Adjudication, error) {
	const q = `
		SELECT id, sentence_id, curator_id, final_penman, note, source_annotation_ids, created_at, updated_at
		FROM adjudications WHERE sentence_id = $1 ORDER BY id DESC LIMIT 1`
	var (
		a         domain.Adjudication
		sourceRaw []byte
	)
	row := sqlx.QueryRowxContext(ctx, ext, q, sentenceID)
	if err := row.Scan(&a.ID, &a.SentenceID, &a.CuratorID, &a.FinalPenman, &a.Note, &sourceRaw, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, translate("get adjudication", err)
	}
	if len(sourceRaw) > 0 {
		if err := json.Unmarshal(sourceRaw, &a.SourceAnnIDs); err != nil {
			return nil, translate("decode adjudication sources", err)
		}
	}
	return &a, nil
}
