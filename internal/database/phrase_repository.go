package database

import (
	"context"
	"fmt"

	"github.com/example/frasebot/pkg/models"
)

// PhraseRepository handles database operations for the phrase catalog
type PhraseRepository struct{}

// NewPhraseRepository creates a new repository instance
func NewPhraseRepository() *PhraseRepository {
	return &PhraseRepository{}
}

// GetAll returns the full catalog in catalog order (ascending id)
func (r *PhraseRepository) GetAll(ctx context.Context) ([]models.Phrase, error) {
	var phrases []models.Phrase
	err := DB.SelectContext(ctx, &phrases,
		"SELECT id, source_text, target_text, created_at, updated_at FROM phrases ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to get phrases: %v", err)
	}
	return phrases, nil
}

// GetByID returns a single phrase
func (r *PhraseRepository) GetByID(ctx context.Context, id int64) (*models.Phrase, error) {
	var phrase models.Phrase
	err := DB.GetContext(ctx, &phrase,
		"SELECT id, source_text, target_text, created_at, updated_at FROM phrases WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get phrase %d: %v", id, err)
	}
	return &phrase, nil
}

// Create inserts a new phrase and fills in its id
func (r *PhraseRepository) Create(ctx context.Context, phrase *models.Phrase) error {
	if Type() == "postgres" {
		return DB.QueryRowContext(ctx,
			"INSERT INTO phrases (source_text, target_text) VALUES ($1, $2) RETURNING id",
			phrase.SourceText, phrase.TargetText).Scan(&phrase.ID)
	}

	result, err := DB.ExecContext(ctx,
		"INSERT INTO phrases (source_text, target_text) VALUES ($1, $2)",
		phrase.SourceText, phrase.TargetText)
	if err != nil {
		return fmt.Errorf("failed to create phrase: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	phrase.ID = id
	return nil
}

// Count returns the catalog size
func (r *PhraseRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM phrases")
	if err != nil {
		return 0, fmt.Errorf("failed to count phrases: %v", err)
	}
	return count, nil
}

// ExistsByTargetText reports whether a phrase with exactly this target
// text is already in the catalog. Used by the importer to skip
// duplicates; the table itself allows duplicate texts.
func (r *PhraseRepository) ExistsByTargetText(ctx context.Context, targetText string) (bool, error) {
	var count int
	err := DB.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM phrases WHERE target_text = $1", targetText)
	if err != nil {
		return false, fmt.Errorf("failed to check phrase: %v", err)
	}
	return count > 0, nil
}

// EnsureSeedCatalog inserts the built-in starter catalog when the
// phrases table is empty, so a fresh install can practice immediately.
func (r *PhraseRepository) EnsureSeedCatalog(ctx context.Context) error {
	count, err := r.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for i := range seedCatalog {
		phrase := seedCatalog[i]
		if err := r.Create(ctx, &phrase); err != nil {
			return fmt.Errorf("failed to seed phrase %q: %v", phrase.TargetText, err)
		}
	}
	return nil
}
