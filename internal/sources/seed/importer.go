package seed

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/marks/internal/domain"
	"github.com/MrSnakeDoc/marks/internal/logger"
)

// Result summarizes an import run.
type Result struct {
	Imported int
	Skipped  int
}

// Importer pushes seed entries through the same validation and sanitization
// as POST /bookmarks before inserting them.
type Importer struct {
	store     domain.Repository
	validator *domain.Validator
	sanitizer *domain.Sanitizer
	log       logger.Logger
}

func NewImporter(store domain.Repository, validator *domain.Validator, sanitizer *domain.Sanitizer, log logger.Logger) *Importer {
	return &Importer{
		store:     store,
		validator: validator,
		sanitizer: sanitizer,
		log:       log,
	}
}

// ImportFile loads path and imports its entries.
func (i *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	file, err := NewLoader(path).Load()
	if err != nil {
		return Result{}, err
	}
	return i.Import(ctx, file)
}

// Import inserts every valid entry. Invalid entries are logged and skipped;
// a store failure aborts the run.
func (i *Importer) Import(ctx context.Context, file File) (Result, error) {
	var res Result
	for n, entry := range file {
		draft, err := i.validator.Validate(i.sanitizer.Candidate(toCandidate(entry)))
		if err != nil {
			i.log.Warn("skipping seed entry",
				logger.Int("index", n),
				logger.String("title", entry.Title),
				logger.Error(err))
			res.Skipped++
			continue
		}

		created, err := i.store.InsertBookmark(ctx, draft)
		if err != nil {
			return res, fmt.Errorf("failed to import entry %d: %w", n, err)
		}
		i.log.Debug("seed entry imported", logger.Int64("id", created.ID))
		res.Imported++
	}

	i.log.Info("seed import finished",
		logger.Int("imported", res.Imported),
		logger.Int("skipped", res.Skipped))
	return res, nil
}

func toCandidate(e Entry) domain.Candidate {
	return domain.Candidate{
		Title:       e.Title,
		URL:         e.URL,
		Description: e.Description,
		Rating:      e.Rating,
	}
}
