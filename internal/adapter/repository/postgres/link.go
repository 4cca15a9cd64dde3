package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

type linkDB struct {
	ID        string       `db:"id"`
	Phrase    string       `db:"phrase"`
	TargetURL string       `db:"target_url"`
	Language  string       `db:"language"`
	Theme     string       `db:"theme"`
	CreatedAt time.Time    `db:"created_at"`
	DeletedAt sql.NullTime `db:"deleted_at"`
}

func (l *linkDB) toEntity() (*entity.Link, error) {
	phrase, err := entity.NewPhrase(l.Phrase)
	if err != nil {
		return nil, err
	}

	lang, ok := entity.LanguageFromValue(l.Language)
	if !ok {
		return nil, fmt.Errorf("unknown language %q", l.Language)
	}

	theme, ok := entity.ThemeFromValue(l.Theme)
	if !ok {
		return nil, fmt.Errorf("unknown theme %q", l.Theme)
	}

	return &entity.Link{
		ID:        l.ID,
		Phrase:    phrase,
		TargetURL: l.TargetURL,
		Language:  lang,
		Theme:     theme,
		CreatedAt: l.CreatedAt,
	}, nil
}

type LinkRepository struct {
	db *sqlx.DB
}

func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Save(ctx context.Context, link *entity.Link) error {
	const op = "adapter.repository.postgres.LinkRepository.Save"
	const query = `INSERT INTO links(id, phrase, target_url, language, theme)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &link.CreatedAt, query,
		link.ID, link.Phrase.String(), link.TargetURL, link.Language.String(), link.Theme.String())
	if err != nil {
		if isUniqueViolationError(err) {
			return fmt.Errorf("%s: %w", op, entity.ErrPhraseAlreadyInUse)
		}

		return fmt.Errorf("%s: failed to insert into links table: %w", op, err)
	}

	return nil
}

func (r *LinkRepository) GetByPhrase(ctx context.Context, phrase entity.Phrase) (*entity.Link, error) {
	const op = "adapter.repository.postgres.LinkRepository.GetByPhrase"
	const query = `SELECT * FROM links WHERE phrase = $1 AND deleted_at IS NULL`

	var link linkDB

	if err := r.db.GetContext(ctx, &link, query, phrase.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from links table: %w", op, err)
	}

	l, err := link.toEntity()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to decode links table row: %w", op, err)
	}

	return l, nil
}

func (r *LinkRepository) ExistsByPhrase(ctx context.Context, phrase entity.Phrase) (bool, error) {
	const op = "adapter.repository.postgres.LinkRepository.ExistsByPhrase"
	const query = `SELECT EXISTS(SELECT 1 FROM links WHERE phrase = $1 AND deleted_at IS NULL)`

	var exists bool

	if err := r.db.GetContext(ctx, &exists, query, phrase.String()); err != nil {
		return false, fmt.Errorf("%s: failed to check links table: %w", op, err)
	}

	return exists, nil
}
