package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

// maxUpsertRows keeps a single statement well below the Postgres limit of 65535 bind parameters.
const maxUpsertRows = 1000

type VisitSummaryRepository struct {
	db *sqlx.DB
}

func NewVisitSummaryRepository(db *sqlx.DB) *VisitSummaryRepository {
	return &VisitSummaryRepository{db: db}
}

// UpsertTotalVisitsForMany adds counts to the stored totals in one transaction.
// Totals are never overwritten, so replaying or overlapping flushes only add.
func (r *VisitSummaryRepository) UpsertTotalVisitsForMany(ctx context.Context, counts []entity.VisitCount) error {
	const op = "adapter.repository.postgres.VisitSummaryRepository.UpsertTotalVisitsForMany"

	counts = mergeVisitCounts(counts)
	if len(counts) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	for start := 0; start < len(counts); start += maxUpsertRows {
		end := min(start+maxUpsertRows, len(counts))

		query, args := buildUpsertTotalVisitsQuery(counts[start:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: failed to upsert into visit_summaries table: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return nil
}

func (r *VisitSummaryRepository) GetTotalVisits(ctx context.Context, linkID string) (int64, error) {
	const op = "adapter.repository.postgres.VisitSummaryRepository.GetTotalVisits"
	const query = `SELECT total_visits FROM visit_summaries WHERE link_id = $1`

	var total int64

	if err := r.db.GetContext(ctx, &total, query, linkID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}

		return 0, fmt.Errorf("%s: failed to get row from visit_summaries table: %w", op, err)
	}

	return total, nil
}

// mergeVisitCounts sums counts of the same link, since one INSERT cannot touch a conflict key twice.
func mergeVisitCounts(counts []entity.VisitCount) []entity.VisitCount {
	merged := make([]entity.VisitCount, 0, len(counts))
	idx := make(map[string]int, len(counts))

	for _, c := range counts {
		if c.Count <= 0 {
			continue
		}
		if i, ok := idx[c.LinkID]; ok {
			merged[i].Count += c.Count
			continue
		}
		idx[c.LinkID] = len(merged)
		merged = append(merged, c)
	}

	return merged
}

func buildUpsertTotalVisitsQuery(counts []entity.VisitCount) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(counts)*2)

	sb.WriteString(`INSERT INTO visit_summaries(link_id, total_visits) VALUES `)
	for i, c := range counts {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d, $%d)", i*2+1, i*2+2)
		args = append(args, c.LinkID, c.Count)
	}
	sb.WriteString(` ON CONFLICT (link_id) DO UPDATE
		SET total_visits = visit_summaries.total_visits + EXCLUDED.total_visits,
			updated_at = now()`)

	return sb.String(), args
}

type VisitLogRepository struct {
	db *sqlx.DB
}

func NewVisitLogRepository(db *sqlx.DB) *VisitLogRepository {
	return &VisitLogRepository{db: db}
}

func (r *VisitLogRepository) Save(ctx context.Context, entry *entity.VisitLogEntry) error {
	const op = "adapter.repository.postgres.VisitLogRepository.Save"
	const query = `INSERT INTO visit_logs(link_id, visited_at, ip_address, user_agent, referrer)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.GetContext(ctx, &entry.ID, query,
		entry.LinkID, entry.VisitedAt, entry.IPAddress, entry.UserAgent, entry.Referrer)
	if err != nil {
		return fmt.Errorf("%s: failed to insert into visit_logs table: %w", op, err)
	}

	return nil
}
