package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

func TestBuildUpsertTotalVisitsQuery(t *testing.T) {
	query, args := buildUpsertTotalVisitsQuery([]entity.VisitCount{
		{LinkID: "a", Count: 5},
		{LinkID: "b", Count: 2},
	})

	assert.Contains(t, query, `INSERT INTO visit_summaries(link_id, total_visits) VALUES ($1, $2), ($3, $4)`)
	assert.Contains(t, query, `ON CONFLICT (link_id) DO UPDATE`)
	assert.Contains(t, query, `total_visits = visit_summaries.total_visits + EXCLUDED.total_visits`)
	assert.Equal(t, []any{"a", int64(5), "b", int64(2)}, args)
}

func TestMergeVisitCounts(t *testing.T) {
	got := mergeVisitCounts([]entity.VisitCount{
		{LinkID: "a", Count: 1},
		{LinkID: "b", Count: 2},
		{LinkID: "a", Count: 3},
		{LinkID: "c", Count: 0},
	})

	assert.Equal(t, []entity.VisitCount{
		{LinkID: "a", Count: 4},
		{LinkID: "b", Count: 2},
	}, got)
}

type VisitRepositoryTestSuite struct {
	suite.Suite
	errUnknown  error
	mock        sqlmock.Sqlmock
	summaryRepo *VisitSummaryRepository
	logRepo     *VisitLogRepository
}

func (suite *VisitRepositoryTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *VisitRepositoryTestSuite) SetupSubTest() {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		suite.T().Fatalf("Failed to create mock database: %v", err)
	}
	suite.T().Cleanup(func() {
		mockDB.Close()
	})

	db := sqlx.NewDb(mockDB, "sqlmock")

	suite.mock = mock
	suite.summaryRepo = NewVisitSummaryRepository(db)
	suite.logRepo = NewVisitLogRepository(db)
}

func (suite *VisitRepositoryTestSuite) TearDownSubTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *VisitRepositoryTestSuite) TestUpsertTotalVisitsForMany() {
	upsert := regexp.QuoteMeta(`INSERT INTO visit_summaries(link_id, total_visits) VALUES ($1, $2), ($3, $4) ON CONFLICT`)

	suite.Run("empty batch", func() {
		err := suite.summaryRepo.UpsertTotalVisitsForMany(context.Background(), nil)

		suite.NoError(err)
	})

	suite.Run("begin error", func() {
		suite.mock.ExpectBegin().WillReturnError(suite.errUnknown)

		err := suite.summaryRepo.UpsertTotalVisitsForMany(context.Background(), []entity.VisitCount{{LinkID: "a", Count: 1}})

		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("exec error rolls back", func() {
		suite.mock.ExpectBegin()
		suite.mock.ExpectExec(upsert).
			WithArgs("a", int64(5), "b", int64(1)).
			WillReturnError(suite.errUnknown)
		suite.mock.ExpectRollback()

		err := suite.summaryRepo.UpsertTotalVisitsForMany(context.Background(), []entity.VisitCount{
			{LinkID: "a", Count: 5},
			{LinkID: "b", Count: 1},
		})

		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("merges duplicates in one statement", func() {
		suite.mock.ExpectBegin()
		suite.mock.ExpectExec(upsert).
			WithArgs("a", int64(5), "b", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		suite.mock.ExpectCommit()

		err := suite.summaryRepo.UpsertTotalVisitsForMany(context.Background(), []entity.VisitCount{
			{LinkID: "a", Count: 2},
			{LinkID: "b", Count: 1},
			{LinkID: "a", Count: 3},
		})

		suite.NoError(err)
	})

	suite.Run("large batch is split", func() {
		counts := make([]entity.VisitCount, maxUpsertRows+1)
		for i := range counts {
			counts[i] = entity.VisitCount{LinkID: fmt.Sprintf("link%d", i), Count: 1}
		}

		suite.mock.ExpectBegin()
		suite.mock.ExpectExec(`INSERT INTO visit_summaries`).
			WillReturnResult(sqlmock.NewResult(0, maxUpsertRows))
		suite.mock.ExpectExec(regexp.QuoteMeta(`VALUES ($1, $2) ON CONFLICT`)).
			WithArgs(fmt.Sprintf("link%d", maxUpsertRows), int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		suite.mock.ExpectCommit()

		err := suite.summaryRepo.UpsertTotalVisitsForMany(context.Background(), counts)

		suite.NoError(err)
	})
}

func (suite *VisitRepositoryTestSuite) TestGetTotalVisits() {
	suite.Run("no summary yet", func() {
		suite.mock.ExpectQuery(`SELECT total_visits FROM visit_summaries`).
			WithArgs("a").
			WillReturnError(sql.ErrNoRows)

		total, err := suite.summaryRepo.GetTotalVisits(context.Background(), "a")

		suite.NoError(err)
		suite.Zero(total)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT total_visits FROM visit_summaries`).
			WithArgs("a").
			WillReturnError(suite.errUnknown)

		_, err := suite.summaryRepo.GetTotalVisits(context.Background(), "a")

		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("success", func() {
		suite.mock.ExpectQuery(`SELECT total_visits FROM visit_summaries`).
			WithArgs("a").
			WillReturnRows(sqlmock.NewRows([]string{"total_visits"}).AddRow(42))

		total, err := suite.summaryRepo.GetTotalVisits(context.Background(), "a")

		suite.NoError(err)
		suite.Equal(int64(42), total)
	})
}

func (suite *VisitRepositoryTestSuite) TestSaveVisitLog() {
	visitedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	suite.Run("unknown error", func() {
		entry := entity.VisitInfo{}.ToLogEntry("a", visitedAt)

		suite.mock.ExpectQuery(`INSERT INTO visit_logs`).
			WithArgs("a", visitedAt, nil, nil, nil).
			WillReturnError(suite.errUnknown)

		err := suite.logRepo.Save(context.Background(), entry)

		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("success", func() {
		entry := entity.VisitInfo{
			IPAddress: "203.0.113.7",
			UserAgent: "curl/8.0",
			Referrer:  "https://news.example.com",
		}.ToLogEntry("a", visitedAt)

		suite.mock.ExpectQuery(`INSERT INTO visit_logs`).
			WithArgs("a", visitedAt, "203.0.113.7", "curl/8.0", "https://news.example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		err := suite.logRepo.Save(context.Background(), entry)

		suite.NoError(err)
		suite.Equal(int64(7), entry.ID)
	})
}

func TestVisitRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(VisitRepositoryTestSuite))
}
