package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gosuda/schooldocs/internal/domain"
)

// Store owns the connection pool and hands out the repositories built on it.
type Store struct {
	pool         *pgxpool.Pool
	templates    *TemplateRepo
	audit        *AuditRepo
	schools      *SchoolRepo
	students     *StudentRepo
	fees         *FeeRepo
	examinations *ExaminationRepo
	results      *ResultRepo
}

func New(ctx context.Context, dsn string, maxConns int32) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	cfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: connect: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	return &Store{
		pool:         pool,
		templates:    NewTemplateRepo(pool),
		audit:        NewAuditRepo(pool),
		schools:      NewSchoolRepo(pool),
		students:     NewStudentRepo(pool),
		fees:         NewFeeRepo(pool),
		examinations: NewExaminationRepo(pool),
		results:      NewResultRepo(pool),
	}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Templates() domain.TemplateRepository       { return s.templates }
func (s *Store) Audit() domain.AuditRepository              { return s.audit }
func (s *Store) Schools() domain.SchoolRepository           { return s.schools }
func (s *Store) Students() domain.StudentRepository         { return s.students }
func (s *Store) Fees() domain.FeeRepository                 { return s.fees }
func (s *Store) Examinations() domain.ExaminationRepository { return s.examinations }
func (s *Store) Results() domain.ResultRepository           { return s.results }
