package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/minilms/minilms/internal/db"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql builds PostgreSQL statements with $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgresStore is the PostgreSQL-backed Store.
type PostgresStore struct {
	database *db.PostgresDB
	q        DBTX
	inTx     bool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a Store over the connection pool.
func NewPostgresStore(database *db.PostgresDB) *PostgresStore {
	return &PostgresStore{database: database, q: database.Pool}
}

// Courses returns the course repository.
func (s *PostgresStore) Courses() CourseRepository { return &CoursePostgres{db: s.q} }

// Students returns the student repository.
func (s *PostgresStore) Students() StudentRepository { return &StudentPostgres{db: s.q} }

// Lessons returns the lesson repository.
func (s *PostgresStore) Lessons() LessonRepository { return &LessonPostgres{db: s.q} }

// Submissions returns the homework submission repository.
func (s *PostgresStore) Submissions() SubmissionRepository { return &SubmissionPostgres{db: s.q} }

// Certificates returns the certificate repository.
func (s *PostgresStore) Certificates() CertificateRepository { return &CertificatePostgres{db: s.q} }

// WithTransaction implements Store. Nested calls join the outer transaction.
func (s *PostgresStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &PostgresStore{database: s.database, q: tx, inTx: true})
	})
}
