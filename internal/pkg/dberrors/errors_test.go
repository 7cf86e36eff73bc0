package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "students_email_key"}
	wrapped := fmt.Errorf("insert student: %w", pgErr)

	assert.True(t, IsDuplicateConstraintError(wrapped, "students_email_key"))
	assert.False(t, IsDuplicateConstraintError(wrapped, "certificates_student_course_key"))

	fkErr := &pgconn.PgError{Code: "23503", ConstraintName: "lessons_course_id_fkey"}
	assert.False(t, IsDuplicateConstraintError(fkErr, "lessons_course_id_fkey"))
	assert.True(t, IsForeignKeyViolation(fmt.Errorf("insert lesson: %w", fkErr)))
	assert.False(t, IsForeignKeyViolation(pgErr))
	assert.False(t, IsForeignKeyViolation(errors.New("boom")))

	assert.True(t, IsForeignKeyConstraintError(fkErr, "lessons_course_id_fkey"))
	assert.False(t, IsForeignKeyConstraintError(fkErr, "certificates_student_id_fkey"))
	assert.False(t, IsForeignKeyConstraintError(pgErr, "students_email_key"))
}
