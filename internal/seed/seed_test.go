package seed

import (
	"context"
	"testing"

	"github.com/minilms/minilms/internal/app/repositories/memory"
	"github.com/minilms/minilms/internal/app/services"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDefaultDataIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := services.NewServices(services.Deps{Store: memory.NewStore(), Logger: zerolog.Nop()})

	require.NoError(t, CreateDefaultData(ctx, svc, zerolog.Nop()))
	require.NoError(t, CreateDefaultData(ctx, svc, zerolog.Nop()))

	courses, err := svc.Courses.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, DemoCourseTitle, courses[0].Title)

	students, err := svc.Students.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, DemoStudentEmail, students[0].Email)
	assert.Equal(t, []int64{courses[0].ID}, students[0].CourseIDs)
}
