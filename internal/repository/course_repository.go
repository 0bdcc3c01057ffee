package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/iliyamo/course-booking/internal/model"
	"github.com/iliyamo/course-booking/internal/store"
)

const bucketCourses = "courses"

// CourseRepo provides access to course records.  It also backs the
// reservation engine's view of course capacity.
type CourseRepo struct {
	store store.Store
}

// NewCourseRepo returns a CourseRepo bound to the given store.
func NewCourseRepo(s store.Store) *CourseRepo { return &CourseRepo{store: s} }

// Create persists a new course.
func (r *CourseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.put(ctx, course)
}

// Update overwrites an existing course.
func (r *CourseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.put(ctx, course)
}

func (r *CourseRepo) put(ctx context.Context, course *model.Course) error {
	raw, err := json.Marshal(course)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, bucketCourses, course.ID.String(), raw)
}

// GetByID returns the course or ErrCourseNotFound.
func (r *CourseRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	raw, err := r.store.Get(ctx, bucketCourses, id.String())
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	var course model.Course
	if err := json.Unmarshal(raw, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns courses ordered by creation time, optionally filtered
// to one instructor, with skip/limit pagination.  limit <= 0 means no
// limit.
func (r *CourseRepo) List(ctx context.Context, instructorID *uuid.UUID, skip, limit int) ([]*model.Course, error) {
	var courses []*model.Course
	err := r.store.ForEach(ctx, bucketCourses, func(_ string, raw []byte) error {
		var c model.Course
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		if instructorID != nil && c.InstructorID != *instructorID {
			return nil
		}
		courses = append(courses, &c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Stable order for pagination: creation time, then ID as tiebreak.
	sort.Slice(courses, func(i, j int) bool {
		if !courses[i].CreatedAt.Equal(courses[j].CreatedAt) {
			return courses[i].CreatedAt.Before(courses[j].CreatedAt)
		}
		return courses[i].ID.String() < courses[j].ID.String()
	})

	if skip < 0 {
		skip = 0
	}
	if skip >= len(courses) {
		return []*model.Course{}, nil
	}
	courses = courses[skip:]
	if limit > 0 && limit < len(courses) {
		courses = courses[:limit]
	}
	return courses, nil
}
