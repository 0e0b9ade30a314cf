package repository

import (
	"context"
	"database/sql"

	"github.com/JongDeug/blog-backend/internal/model"
)

// TagRepo reads tags. Writes happen through PostRepo, which creates
// tags lazily as posts reference them.
type TagRepo struct{ DB *sql.DB }

func NewTagRepo(db *sql.DB) *TagRepo { return &TagRepo{DB: db} }

// List returns all tags ordered by name.
func (r *TagRepo) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id,name FROM tags ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
