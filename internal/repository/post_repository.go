package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/JongDeug/blog-backend/internal/model"
)

// PostRepo persists posts and their tag links.
type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

// Create inserts a post and links its tags inside one transaction.
// Tags are created lazily when first referenced.
func (r *PostRepo) Create(ctx context.Context, p model.Post) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO posts (author_id, category_id, title, content, summary, draft) VALUES (?,?,?,?,?,?)",
		p.AuthorID, p.CategoryID, p.Title, p.Content, p.Summary, p.Draft)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	if err := linkTags(ctx, tx, uint64(id), p.Tags); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the mutable columns of a post and replaces its tag
// links.
func (r *PostRepo) Update(ctx context.Context, p model.Post) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"UPDATE posts SET category_id=?, title=?, content=?, summary=?, draft=? WHERE id=?",
		p.CategoryID, p.Title, p.Content, p.Summary, p.Draft, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and a no-op update;
		// confirm existence before reporting not found.
		var exists int
		if err := tx.QueryRowContext(ctx, "SELECT 1 FROM posts WHERE id=? LIMIT 1", p.ID).Scan(&exists); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM post_tags WHERE post_id=?", p.ID); err != nil {
		return err
	}
	if err := linkTags(ctx, tx, p.ID, p.Tags); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a post; tag links go with it via ON DELETE CASCADE.
func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetByID fetches one post with its tags. When publishedOnly is set,
// drafts behave as if they do not exist.
func (r *PostRepo) GetByID(ctx context.Context, id uint64, publishedOnly bool) (model.Post, error) {
	q := "SELECT id,author_id,category_id,title,content,summary,draft,views,created_at,updated_at FROM posts WHERE id=?"
	if publishedOnly {
		q += " AND draft=0"
	}
	var p model.Post
	err := r.DB.QueryRowContext(ctx, q+" LIMIT 1", id).
		Scan(&p.ID, &p.AuthorID, &p.CategoryID, &p.Title, &p.Content, &p.Summary, &p.Draft, &p.Views, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Post{}, err
	}
	p.Tags, err = r.tagsFor(ctx, p.ID)
	if err != nil {
		return model.Post{}, err
	}
	return p, nil
}

// ListPublished returns published posts, newest first, optionally
// filtered by category.
func (r *PostRepo) ListPublished(ctx context.Context, categoryID uint64) ([]model.Post, error) {
	q := "SELECT id,author_id,category_id,title,summary,views,created_at,updated_at FROM posts WHERE draft=0"
	args := []interface{}{}
	if categoryID != 0 {
		q += " AND category_id=?"
		args = append(args, categoryID)
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Post{}
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.CategoryID, &p.Title, &p.Summary, &p.Views, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// IncrementViews bumps the view counter; best effort, callers may
// ignore the error.
func (r *PostRepo) IncrementViews(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE posts SET views=views+1 WHERE id=?", id)
	return err
}

func (r *PostRepo) tagsFor(ctx context.Context, postID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT t.name FROM tags t JOIN post_tags pt ON pt.tag_id=t.id WHERE pt.post_id=? ORDER BY t.name",
		postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func linkTags(ctx context.Context, tx *sql.Tx, postID uint64, tags []string) error {
	for _, name := range tags {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tags (name) VALUES (?) ON DUPLICATE KEY UPDATE id=LAST_INSERT_ID(id)", name); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT IGNORE INTO post_tags (post_id, tag_id) SELECT ?, id FROM tags WHERE name=?",
			postID, name); err != nil {
			return err
		}
	}
	return nil
}
