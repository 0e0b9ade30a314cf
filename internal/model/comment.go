package model

import "time"

// Comment mirrors the `comments` table. AuthorID references the user
// who wrote the comment; comments always belong to a published post.
type Comment struct {
	ID        uint64    // comments.id
	PostID    uint64    // comments.post_id (references posts.id)
	AuthorID  uint64    // comments.author_id (references users.id)
	Content   string    // comments.content
	CreatedAt time.Time // comments.created_at
}
