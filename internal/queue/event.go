// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// CommentCreatedEvent is published when a comment lands on a post. It
// carries enough for downstream consumers to notify the post author
// without querying the primary database.
type CommentCreatedEvent struct {
	CommentID    uint64 `json:"comment_id"`
	PostID       uint64 `json:"post_id"`
	PostTitle    string `json:"post_title"`
	PostAuthorID uint64 `json:"post_author_id"`
	AuthorID     uint64 `json:"author_id"`
	Content      string `json:"content"`
	CreatedAt    string `json:"created_at"`
}
