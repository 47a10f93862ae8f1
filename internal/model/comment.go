package model

import (
	"strings"
	"time"
)

// CommentTargetType names the kind of content a comment is attached to.
type CommentTargetType string

const (
	CommentTargetBlog    CommentTargetType = "BLOG"
	CommentTargetShorlog CommentTargetType = "SHORLOG"
)

// ParseCommentTargetType is case-insensitive.
func ParseCommentTargetType(s string) (CommentTargetType, bool) {
	switch t := CommentTargetType(strings.ToUpper(s)); t {
	case CommentTargetBlog, CommentTargetShorlog:
		return t, true
	default:
		return "", false
	}
}

// CommentAuthor is the author summary embedded in comment responses.
type CommentAuthor struct {
	ID            int64  `json:"id"`
	Nickname      string `json:"nickname"`
	ProfileImgURL string `json:"profileImgUrl"`
}

// Comment is a comment or, when ParentID is set, a reply to a root comment.
type Comment struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"-"`
	TargetType CommentTargetType `json:"targetType"`
	TargetID   int64             `json:"targetId"`
	ParentID   *int64            `json:"parentId,omitempty"`
	Content    string            `json:"content"`
	Author     CommentAuthor     `json:"author"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
	Children   []Comment         `json:"children,omitempty"`
}

// IsRoot reports whether the comment is not a reply.
func (c *Comment) IsRoot() bool {
	return c.ParentID == nil
}

// CommentActivity summarizes a user's comments on one target.
type CommentActivity struct {
	TargetID        int64     `json:"targetId"`
	LastCommentedAt time.Time `json:"lastCommentedAt"`
	CommentCount    int64     `json:"commentCount"`
}
