package model

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCommentNotFound  = errors.New("comment not found")
	ErrNotCommentAuthor = errors.New("comment belongs to another user")
)

// Like records that a user liked a post. A user appears at most once per post.
type Like struct {
	ID   primitive.ObjectID `json:"_id" bson:"_id"`
	User primitive.ObjectID `json:"user" bson:"user"`
}

// Comment is owned by exactly one post. Name and avatar are copied from the
// author when the comment is written.
type Comment struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id"`
	User   primitive.ObjectID `json:"user" bson:"user"`
	Text   string             `json:"text" bson:"text"`
	Name   string             `json:"name" bson:"name"`
	Avatar string             `json:"avatar" bson:"avatar"`
	Date   time.Time          `json:"date" bson:"date"`
}

// Post is the aggregate root for likes and comments. Both lists are ordered
// newest first and only change through the methods below.
type Post struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User     primitive.ObjectID `json:"user" bson:"user"`
	Text     string             `json:"text" bson:"text"`
	Name     string             `json:"name" bson:"name"`
	Avatar   string             `json:"avatar" bson:"avatar"`
	Likes    []Like             `json:"likes" bson:"likes"`
	Comments []Comment          `json:"comments" bson:"comments"`
	Date     time.Time          `json:"date" bson:"date"`
}

// NewPost creates a post with empty like and comment lists.
func NewPost(author primitive.ObjectID, text, name, avatar string) *Post {
	return &Post{
		ID:       primitive.NewObjectID(),
		User:     author,
		Text:     strings.TrimSpace(text),
		Name:     name,
		Avatar:   avatar,
		Likes:    []Like{},
		Comments: []Comment{},
		Date:     time.Now().UTC(),
	}
}

// IsAuthor reports whether userID wrote the post.
func (p *Post) IsAuthor(userID primitive.ObjectID) bool {
	return p.User == userID
}

// LikedBy reports whether userID currently likes the post.
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	return p.likeIndex(userID) >= 0
}

// ToggleLike removes userID's like if present, otherwise inserts one at the
// front. It reports whether the post is liked by userID afterwards.
func (p *Post) ToggleLike(userID primitive.ObjectID) bool {
	if i := p.likeIndex(userID); i >= 0 {
		p.Likes = append(p.Likes[:i:i], p.Likes[i+1:]...)
		return false
	}
	like := Like{ID: primitive.NewObjectID(), User: userID}
	p.Likes = append([]Like{like}, p.Likes...)
	return true
}

// AddComment inserts a new comment at the front of the list and returns it.
func (p *Post) AddComment(userID primitive.ObjectID, text, name, avatar string) Comment {
	comment := Comment{
		ID:     primitive.NewObjectID(),
		User:   userID,
		Text:   strings.TrimSpace(text),
		Name:   name,
		Avatar: avatar,
		Date:   time.Now().UTC(),
	}
	p.Comments = append([]Comment{comment}, p.Comments...)
	return comment
}

// RemoveComment deletes the comment identified by commentID. Only its author
// may remove it; on failure the list is left unchanged.
func (p *Post) RemoveComment(commentID, userID primitive.ObjectID) (Comment, error) {
	for i, c := range p.Comments {
		if c.ID != commentID {
			continue
		}
		if c.User != userID {
			return Comment{}, ErrNotCommentAuthor
		}
		p.Comments = append(p.Comments[:i:i], p.Comments[i+1:]...)
		return c, nil
	}
	return Comment{}, ErrCommentNotFound
}

// Normalize replaces nil lists so they encode as [] rather than null.
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

func (p *Post) likeIndex(userID primitive.ObjectID) int {
	for i, l := range p.Likes {
		if l.User == userID {
			return i
		}
	}
	return -1
}
