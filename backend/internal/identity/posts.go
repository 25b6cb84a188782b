package identity

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialnet/backend/pkg/errors"
)

// Post, comment and like operations. These touch only the identity store;
// the relationship graph never sees content records.

// CreatePost inserts a new post for the given author
func (s *Store) CreatePost(ctx context.Context, authorID, title string) (*Post, error) {
	post := &Post{
		ID:       uuid.NewString(),
		UserID:   authorID,
		Title:    title,
		PostDate: time.Now().UTC(),
		Likes:    []string{},
		Comments: []Comment{},
	}

	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, errors.NewIdentityStoreUnavailable(err)
	}

	s.logger.Info("Post created",
		zap.String("post_id", post.ID),
		zap.String("author_id", authorID),
	)
	return post, nil
}

// FindPostByID looks up a post by its identifier
func (s *Store) FindPostByID(ctx context.Context, id string) (*Post, error) {
	var post Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewPostNotFound(id)
		}
		return nil, errors.NewIdentityStoreUnavailable(err)
	}
	return &post, nil
}

// PostsOfUser returns all posts written by the given person
func (s *Store) PostsOfUser(ctx context.Context, authorID string) ([]Post, error) {
	var posts []Post
	if err := s.db.WithContext(ctx).Where("user_id = ?", authorID).Order("post_date DESC").Find(&posts).Error; err != nil {
		return nil, errors.NewIdentityStoreUnavailable(err)
	}
	return posts, nil
}

// PostsOfAll returns every post, newest first
func (s *Store) PostsOfAll(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := s.db.WithContext(ctx).Order("post_date DESC").Find(&posts).Error; err != nil {
		return nil, errors.NewIdentityStoreUnavailable(err)
	}
	return posts, nil
}

// FeedOf returns the posts of everyone the person follows, newest first.
// Fails with ErrEmptyFeed when there is nothing to show.
func (s *Store) FeedOf(ctx context.Context, person *Person) ([]Post, error) {
	if len(person.Following) == 0 {
		return nil, errors.NewEmptyFeed()
	}

	var posts []Post
	if err := s.db.WithContext(ctx).Where("user_id IN ?", []string(person.Following)).Order("post_date DESC").Find(&posts).Error; err != nil {
		return nil, errors.NewIdentityStoreUnavailable(err)
	}
	if len(posts) == 0 {
		return nil, errors.NewEmptyFeed()
	}
	return posts, nil
}

// LikePost records a like. Unlike Follow, this entry point is strict: a
// duplicate like fails with ErrAlreadyInRelation.
func (s *Store) LikePost(ctx context.Context, personID, postID string) error {
	post, err := s.FindPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.HasLikeFrom(personID) {
		return errors.NewAlreadyInRelation(personID, postID)
	}

	res := s.db.WithContext(ctx).Model(&Post{}).
		Where("id = ? AND NOT (? = ANY(likes))", postID, personID).
		Update("likes", gorm.Expr("array_append(likes, ?)", personID))
	if res.Error != nil {
		return errors.NewIdentityStoreUnavailable(res.Error)
	}
	return nil
}

// UnlikePost removes a like. Strict: fails with ErrNotInRelation when the
// person has not liked the post.
func (s *Store) UnlikePost(ctx context.Context, personID, postID string) error {
	post, err := s.FindPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if !post.HasLikeFrom(personID) {
		return errors.NewNotInRelation(personID, postID)
	}

	res := s.db.WithContext(ctx).Model(&Post{}).
		Where("id = ?", postID).
		Update("likes", gorm.Expr("array_remove(likes, ?)", personID))
	if res.Error != nil {
		return errors.NewIdentityStoreUnavailable(res.Error)
	}
	return nil
}

// AddComment appends a comment to a post
func (s *Store) AddComment(ctx context.Context, personID, postID, text string) error {
	post, err := s.FindPostByID(ctx, postID)
	if err != nil {
		return err
	}

	post.Comments = append(post.Comments, Comment{UserID: personID, Text: text})

	res := s.db.WithContext(ctx).Model(&Post{}).
		Where("id = ?", postID).
		Update("comments", post.Comments)
	if res.Error != nil {
		return errors.NewIdentityStoreUnavailable(res.Error)
	}
	return nil
}
