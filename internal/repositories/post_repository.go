package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/google/uuid"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, authorID string, req models.CreatePostRequest) (models.Post, error)
	GetPostByID(ctx context.Context, id string) (models.Post, error)
	GetPosts(ctx context.Context) ([]models.Post, error)
	GetPostsByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	GetFeed(ctx context.Context, viewerID string, followingOnly bool) ([]models.Post, error)
	GetTrending(ctx context.Context, limit int) ([]models.Post, error)
	UpdatePost(ctx context.Context, id, editorID string, req models.UpdatePostRequest) (models.Post, error)
	DeletePost(ctx context.Context, id, requesterID string) error
}

// StorePostRepository implements PostRepository on the record store
type StorePostRepository struct {
	store *store.Store
}

// NewStorePostRepository creates a new StorePostRepository
func NewStorePostRepository(s *store.Store) *StorePostRepository {
	return &StorePostRepository{store: s}
}

func postContent(content string, images []string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("post content is empty: %w", store.ErrInvalid)
	}
	if len(images) > models.MaxPostImages {
		return "", fmt.Errorf("post has %d images, at most %d allowed: %w", len(images), models.MaxPostImages, store.ErrInvalid)
	}
	return content, nil
}

// CreatePost stores a new post by authorID.
func (r *StorePostRepository) CreatePost(ctx context.Context, authorID string, req models.CreatePostRequest) (models.Post, error) {
	content, err := postContent(req.Content, req.Images)
	if err != nil {
		return models.Post{}, err
	}

	var post models.Post
	err = r.store.Update(ctx, func(tx *store.Tx) error {
		if _, err := tx.User(authorID); err != nil {
			return err
		}
		now := tx.Now()
		post = models.Post{
			ID:        uuid.NewString(),
			AuthorID:  authorID,
			Content:   content,
			Images:    req.Images,
			Likes:     []string{},
			SavedBy:   []string{},
			Comments:  []models.Comment{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return tx.InsertPost(post)
	})
	if err != nil {
		return models.Post{}, err
	}
	return post, nil
}

// GetPostByID retrieves a post by ID
func (r *StorePostRepository) GetPostByID(_ context.Context, id string) (models.Post, error) {
	var post models.Post
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		post, err = tx.Post(id)
		return err
	})
	return post, err
}

// GetPosts retrieves every post, newest first
func (r *StorePostRepository) GetPosts(_ context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.store.View(func(tx *store.Tx) error {
		posts = tx.Posts()
		return nil
	})
	sortNewestFirst(posts)
	return posts, err
}

// GetPostsByAuthor retrieves the posts of one user, newest first
func (r *StorePostRepository) GetPostsByAuthor(_ context.Context, authorID string) ([]models.Post, error) {
	var posts []models.Post
	err := r.store.View(func(tx *store.Tx) error {
		if _, err := tx.User(authorID); err != nil {
			return err
		}
		posts = tx.PostsByAuthor(authorID)
		return nil
	})
	sortNewestFirst(posts)
	return posts, err
}

// GetFeed returns posts for the viewer's home feed, newest first. With
// followingOnly it keeps only the viewer's own posts and those of users
// the viewer follows.
func (r *StorePostRepository) GetFeed(_ context.Context, viewerID string, followingOnly bool) ([]models.Post, error) {
	posts := []models.Post{}
	err := r.store.View(func(tx *store.Tx) error {
		viewer, err := tx.User(viewerID)
		if err != nil {
			return err
		}
		if !followingOnly {
			posts = tx.Posts()
			return nil
		}
		posts = append(posts, tx.PostsByAuthor(viewerID)...)
		for _, id := range viewer.Following {
			posts = append(posts, tx.PostsByAuthor(id)...)
		}
		return nil
	})
	sortNewestFirst(posts)
	return posts, err
}

// GetTrending returns up to limit posts ordered by like count, then recency.
func (r *StorePostRepository) GetTrending(_ context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.store.View(func(tx *store.Tx) error {
		posts = tx.Posts()
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if len(posts[i].Likes) != len(posts[j].Likes) {
			return len(posts[i].Likes) > len(posts[j].Likes)
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// UpdatePost replaces content and images. Only the author may edit.
func (r *StorePostRepository) UpdatePost(ctx context.Context, id, editorID string, req models.UpdatePostRequest) (models.Post, error) {
	content, err := postContent(req.Content, req.Images)
	if err != nil {
		return models.Post{}, err
	}

	var post models.Post
	err = r.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		post, err = tx.Post(id)
		if err != nil {
			return err
		}
		if post.AuthorID != editorID {
			return fmt.Errorf("edit post %s: %w", id, store.ErrForbidden)
		}
		post.Content = content
		post.Images = req.Images
		post.UpdatedAt = tx.Now()
		return tx.PutPost(post)
	})
	return post, err
}

// DeletePost removes a post and its comments. The author or an admin may delete.
func (r *StorePostRepository) DeletePost(ctx context.Context, id, requesterID string) error {
	return r.store.Update(ctx, func(tx *store.Tx) error {
		post, err := tx.Post(id)
		if err != nil {
			return err
		}
		if post.AuthorID != requesterID {
			requester, err := tx.User(requesterID)
			if err != nil {
				return err
			}
			if requester.Role != models.RoleAdmin {
				return fmt.Errorf("delete post %s: %w", id, store.ErrForbidden)
			}
		}
		return tx.DeletePost(id)
	})
}

func sortNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}

// updatePost loads a post inside an Update, applies fn and writes the
// post back when fn reports a change.
func updatePost(ctx context.Context, s *store.Store, id string, fn func(tx *store.Tx, p *models.Post) (bool, error)) (models.Post, error) {
	var post models.Post
	err := s.Update(ctx, func(tx *store.Tx) error {
		var err error
		post, err = tx.Post(id)
		if err != nil {
			return err
		}
		changed, err := fn(tx, &post)
		if err != nil || !changed {
			return err
		}
		return tx.PutPost(post)
	})
	return post, err
}
