package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Authenticate(ctx context.Context, email, password string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) (models.User, error)
	SetPresence(ctx context.Context, id string, online bool) (models.User, error)
	SearchUsers(ctx context.Context, query, viewerID string) ([]models.User, error)
	Suggestions(ctx context.Context, viewerID string, limit int) ([]models.User, error)
	EnsureExternalUser(ctx context.Context, email, fullName string) (models.User, error)
}

// StoreUserRepository implements UserRepository on the record store
type StoreUserRepository struct {
	store *store.Store
}

// NewStoreUserRepository creates a new StoreUserRepository
func NewStoreUserRepository(s *store.Store) *StoreUserRepository {
	return &StoreUserRepository{store: s}
}

// Register creates a user account. A taken username or email yields
// store.ErrAlreadyExists without saying which.
func (r *StoreUserRepository) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	var user models.User
	err = r.store.Update(ctx, func(tx *store.Tx) error {
		for _, u := range tx.Users() {
			if strings.EqualFold(u.Email, req.Email) || strings.EqualFold(u.Username, req.Username) {
				return fmt.Errorf("user: %w", store.ErrAlreadyExists)
			}
		}
		user = models.User{
			ID:           uuid.NewString(),
			Username:     req.Username,
			Email:        req.Email,
			FullName:     req.FullName,
			Followers:    []string{},
			Following:    []string{},
			Role:         models.RoleUser,
			IsOnline:     true,
			CreatedAt:    tx.Now(),
			PasswordHash: string(hash),
		}
		return tx.InsertUser(user)
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// Authenticate checks email and password against the stored bcrypt hash.
func (r *StoreUserRepository) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if user.PasswordHash == "" {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (r *StoreUserRepository) GetUserByID(_ context.Context, id string) (models.User, error) {
	var user models.User
	err := r.store.View(func(tx *store.Tx) error {
		var err error
		user, err = tx.User(id)
		return err
	})
	return user, err
}

// GetUserByEmail retrieves a user by email, case-insensitively
func (r *StoreUserRepository) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	var user models.User
	err := r.store.View(func(tx *store.Tx) error {
		for _, u := range tx.Users() {
			if strings.EqualFold(u.Email, email) {
				user = u
				return nil
			}
		}
		return fmt.Errorf("user with email %s: %w", email, store.ErrNotFound)
	})
	return user, err
}

// GetUsers retrieves all users
func (r *StoreUserRepository) GetUsers(_ context.Context) ([]models.User, error) {
	var users []models.User
	err := r.store.View(func(tx *store.Tx) error {
		users = tx.Users()
		return nil
	})
	return users, err
}

// UpdateProfile applies the non-nil fields of req.
func (r *StoreUserRepository) UpdateProfile(ctx context.Context, id string, req models.UpdateProfileRequest) (models.User, error) {
	var user models.User
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		user, err = tx.User(id)
		if err != nil {
			return err
		}
		if req.FullName != nil {
			user.FullName = strings.TrimSpace(*req.FullName)
		}
		if req.Bio != nil {
			user.Bio = *req.Bio
		}
		if req.ProfilePicture != nil {
			user.ProfilePicture = *req.ProfilePicture
		}
		if req.CoverPhoto != nil {
			user.CoverPhoto = *req.CoverPhoto
		}
		return tx.PutUser(user)
	})
	return user, err
}

// SetPresence marks the user online, or offline with LastSeen set to now.
func (r *StoreUserRepository) SetPresence(ctx context.Context, id string, online bool) (models.User, error) {
	var user models.User
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		var err error
		user, err = tx.User(id)
		if err != nil {
			return err
		}
		user.IsOnline = online
		if !online {
			seen := tx.Now()
			user.LastSeen = &seen
		}
		return tx.PutUser(user)
	})
	return user, err
}

// SearchUsers matches query against username and full name, case-insensitively,
// excluding the viewer. An empty query matches nobody.
func (r *StoreUserRepository) SearchUsers(_ context.Context, query, viewerID string) ([]models.User, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	users := []models.User{}
	if q == "" {
		return users, nil
	}
	err := r.store.View(func(tx *store.Tx) error {
		for _, u := range tx.Users() {
			if u.ID == viewerID {
				continue
			}
			if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.FullName), q) {
				users = append(users, u)
			}
		}
		return nil
	})
	sort.SliceStable(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, err
}

// Suggestions lists up to limit users the viewer does not follow yet.
func (r *StoreUserRepository) Suggestions(_ context.Context, viewerID string, limit int) ([]models.User, error) {
	users := []models.User{}
	err := r.store.View(func(tx *store.Tx) error {
		viewer, err := tx.User(viewerID)
		if err != nil {
			return err
		}
		for _, u := range tx.Users() {
			if len(users) == limit {
				break
			}
			if u.ID == viewerID || viewer.IsFollowing(u.ID) {
				continue
			}
			users = append(users, u)
		}
		return nil
	})
	return users, err
}

// EnsureExternalUser returns the user registered under email, creating a
// password-less account for identities verified elsewhere.
func (r *StoreUserRepository) EnsureExternalUser(ctx context.Context, email, fullName string) (models.User, error) {
	var user models.User
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		taken := make(map[string]bool)
		for _, u := range tx.Users() {
			if strings.EqualFold(u.Email, email) {
				user = u
				return nil
			}
			taken[strings.ToLower(u.Username)] = true
		}

		id := uuid.NewString()
		username := usernameFromEmail(email)
		if taken[strings.ToLower(username)] {
			username = username + id[:6]
		}
		if strings.TrimSpace(fullName) == "" {
			fullName = username
		}
		user = models.User{
			ID:        id,
			Username:  username,
			Email:     email,
			FullName:  fullName,
			Followers: []string{},
			Following: []string{},
			Role:      models.RoleUser,
			IsOnline:  true,
			CreatedAt: tx.Now(),
		}
		return tx.InsertUser(user)
	})
	return user, err
}

func usernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range local {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
		if b.Len() == 24 {
			break
		}
	}
	for b.Len() < 3 {
		b.WriteByte('0')
	}
	return b.String()
}
