// Package seed installs the demo community: five users, six posts, a few
// messages and notifications, all timed relative to the moment of install.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword signs in every demo account.
const DemoPassword = "password123"

const unsplash = "https://images.unsplash.com/"

// Report counts the records installed per table.
type Report struct {
	Users         int
	Posts         int
	Messages      int
	Notifications int
}

type demoUser struct {
	id, username, email, fullName, bio, picture, cover string
	following                                          []string
	role                                               models.Role
	age                                                time.Duration
	online                                             bool
	lastSeen                                           time.Duration
}

var demoUsers = []demoUser{
	{"1", "johndoe", "john@example.com", "John Doe", "Software Engineer | Tech Enthusiast | Coffee Lover",
		"photo-1472099645785-5658abf4ff4e?w=400", "photo-1579546929518-9e396f3cc809?w=1200",
		[]string{"2", "3"}, models.RoleUser, 365 * 24 * time.Hour, true, 0},
	{"2", "sarahsmith", "sarah@example.com", "Sarah Smith", "Digital Artist | Creative Mind | Nature Lover",
		"photo-1494790108377-be9c29b29330?w=400", "photo-1557683316-973673baf926?w=1200",
		[]string{"1", "4"}, models.RoleUser, 300 * 24 * time.Hour, false, 2 * time.Hour},
	{"3", "mikejohnson", "mike@example.com", "Mike Johnson", "Fitness Coach | Motivational Speaker",
		"photo-1500648767791-00dcc994a43e?w=400", "photo-1534438327276-14e5300c3a48?w=1200",
		[]string{"1", "2", "4"}, models.RoleUser, 200 * 24 * time.Hour, true, 0},
	{"4", "emilydavis", "emily@example.com", "Emily Davis", "Travel Blogger | Photography",
		"photo-1438761681033-6461ffad8d80?w=400", "photo-1506905925346-21bda4d32df4?w=1200",
		[]string{"2", "3", "5"}, models.RoleUser, 150 * 24 * time.Hour, false, 24 * time.Hour},
	{"5", "alexwilson", "alex@example.com", "Alex Wilson", "Music Producer | DJ | Sound Engineer",
		"photo-1507003211169-0a1dd7228f2d?w=400", "photo-1511379938547-c1f69419868d?w=1200",
		[]string{"1", "2", "3", "4"}, models.RoleAdmin, 400 * 24 * time.Hour, true, 0},
}

type demoComment struct {
	id, author, content string
	age                 time.Duration
}

type demoPost struct {
	id, author, content string
	images              []string
	likes, savedBy      []string
	comments            []demoComment
	age                 time.Duration
}

var demoPosts = []demoPost{
	{"1", "2", "Just finished this amazing artwork! What do you think?",
		[]string{"photo-1541961017774-22349e4a1262?w=800"},
		[]string{"1", "3", "4"}, []string{"1", "4"},
		[]demoComment{
			{"c1", "1", "This is absolutely stunning! Love the colors!", 2 * time.Hour},
			{"c2", "3", "Amazing work! Keep it up!", time.Hour},
		}, 5 * time.Hour},
	{"2", "1", "Beautiful sunset at the beach today! #nature #photography",
		[]string{"photo-1507525428034-b723cf961d3e?w=800"},
		[]string{"2", "3", "4", "5"}, []string{"2", "3"},
		[]demoComment{{"c3", "2", "Wow! Where is this?", 3 * time.Hour}}, 8 * time.Hour},
	{"3", "3", "Morning workout done! Remember, consistency is key! #fitness #motivation",
		[]string{"photo-1571019614242-c5c5dee9f50b?w=800"},
		[]string{"1", "2", "5"}, []string{"1"}, nil, 12 * time.Hour},
	{"4", "4", "Exploring the streets of Paris! This city never gets old #travel #paris",
		[]string{"photo-1502602898657-3e91760cbb34?w=800", "photo-1511739001486-6bfe10ce785f?w=800"},
		[]string{"1", "2", "3", "5"}, []string{"1", "2", "3"},
		[]demoComment{
			{"c4", "1", "Paris is beautiful! I need to visit again soon!", 6 * time.Hour},
			{"c5", "5", "Great photos!", 4 * time.Hour},
		}, 24 * time.Hour},
	{"5", "5", "New track dropping this Friday! Who's ready? #music #producer",
		[]string{"photo-1598488035139-bdbb2231ce04?w=800"},
		[]string{"2", "4"}, []string{"4"},
		[]demoComment{{"c6", "2", "Can't wait to hear it!", time.Hour}}, 18 * time.Hour},
	{"6", "2", "Working on a new project. Stay tuned!", nil,
		[]string{"1", "3", "5"}, nil, nil, 48 * time.Hour},
}

var demoMessages = []struct {
	id, from, to, content string
	seen                  bool
	age                   time.Duration
}{
	{"m1", "2", "1", "Hey! Thanks for the comment on my artwork!", true, time.Hour},
	{"m2", "1", "2", "No problem! It was really impressive!", true, 55 * time.Minute},
	{"m3", "2", "1", "I really appreciate it!", false, 45 * time.Minute},
	{"m4", "3", "1", "Hey, want to grab coffee this weekend?", false, 30 * time.Minute},
}

var demoNotifications = []struct {
	id     string
	typ    models.NotificationType
	actor  string
	postID string
	read   bool
	age    time.Duration
}{
	{"n1", models.NotificationLike, "2", "2", false, 10 * time.Minute},
	{"n2", models.NotificationComment, "3", "2", false, 30 * time.Minute},
	{"n3", models.NotificationFollow, "4", "", true, 2 * time.Hour},
}

// Install adds the demo records to every table that is still empty, in one
// transaction. Followers are derived from the following lists so the
// graph is symmetric.
func Install(ctx context.Context, s *store.Store) (Report, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return Report{}, fmt.Errorf("hash demo password: %w", err)
	}

	var report Report
	err = s.Update(ctx, func(tx *store.Tx) error {
		report = Report{}
		now := tx.Now()

		if len(tx.Users()) == 0 {
			for _, u := range buildUsers(now, string(hash)) {
				if err := tx.InsertUser(u); err != nil {
					return err
				}
				report.Users++
			}
		}
		if len(tx.Posts()) == 0 {
			for _, p := range buildPosts(now) {
				if err := tx.InsertPost(p); err != nil {
					return err
				}
				report.Posts++
			}
		}
		if len(tx.Messages()) == 0 {
			for _, m := range demoMessages {
				err := tx.InsertMessage(models.Message{
					ID:         m.id,
					SenderID:   m.from,
					ReceiverID: m.to,
					Content:    m.content,
					Seen:       m.seen,
					CreatedAt:  now.Add(-m.age),
				})
				if err != nil {
					return err
				}
				report.Messages++
			}
		}
		if len(tx.Notifications()) == 0 {
			for _, n := range demoNotifications {
				err := tx.InsertNotification(models.Notification{
					ID:          n.id,
					Type:        n.typ,
					ActorID:     n.actor,
					RecipientID: "1",
					PostID:      n.postID,
					Content:     n.typ.DefaultContent(),
					Read:        n.read,
					CreatedAt:   now.Add(-n.age),
				})
				if err != nil {
					return err
				}
				report.Notifications++
			}
		}
		return nil
	})
	return report, err
}

func buildUsers(now time.Time, passwordHash string) []models.User {
	followers := make(map[string][]string)
	for _, u := range demoUsers {
		for _, id := range u.following {
			followers[id] = append(followers[id], u.id)
		}
	}

	users := make([]models.User, 0, len(demoUsers))
	for _, d := range demoUsers {
		u := models.User{
			ID:             d.id,
			Username:       d.username,
			Email:          d.email,
			FullName:       d.fullName,
			Bio:            d.bio,
			ProfilePicture: unsplash + d.picture,
			CoverPhoto:     unsplash + d.cover,
			Followers:      append([]string{}, followers[d.id]...),
			Following:      append([]string{}, d.following...),
			Role:           d.role,
			IsOnline:       d.online,
			CreatedAt:      now.Add(-d.age),
			PasswordHash:   passwordHash,
		}
		if !d.online {
			seen := now.Add(-d.lastSeen)
			u.LastSeen = &seen
		}
		users = append(users, u)
	}
	return users
}

func buildPosts(now time.Time) []models.Post {
	posts := make([]models.Post, 0, len(demoPosts))
	for _, d := range demoPosts {
		created := now.Add(-d.age)
		p := models.Post{
			ID:        d.id,
			AuthorID:  d.author,
			Content:   d.content,
			Likes:     append([]string{}, d.likes...),
			SavedBy:   append([]string{}, d.savedBy...),
			Comments:  []models.Comment{},
			CreatedAt: created,
			UpdatedAt: created,
		}
		for _, img := range d.images {
			p.Images = append(p.Images, unsplash+img)
		}
		for _, c := range d.comments {
			p.Comments = append(p.Comments, models.Comment{
				ID:        c.id,
				PostID:    d.id,
				AuthorID:  c.author,
				Content:   c.content,
				CreatedAt: now.Add(-c.age),
			})
		}
		posts = append(posts, p)
	}
	return posts
}
