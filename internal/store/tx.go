package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
)

var errReadOnly = errors.New("write in read-only transaction")

// Tx is a view of the store inside View or Update. Records returned by Tx
// are copies; changes become visible only through the Put/Insert/Delete
// methods. A Tx must not be used after its callback returns.
type Tx struct {
	s        *Store
	now      time.Time
	writable bool
	undo     []func()
	touched  []tableState
}

// Now is the time at which the transaction started.
func (tx *Tx) Now() time.Time { return tx.now }

func (tx *Tx) touch(t tableState) {
	for _, v := range tx.touched {
		if v == t {
			return
		}
	}
	tx.touched = append(tx.touched, t)
}

func (tx *Tx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
	tx.touched = nil
}

func (tx *Tx) check(rec any) error {
	if !tx.writable {
		return errReadOnly
	}
	if err := tx.s.validate.Struct(rec); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func insert[T any](tx *Tx, t *table[T], rec T) error {
	if err := tx.check(rec); err != nil {
		return err
	}
	id := t.idOf(&rec)
	if t.has(id) {
		return fmt.Errorf("%s %s: %w", t.name, id, ErrAlreadyExists)
	}
	t.insertRaw(t.clone(rec), -1)
	tx.touch(t)
	tx.undo = append(tx.undo, func() { t.deleteRaw(id) })
	return nil
}

func put[T any](tx *Tx, t *table[T], rec T) error {
	if err := tx.check(rec); err != nil {
		return err
	}
	id := t.idOf(&rec)
	prev, ok := t.replaceRaw(t.clone(rec))
	if !ok {
		return fmt.Errorf("%s %s: %w", t.name, id, ErrNotFound)
	}
	tx.touch(t)
	tx.undo = append(tx.undo, func() { t.replaceRaw(prev) })
	return nil
}

func remove[T any](tx *Tx, t *table[T], id string) error {
	if !tx.writable {
		return errReadOnly
	}
	prev, pos, ok := t.deleteRaw(id)
	if !ok {
		return fmt.Errorf("%s %s: %w", t.name, id, ErrNotFound)
	}
	tx.touch(t)
	tx.undo = append(tx.undo, func() { t.insertRaw(prev, pos) })
	return nil
}

func get[T any](t *table[T], id string) (T, error) {
	rec, ok := t.get(id)
	if !ok {
		return rec, fmt.Errorf("%s %s: %w", t.name, id, ErrNotFound)
	}
	return rec, nil
}

// Users

func (tx *Tx) User(id string) (models.User, error) { return get(tx.s.users, id) }
func (tx *Tx) Users() []models.User { return tx.s.users.all() }
func (tx *Tx) InsertUser(u models.User) error { return insert(tx, tx.s.users, u) }
func (tx *Tx) PutUser(u models.User) error { return put(tx, tx.s.users, u) }

// Posts

func (tx *Tx) Post(id string) (models.Post, error) { return get(tx.s.posts, id) }
func (tx *Tx) Posts() []models.Post { return tx.s.posts.all() }
func (tx *Tx) PostsByAuthor(authorID string) []models.Post { return tx.s.posts.lookup(authorID) }
func (tx *Tx) InsertPost(p models.Post) error { return insert(tx, tx.s.posts, p) }
func (tx *Tx) PutPost(p models.Post) error { return put(tx, tx.s.posts, p) }
func (tx *Tx) DeletePost(id string) error { return remove(tx, tx.s.posts, id) }

// Messages

func (tx *Tx) Message(id string) (models.Message, error) { return get(tx.s.messages, id) }
func (tx *Tx) Messages() []models.Message { return tx.s.messages.all() }

// MessagesFor returns every message userID sent or received, in insertion order.
func (tx *Tx) MessagesFor(userID string) []models.Message { return tx.s.messages.lookup(userID) }
func (tx *Tx) InsertMessage(m models.Message) error { return insert(tx, tx.s.messages, m) }
func (tx *Tx) PutMessage(m models.Message) error { return put(tx, tx.s.messages, m) }

// Notifications

func (tx *Tx) Notification(id string) (models.Notification, error) {
	return get(tx.s.notifications, id)
}
func (tx *Tx) Notifications() []models.Notification { return tx.s.notifications.all() }

// NotificationsFor returns the notifications addressed to recipientID, in insertion order.
func (tx *Tx) NotificationsFor(recipientID string) []models.Notification {
	return tx.s.notifications.lookup(recipientID)
}
func (tx *Tx) InsertNotification(n models.Notification) error {
	return insert(tx, tx.s.notifications, n)
}
func (tx *Tx) PutNotification(n models.Notification) error {
	return put(tx, tx.s.notifications, n)
}
