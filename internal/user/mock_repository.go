package user

import (
	"context"
	"sync"
	"time"
)

// MockRepository is an in-memory Repository for tests of this and dependent packages.
type MockRepository struct {
	mu     sync.Mutex
	users  []*User
	nextID int64

	// Err, when set, is returned by every call.
	Err error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{nextID: 1}
}

// Count returns the number of stored users.
func (m *MockRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// Remove deletes a user row, simulating a record removed behind the session's back.
func (m *MockRepository) Remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, u := range m.users {
		if u.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return
		}
	}
}

func (m *MockRepository) createUser(_ context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return ErrUsernameOrEmailTaken
		}
	}
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	m.nextID++
	stored := *user
	m.users = append(m.users, &stored)
	return nil
}

func (m *MockRepository) getUserByEmail(_ context.Context, email string) (*User, error) {
	return m.find(func(u *User) bool { return u.Email == email })
}

func (m *MockRepository) getUserByID(_ context.Context, id int64) (*User, error) {
	return m.find(func(u *User) bool { return u.ID == id })
}

func (m *MockRepository) userExistsByUsernameOrEmail(_ context.Context, username, email string) (*User, error) {
	return m.find(func(u *User) bool { return u.Username == username || u.Email == email })
}

func (m *MockRepository) find(match func(*User) bool) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	for _, u := range m.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}
