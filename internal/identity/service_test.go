package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinivet/clinivet/internal/shared"
)

type mockRepository struct {
	users  map[int64]*User
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[int64]*User), nextID: 1}
}

func (m *mockRepository) Get(_ context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepository) EmailTaken(_ context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(context.Background(), email)
	return err == nil, nil
}

func (m *mockRepository) Create(_ context.Context, user User) (int64, error) {
	id := m.nextID
	m.nextID++
	user.ID = id
	m.users[id] = &user
	return id, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, updates AccountUpdates) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	if updates.Email != nil {
		u.Email = *updates.Email
	}
	if updates.PasswordHash != nil {
		u.PasswordHash = *updates.PasswordHash
	}
	if updates.Phone != nil {
		u.Phone = updates.Phone
	}
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func TestCreateAccountHashesPassword(t *testing.T) {
	svc := NewService(newMockRepository())

	user, err := svc.CreateAccount(context.Background(), NewAccount{
		Email:    "ana@clinic.test",
		Password: "secret123",
		IsStaff:  true,
	})
	require.NoError(t, err)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestCreateAccountRejectsTakenEmail(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.CreateAccount(context.Background(), NewAccount{Email: "ana@clinic.test", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.CreateAccount(context.Background(), NewAccount{Email: "ana@clinic.test", Password: "other9999"})
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Email already taken", vErr.Fields["email"])
}

func TestUpdateAccountAllowsKeepingOwnEmail(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	user, err := svc.CreateAccount(context.Background(), NewAccount{Email: "ana@clinic.test", Password: "secret123"})
	require.NoError(t, err)

	same := "Ana@clinic.test"
	err = svc.UpdateAccount(context.Background(), user.ID, &same, nil, nil)
	assert.NoError(t, err)
}

func TestUpdateAccountRejectsForeignEmail(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.CreateAccount(context.Background(), NewAccount{Email: "ana@clinic.test", Password: "secret123"})
	require.NoError(t, err)
	other, err := svc.CreateAccount(context.Background(), NewAccount{Email: "luis@clinic.test", Password: "secret123"})
	require.NoError(t, err)

	taken := "ana@clinic.test"
	err = svc.UpdateAccount(context.Background(), other.ID, &taken, nil, nil)
	var vErr *shared.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestUpdateAccountRehashesPassword(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	user, err := svc.CreateAccount(context.Background(), NewAccount{Email: "ana@clinic.test", Password: "secret123"})
	require.NoError(t, err)

	newPass := "changed456"
	require.NoError(t, svc.UpdateAccount(context.Background(), user.ID, nil, &newPass, nil))

	stored := repo.users[user.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("changed456")))
}

func TestLocalPart(t *testing.T) {
	assert.Equal(t, "ana.torres", LocalPart("ana.torres@clinic.test"))
	assert.Equal(t, "plain", LocalPart("plain"))
	assert.Equal(t, "@broken", LocalPart("@broken"))
}
