package owners

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinivet/clinivet/internal/identity"
	"github.com/clinivet/clinivet/internal/shared"
)

type mockAccountRepo struct {
	users  map[int64]*identity.User
	nextID int64
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{users: make(map[int64]*identity.User), nextID: 1}
}

func (m *mockAccountRepo) Get(_ context.Context, id int64) (*identity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockAccountRepo) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockAccountRepo) EmailTaken(_ context.Context, email string) (bool, error) {
	_, err := m.FindByEmail(context.Background(), email)
	return err == nil, nil
}

func (m *mockAccountRepo) Create(_ context.Context, user identity.User) (int64, error) {
	id := m.nextID
	m.nextID++
	user.ID = id
	m.users[id] = &user
	return id, nil
}

func (m *mockAccountRepo) Update(_ context.Context, id int64, updates identity.AccountUpdates) error {
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	return nil
}

func (m *mockAccountRepo) Delete(_ context.Context, id int64) error {
	delete(m.users, id)
	return nil
}

type mockOwnerRepo struct {
	owners    map[int64]*Owner
	nextID    int64
	createErr error
}

func newMockOwnerRepo() *mockOwnerRepo {
	return &mockOwnerRepo{owners: make(map[int64]*Owner), nextID: 1}
}

func (m *mockOwnerRepo) Get(_ context.Context, id int64) (*Owner, error) {
	o, ok := m.owners[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (m *mockOwnerRepo) List(_ context.Context, limit, offset int) ([]Owner, int, error) {
	var all []Owner
	for _, o := range m.owners {
		all = append(all, *o)
	}
	return all, len(all), nil
}

func (m *mockOwnerRepo) Create(_ context.Context, name, phone *string, registeredBy *int64) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	id := m.nextID
	m.nextID++
	m.owners[id] = &Owner{ID: id, Name: name, Phone: phone, RegisteredBy: registeredBy}
	return id, nil
}

func (m *mockOwnerRepo) Update(_ context.Context, id int64, name, phone *string) error {
	o, ok := m.owners[id]
	if !ok {
		return shared.ErrNotFound
	}
	if name != nil {
		o.Name = name
	}
	if phone != nil {
		o.Phone = phone
	}
	return nil
}

func (m *mockOwnerRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.owners[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.owners, id)
	return nil
}

func (m *mockOwnerRepo) Pets(_ context.Context, ownerID int64) ([]PetRef, error) {
	return nil, nil
}

func (m *mockOwnerRepo) RecentConsultations(_ context.Context, ownerID int64, limit int) ([]ConsultationRef, error) {
	return nil, nil
}

func newTestService() (*Service, *mockOwnerRepo, *mockAccountRepo) {
	ownerRepo := newMockOwnerRepo()
	accountRepo := newMockAccountRepo()
	return NewService(ownerRepo, identity.NewService(accountRepo), nil), ownerRepo, accountRepo
}

func TestRegisterDefaultsNameFromEmail(t *testing.T) {
	svc, _, accounts := newTestService()

	owner, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "carla.paz@mail.test",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotNil(t, owner.Name)
	assert.Equal(t, "carla.paz", *owner.Name)
	assert.Nil(t, owner.RegisteredBy)
	assert.Len(t, accounts.users, 1)
}

func TestRegisterKeepsProvidedName(t *testing.T) {
	svc, _, _ := newTestService()

	name := "Carla Paz"
	owner, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "carla.paz@mail.test",
		Password: "secret123",
		Name:     &name,
	})
	require.NoError(t, err)
	require.NotNil(t, owner.Name)
	assert.Equal(t, "Carla Paz", *owner.Name)
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	svc, ownerRepo, _ := newTestService()

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "carla@mail.test", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{Email: "carla@mail.test", Password: "other9999"})
	var vErr *shared.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Email already taken", vErr.Fields["email"])
	// The failed attempt must not leave a second owner record behind.
	assert.Len(t, ownerRepo.owners, 1)
}

func TestCreateStampsRegisteredBy(t *testing.T) {
	svc, _, accounts := newTestService()

	name := "Carla Paz"
	recID := int64(4)
	owner, err := svc.Create(context.Background(), CreateOwnerRequest{Name: &name}, &recID)
	require.NoError(t, err)
	require.NotNil(t, owner.RegisteredBy)
	assert.Equal(t, int64(4), *owner.RegisteredBy)
	// Staff creates add no login account.
	assert.Empty(t, accounts.users)
}

func TestSummaryForTagsRole(t *testing.T) {
	svc, ownerRepo, _ := newTestService()

	name := "Carla Paz"
	id, err := ownerRepo.Create(context.Background(), &name, nil, nil)
	require.NoError(t, err)

	summary, err := svc.SummaryFor(context.Background(), shared.RoleReceptionist, id)
	require.NoError(t, err)
	assert.Equal(t, "recepcionista", summary.Role)
	assert.Equal(t, id, summary.Owner.ID)
	assert.Empty(t, summary.Pets)
	assert.Zero(t, summary.PetCount)
	assert.Empty(t, summary.Consultations)
}

func TestSummaryForMissingOwner(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.SummaryFor(context.Background(), shared.RoleAdmin, 99)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRegisterRollsBackAccountWhenOwnerInsertFails(t *testing.T) {
	ownerRepo := newMockOwnerRepo()
	ownerRepo.createErr = errors.New("insert failed")
	accountRepo := newMockAccountRepo()

	// Runner restoring the account map on error, standing in for a rolled
	// back database transaction.
	tx := func(ctx context.Context, fn func(context.Context) error) error {
		saved := make(map[int64]*identity.User, len(accountRepo.users))
		for id, u := range accountRepo.users {
			saved[id] = u
		}
		if err := fn(ctx); err != nil {
			accountRepo.users = saved
			return err
		}
		return nil
	}
	svc := NewService(ownerRepo, identity.NewService(accountRepo), tx)

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "ana@clinivet.local", Password: "secret123"})
	require.Error(t, err)
	assert.Empty(t, accountRepo.users, "failed registration must not strand a login account")
	assert.Empty(t, ownerRepo.owners)
}

func TestRegisterGroupsWritesInOneTransaction(t *testing.T) {
	ownerRepo := newMockOwnerRepo()
	accountRepo := newMockAccountRepo()

	var calls int
	tx := func(ctx context.Context, fn func(context.Context) error) error {
		calls++
		return fn(ctx)
	}
	svc := NewService(ownerRepo, identity.NewService(accountRepo), tx)

	owner, err := svc.Register(context.Background(), RegisterRequest{Email: "ana@clinivet.local", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, accountRepo.users, 1)
	require.NotNil(t, owner.Name)
	assert.Equal(t, "ana", *owner.Name)
}
