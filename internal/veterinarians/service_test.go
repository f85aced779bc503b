package veterinarians

import (
	"context"
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
	if _, ok := m.users[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type mockVetRepo struct {
	accounts *mockAccountRepo
	vets     map[int64]*Veterinarian
	booked   map[string][]string
	nextID   int64
}

func newMockVetRepo(accounts *mockAccountRepo) *mockVetRepo {
	return &mockVetRepo{
		accounts: accounts,
		vets:     make(map[int64]*Veterinarian),
		booked:   make(map[string][]string),
		nextID:   1,
	}
}

func (m *mockVetRepo) Get(_ context.Context, id int64) (*Veterinarian, error) {
	v, ok := m.vets[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (m *mockVetRepo) GetByUser(_ context.Context, userID int64) (*Veterinarian, error) {
	for _, v := range m.vets {
		if v.User != nil && v.User.ID == userID {
			return v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockVetRepo) List(_ context.Context, limit, offset int) ([]Veterinarian, int, error) {
	all, err := m.ListAll(context.Background())
	return all, len(all), err
}

func (m *mockVetRepo) ListAll(_ context.Context) ([]Veterinarian, error) {
	var all []Veterinarian
	for _, v := range m.vets {
		all = append(all, *v)
	}
	return all, nil
}

func (m *mockVetRepo) Create(_ context.Context, userID *int64, name string, workStart, workEnd, workDays *string) (int64, error) {
	id := m.nextID
	m.nextID++
	vet := &Veterinarian{ID: id, Name: name, WorkStart: workStart, WorkEnd: workEnd, WorkDays: workDays}
	if userID != nil {
		vet.User = &AccountRef{ID: *userID, Email: m.accounts.users[*userID].Email}
	}
	m.vets[id] = vet
	return id, nil
}

func (m *mockVetRepo) Update(_ context.Context, id int64, updates ProfileUpdates) error {
	v, ok := m.vets[id]
	if !ok {
		return shared.ErrNotFound
	}
	if updates.Name != nil {
		v.Name = *updates.Name
	}
	if updates.WorkStart != nil {
		v.WorkStart = updates.WorkStart
	}
	if updates.WorkEnd != nil {
		v.WorkEnd = updates.WorkEnd
	}
	if updates.WorkDays != nil {
		v.WorkDays = updates.WorkDays
	}
	return nil
}

func (m *mockVetRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.vets[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.vets, id)
	return nil
}

func (m *mockVetRepo) BookedSlots(_ context.Context, vetID int64, date string) ([]string, error) {
	return m.booked[date], nil
}

func newVetService(t *testing.T) (*Service, *mockVetRepo, func()) {
	t.Helper()
	accounts := newMockAccountRepo()
	repo := newMockVetRepo(accounts)
	cache, cleanup := newTestCache(t)
	return NewService(repo, identity.NewService(accounts), cache, nil), repo, cleanup
}

func TestCreateAppliesDefaultSchedule(t *testing.T) {
	svc, _, cleanup := newVetService(t)
	defer cleanup()

	vet, err := svc.Create(context.Background(), CreateVeterinarianRequest{
		Email:    "luis.mena@clinic.test",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "luis.mena", vet.Name)
	require.NotNil(t, vet.WorkStart)
	require.NotNil(t, vet.WorkEnd)
	assert.Equal(t, "09:00", *vet.WorkStart)
	assert.Equal(t, "14:00", *vet.WorkEnd)
	require.NotNil(t, vet.User)
	assert.Equal(t, "luis.mena@clinic.test", vet.User.Email)
}

func TestCreateKeepsExplicitSchedule(t *testing.T) {
	svc, _, cleanup := newVetService(t)
	defer cleanup()

	name := "Dr. Mena"
	start, end := "08:00", "16:00"
	vet, err := svc.Create(context.Background(), CreateVeterinarianRequest{
		Email:     "luis@clinic.test",
		Password:  "secret123",
		Name:      &name,
		WorkStart: &start,
		WorkEnd:   &end,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Mena", vet.Name)
	assert.Equal(t, "08:00", *vet.WorkStart)
	assert.Equal(t, "16:00", *vet.WorkEnd)
}

func TestAvailabilityExcludesBookedSlots(t *testing.T) {
	svc, repo, cleanup := newVetService(t)
	defer cleanup()

	start, end := "09:00", "12:00"
	vet, err := svc.Create(context.Background(), CreateVeterinarianRequest{
		Email:     "luis@clinic.test",
		Password:  "secret123",
		WorkStart: &start,
		WorkEnd:   &end,
	})
	require.NoError(t, err)

	repo.booked["2026-09-01"] = []string{"10:00"}
	slots, err := svc.Availability(context.Background(), *vet, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, slots)
}

func TestAvailabilityWithoutScheduleIsEmpty(t *testing.T) {
	svc, _, cleanup := newVetService(t)
	defer cleanup()

	slots, err := svc.Availability(context.Background(), Veterinarian{ID: 1, Name: "legacy"}, "2026-09-01")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailabilityServedFromCacheUntilBump(t *testing.T) {
	svc, repo, cleanup := newVetService(t)
	defer cleanup()

	start, end := "09:00", "11:00"
	vet, err := svc.Create(context.Background(), CreateVeterinarianRequest{
		Email:     "luis@clinic.test",
		Password:  "secret123",
		WorkStart: &start,
		WorkEnd:   &end,
	})
	require.NoError(t, err)

	slots, err := svc.Availability(context.Background(), *vet, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, slots)

	// New booking lands; the stale cache still answers until a bump.
	repo.booked["2026-09-01"] = []string{"09:00"}
	slots, err = svc.Availability(context.Background(), *vet, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00"}, slots)

	require.NoError(t, svc.cache.Bump(context.Background()))
	slots, err = svc.Availability(context.Background(), *vet, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00"}, slots)
}

func TestWithAvailabilityCoversAllVets(t *testing.T) {
	svc, _, cleanup := newVetService(t)
	defer cleanup()

	start, end := "09:00", "10:00"
	_, err := svc.Create(context.Background(), CreateVeterinarianRequest{
		Email: "a@clinic.test", Password: "secret123", WorkStart: &start, WorkEnd: &end,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateVeterinarianRequest{
		Email: "b@clinic.test", Password: "secret123", WorkStart: &start, WorkEnd: &end,
	})
	require.NoError(t, err)

	result, err := svc.WithAvailability(context.Background(), "2026-09-01")
	require.NoError(t, err)
	require.Len(t, result, 2)
	for _, entry := range result {
		assert.Equal(t, []string{"09:00"}, entry.AvailableSlots)
	}
}

func TestScheduleUpdateInvalidatesCache(t *testing.T) {
	svc, _, cleanup := newVetService(t)
	defer cleanup()

	start, end := "09:00", "11:00"
	vet, err := svc.Create(context.Background(), CreateVeterinarianRequest{
		Email: "luis@clinic.test", Password: "secret123", WorkStart: &start, WorkEnd: &end,
	})
	require.NoError(t, err)

	_, err = svc.Availability(context.Background(), *vet, "2026-09-01")
	require.NoError(t, err)

	longer := "13:00"
	updated, err := svc.Update(context.Background(), vet.ID, UpdateVeterinarianRequest{WorkEnd: &longer})
	require.NoError(t, err)

	slots, err := svc.Availability(context.Background(), *updated, "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00"}, slots)
}

func TestDeleteRemovesLinkedAccount(t *testing.T) {
	svc, repo, cleanup := newVetService(t)
	defer cleanup()

	vet, err := svc.Create(context.Background(), CreateVeterinarianRequest{
		Email: "luis@clinic.test", Password: "secret123",
	})
	require.NoError(t, err)
	userID := vet.User.ID

	require.NoError(t, svc.Delete(context.Background(), vet.ID))
	_, err = repo.accounts.Get(context.Background(), userID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// The profile row normally cascades with the account; the fake mirrors it.
	delete(repo.vets, vet.ID)
	_, err = svc.Get(context.Background(), vet.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
