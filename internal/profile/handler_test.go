package profile

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinivet/clinivet/internal/identity"
	"github.com/clinivet/clinivet/internal/receptionists"
	"github.com/clinivet/clinivet/internal/roles"
	"github.com/clinivet/clinivet/internal/shared"
	"github.com/clinivet/clinivet/internal/veterinarians"
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
	u, ok := m.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	if updates.Phone != nil {
		u.Phone = updates.Phone
	}
	if updates.Email != nil {
		u.Email = *updates.Email
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

type mockRecRepo struct {
	records map[int64]*receptionists.Receptionist
	nextID  int64
}

func newMockRecRepo() *mockRecRepo {
	return &mockRecRepo{records: make(map[int64]*receptionists.Receptionist), nextID: 1}
}

func (m *mockRecRepo) Get(_ context.Context, id int64) (*receptionists.Receptionist, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return rec, nil
}

func (m *mockRecRepo) GetByUser(_ context.Context, userID int64) (*receptionists.Receptionist, error) {
	for _, rec := range m.records {
		if rec.User.ID == userID {
			return rec, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRecRepo) List(_ context.Context, limit, offset int) ([]receptionists.Receptionist, int, error) {
	var all []receptionists.Receptionist
	for _, rec := range m.records {
		all = append(all, *rec)
	}
	return all, len(all), nil
}

func (m *mockRecRepo) Create(_ context.Context, userID int64, name, phone *string) (int64, error) {
	id := m.nextID
	m.nextID++
	m.records[id] = &receptionists.Receptionist{
		ID:    id,
		User:  receptionists.AccountRef{ID: userID},
		Name:  name,
		Phone: phone,
	}
	return id, nil
}

func (m *mockRecRepo) Update(_ context.Context, id int64, name, phone *string) error {
	rec, ok := m.records[id]
	if !ok {
		return shared.ErrNotFound
	}
	if name != nil {
		rec.Name = name
	}
	if phone != nil {
		rec.Phone = phone
	}
	return nil
}

type mockVetRepo struct {
	vets   map[int64]*veterinarians.Veterinarian
	nextID int64
}

func newMockVetRepo() *mockVetRepo {
	return &mockVetRepo{vets: make(map[int64]*veterinarians.Veterinarian), nextID: 1}
}

func (m *mockVetRepo) Get(_ context.Context, id int64) (*veterinarians.Veterinarian, error) {
	v, ok := m.vets[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return v, nil
}

func (m *mockVetRepo) GetByUser(_ context.Context, userID int64) (*veterinarians.Veterinarian, error) {
	for _, v := range m.vets {
		if v.User != nil && v.User.ID == userID {
			return v, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockVetRepo) List(_ context.Context, limit, offset int) ([]veterinarians.Veterinarian, int, error) {
	var all []veterinarians.Veterinarian
	for _, v := range m.vets {
		all = append(all, *v)
	}
	return all, len(all), nil
}

func (m *mockVetRepo) ListAll(_ context.Context) ([]veterinarians.Veterinarian, error) {
	all, _, err := m.List(context.Background(), 0, 0)
	return all, err
}

func (m *mockVetRepo) Create(_ context.Context, userID *int64, name string, workStart, workEnd, workDays *string) (int64, error) {
	id := m.nextID
	m.nextID++
	vet := &veterinarians.Veterinarian{ID: id, Name: name, WorkStart: workStart, WorkEnd: workEnd, WorkDays: workDays}
	if userID != nil {
		vet.User = &veterinarians.AccountRef{ID: *userID}
	}
	m.vets[id] = vet
	return id, nil
}

func (m *mockVetRepo) Update(_ context.Context, id int64, updates veterinarians.ProfileUpdates) error {
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
	return nil, nil
}

func principalInjector(p *shared.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p != nil {
				r = r.WithContext(shared.ContextWithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}

type testFixture struct {
	router   http.Handler
	accounts *mockAccountRepo
	recRepo  *mockRecRepo
	vetRepo  *mockVetRepo
}

func newProfileRouter(t *testing.T, p *shared.Principal) testFixture {
	t.Helper()
	accounts := newMockAccountRepo()
	recRepo := newMockRecRepo()
	vetRepo := newMockVetRepo()

	accountSvc := identity.NewService(accounts)
	recSvc := receptionists.NewService(recRepo, accountSvc, nil)
	vetSvc := veterinarians.NewService(vetRepo, accountSvc, veterinarians.NewAvailabilityCache(nil, 0), nil)

	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	handler := NewHandler(logger, accountSvc, recSvc, vetSvc, roles.Middleware{Gate: roles.Gate{}, Logger: logger})

	r := chi.NewRouter()
	r.Use(principalInjector(p))
	r.Route("/api/profile", handler.MountProfileRoutes)
	r.Route("/api/users", handler.MountUserRoutes)
	return testFixture{router: r, accounts: accounts, recRepo: recRepo, vetRepo: vetRepo}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimSpace(string(p)))
	return len(p), nil
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateProfileMeReceptionist(t *testing.T) {
	p := &shared.Principal{UserID: 1, Role: shared.RoleReceptionist, ProfileID: 1}
	fx := newProfileRouter(t, p)

	_, err := fx.accounts.Create(context.Background(), identity.User{Email: "laura@clinivet.local", IsStaff: true, IsActive: true})
	require.NoError(t, err)
	name := "Laura"
	_, err = fx.recRepo.Create(context.Background(), 1, &name, nil)
	require.NoError(t, err)

	rec := doRequest(fx.router, http.MethodPut, "/api/profile/me", `{"nombre":"Laura Vega"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Role    string                     `json:"role"`
		Profile receptionists.Receptionist `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "recepcionista", body.Role)
	require.NotNil(t, body.Profile.Name)
	assert.Equal(t, "Laura Vega", *body.Profile.Name)
}

func TestUpdateProfileMeVeterinarian(t *testing.T) {
	p := &shared.Principal{UserID: 1, Role: shared.RoleVeterinarian, ProfileID: 1}
	fx := newProfileRouter(t, p)

	userID := int64(1)
	_, err := fx.accounts.Create(context.Background(), identity.User{Email: "sofia@clinivet.local", IsStaff: true, IsActive: true})
	require.NoError(t, err)
	start := "09:00"
	_, err = fx.vetRepo.Create(context.Background(), &userID, "Sofia", &start, &start, nil)
	require.NoError(t, err)

	rec := doRequest(fx.router, http.MethodPatch, "/api/profile/me", `{"work_start":"10:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Role    string                     `json:"role"`
		Profile veterinarians.Veterinarian `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "veterinario", body.Role)
	require.NotNil(t, body.Profile.WorkStart)
	assert.Equal(t, "10:00", *body.Profile.WorkStart)
}

func TestUpdateProfileMeAdmin(t *testing.T) {
	p := &shared.Principal{UserID: 1, Role: shared.RoleAdmin}
	fx := newProfileRouter(t, p)

	_, err := fx.accounts.Create(context.Background(), identity.User{Email: "root@clinivet.local", IsSuperuser: true, IsActive: true})
	require.NoError(t, err)

	rec := doRequest(fx.router, http.MethodPut, "/api/profile/me", `{"telefono":"555-0101"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Role    string         `json:"role"`
		Profile *identity.User `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "admin", body.Role)
	require.NotNil(t, body.Profile.Phone)
	assert.Equal(t, "555-0101", *body.Profile.Phone)
}

func TestUpdateProfileMePlainUserDenied(t *testing.T) {
	p := &shared.Principal{UserID: 1, Role: shared.RoleUser}
	fx := newProfileRouter(t, p)

	rec := doRequest(fx.router, http.MethodPut, "/api/profile/me", `{"nombre":"x"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateProfileMeAnonymous(t *testing.T) {
	fx := newProfileRouter(t, nil)

	rec := doRequest(fx.router, http.MethodPut, "/api/profile/me", `{"nombre":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
