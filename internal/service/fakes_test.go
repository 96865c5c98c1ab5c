package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/alicebob/miniredis/v2"
	"github.com/mansoorceksport/ironlog/internal/domain"
	"github.com/mansoorceksport/ironlog/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// store is an in-memory backend for every repository interface
type store struct {
	mu        sync.Mutex
	seq       int
	exercises map[string]*domain.Exercise
	plans     map[string]*domain.TrainingPlan
	sessions  []*domain.WorkoutSession
	sets      []*domain.WorkoutSet
	users     map[string]*domain.User
	intakes   []*domain.SupplementIntake

	failSetInsert bool
}

func newStore() *store {
	return &store{
		exercises: map[string]*domain.Exercise{},
		plans:     map[string]*domain.TrainingPlan{},
		users:     map[string]*domain.User{},
	}
}

func (s *store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%03d", prefix, s.seq)
}

type fakeExerciseRepo struct{ *store }

func (r fakeExerciseRepo) Create(_ context.Context, ex *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.exercises {
		if e.UserID == ex.UserID && e.Name == ex.Name {
			return domain.ErrDuplicateExercise
		}
	}
	ex.ID = r.nextID("ex")
	ex.CreatedAt = time.Now()
	cp := *ex
	r.exercises[ex.ID] = &cp
	return nil
}

func (r fakeExerciseRepo) GetByID(_ context.Context, userID, id string) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.exercises[id]
	if !ok || ex.UserID != userID {
		return nil, domain.ErrExerciseNotFound
	}
	cp := *ex
	return &cp, nil
}

func (r fakeExerciseRepo) List(_ context.Context, userID string, filter domain.ExerciseFilter) ([]*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Exercise{}
	for _, ex := range r.exercises {
		if ex.UserID != userID {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(ex.Name), strings.ToLower(filter.Name)) {
			continue
		}
		cp := *ex
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *domain.Exercise) int {
		if c := cmp.Compare(a.MuscleGroup, b.MuscleGroup); c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return out, nil
}

func (r fakeExerciseRepo) Update(_ context.Context, ex *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.exercises[ex.ID]
	if !ok || cur.UserID != ex.UserID {
		return domain.ErrExerciseNotFound
	}
	for _, e := range r.exercises {
		if e.ID != ex.ID && e.UserID == ex.UserID && e.Name == ex.Name {
			return domain.ErrDuplicateExercise
		}
	}
	cp := *ex
	r.exercises[ex.ID] = &cp
	return nil
}

func (r fakeExerciseRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.exercises[id]
	if !ok || ex.UserID != userID {
		return domain.ErrExerciseNotFound
	}
	delete(r.exercises, id)
	return nil
}

type fakePlanRepo struct{ *store }

func (r fakePlanRepo) Create(_ context.Context, plan *domain.TrainingPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.ID = r.nextID("plan")
	plan.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	cp := *plan
	cp.Exercises = slices.Clone(plan.Exercises)
	r.plans[plan.ID] = &cp
	return nil
}

func (r fakePlanRepo) GetByID(_ context.Context, userID, id string) (*domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrPlanNotFound
	}
	cp := *p
	cp.Exercises = slices.Clone(p.Exercises)
	return &cp, nil
}

func (r fakePlanRepo) List(_ context.Context, userID string) ([]*domain.TrainingPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.TrainingPlan{}
	for _, p := range r.plans {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *domain.TrainingPlan) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r fakePlanRepo) Update(_ context.Context, plan *domain.TrainingPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plans[plan.ID]; !ok {
		return domain.ErrPlanNotFound
	}
	cp := *plan
	cp.Exercises = slices.Clone(plan.Exercises)
	r.plans[plan.ID] = &cp
	return nil
}

func (r fakePlanRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok || p.UserID != userID {
		return domain.ErrPlanNotFound
	}
	delete(r.plans, id)
	return nil
}

func (r fakePlanRepo) RemoveExercise(_ context.Context, userID, exerciseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.UserID == userID {
			p.Exercises = slices.DeleteFunc(p.Exercises, func(l domain.PlanExercise) bool { return l.ExerciseID == exerciseID })
		}
	}
	return nil
}

type fakeSessionRepo struct{ *store }

func (r fakeSessionRepo) Create(_ context.Context, session *domain.WorkoutSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session.ID = r.nextID("sess")
	cp := *session
	r.sessions = append(r.sessions, &cp)
	return nil
}

func (r fakeSessionRepo) GetByID(_ context.Context, userID, id string) (*domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.ID == id && s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (r fakeSessionRepo) List(_ context.Context, userID string, filter domain.SessionFilter) ([]*domain.WorkoutSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.WorkoutSession{}
	for _, s := range r.sessions {
		if s.UserID != userID ||
			(filter.Date != "" && s.Date != filter.Date) ||
			(filter.TrainingPlanID != "" && s.TrainingPlanID != filter.TrainingPlanID) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r fakeSessionRepo) ListDates(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var dates []string
	for _, s := range r.sessions {
		if s.UserID == userID {
			dates = append(dates, s.Date)
		}
	}
	return dates, nil
}

func (r fakeSessionRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := len(r.sessions)
	r.sessions = slices.DeleteFunc(r.sessions, func(s *domain.WorkoutSession) bool { return s.ID == id && s.UserID == userID })
	if len(r.sessions) == before {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r fakeSessionRepo) ClearPlan(_ context.Context, userID, planID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.UserID == userID && s.TrainingPlanID == planID {
			s.TrainingPlanID = ""
		}
	}
	return nil
}

type fakeSetRepo struct{ *store }

func (r fakeSetRepo) CreateMany(_ context.Context, sets []*domain.WorkoutSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSetInsert {
		return errors.New("insert failed")
	}
	for _, set := range sets {
		set.ID = r.nextID("set")
		cp := *set
		r.sets = append(r.sets, &cp)
	}
	return nil
}

func (r fakeSetRepo) filter(keep func(*domain.WorkoutSet) bool) []*domain.WorkoutSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.WorkoutSet{}
	for _, set := range r.sets {
		if keep(set) {
			cp := *set
			out = append(out, &cp)
		}
	}
	return out
}

func (r fakeSetRepo) ListBySessions(_ context.Context, userID string, sessionIDs []string) ([]*domain.WorkoutSet, error) {
	return r.filter(func(s *domain.WorkoutSet) bool {
		return s.UserID == userID && slices.Contains(sessionIDs, s.SessionID)
	}), nil
}

func (r fakeSetRepo) ListByExercise(_ context.Context, userID, exerciseID string) ([]*domain.WorkoutSet, error) {
	return r.filter(func(s *domain.WorkoutSet) bool {
		return s.UserID == userID && s.ExerciseID == exerciseID
	}), nil
}

func (r fakeSetRepo) ListAll(_ context.Context, userID string) ([]*domain.WorkoutSet, error) {
	return r.filter(func(s *domain.WorkoutSet) bool { return s.UserID == userID }), nil
}

func (r fakeSetRepo) DeleteBySession(_ context.Context, userID, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sets = slices.DeleteFunc(r.sets, func(s *domain.WorkoutSet) bool { return s.UserID == userID && s.SessionID == sessionID })
	return nil
}

type fakeUserRepo struct{ *store }

func (r fakeUserRepo) GetByFirebaseUID(_ context.Context, uid string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.FirebaseUID == uid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r fakeUserRepo) UpsertByFirebaseUID(ctx context.Context, user *domain.User) error {
	if existing, err := r.GetByFirebaseUID(ctx, user.FirebaseUID); err == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		stored := r.users[existing.ID]
		stored.Email, stored.Name = user.Email, user.Name
		*user = *stored
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID("user")
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type fakeIntakeRepo struct{ *store }

func (r fakeIntakeRepo) Create(_ context.Context, intake *domain.SupplementIntake) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	intake.ID = r.nextID("intake")
	cp := *intake
	r.intakes = append(r.intakes, &cp)
	return nil
}

func (r fakeIntakeRepo) GetByID(_ context.Context, userID, id string) (*domain.SupplementIntake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, in := range r.intakes {
		if in.ID == id && in.UserID == userID {
			cp := *in
			return &cp, nil
		}
	}
	return nil, domain.ErrSupplementNotFound
}

func (r fakeIntakeRepo) ListByDate(_ context.Context, userID, date string) ([]*domain.SupplementIntake, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.SupplementIntake{}
	for _, in := range r.intakes {
		if in.UserID == userID && in.Date == date {
			cp := *in
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeIntakeRepo) Delete(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.intakes)
	r.intakes = slices.DeleteFunc(r.intakes, func(in *domain.SupplementIntake) bool { return in.ID == id && in.UserID == userID })
	if len(r.intakes) == n {
		return domain.ErrSupplementNotFound
	}
	return nil
}

// fakeImageStore records uploads by URL
type fakeImageStore struct {
	mu      sync.Mutex
	objects map[string]string // url -> content type
	deleted []string
	fail    bool
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: map[string]string{}}
}

func (f *fakeImageStore) Upload(_ context.Context, _ []byte, key, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", errors.New("bucket unavailable")
	}
	url := "http://s3.test/ironlog/" + key
	f.objects[url] = contentType
	return url, nil
}

func (f *fakeImageStore) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, url)
	f.deleted = append(f.deleted, url)
	return nil
}

// mockAuthClient implements FirebaseAuthClient for testing
type mockAuthClient struct {
	validTokens map[string]*auth.Token
}

func (m *mockAuthClient) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if token, ok := m.validTokens[idToken]; ok {
		return token, nil
	}
	return nil, fmt.Errorf("invalid mock token")
}

// fixedCalendar pins "today" to a date in UTC at noon
func fixedCalendar(date string) *Calendar {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	cal := NewCalendar(time.UTC)
	cal.now = func() time.Time { return t.Add(12 * time.Hour) }
	return cal
}

// newRedisCache returns a QueryCache backed by miniredis
func newRedisCache(t *testing.T) (*QueryCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewQueryCache(repository.NewRedisCacheRepository(client), time.Minute, nil), mr
}

// services bundles every service over one store
type services struct {
	store     *store
	images    *fakeImageStore
	exercises *ExerciseService
	plans     *PlanService
	workouts  *WorkoutService
	stats     *StatsService
	intake    *SupplementService
}

func newServices(t *testing.T, today string, cache *QueryCache) *services {
	t.Helper()
	st := newStore()
	images := newFakeImageStore()
	cal := fixedCalendar(today)

	exRepo := fakeExerciseRepo{st}
	planRepo := fakePlanRepo{st}
	sessRepo := fakeSessionRepo{st}
	setRepo := fakeSetRepo{st}
	intakeRepo := fakeIntakeRepo{st}

	return &services{
		store:     st,
		images:    images,
		exercises: NewExerciseService(exRepo, planRepo, images, cache, nil, 1),
		plans:     NewPlanService(planRepo, exRepo, sessRepo, setRepo, cal, cache, nil),
		workouts:  NewWorkoutService(sessRepo, setRepo, exRepo, planRepo, intakeRepo, cal, cache, nil),
		stats:     NewStatsService(sessRepo, setRepo, exRepo, cal, cache),
		intake:    NewSupplementService(intakeRepo, cal, cache),
	}
}

func (s *services) mustExercise(t *testing.T, userID, name string, group domain.MuscleGroup) *domain.Exercise {
	t.Helper()
	ex, err := s.exercises.Create(context.Background(), userID, &domain.Exercise{Name: name, MuscleGroup: group}, nil)
	require.NoError(t, err)
	return ex
}

func (s *services) mustLog(t *testing.T, userID string, input domain.LogSessionInput) *domain.SessionDetail {
	t.Helper()
	detail, err := s.workouts.LogSession(context.Background(), userID, input)
	require.NoError(t, err)
	return detail
}

func entry(exerciseID string, rows ...[2]any) domain.ExerciseEntry {
	e := domain.ExerciseEntry{ExerciseID: exerciseID}
	for _, r := range rows {
		e.Sets = append(e.Sets, domain.SetInput{WeightKg: r[0], Reps: r[1]})
	}
	return e
}
