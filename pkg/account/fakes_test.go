package account_test

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/amr-platform/annotation-core/pkg/domain"
)

// --- in-memory fakes, grounded on pkg/workflow's test pattern of
// constructing services from narrow fake ports rather than a live
// database. ---

type fakeTxRunner struct{}

func (f *fakeTxRunner) RunInTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	return fn(nil)
}

type fakeUsers struct {
	byID       map[int64]*domain.User
	byUsername map[string]*domain.User
	nextID     int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*domain.User{}, byUsername: map[string]*domain.User{}}
}

func (f *fakeUsers) Create(ctx context.Context, ext sqlx.ExtContext, u *domain.User) error {
	if _, exists := f.byUsername[u.Username]; exists {
		return domain.ErrConflict
	}
	f.nextID++
	u.ID = f.nextID
	clone := *u
	f.byID[u.ID] = &clone
	f.byUsername[u.Username] = &clone
	return nil
}
func (f *fakeUsers) GetByID(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}
func (f *fakeUsers) GetByUsername(ctx context.Context, ext sqlx.ExtContext, username string) (*domain.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}
func (f *fakeUsers) UpdateRoleActive(ctx context.Context, ext sqlx.ExtContext, id int64, role domain.Role, active bool) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Role = role
	u.Active = active
	f.byUsername[u.Username] = u
	return nil
}

type fakeIssuer struct {
	issued *domain.User
	token  string
	err    error
}

func (f *fakeIssuer) Issue(user *domain.User) (string, error) {
	f.issued = user
	if f.err != nil {
		return "", f.err
	}
	if f.token == "" {
		return "fake-token", nil
	}
	return f.token, nil
}

type fakeProjects struct {
	projects map[int64]*domain.Project
	nextID   int64
}

func newFakeProjects() *fakeProjects {
	return &fakeProjects{projects: map[int64]*domain.Project{}}
}

func (f *fakeProjects) Create(ctx context.Context, ext sqlx.ExtContext, p *domain.Project) error {
	f.nextID++
	p.ID = f.nextID
	f.projects[p.ID] = p
	return nil
}
func (f *fakeProjects) Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}
func (f *fakeProjects) List(ctx context.Context, ext sqlx.ExtContext) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

type fakeMemberships struct {
	byID   map[int64]*domain.Membership
	nextID int64
}

func newFakeMemberships() *fakeMemberships {
	return &fakeMemberships{byID: map[int64]*domain.Membership{}}
}

func (f *fakeMemberships) Create(ctx context.Context, ext sqlx.ExtContext, m *domain.Membership) error {
	f.nextID++
	m.ID = f.nextID
	clone := *m
	f.byID[m.ID] = &clone
	return nil
}
func (f *fakeMemberships) Approve(ctx context.Context, ext sqlx.ExtContext, id int64, approvedBy int64, approvedAt time.Time) error {
	m, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Active = true
	m.ApprovedAt = &approvedAt
	m.InvitedBy = &approvedBy
	return nil
}
func (f *fakeMemberships) Get(ctx context.Context, ext sqlx.ExtContext, userID, projectID int64) (*domain.Membership, error) {
	for _, m := range f.byID {
		if m.UserID == userID && m.ProjectID == projectID && m.Active {
			return m, nil
		}
	}
	return nil, domain.ErrNotFound
}
func (f *fakeMemberships) ForUserProject(ctx context.Context, ext sqlx.ExtContext, userID, projectID int64) ([]domain.Membership, error) {
	var out []domain.Membership
	for _, m := range f.byID {
		if m.UserID == userID && m.ProjectID == projectID {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakeSentences struct {
	sentences []domain.Sentence
}

func (f *fakeSentences) Create(ctx context.Context, ext sqlx.ExtContext, s *domain.Sentence) error {
	return nil
}
func (f *fakeSentences) Get(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Sentence, error) {
	return nil, domain.ErrNotFound
}
func (f *fakeSentences) UpdateStatus(ctx context.Context, ext sqlx.ExtContext, id int64, status domain.SentenceStatus) error {
	return nil
}
func (f *fakeSentences) ListByProject(ctx context.Context, ext sqlx.ExtContext, projectID int64, statuses []domain.SentenceStatus) ([]domain.Sentence, error) {
	var out []domain.Sentence
	for _, s := range f.sentences {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeAssignments struct {
	byID map[int64]*domain.Assignment
}

func (f *fakeAssignments) Create(ctx context.Context, ext sqlx.ExtContext, a *domain.Assignment) error {
	return nil
}
func (f *fakeAssignments) Deactivate(ctx context.Context, ext sqlx.ExtContext, id int64) error {
	return nil
}
func (f *fakeAssignments) DeactivateAllActive(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) ([]int64, error) {
	return nil, nil
}
func (f *fakeAssignments) ActiveForSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID int64) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, a := range f.byID {
		if a.SentenceID == sentenceID && a.Active {
			out = append(out, *a)
		}
	}
	return out, nil
}
func (f *fakeAssignments) ActiveForUserSentence(ctx context.Context, ext sqlx.ExtContext, sentenceID, userID int64) (*domain.Assignment, error) {
	return nil, nil
}
