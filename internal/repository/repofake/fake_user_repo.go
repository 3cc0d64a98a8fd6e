// Package repofake provides in-memory implementations of the stores used by
// the service layer.  They mirror the MySQL repositories' contracts,
// including their sentinel errors, and are safe for concurrent use.
package repofake

import (
    "context"
    "sync"

    "github.com/iliyamo/tailor-api/internal/model"
    "github.com/iliyamo/tailor-api/internal/repository"
)

type FakeUserRepo struct {
    users    map[string]model.User
    emailIds map[string]string // email to user id
    lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
    return &FakeUserRepo{
        users:    make(map[string]model.User),
        emailIds: make(map[string]string),
    }
}

func (ur *FakeUserRepo) Create(_ context.Context, u *model.User) error {
    ur.lock.Lock()
    defer ur.lock.Unlock()

    u.Email = repository.NormalizeEmail(u.Email)
    if _, ok := ur.emailIds[u.Email]; ok {
        return repository.ErrEmailExists
    }
    ur.users[u.ID] = *u
    ur.emailIds[u.Email] = u.ID
    return nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
    ur.lock.RLock()
    defer ur.lock.RUnlock()

    id, ok := ur.emailIds[repository.NormalizeEmail(email)]
    if !ok {
        return nil, repository.ErrUserNotFound
    }
    u := ur.users[id]
    return &u, nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
    ur.lock.RLock()
    defer ur.lock.RUnlock()

    u, ok := ur.users[id]
    if !ok {
        return nil, repository.ErrUserNotFound
    }
    return &u, nil
}

// Delete removes a user, for tests that exercise tokens outliving accounts.
func (ur *FakeUserRepo) Delete(id string) {
    ur.lock.Lock()
    defer ur.lock.Unlock()

    if u, ok := ur.users[id]; ok {
        delete(ur.emailIds, u.Email)
        delete(ur.users, id)
    }
}
