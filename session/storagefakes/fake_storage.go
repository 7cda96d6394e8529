package storagefakes

import (
	"sync"

	"github.com/postpilot/dashboard/session"
)

var _ session.Storage = (*FakeStorage)(nil)

// FakeStorage is an in-memory session.Storage for tests.
type FakeStorage struct {
	lock  sync.Mutex
	token string
	user  []byte
	has   bool

	WriteErr error
	ClearErr error
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{}
}

func (f *FakeStorage) Read() (string, []byte, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	if !f.has {
		return "", nil, false
	}
	return f.token, f.user, true
}

func (f *FakeStorage) Write(token string, user []byte) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.token = token
	f.user = user
	f.has = true
	return nil
}

func (f *FakeStorage) Clear() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.token = ""
	f.user = nil
	f.has = false
	return nil
}

// Seed places arbitrary content into storage, bypassing WriteErr, so tests
// can simulate state left by a previous process.
func (f *FakeStorage) Seed(token string, user []byte) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.token = token
	f.user = user
	f.has = true
}
