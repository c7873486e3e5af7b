package repofake

import (
	"sync"

	"github.com/jrsteele09/go-storefront-client/session/credstore"
)

// FakeCredsRepo is an in-memory credstore.Repo for tests.
type FakeCredsRepo struct {
	mu    sync.Mutex
	creds *credstore.Credentials

	// FailNextStore makes the next Store call fail, for persistence-failure
	// tests.
	FailNextStore error
}

func NewFakeCredsRepo() *FakeCredsRepo {
	return &FakeCredsRepo{}
}

func (f *FakeCredsRepo) Store(creds *credstore.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailNextStore != nil {
		err := f.FailNextStore
		f.FailNextStore = nil
		return err
	}
	copied := *creds
	f.creds = &copied
	return nil
}

func (f *FakeCredsRepo) Load() (*credstore.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.creds == nil {
		return nil, credstore.ErrNoCredentials
	}
	copied := *f.creds
	return &copied, nil
}

func (f *FakeCredsRepo) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds = nil
	return nil
}
