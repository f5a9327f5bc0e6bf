package access

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrBadCredentials is returned by Authenticate for unknown users and wrong passwords.
	ErrBadCredentials = errors.New("access: bad credentials")
	// ErrDuplicateAccount is returned by Add when the user name is taken.
	ErrDuplicateAccount = errors.New("access: duplicate account")
)

type account struct {
	hash      []byte
	principal Principal
}

// Accounts is an in-memory credential table with bcrypt password hashes.
//
// It is safe for concurrent use.
type Accounts struct {
	mu     sync.RWMutex
	byName map[string]account
	cost   int
}

// NewAccounts creates an empty table. cost <= 0 uses bcrypt.DefaultCost.
func NewAccounts(cost int) *Accounts {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &Accounts{byName: make(map[string]account), cost: cost}
}

// Add registers a user. The principal id is the user name.
func (a *Accounts) Add(name, password string, caps ...Capability) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("access: empty account name")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return fmt.Errorf("access: hash password for %q: %w", name, err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAccount, name)
	}
	a.byName[name] = account{
		hash: hash,
		principal: Principal{
			ID:           name,
			Name:         name,
			Capabilities: append([]Capability(nil), caps...),
		},
	}
	return nil
}

// Authenticate checks a password and returns the matching principal.
func (a *Accounts) Authenticate(name, password string) (Principal, error) {
	a.mu.RLock()
	acc, ok := a.byName[strings.TrimSpace(name)]
	a.mu.RUnlock()
	if !ok {
		return Principal{}, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return Principal{}, ErrBadCredentials
	}
	p := acc.principal
	p.Capabilities = append([]Capability(nil), p.Capabilities...)
	return p, nil
}
