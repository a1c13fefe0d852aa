package auth

import (
	"os"
	"time"
)

// SessionEnvVar holds a session cookie supplied through the environment
const SessionEnvVar = "PIXIVSAVE_SESSION_ID"

// EnvironmentStore is a read-only store backed by SessionEnvVar
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment session under any requested name
func (e *EnvironmentStore) Retrieve(name string) (*Account, error) {
	sessionID := os.Getenv(SessionEnvVar)
	if sessionID == "" {
		return nil, ErrCredentialsNotFound
	}
	if name == "" {
		name = DefaultAccount
	}

	return &Account{
		Name:         name,
		SessionID:    sessionID,
		UserAgent:    os.Getenv("PIXIVSAVE_USER_AGENT"),
		LastModified: time.Time{},
	}, nil
}

// List returns a single account if the variable is set
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if an environment session is set
func (e *EnvironmentStore) Exists(name string) bool {
	return os.Getenv(SessionEnvVar) != ""
}
