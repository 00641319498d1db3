package scheduler

import (
	"errors"
	"fmt"

	"github.com/notexe/daily-reminders/internal/kv"
)

// PermissionKey is where the notification permission is persisted.
const PermissionKey = "notification_permission_v1"

// Permission is the tri-state notification authorization.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Authorizer reports the current notification permission. The scheduler only
// reads it.
type Authorizer interface {
	Permission() Permission
}

// PermissionStore owns the notification permission and persists it in kv.
type PermissionStore struct {
	kv kv.Store
}

// NewPermissionStore creates a PermissionStore over backend.
func NewPermissionStore(backend kv.Store) *PermissionStore {
	return &PermissionStore{kv: backend}
}

// Permission returns the persisted state. Missing or unknown values read as default.
func (p *PermissionStore) Permission() Permission {
	v, err := p.kv.Get(PermissionKey)
	if err != nil {
		return PermissionDefault
	}
	switch Permission(v) {
	case PermissionGranted, PermissionDenied:
		return Permission(v)
	default:
		return PermissionDefault
	}
}

// Request records the user's answer to the permission prompt and returns the new state.
func (p *PermissionStore) Request(allow bool) (Permission, error) {
	state := PermissionDenied
	if allow {
		state = PermissionGranted
	}
	if err := p.kv.Set(PermissionKey, string(state)); err != nil {
		return p.Permission(), fmt.Errorf("failed to persist permission: %w", err)
	}
	return state, nil
}

// Reset forgets the answer so the next prompt asks again.
func (p *PermissionStore) Reset() error {
	if err := p.kv.Delete(PermissionKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("failed to reset permission: %w", err)
	}
	return nil
}

// StaticAuthorizer always reports the same permission.
type StaticAuthorizer Permission

// Permission implements Authorizer.
func (a StaticAuthorizer) Permission() Permission { return Permission(a) }
