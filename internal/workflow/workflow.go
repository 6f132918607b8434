package workflow

// Package workflow implements the ordered, revocable three-role signature
// chain shared by control documents and evidence forms. All functions are
// pure over a model.SignatureSet; persistence and authorization live in the
// layers above.

import (
	"errors"
	"fmt"

	"complyapi/internal/model"
)

var (
	ErrInvalidRole       = errors.New("invalid role")
	ErrAlreadySigned     = errors.New("role already signed")
	ErrOrderingViolation = errors.New("previous role has not signed")
	ErrNotSigned         = errors.New("role is not signed")
	ErrCorruptChain      = errors.New("signature chain is not a prefix of the role order")
)

// RoleCount is the fixed length of every approval chain.
const RoleCount = 3

// Role is a position in the approval chain, 0-based.
type Role int

const (
	RoleFirst  Role = 0 // prepared / requester
	RoleSecond Role = 1 // reviewed / reviewer
	RoleThird  Role = 2 // approved / approver
)

// DocumentRoles and FormRoles map chain positions to their external names.
var (
	DocumentRoles = [RoleCount]string{"prepared", "reviewed", "approved"}
	FormRoles     = [RoleCount]string{"requester", "reviewer", "approver"}
)

// ParseRole resolves an external role name against one of the role name
// tables above.
func ParseRole(names [RoleCount]string, name string) (Role, error) {
	for i, n := range names {
		if n == name {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRole, name)
}

// SignedCount returns how many roles have signed. The chain must be a
// contiguous prefix of the role order; anything else is unreachable through
// Sign/Revoke and is reported as corruption rather than interpreted.
func SignedCount(set model.SignatureSet) (int, error) {
	count := 0
	for _, s := range set {
		if s != nil {
			count++
		}
	}
	for i := 0; i < count; i++ {
		if set[i] == nil {
			return 0, fmt.Errorf("%w: %d signed with gap at position %d", ErrCorruptChain, count, i)
		}
	}
	return count, nil
}

// Sign fills the slot for role. The slot must be empty and every role
// ordered before it must already be signed. On violation the set is
// untouched.
func Sign(set *model.SignatureSet, role Role, sig model.Signature) error {
	if role < 0 || role >= RoleCount {
		return ErrInvalidRole
	}
	if _, err := SignedCount(*set); err != nil {
		return err
	}
	if set[role] != nil {
		return ErrAlreadySigned
	}
	for i := Role(0); i < role; i++ {
		if set[i] == nil {
			return ErrOrderingViolation
		}
	}
	set[role] = &sig
	return nil
}

// Revoke clears role and cascades through every role after it: a downstream
// signature attests that the upstream steps were valid, so invalidating an
// upstream step invalidates everything built on it.
func Revoke(set *model.SignatureSet, role Role) error {
	if role < 0 || role >= RoleCount {
		return ErrInvalidRole
	}
	if set[role] == nil {
		return ErrNotSigned
	}
	for i := role; i < RoleCount; i++ {
		set[i] = nil
	}
	return nil
}
