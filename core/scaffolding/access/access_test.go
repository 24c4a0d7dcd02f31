package access_test

import (
	"errors"
	"testing"

	"github.com/jrazmi/taskforge/core/scaffolding/access"
)

var (
	alice = access.Actor{UserID: "alice", Role: access.RoleUser}
	bob   = access.Actor{UserID: "bob", Role: access.RoleUser}
	root  = access.Actor{UserID: "root", Role: access.RoleAdmin}
	anon  = access.Actor{}
)

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		actor access.Actor
		want  error
	}{
		{root, nil},
		{alice, access.ErrForbidden},
		{anon, access.ErrUnauthenticated},
	}
	for _, tt := range tests {
		if got := access.RequireAdmin(tt.actor); !errors.Is(got, tt.want) {
			t.Errorf("RequireAdmin(%+v) = %v, want %v", tt.actor, got, tt.want)
		}
	}
}

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name  string
		actor access.Actor
		owner string
		want  error
	}{
		{"owner", alice, "alice", nil},
		{"other user", bob, "alice", access.ErrForbidden},
		{"admin", root, "alice", nil},
		{"anonymous", anon, "alice", access.ErrUnauthenticated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := access.CanAccess(tt.actor, tt.owner); !errors.Is(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScopeOwner(t *testing.T) {
	if got := access.ScopeOwner(alice, "bob"); got == nil || *got != "alice" {
		t.Errorf("non-admin must be pinned to self, got %v", got)
	}
	if got := access.ScopeOwner(alice, ""); got == nil || *got != "alice" {
		t.Errorf("non-admin must be pinned to self, got %v", got)
	}
	if got := access.ScopeOwner(root, ""); got != nil {
		t.Errorf("admin without target must be unscoped, got %v", *got)
	}
	if got := access.ScopeOwner(root, "bob"); got == nil || *got != "bob" {
		t.Errorf("admin target must be honoured, got %v", got)
	}
}

func TestOwnerForCreate(t *testing.T) {
	if got := access.OwnerForCreate(alice, "bob"); got != "alice" {
		t.Errorf("non-admin create owner = %q, want alice", got)
	}
	if got := access.OwnerForCreate(root, "bob"); got != "bob" {
		t.Errorf("admin create owner = %q, want bob", got)
	}
	if got := access.OwnerForCreate(root, ""); got != "root" {
		t.Errorf("admin default owner = %q, want root", got)
	}
}

func TestParseRole(t *testing.T) {
	if r, err := access.ParseRole(""); err != nil || r != access.RoleUser {
		t.Errorf("empty role = %q, %v", r, err)
	}
	if r, err := access.ParseRole("admin"); err != nil || r != access.RoleAdmin {
		t.Errorf("admin role = %q, %v", r, err)
	}
	if _, err := access.ParseRole("root"); !errors.Is(err, access.ErrInvalidRole) {
		t.Errorf("err = %v, want ErrInvalidRole", err)
	}
	if access.CanReassign(alice) || !access.CanReassign(root) {
		t.Error("only admins may reassign")
	}
}
