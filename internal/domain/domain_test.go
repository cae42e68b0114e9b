package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/argent/internal/domain"
)

func TestRoleValid(t *testing.T) {
	for _, r := range []domain.Role{domain.RoleAdmin, domain.RoleUser} {
		if !r.Valid() {
			t.Fatalf("%q should be valid", r)
		}
	}
	for _, r := range []domain.Role{"", "admin", "SuperAdmin"} {
		if r.Valid() {
			t.Fatalf("%q should be invalid", r)
		}
	}
}

func TestAccessTypeValid(t *testing.T) {
	for _, a := range []domain.AccessType{domain.AccessOwner, domain.AccessEditor} {
		if !a.Valid() {
			t.Fatalf("%q should be valid", a)
		}
	}
	for _, a := range []domain.AccessType{"", "owner", "Viewer"} {
		if a.Valid() {
			t.Fatalf("%q should be invalid", a)
		}
	}
}

func TestUserForSharingHidesEmailAndRole(t *testing.T) {
	u := domain.User{ID: uuid.New(), Name: "Alice", Email: "alice@example.com", Role: domain.RoleAdmin}

	b, err := json.Marshal(u.ForSharing())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := fields["email"]; ok {
		t.Fatal("sharing view leaks email")
	}
	if _, ok := fields["role"]; ok {
		t.Fatal("sharing view leaks role")
	}
	if fields["name"] != "Alice" {
		t.Fatalf("name = %v", fields["name"])
	}
}

func TestNewChecklistItem(t *testing.T) {
	listID := uuid.New()
	before := time.Now().UTC().Unix()
	item := domain.NewChecklistItem("Milk", listID)
	after := time.Now().UTC().Unix()

	if item.ID == uuid.Nil {
		t.Fatal("item without id")
	}
	if item.Checklist != listID || item.Title != "Milk" || item.Done {
		t.Fatalf("item = %+v", item)
	}
	if item.CreatedAt < before || item.CreatedAt > after {
		t.Fatalf("CreatedAt = %d outside [%d, %d]", item.CreatedAt, before, after)
	}
}
