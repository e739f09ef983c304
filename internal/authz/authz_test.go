package authz

import (
	"errors"
	"testing"

	"github.com/vikram-2101/project-manager-app/internal/apperrors"
	"github.com/vikram-2101/project-manager-app/internal/models"
)

func projectFixture() *models.Project {
	manager := models.User{}
	manager.ID = 1
	member := models.User{}
	member.ID = 2

	p := &models.Project{
		Name:             "Alpha",
		ProjectManagerID: manager.ID,
		TeamMembers:      []models.User{manager, member},
	}
	return p
}

func TestIsProjectMember(t *testing.T) {
	p := projectFixture()

	if !IsProjectMember(p, 1) {
		t.Fatalf("expected manager to be a member")
	}
	if !IsProjectMember(p, 2) {
		t.Fatalf("expected team member to be a member")
	}
	if IsProjectMember(p, 3) {
		t.Fatalf("expected outsider not to be a member")
	}
}

func TestIsProjectMemberManagerNotInList(t *testing.T) {
	// The manager counts even if the member list is out of sync.
	p := &models.Project{ProjectManagerID: 7}

	if !IsProjectMember(p, 7) {
		t.Fatalf("expected manager to be a member regardless of list")
	}
}

func TestAuthorizeMember(t *testing.T) {
	p := projectFixture()

	if err := Authorize(p, 2, RequireMember, models.RoleTeamMember); err != nil {
		t.Fatalf("expected member access, got %v", err)
	}

	err := Authorize(p, 3, RequireMember, models.RoleTeamMember)
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-member, got %v", err)
	}
}

func TestAuthorizeManager(t *testing.T) {
	p := projectFixture()

	if err := Authorize(p, 1, RequireManager, models.RoleTeamMember); err != nil {
		t.Fatalf("expected manager access, got %v", err)
	}

	err := Authorize(p, 2, RequireManager, models.RoleTeamMember)
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected forbidden for plain member, got %v", err)
	}
	if err.Error() != "must be project manager" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAuthorizeGlobalAdminBypassesEverything(t *testing.T) {
	p := projectFixture()

	if err := Authorize(p, 99, RequireMember, models.RoleAdmin); err != nil {
		t.Fatalf("expected admin access as member, got %v", err)
	}
	if err := Authorize(p, 99, RequireManager, models.RoleAdmin); err != nil {
		t.Fatalf("expected admin access as manager, got %v", err)
	}
}
