package access

import (
	"context"
	"errors"
	"testing"

	"github.com/slashroll/slashroll/internal/common"
	"github.com/slashroll/slashroll/internal/testutil"
)

func TestPermittedTeams(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	alpha := testutil.CreateTeam(t, db, "Alpha")
	bravo := testutil.CreateTeam(t, db, "Bravo")
	testutil.CreateTeam(t, db, "Charlie")

	member := testutil.CreateUser(t, db, "nova", "password123", alpha.ID, bravo.ID)
	loner := testutil.CreateUser(t, db, "loner", "password123")
	super := testutil.CreateAdmin(t, db, "superadmin", "password123", true)
	plain := testutil.CreateAdmin(t, db, "legacy", "password123", false)

	tests := []struct {
		name      string
		principal Principal
		want      []string
	}{
		{"superadmin sees every team", Admin(super.ID, super.Username, true), []string{"Alpha", "Bravo", "Charlie"}},
		{"member sees assigned teams", Member(member.ID, member.Username), []string{"Alpha", "Bravo"}},
		{"unassigned member sees nothing", Member(loner.ID, loner.Username), nil},
		{"plain admin sees nothing", Admin(plain.ID, plain.Username, false), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teams, err := svc.PermittedTeams(ctx, tt.principal)
			if err != nil {
				t.Fatalf("PermittedTeams returned error: %v", err)
			}
			if teams == nil {
				t.Fatal("expected a non-nil slice")
			}
			if len(teams) != len(tt.want) {
				t.Fatalf("expected %d teams, got %d", len(tt.want), len(teams))
			}
			for i, team := range teams {
				if team.Name != tt.want[i] {
					t.Errorf("team %d: expected %s, got %s", i, tt.want[i], team.Name)
				}
			}
		})
	}
}

func TestAuthorizeTeam(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	alpha := testutil.CreateTeam(t, db, "Alpha")
	bravo := testutil.CreateTeam(t, db, "Bravo")
	member := Member(testutil.CreateUser(t, db, "nova", "password123", alpha.ID).ID, "nova")
	super := Admin(testutil.CreateAdmin(t, db, "root", "password123", true).ID, "root", true)
	plain := Admin(testutil.CreateAdmin(t, db, "legacy", "password123", false).ID, "legacy", false)

	tests := []struct {
		name      string
		principal Principal
		teamID    uint
		allowed   bool
	}{
		{"member on own team", member, alpha.ID, true},
		{"member on foreign team", member, bravo.ID, false},
		{"superadmin on any team", super, bravo.ID, true},
		{"superadmin on missing team", super, 9999, false},
		{"plain admin", plain, alpha.ID, false},
		{"zero team id", member, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.AuthorizeTeam(ctx, tt.principal, tt.teamID)
			if tt.allowed {
				if err != nil {
					t.Errorf("expected access, got %v", err)
				}
				return
			}
			var denied *common.AccessDeniedError
			if !errors.As(err, &denied) {
				t.Errorf("expected AccessDeniedError, got %v", err)
			}
		})
	}
}

func TestLoadPrincipal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	admin := testutil.CreateAdmin(t, db, "root", "password123", true)
	user := testutil.CreateUser(t, db, "nova", "password123")

	p, err := svc.LoadPrincipal(ctx, KindAdmin, admin.ID)
	if err != nil {
		t.Fatalf("LoadPrincipal(admin) returned error: %v", err)
	}
	if !p.IsSuperadmin() || p.Username != "root" {
		t.Errorf("unexpected admin principal: %+v", p)
	}

	p, err = svc.LoadPrincipal(ctx, KindMember, user.ID)
	if err != nil {
		t.Fatalf("LoadPrincipal(member) returned error: %v", err)
	}
	if !p.IsMember() || p.IsSuperadmin() {
		t.Errorf("unexpected member principal: %+v", p)
	}

	// Ids of the two kinds are independent; a member id is not an admin id.
	_, err = svc.LoadPrincipal(ctx, KindMember, 4242)
	var nf *common.NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError for missing user, got %v", err)
	}
}
