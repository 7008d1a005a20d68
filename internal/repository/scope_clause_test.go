package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-access/internal/authz"
)

func TestBuildTicketScopeClauseUnrestricted(t *testing.T) {
	clause, args := BuildTicketScopeClause(authz.TicketScope{Kind: authz.ScopeUnrestricted}, 1)
	assert.Equal(t, "1=1", clause)
	assert.Empty(t, args)
}

func TestBuildTicketScopeClauseOwned(t *testing.T) {
	scope := authz.TicketScope{
		Kind:           authz.ScopeOwned,
		StaffProfileID: "sp-9",
		PrincipalID:    "user-1",
	}
	clause, args := BuildTicketScopeClause(scope, 1)

	assert.Equal(t,
		"(t.assigned_to=$1 OR t.created_by=$2 OR EXISTS (SELECT 1 FROM ticket_assignees ta WHERE ta.ticket_id=t.id AND ta.staff_profile_id=$1))",
		clause)
	assert.Equal(t, []any{"sp-9", "user-1"}, args)
}

func TestBuildTicketScopeClauseClientOwned(t *testing.T) {
	scope := authz.TicketScope{Kind: authz.ScopeClientOwned, ClientID: "client-42"}
	clause, args := BuildTicketScopeClause(scope, 1)

	assert.Equal(t, "t.client_id=$1", clause)
	assert.Equal(t, []any{"client-42"}, args)
}

func TestBuildTicketScopeClauseCreatedOnly(t *testing.T) {
	scope := authz.TicketScope{Kind: authz.ScopeCreatedOnly, PrincipalID: "user-1"}
	clause, args := BuildTicketScopeClause(scope, 1)

	assert.Equal(t, "t.created_by=$1", clause)
	assert.Equal(t, []any{"user-1"}, args)
}

// An unknown scope kind must narrow to created-only, never widen.
func TestBuildTicketScopeClauseUnknownKindNarrows(t *testing.T) {
	scope := authz.TicketScope{Kind: authz.ScopeKind("mystery"), PrincipalID: "user-1"}
	clause, args := BuildTicketScopeClause(scope, 1)

	assert.Equal(t, "t.created_by=$1", clause)
	assert.Equal(t, []any{"user-1"}, args)
}

func TestBuildTicketScopeClausePlaceholderOffset(t *testing.T) {
	scope := authz.TicketScope{
		Kind:           authz.ScopeOwned,
		StaffProfileID: "sp-9",
		PrincipalID:    "user-1",
	}
	clause, _ := BuildTicketScopeClause(scope, 3)

	assert.Contains(t, clause, "$3")
	assert.Contains(t, clause, "$4")
	assert.NotContains(t, clause, "$1")
}

func TestNormalizeUploader(t *testing.T) {
	uploader := "user-5"
	creator := "user-6"
	empty := ""

	assert.Equal(t, "user-5", NormalizeUploader(&uploader, &creator))
	assert.Equal(t, "user-6", NormalizeUploader(nil, &creator))
	assert.Equal(t, "user-6", NormalizeUploader(&empty, &creator))
	assert.Equal(t, "", NormalizeUploader(nil, nil))
	assert.Equal(t, "", NormalizeUploader(&empty, &empty))
}
