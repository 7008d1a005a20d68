package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-access/internal/authz"
	"github.com/spec-kit/helpdesk-access/internal/domain"
)

const ticketColumns = `t.id, t.client_id, t.assigned_to, t.created_by,
               COALESCE((SELECT array_agg(ta.staff_profile_id) FROM ticket_assignees ta WHERE ta.ticket_id=t.id), '{}'),
               t.subject, t.body, t.status, t.priority, t.created_at, t.updated_at, t.closed_at`

// TicketRepository encapsulates ticket persistence. Listing takes the
// caller's visibility scope; there is deliberately no unscoped list.
type TicketRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListVisible(ctx context.Context, scope authz.TicketScope, limit, offset int) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets t WHERE t.id=$1`, ticketColumns)

	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListVisible(ctx context.Context, scope authz.TicketScope, limit, offset int) ([]domain.Ticket, error) {
	clause, args := BuildTicketScopeClause(scope, 1)

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets t WHERE %s ORDER BY t.updated_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, clause, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// BuildTicketScopeClause renders a visibility scope as a SQL predicate over
// the tickets table (aliased t), with placeholders numbered from
// startIndex. The predicate is the query-side twin of TicketScope.Matches:
// the two must accept the same rows.
func BuildTicketScopeClause(scope authz.TicketScope, startIndex int) (string, []any) {
	switch scope.Kind {
	case authz.ScopeUnrestricted:
		return "1=1", nil
	case authz.ScopeOwned:
		staff := fmt.Sprintf("$%d", startIndex)
		creator := fmt.Sprintf("$%d", startIndex+1)
		clause := fmt.Sprintf(
			"(t.assigned_to=%s OR t.created_by=%s OR EXISTS (SELECT 1 FROM ticket_assignees ta WHERE ta.ticket_id=t.id AND ta.staff_profile_id=%s))",
			staff, creator, staff)
		return clause, []any{scope.StaffProfileID, scope.PrincipalID}
	case authz.ScopeClientOwned:
		return fmt.Sprintf("t.client_id=$%d", startIndex), []any{scope.ClientID}
	default:
		// CREATED_ONLY, and any unknown kind narrows to it.
		return fmt.Sprintf("t.created_by=$%d", startIndex), []any{scope.PrincipalID}
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.ClientID,
		&ticket.AssignedTo,
		&ticket.CreatedBy,
		&ticket.AssigneeStaffIDs,
		&ticket.Subject,
		&ticket.Body,
		&ticket.Status,
		&ticket.Priority,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
