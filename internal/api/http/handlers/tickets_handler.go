package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-access/internal/api/dto"
	"github.com/spec-kit/helpdesk-access/internal/auth"
	"github.com/spec-kit/helpdesk-access/internal/authz"
	"github.com/spec-kit/helpdesk-access/internal/domain"
	"github.com/spec-kit/helpdesk-access/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-access/pkg/util/errorutil"
)

// TicketsHandler exposes ticket listing, lookup and attachment download.
// All authorization decisions are delegated to the engine; the handler only
// translates results.
type TicketsHandler struct {
	tickets     repository.TicketRepository
	attachments repository.AttachmentRepository
	engine      *authz.Engine
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets repository.TicketRepository, attachments repository.AttachmentRepository, engine *authz.Engine) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, attachments: attachments, engine: engine}
}

// List handles GET /tickets. The caller's visibility scope constrains the
// query; there is no unscoped listing path.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.engine.RequireAuthenticated(principal); err != nil {
		return err
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	scope := authz.TicketScopeFor(principal)
	tickets, err := h.tickets.ListVisible(c.Context(), scope, limit, offset)
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}

	views := make([]dto.TicketView, 0, len(tickets))
	for i := range tickets {
		views = append(views, dto.NewTicketView(&tickets[i]))
	}

	return c.JSON(fiber.Map{"data": views})
}

// Get handles GET /tickets/:id. A ticket outside the caller's visibility
// renders exactly like a nonexistent one.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.engine.RequireAuthenticated(principal); err != nil {
		return err
	}

	ticket, err := h.loadTicket(c)
	if err != nil {
		return err
	}
	if !h.engine.AuthorizeTicketAccess(c.Context(), principal, ticket) {
		return apperrors.NewResourceNotVisible("ticket")
	}

	return c.JSON(fiber.Map{"data": dto.NewTicketView(ticket)})
}

// GetAttachment handles GET /tickets/:id/attachments/:attachmentID.
func (h *TicketsHandler) GetAttachment(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.engine.RequireAuthenticated(principal); err != nil {
		return err
	}

	ticket, err := h.loadTicket(c)
	if err != nil {
		return err
	}

	attachment, err := h.attachments.GetByID(c.Context(), c.Params("attachmentID"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("attachment", nil)
		}
		return apperrors.NewStoreUnavailable(err)
	}
	if attachment.TicketID != ticket.ID {
		return apperrors.NewNotFound("attachment", nil)
	}

	allowed := h.engine.AuthorizeAttachmentAccess(c.Context(), principal, authz.AttachmentContext{
		AttachmentID:     attachment.ID,
		UploaderID:       repository.NormalizeUploader(attachment.UploadedBy, attachment.CreatedBy),
		TicketID:         ticket.ID,
		ClientID:         ticket.ClientID,
		CreatorID:        ticket.CreatedBy,
		AssigneeStaffIDs: ticket.AssigneeStaffIDs,
	})
	if !allowed {
		return apperrors.NewResourceNotVisible("attachment")
	}

	return c.JSON(fiber.Map{"data": dto.NewAttachmentView(attachment)})
}

func (h *TicketsHandler) loadTicket(c *fiber.Ctx) (*domain.Ticket, error) {
	ticket, err := h.tickets.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return ticket, nil
}
