package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-access/internal/domain"
)

// AttachmentRepository reads attachment metadata. Soft-deleted rows are
// filtered out at the query level.
type AttachmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Attachment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error)
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) GetByID(ctx context.Context, id string) (*domain.Attachment, error) {
	const query = `
        SELECT id, ticket_id, file_name, mime_type, size_bytes, uploaded_by, created_by, deleted_flag, created_at
        FROM attachments WHERE id=$1 AND deleted_flag=FALSE`

	var attachment domain.Attachment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&attachment.ID,
		&attachment.TicketID,
		&attachment.FileName,
		&attachment.MimeType,
		&attachment.SizeBytes,
		&attachment.UploadedBy,
		&attachment.CreatedBy,
		&attachment.Deleted,
		&attachment.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	const query = `
        SELECT id, ticket_id, file_name, mime_type, size_bytes, uploaded_by, created_by, deleted_flag, created_at
        FROM attachments WHERE ticket_id=$1 AND deleted_flag=FALSE`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.TicketID,
			&attachment.FileName,
			&attachment.MimeType,
			&attachment.SizeBytes,
			&attachment.UploadedBy,
			&attachment.CreatedBy,
			&attachment.Deleted,
			&attachment.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}

// NormalizeUploader resolves the historical uploaded_by/created_by column
// split into a single uploader identity: uploaded_by wins when present,
// created_by is the fallback, empty string when neither is set. Decision
// logic only ever sees the normalized value.
func NormalizeUploader(uploadedBy, createdBy *string) string {
	if uploadedBy != nil && *uploadedBy != "" {
		return *uploadedBy
	}
	if createdBy != nil && *createdBy != "" {
		return *createdBy
	}
	return ""
}
