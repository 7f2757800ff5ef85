package repository

import (
	"context"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.SupportTicket) error
	// List returns tickets newest first, optionally restricted to one status.
	List(ctx context.Context, status domain.TicketStatus) ([]domain.SupportTicket, error)
	UpdateStatus(ctx context.Context, ids []int64, status domain.TicketStatus) (int, error)
}

type PGTicketRepository struct {
	db *pgxpool.Pool
}

func NewTicketRepository(db *pgxpool.Pool) TicketRepository {
	return &PGTicketRepository{db: db}
}

func (r *PGTicketRepository) Create(ctx context.Context, ticket *domain.SupportTicket) error {
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	return r.db.QueryRow(ctx, `INSERT INTO support_tickets (name, email, message, source_page, status)
		VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		ticket.Name, ticket.Email, ticket.Message, ticket.SourcePage, string(ticket.Status)).
		Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *PGTicketRepository) List(ctx context.Context, status domain.TicketStatus) ([]domain.SupportTicket, error) {
	query := `SELECT id, name, email, message, source_page, status, created_at FROM support_tickets`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.SupportTicket, 0)
	for rows.Next() {
		var (
			t  domain.SupportTicket
			st string
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Message, &t.SourcePage, &st, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Status = domain.TicketStatus(st)
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (r *PGTicketRepository) UpdateStatus(ctx context.Context, ids []int64, status domain.TicketStatus) (int, error) {
	res, err := r.db.Exec(ctx, `UPDATE support_tickets SET status = $2 WHERE id = ANY($1)`, ids, string(status))
	if err != nil {
		return 0, err
	}
	return int(res.RowsAffected()), nil
}

var _ TicketRepository = (*PGTicketRepository)(nil)
