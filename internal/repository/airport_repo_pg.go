package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airtrack/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirportRepository interface {
	List(ctx context.Context) ([]domain.Airport, error)
	GetByCode(ctx context.Context, code string) (*domain.Airport, error)
	Create(ctx context.Context, airport *domain.Airport) error
}

type PGAirportRepository struct {
	db *pgxpool.Pool
}

func NewAirportRepository(db *pgxpool.Pool) AirportRepository {
	return &PGAirportRepository{db: db}
}

func (r *PGAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT id, code, name, city, country FROM airports ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Country); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *PGAirportRepository) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	var a domain.Airport
	err := r.db.QueryRow(ctx, `SELECT id, code, name, city, country FROM airports WHERE code=$1`, code).
		Scan(&a.ID, &a.Code, &a.Name, &a.City, &a.Country)
	if err != nil {
		return nil, notFound(err, domain.ErrAirportNotFound)
	}
	return &a, nil
}

func (r *PGAirportRepository) Create(ctx context.Context, airport *domain.Airport) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airports (code, name, city, country) VALUES ($1, $2, $3, $4) RETURNING id`,
		airport.Code, airport.Name, airport.City, airport.Country).Scan(&airport.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("airport %s: %w", airport.Code, domain.ErrDuplicateCode)
	}
	return err
}

var _ AirportRepository = (*PGAirportRepository)(nil)
