package repository

import (
	"context"
	"time"

	"github.com/myggens/vagtplan/backend/internal/domain"
)

// GetOrCreatePerson looks a person up by phone and creates them if missing.
// A re-signup under a different name overwrites the stored name: the phone
// number is the identity, the name is just the latest thing they told us.
func (r *Repository) GetOrCreatePerson(name string, phone string) (*domain.Person, error) {
	query := `
		INSERT INTO persons (name, phone)
		VALUES ($1, $2)
		ON CONFLICT (phone) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, phone, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	person := &domain.Person{}
	dst := []any{&person.ID, &person.Name, &person.Phone, &person.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, name, phone).Scan(dst...); err != nil {
		return nil, err
	}

	return person, nil
}

func (r *Repository) GetPerson(id int64) (*domain.Person, error) {
	query := `
		SELECT name, phone, created_at FROM persons WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	person := &domain.Person{
		ID: id,
	}

	dst := []any{&person.Name, &person.Phone, &person.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return person, nil
}

func (r *Repository) GetAllPersons() ([]*domain.Person, error) {
	query := `
		SELECT id, name, phone, created_at FROM persons ORDER BY name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	persons := []*domain.Person{}
	for rows.Next() {
		person := &domain.Person{}
		dst := []any{&person.ID, &person.Name, &person.Phone, &person.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		persons = append(persons, person)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return persons, nil
}

// DeletePerson removes a person together with all their signups and extra
// shifts. The three deletes run in one transaction so a crash cannot leave
// orphaned ledger rows behind.
func (r *Repository) DeletePerson(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM signups WHERE person_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM extra_shifts WHERE person_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}
