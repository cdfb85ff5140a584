package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Scalar fields stay relational; the
// list fields and salary range are JSONB documents.
type PGRepo struct {
	DB *sql.DB
}

const postingColumns = `
id, title, department, location, type, description,
requirements, responsibilities, benefits, salary,
status, posted_by, posted_at, closed_at, applications_count,
created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, p Posting) error {
	const query = `
INSERT INTO jobs (
    id, title, department, location, type, description,
    requirements, responsibilities, benefits, salary,
    status, posted_by, posted_at, closed_at, applications_count,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	args, err := postingArgs(p)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *PGRepo) Update(ctx context.Context, p Posting) error {
	const query = `
UPDATE jobs SET
    title = $2, department = $3, location = $4, type = $5, description = $6,
    requirements = $7, responsibilities = $8, benefits = $9, salary = $10,
    status = $11, posted_by = $12, posted_at = $13, closed_at = $14, applications_count = $15,
    created_at = $16, updated_at = $17
WHERE id = $1`

	args, err := postingArgs(p)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM jobs WHERE id = $1 LIMIT 1`
	return scanPosting(r.DB.QueryRowContext(ctx, query, id))
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) List(ctx context.Context, status Status) ([]Posting, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		query := `SELECT ` + postingColumns + ` FROM jobs ORDER BY posted_at DESC`
		rows, err = r.DB.QueryContext(ctx, query)
	} else {
		query := `SELECT ` + postingColumns + ` FROM jobs WHERE status = $1 ORDER BY posted_at DESC`
		rows, err = r.DB.QueryContext(ctx, query, string(status))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Posting{}
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PGRepo) IncrementApplications(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `
UPDATE jobs SET applications_count = applications_count + 1, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func postingArgs(p Posting) ([]any, error) {
	requirements, err := json.Marshal(p.Requirements)
	if err != nil {
		return nil, fmt.Errorf("marshal requirements: %w", err)
	}
	responsibilities, err := json.Marshal(p.Responsibilities)
	if err != nil {
		return nil, fmt.Errorf("marshal responsibilities: %w", err)
	}
	benefits, err := json.Marshal(p.Benefits)
	if err != nil {
		return nil, fmt.Errorf("marshal benefits: %w", err)
	}
	salary, err := json.Marshal(p.Salary)
	if err != nil {
		return nil, fmt.Errorf("marshal salary: %w", err)
	}

	var closedAt sql.NullTime
	if p.ClosedAt != nil {
		closedAt = sql.NullTime{Time: *p.ClosedAt, Valid: true}
	}

	return []any{
		p.ID,
		p.Title,
		p.Department,
		p.Location,
		p.Type,
		p.Description,
		requirements,
		responsibilities,
		benefits,
		salary,
		string(p.Status),
		p.PostedBy,
		p.PostedAt,
		closedAt,
		p.ApplicationsCount,
		p.CreatedAt,
		p.UpdatedAt,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPosting(row rowScanner) (Posting, error) {
	var (
		p                Posting
		status           string
		requirements     []byte
		responsibilities []byte
		benefits         []byte
		salary           []byte
		closedAt         sql.NullTime
	)

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Department,
		&p.Location,
		&p.Type,
		&p.Description,
		&requirements,
		&responsibilities,
		&benefits,
		&salary,
		&status,
		&p.PostedBy,
		&p.PostedAt,
		&closedAt,
		&p.ApplicationsCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Posting{}, ErrNotFound
		}
		return Posting{}, err
	}

	p.Status = Status(status)
	if len(requirements) > 0 {
		if err := json.Unmarshal(requirements, &p.Requirements); err != nil {
			return Posting{}, err
		}
	}
	if len(responsibilities) > 0 {
		if err := json.Unmarshal(responsibilities, &p.Responsibilities); err != nil {
			return Posting{}, err
		}
	}
	if len(benefits) > 0 {
		if err := json.Unmarshal(benefits, &p.Benefits); err != nil {
			return Posting{}, err
		}
	}
	if len(salary) > 0 {
		if err := json.Unmarshal(salary, &p.Salary); err != nil {
			return Posting{}, err
		}
	}
	if closedAt.Valid {
		t := closedAt.Time
		p.ClosedAt = &t
	}
	if p.Requirements == nil {
		p.Requirements = []string{}
	}
	if p.Responsibilities == nil {
		p.Responsibilities = []string{}
	}
	if p.Benefits == nil {
		p.Benefits = []string{}
	}
	return p, nil
}

var _ Repo = (*PGRepo)(nil)
