package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	dom "github.com/rafdmrs/Faelist-todo-App/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const todoColumns = "id, user_id, title, description, priority, start_date, end_date, completed, created_at, updated_at"

// ListQuery narrows and pages an owner's todos. Search matches title OR
// description case-insensitively. Status is "active"/"completed"; Priority is
// one of the three levels; empty means no predicate.
type ListQuery struct {
	Search   string
	Status   string
	Priority dom.Priority
	Limit    int
	Offset   int
}

// Counts is one aggregate pass over a set of todos.
type Counts struct {
	Total        int64
	Completed    int64
	Active       int64
	HighPriority int64
}

type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, id int64) (dom.Todo, error)
	ListPage(ctx context.Context, userID int64, q ListQuery) ([]dom.Todo, int64, error)
	Update(ctx context.Context, t dom.Todo) (dom.Todo, error)
	SetCompleted(ctx context.Context, id int64, completed bool) (dom.Todo, error)
	Delete(ctx context.Context, id int64) error
	Counts(ctx context.Context, userID int64) (Counts, error)
	CountsCreatedBetween(ctx context.Context, userID int64, from, to time.Time) (Counts, error)
}

type PGTodoRepo struct {
	db *pgxpool.Pool
}

func NewPGTodoRepo(db *pgxpool.Pool) *PGTodoRepo {
	return &PGTodoRepo{db: db}
}

func (r *PGTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		INSERT INTO todos (user_id, title, description, priority, start_date, end_date, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + todoColumns
	var out dom.Todo
	err := r.db.QueryRow(ctx, query,
		t.UserID, t.Title, t.Description, t.Priority, t.StartDate, t.EndDate, t.Completed,
	).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.Priority,
		&out.StartDate, &out.EndDate, &out.Completed, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

// GetByID fetches by id alone; the ownership check happens in the service so
// "not found" and "forbidden" stay distinguishable.
func (r *PGTodoRepo) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority,
		&t.StartDate, &t.EndDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// ListPage returns one page ordered by created_at DESC (id DESC tie-break)
// plus the total match count before paging.
func (r *PGTodoRepo) ListPage(ctx context.Context, userID int64, q ListQuery) ([]dom.Todo, int64, error) {
	where, args := buildListWhere(userID, q)

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM todos "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM todos %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		todoColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var list []dom.Todo
	for rows.Next() {
		var t dom.Todo
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority,
			&t.StartDate, &t.EndDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

func buildListWhere(userID int64, q ListQuery) (string, []any) {
	var sb strings.Builder
	args := []any{userID}
	sb.WriteString("WHERE user_id = $1")

	if s := strings.TrimSpace(q.Search); s != "" {
		args = append(args, "%"+s+"%")
		fmt.Fprintf(&sb, " AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	switch q.Status {
	case "active":
		sb.WriteString(" AND completed = FALSE")
	case "completed":
		sb.WriteString(" AND completed = TRUE")
	}
	if q.Priority != "" {
		args = append(args, q.Priority)
		fmt.Fprintf(&sb, " AND priority = $%d", len(args))
	}
	return sb.String(), args
}

func (r *PGTodoRepo) Update(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	query := `
		UPDATE todos
		SET title = $2, description = $3, priority = $4, start_date = $5, end_date = $6,
		    completed = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + todoColumns
	var out dom.Todo
	err := r.db.QueryRow(ctx, query,
		t.ID, t.Title, t.Description, t.Priority, t.StartDate, t.EndDate, t.Completed,
	).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.Priority,
		&out.StartDate, &out.EndDate, &out.Completed, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTodoRepo) SetCompleted(ctx context.Context, id int64, completed bool) (dom.Todo, error) {
	query := `
		UPDATE todos SET completed = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + todoColumns
	var t dom.Todo
	err := r.db.QueryRow(ctx, query, id, completed).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority,
		&t.StartDate, &t.EndDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Delete permanently removes the row. No soft-delete, no recovery.
func (r *PGTodoRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1`, id)
	return err
}

// Counts aggregates over the owner's entire collection in one pass.
func (r *PGTodoRepo) Counts(ctx context.Context, userID int64) (Counts, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE completed),
		       COUNT(*) FILTER (WHERE NOT completed),
		       COUNT(*) FILTER (WHERE priority = 'high')
		FROM todos WHERE user_id = $1`
	var c Counts
	err := r.db.QueryRow(ctx, query, userID).Scan(&c.Total, &c.Completed, &c.Active, &c.HighPriority)
	return c, err
}

// CountsCreatedBetween aggregates over the subset created within [from, to], inclusive.
func (r *PGTodoRepo) CountsCreatedBetween(ctx context.Context, userID int64, from, to time.Time) (Counts, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE completed),
		       COUNT(*) FILTER (WHERE NOT completed),
		       COUNT(*) FILTER (WHERE priority = 'high')
		FROM todos WHERE user_id = $1 AND created_at BETWEEN $2 AND $3`
	var c Counts
	err := r.db.QueryRow(ctx, query, userID, from, to).Scan(&c.Total, &c.Completed, &c.Active, &c.HighPriority)
	return c, err
}
