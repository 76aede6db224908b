package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rafdmrs/Faelist-todo-App/internal/cache"
	dom "github.com/rafdmrs/Faelist-todo-App/internal/domain"
	"github.com/rafdmrs/Faelist-todo-App/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

// PageSize is the fixed number of todos per page.
const PageSize = 10

const maxTitleLen = 255

// TodoInput is the validated payload for create and update. Completed is only
// honored on update; create always starts incomplete.
type TodoInput struct {
	Title       string
	Description string
	Priority    string
	StartDate   *time.Time
	EndDate     *time.Time
	Completed   *bool
}

// ListOptions narrows and pages a listing. Unknown status/priority values are
// treated as "all". Page is 1-based; values below 1 mean the first page.
type ListOptions struct {
	Search   string
	Status   string
	Priority string
	Page     int
}

// Page is one ordered slice of an owner's todos plus enough to derive
// pagination metadata.
type Page struct {
	Items   []dom.Todo
	Total   int64
	Page    int
	PerPage int
}

type TodoService struct {
	repo  repo.TodoRepo
	cache *cache.DashboardCache
	sf    singleflight.Group
	now   func() time.Time
}

// NewTodoService creates a TodoService. If c is nil, caching is disabled.
func NewTodoService(r repo.TodoRepo, c *cache.DashboardCache) *TodoService {
	return &TodoService{repo: r, cache: c, now: time.Now}
}

func validateInput(in TodoInput) *ValidationError {
	fields := map[string]string{}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		fields["title"] = "title is required"
	} else if len(title) > maxTitleLen {
		fields["title"] = "title must be at most 255 characters"
	}

	if !dom.Priority(in.Priority).Valid() {
		fields["priority"] = "priority must be one of low, medium, high"
	}

	if in.StartDate == nil {
		fields["start_date"] = "start_date is required"
	}
	if in.EndDate == nil {
		fields["end_date"] = "end_date is required"
	} else if in.StartDate != nil && in.EndDate.Before(*in.StartDate) {
		fields["end_date"] = "end_date must be on or after start_date"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Create validates and persists a new todo owned by userID, always incomplete.
func (s *TodoService) Create(ctx context.Context, userID int64, in TodoInput) (dom.Todo, error) {
	if verr := validateInput(in); verr != nil {
		return dom.Todo{}, verr
	}
	t, err := s.repo.Create(ctx, dom.Todo{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Priority:    dom.Priority(in.Priority),
		StartDate:   *in.StartDate,
		EndDate:     *in.EndDate,
		Completed:   false,
	})
	if err != nil {
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Get returns one todo, if it exists and belongs to userID.
func (s *TodoService) Get(ctx context.Context, userID, id int64) (dom.Todo, error) {
	return s.getOwned(ctx, userID, id)
}

// List returns the requested page of userID's todos, narrowed by search text
// and the status/priority filters. A page past the end returns empty items
// with the true total, not an error.
func (s *TodoService) List(ctx context.Context, userID int64, opts ListOptions) (Page, error) {
	opts = normalizeListOptions(opts)

	if s.cache != nil && isDefaultListing(opts) {
		key := "page1:" + strconv.FormatInt(userID, 10)
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if p, err := s.cache.GetFirstPage(ctx, userID); err == nil && p != nil {
				return *p, nil
			}
			items, total, err := s.repo.ListPage(ctx, userID, listQuery(opts))
			if err != nil {
				return nil, err
			}
			cp := cache.CachedPage{Items: items, Total: total}
			_ = s.cache.SetFirstPage(ctx, userID, cp)
			return cp, nil
		})
		if err != nil {
			return Page{}, err
		}
		cp := v.(cache.CachedPage)
		return Page{Items: cp.Items, Total: cp.Total, Page: opts.Page, PerPage: PageSize}, nil
	}

	items, total, err := s.repo.ListPage(ctx, userID, listQuery(opts))
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Total: total, Page: opts.Page, PerPage: PageSize}, nil
}

func normalizeListOptions(opts ListOptions) ListOptions {
	opts.Search = strings.TrimSpace(opts.Search)
	if opts.Page < 1 {
		opts.Page = 1
	}
	switch opts.Status {
	case "active", "completed":
	default:
		opts.Status = ""
	}
	if !dom.Priority(opts.Priority).Valid() {
		opts.Priority = ""
	}
	return opts
}

func isDefaultListing(opts ListOptions) bool {
	return opts.Search == "" && opts.Status == "" && opts.Priority == "" && opts.Page == 1
}

func listQuery(opts ListOptions) repo.ListQuery {
	return repo.ListQuery{
		Search:   opts.Search,
		Status:   opts.Status,
		Priority: dom.Priority(opts.Priority),
		Limit:    PageSize,
		Offset:   (opts.Page - 1) * PageSize,
	}
}

// Update replaces the mutable fields of an owned todo. ID, owner and
// created_at never change.
func (s *TodoService) Update(ctx context.Context, userID, id int64, in TodoInput) (dom.Todo, error) {
	existing, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return dom.Todo{}, err
	}
	if verr := validateInput(in); verr != nil {
		return dom.Todo{}, verr
	}
	patch := existing
	patch.Title = strings.TrimSpace(in.Title)
	patch.Description = strings.TrimSpace(in.Description)
	patch.Priority = dom.Priority(in.Priority)
	patch.StartDate = *in.StartDate
	patch.EndDate = *in.EndDate
	if in.Completed != nil {
		patch.Completed = *in.Completed
	}
	t, err := s.repo.Update(ctx, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Toggle flips the completed flag of an owned todo and nothing else.
func (s *TodoService) Toggle(ctx context.Context, userID, id int64) (dom.Todo, error) {
	existing, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return dom.Todo{}, err
	}
	t, err := s.repo.SetCompleted(ctx, id, !existing.Completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete permanently removes an owned todo.
func (s *TodoService) Delete(ctx context.Context, userID, id int64) error {
	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

func (s *TodoService) getOwned(ctx context.Context, userID, id int64) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	if err := requireOwnership(t, userID); err != nil {
		return dom.Todo{}, err
	}
	return t, nil
}

func (s *TodoService) invalidateCache(ctx context.Context, userID int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
