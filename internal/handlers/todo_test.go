package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rafdmrs/Faelist-todo-App/internal/auth"
	dom "github.com/rafdmrs/Faelist-todo-App/internal/domain"
	"github.com/rafdmrs/Faelist-todo-App/internal/dto"
	"github.com/rafdmrs/Faelist-todo-App/internal/repo"
	"github.com/rafdmrs/Faelist-todo-App/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// memTodoRepo is a minimal in-memory repo.TodoRepo for handler tests.
// Setting failWith makes reads fail with that error.
type memTodoRepo struct {
	nextID   int64
	todos    map[int64]dom.Todo
	failWith error
}

func newMemTodoRepo() *memTodoRepo {
	return &memTodoRepo{todos: map[int64]dom.Todo{}}
}

func (m *memTodoRepo) Create(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	m.nextID++
	t.ID = m.nextID
	t.CreatedAt = time.Now().UTC().Add(time.Duration(m.nextID) * time.Millisecond)
	t.UpdatedAt = t.CreatedAt
	m.todos[t.ID] = t
	return t, nil
}

func (m *memTodoRepo) GetByID(ctx context.Context, id int64) (dom.Todo, error) {
	t, ok := m.todos[id]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	return t, nil
}

func (m *memTodoRepo) ListPage(ctx context.Context, userID int64, q repo.ListQuery) ([]dom.Todo, int64, error) {
	if m.failWith != nil {
		return nil, 0, m.failWith
	}
	var matched []dom.Todo
	for _, t := range m.todos {
		if t.UserID != userID {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			if !strings.Contains(strings.ToLower(t.Title), needle) &&
				!strings.Contains(strings.ToLower(t.Description), needle) {
				continue
			}
		}
		if q.Status == "active" && t.Completed {
			continue
		}
		if q.Status == "completed" && !t.Completed {
			continue
		}
		if q.Priority != "" && t.Priority != q.Priority {
			continue
		}
		matched = append(matched, t)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := int64(len(matched))
	if q.Offset >= len(matched) {
		return nil, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.Offset:end], total, nil
}

func (m *memTodoRepo) Update(ctx context.Context, t dom.Todo) (dom.Todo, error) {
	existing, ok := m.todos[t.ID]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.UserID = existing.UserID
	t.CreatedAt = existing.CreatedAt
	m.todos[t.ID] = t
	return t, nil
}

func (m *memTodoRepo) SetCompleted(ctx context.Context, id int64, completed bool) (dom.Todo, error) {
	t, ok := m.todos[id]
	if !ok {
		return dom.Todo{}, pgx.ErrNoRows
	}
	t.Completed = completed
	m.todos[id] = t
	return t, nil
}

func (m *memTodoRepo) Delete(ctx context.Context, id int64) error {
	delete(m.todos, id)
	return nil
}

func (m *memTodoRepo) Counts(ctx context.Context, userID int64) (repo.Counts, error) {
	var c repo.Counts
	for _, t := range m.todos {
		if t.UserID != userID {
			continue
		}
		c.Total++
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
		if t.Priority == dom.PriorityHigh {
			c.HighPriority++
		}
	}
	return c, nil
}

func (m *memTodoRepo) CountsCreatedBetween(ctx context.Context, userID int64, from, to time.Time) (repo.Counts, error) {
	var c repo.Counts
	for _, t := range m.todos {
		if t.UserID != userID || t.CreatedAt.Before(from) || t.CreatedAt.After(to) {
			continue
		}
		c.Total++
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
		if t.Priority == dom.PriorityHigh {
			c.HighPriority++
		}
	}
	return c, nil
}

func newTestRouter(store repo.TodoRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTodoHandler(service.NewTodoService(store, nil))

	api := r.Group("/api/v1", func(c *gin.Context) {
		id, _ := strconv.ParseInt(c.GetHeader("X-Test-User"), 10, 64)
		auth.SetUserID(c, id)
	})
	api.GET("/dashboard", h.Dashboard)
	api.GET("/todos", h.List)
	api.POST("/todos", h.Create)
	api.GET("/todos/:id", h.GetByID)
	api.PUT("/todos/:id", h.Update)
	api.PATCH("/todos/:id/toggle", h.Toggle)
	api.DELETE("/todos/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, userID int64, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Test-User", strconv.FormatInt(userID, 10))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

const validTodoBody = `{"title":"Project plan","description":"draft it","priority":"high","start_date":"2025-05-10","end_date":"2025-05-12"}`

func TestCreateTodoEndpoint(t *testing.T) {
	r := newTestRouter(newMemTodoRepo())

	rec := doJSON(t, r, 1, http.MethodPost, "/api/v1/todos", validTodoBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status: %d (%s)", rec.Code, rec.Body.String())
	}

	var res struct {
		Message string           `json:"message"`
		Todo    dto.TodoResponse `json:"todo"`
	}
	decode(t, rec, &res)
	if res.Message != "Todo created successfully." {
		t.Fatalf("message: %q", res.Message)
	}
	if res.Todo.Completed {
		t.Fatal("new todo must start incomplete")
	}
	if res.Todo.Priority != "high" || res.Todo.Title != "Project plan" {
		t.Fatalf("echoed todo: %+v", res.Todo)
	}
}

func TestCreateTodoValidation(t *testing.T) {
	r := newTestRouter(newMemTodoRepo())

	body := `{"title":"","priority":"urgent","start_date":"2025-05-10","end_date":"2025-05-05"}`
	rec := doJSON(t, r, 1, http.MethodPost, "/api/v1/todos", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected status: %d (%s)", rec.Code, rec.Body.String())
	}

	var res struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, rec, &res)
	for _, field := range []string{"title", "priority", "end_date"} {
		if res.Errors[field] == "" {
			t.Fatalf("expected error on %q, got %v", field, res.Errors)
		}
	}
}

func TestMutationsByNonOwner(t *testing.T) {
	store := newMemTodoRepo()
	r := newTestRouter(store)

	rec := doJSON(t, r, 1, http.MethodPost, "/api/v1/todos", validTodoBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("setup create failed: %d", rec.Code)
	}

	for _, tc := range []struct {
		method, path string
		body         string
	}{
		{http.MethodGet, "/api/v1/todos/1", ""},
		{http.MethodPut, "/api/v1/todos/1", validTodoBody},
		{http.MethodPatch, "/api/v1/todos/1/toggle", ""},
		{http.MethodDelete, "/api/v1/todos/1", ""},
	} {
		rec := doJSON(t, r, 2, tc.method, tc.path, tc.body)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s as non-owner: got %d, want 403", tc.method, tc.path, rec.Code)
		}
	}

	if _, ok := store.todos[1]; !ok {
		t.Fatal("non-owner requests must not mutate state")
	}
}

func TestUnknownTodoBecomes404(t *testing.T) {
	r := newTestRouter(newMemTodoRepo())
	rec := doJSON(t, r, 1, http.MethodPatch, "/api/v1/todos/42/toggle", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", rec.Code)
	}
}

func TestToggleEndpoint(t *testing.T) {
	r := newTestRouter(newMemTodoRepo())
	doJSON(t, r, 1, http.MethodPost, "/api/v1/todos", validTodoBody)

	rec := doJSON(t, r, 1, http.MethodPatch, "/api/v1/todos/1/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var res struct {
		Todo dto.TodoResponse `json:"todo"`
	}
	decode(t, rec, &res)
	if !res.Todo.Completed {
		t.Fatal("toggle should complete the todo")
	}
}

func TestDeleteEndpoint(t *testing.T) {
	store := newMemTodoRepo()
	r := newTestRouter(store)
	doJSON(t, r, 1, http.MethodPost, "/api/v1/todos", validTodoBody)

	rec := doJSON(t, r, 1, http.MethodDelete, "/api/v1/todos/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if len(store.todos) != 0 {
		t.Fatal("todo not deleted")
	}
}

func TestListEndpointPaginationLinks(t *testing.T) {
	r := newTestRouter(newMemTodoRepo())
	for i := 0; i < 12; i++ {
		body := fmt.Sprintf(
			`{"title":"Project %d","priority":"medium","start_date":"2025-05-10","end_date":"2025-05-12"}`, i)
		doJSON(t, r, 1, http.MethodPost, "/api/v1/todos", body)
	}
	doJSON(t, r, 1, http.MethodPost, "/api/v1/todos", validTodoBody) // 13th, also matches

	rec := doJSON(t, r, 1, http.MethodGet, "/api/v1/todos?search=project&page=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var page dto.TodoPageResponse
	decode(t, rec, &page)

	if page.Meta.Total != 13 || page.Meta.LastPage != 2 {
		t.Fatalf("meta: %+v", page.Meta)
	}
	if len(page.Items) != 10 {
		t.Fatalf("expected a full page, got %d items", len(page.Items))
	}
	if !strings.Contains(page.Links.Next, "search=project") {
		t.Fatalf("next link lost the search term: %q", page.Links.Next)
	}
	if !strings.Contains(page.Links.Next, "page=2") {
		t.Fatalf("next link: %q", page.Links.Next)
	}
}

func TestListEndpointOwnerScoped(t *testing.T) {
	r := newTestRouter(newMemTodoRepo())
	doJSON(t, r, 1, http.MethodPost, "/api/v1/todos", validTodoBody)
	doJSON(t, r, 2, http.MethodPost, "/api/v1/todos", validTodoBody)

	rec := doJSON(t, r, 1, http.MethodGet, "/api/v1/todos", "")
	var page dto.TodoPageResponse
	decode(t, rec, &page)
	if page.Meta.Total != 1 {
		t.Fatalf("expected only owner 1's todo, got total %d", page.Meta.Total)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	r := newTestRouter(newMemTodoRepo())
	doJSON(t, r, 1, http.MethodPost, "/api/v1/todos", validTodoBody)

	rec := doJSON(t, r, 1, http.MethodGet, "/api/v1/dashboard?search=proj&status=active", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var res dto.DashboardResponse
	decode(t, rec, &res)

	if res.Stats.Total != 1 || res.Stats.Active != 1 || res.Stats.HighPriority != 1 {
		t.Fatalf("stats: %+v", res.Stats)
	}
	if res.Stats.Total != res.Stats.Completed+res.Stats.Active {
		t.Fatalf("total must equal completed+active: %+v", res.Stats)
	}
	if res.Filters.Search != "proj" || res.Filters.Status != "active" || res.Filters.Priority != "all" {
		t.Fatalf("filters echo: %+v", res.Filters)
	}
	if res.Todos.Meta.Total != 1 {
		t.Fatalf("todos: %+v", res.Todos.Meta)
	}
}

func TestListStorageErrorNotExposed(t *testing.T) {
	store := newMemTodoRepo()
	store.failWith = errors.New(`connect to "db.internal:5432": connection refused`)
	r := newTestRouter(store)

	rec := doJSON(t, r, 1, http.MethodGet, "/api/v1/todos", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var res map[string]string
	decode(t, rec, &res)
	if res["error"] != "internal error" {
		t.Fatalf("body must be generic, got %q", res["error"])
	}
	if strings.Contains(rec.Body.String(), "db.internal") {
		t.Fatalf("storage detail leaked: %s", rec.Body.String())
	}
}

func TestListUnknownFiltersNormalized(t *testing.T) {
	r := newTestRouter(newMemTodoRepo())
	doJSON(t, r, 1, http.MethodPost, "/api/v1/todos", validTodoBody)

	rec := doJSON(t, r, 1, http.MethodGet, "/api/v1/dashboard?status=done&priority=urgent", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var res dto.DashboardResponse
	decode(t, rec, &res)

	// Unknown values are treated as "all"; the echo and the links must agree
	// with that instead of repeating the raw query.
	if res.Filters.Status != "all" || res.Filters.Priority != "all" {
		t.Fatalf("filters echo: %+v", res.Filters)
	}
	if res.Todos.Meta.Total != 1 {
		t.Fatalf("unknown filters must not narrow results: %+v", res.Todos.Meta)
	}
	for _, link := range []string{res.Todos.Links.First, res.Todos.Links.Last} {
		if strings.Contains(link, "status=") || strings.Contains(link, "priority=") {
			t.Fatalf("link carries ignored filter: %q", link)
		}
	}
}
