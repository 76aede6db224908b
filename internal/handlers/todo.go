package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/rafdmrs/Faelist-todo-App/internal/auth"
	dom "github.com/rafdmrs/Faelist-todo-App/internal/domain"
	"github.com/rafdmrs/Faelist-todo-App/internal/dto"
	"github.com/rafdmrs/Faelist-todo-App/internal/service"

	"github.com/gin-gonic/gin"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Dashboard godoc
// @Summary      Dashboard: paginated todos plus aggregate stats
// @Tags         dashboard
// @Produce      json
// @Security     CookieAuth
// @Param        search    query  string  false  "Substring match on title or description"
// @Param        status    query  string  false  "all | active | completed"
// @Param        priority  query  string  false  "all | low | medium | high"
// @Param        page      query  int     false  "1-based page number"
// @Success      200  {object}  dto.DashboardResponse
// @Failure      500  {object}  map[string]string
// @Router       /dashboard [get]
func (h *TodoHandler) Dashboard(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	opts, filters := listParams(c)

	page, err := h.svc.List(c.Request.Context(), userID, opts)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	stats, err := h.svc.Stats(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DashboardResponse{
		Todos:   pageToResponse(c.Request.URL.Path, page, filters),
		Stats:   statsToResponse(stats),
		Filters: filters,
	})
}

// List godoc
// @Summary      List todos (paginated, filterable)
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Param        search    query  string  false  "Substring match on title or description"
// @Param        status    query  string  false  "all | active | completed"
// @Param        priority  query  string  false  "all | low | medium | high"
// @Param        page      query  int     false  "1-based page number"
// @Success      200  {object}  dto.TodoPageResponse
// @Failure      500  {object}  map[string]string
// @Router       /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	opts, filters := listParams(c)

	page, err := h.svc.List(c.Request.Context(), userID, opts)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pageToResponse(c.Request.URL.Path, page, filters))
}

// GetByID godoc
// @Summary      Get a todo by ID
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id} [get]
func (h *TodoHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Get(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, todoToResponse(t))
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]map[string]string
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		StartDate:   req.StartDate.Ptr(),
		EndDate:     req.EndDate.Ptr(),
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Todo created successfully.", "todo": todoToResponse(t)})
}

// Update godoc
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      int  true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Full replacement of mutable fields"
// @Success      200   {object}  dto.TodoResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]map[string]string
// @Router       /todos/{id} [put]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, service.TodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		StartDate:   req.StartDate.Ptr(),
		EndDate:     req.EndDate.Ptr(),
		Completed:   req.Completed,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo updated successfully.", "todo": todoToResponse(t)})
}

// Toggle godoc
// @Summary      Flip the completed flag
// @Tags         todos
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Todo ID"
// @Success      200  {object}  dto.TodoResponse
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id}/toggle [patch]
func (h *TodoHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.Toggle(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Todo status updated.", "todo": todoToResponse(t)})
}

// Delete godoc
// @Summary      Delete a todo permanently
// @Tags         todos
// @Security     CookieAuth
// @Param        id   path  int  true  "Todo ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func listParams(c *gin.Context) (service.ListOptions, dto.ListFilters) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	// Unknown filter values mean "all"; mirror that in the echoed filters so
	// pagination links never carry values the server ignored.
	status := c.DefaultQuery("status", "all")
	if status != "active" && status != "completed" {
		status = "all"
	}
	priority := c.DefaultQuery("priority", "all")
	if !dom.Priority(priority).Valid() {
		priority = "all"
	}

	opts := service.ListOptions{
		Search: c.Query("search"),
		Page:   page,
	}
	if status != "all" {
		opts.Status = status
	}
	if priority != "all" {
		opts.Priority = priority
	}
	filters := dto.ListFilters{
		Search:   opts.Search,
		Status:   status,
		Priority: priority,
	}
	return opts, filters
}

func writeServiceError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		// Storage errors carry connection details; keep them in the log only.
		log.Printf("handler: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func pageToResponse(basePath string, p service.Page, filters dto.ListFilters) dto.TodoPageResponse {
	meta := dto.NewPageMeta(p.Total, p.Page, p.PerPage)
	return dto.TodoPageResponse{
		Items: todosToResponses(p.Items),
		Meta:  meta,
		Links: dto.NewPageLinks(basePath, filters, meta),
	}
}

func statsToResponse(s service.StatsSnapshot) dto.StatsResponse {
	return dto.StatsResponse{
		Total:        s.Total,
		Completed:    s.Completed,
		Active:       s.Active,
		HighPriority: s.HighPriority,

		TotalChange:        s.TotalChange,
		CompletedChange:    s.CompletedChange,
		ActiveChange:       s.ActiveChange,
		HighPriorityChange: s.HighPriorityChange,
	}
}

func todoToResponse(t dom.Todo) dto.TodoResponse {
	return dto.TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func todosToResponses(list []dom.Todo) []dto.TodoResponse {
	out := make([]dto.TodoResponse, len(list))
	for i := range list {
		out[i] = todoToResponse(list[i])
	}
	return out
}
