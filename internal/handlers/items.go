package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bidpoint/backend/internal/auth"
	"github.com/bidpoint/backend/internal/models"
	"github.com/bidpoint/backend/internal/search"
	pkghttp "github.com/bidpoint/backend/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ItemService defines the interface for catalog business logic
type ItemService interface {
	CreateItem(ctx context.Context, ownerUsername string, item *models.Item, categoryNames []string) (*models.Item, error)
	GetItem(ctx context.Context, id string) (*models.Item, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	SearchItems(ctx context.Context, c search.Criteria, page search.PageRequest) (*search.Result, error)
}

// PageLimits bounds the page size accepted by the search endpoint.
type PageLimits struct {
	DefaultSize int
	MaxSize     int
}

type ItemHandler struct {
	service ItemService
	limits  PageLimits
}

func NewItemHandler(service ItemService, limits PageLimits) *ItemHandler {
	return &ItemHandler{service: service, limits: limits}
}

type CreateItemRequest struct {
	Name          string    `json:"name" validate:"required,min=1,max=200"`
	Description   string    `json:"description" validate:"max=5000"`
	StartingPrice float64   `json:"starting_price" validate:"gte=0"`
	BuyPrice      *float64  `json:"buy_price" validate:"omitempty,gte=0"`
	Active        *bool     `json:"active"`
	DateEnds      time.Time `json:"date_ends" validate:"required"`
	Categories    []string  `json:"categories" validate:"max=20,dive,required,max=100"`
}

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ItemResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	StartingPrice float64            `json:"starting_price"`
	BuyPrice      *float64           `json:"buy_price,omitempty"`
	Active        bool               `json:"active"`
	DateEnds      string             `json:"date_ends"`
	Owner         string             `json:"owner"`
	Categories    []CategoryResponse `json:"categories"`
	CreatedAt     string             `json:"created_at"`
}

// SearchResponse is one page of a search plus paging metadata.
type SearchResponse struct {
	Items      []*ItemResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalPages int             `json:"total_pages"`
}

func itemModelToResponse(item *models.Item) *ItemResponse {
	cats := make([]CategoryResponse, 0, len(item.Categories))
	for _, c := range item.Categories {
		cats = append(cats, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return &ItemResponse{
		ID:            item.ID,
		Name:          item.Name,
		Description:   item.Description,
		StartingPrice: item.StartingPrice,
		BuyPrice:      item.BuyPrice,
		Active:        item.Active,
		DateEnds:      item.DateEnds.UTC().Format(time.RFC3339),
		Owner:         item.OwnerUsername,
		Categories:    cats,
		CreatedAt:     item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Search runs the filtered item query.
//
// Query parameters: categories (repeatable or comma separated), searchTerm,
// active, isEnded (TRUE|FALSE|NONE), username, page, size, sort (repeatable,
// "field" or "field,desc").
//
// @Router /items/search [get]
func (h *ItemHandler) Search(w http.ResponseWriter, r *http.Request) {
	criteria, page, err := parseSearchQuery(r.URL.Query(), h.limits)
	if err != nil {
		if errors.Is(err, models.ErrInvalidSortField) {
			writeServiceError(w, err)
			return
		}
		pkghttp.WriteInvalidRequest(w, "Invalid search parameters", err.Error())
		return
	}

	result, err := h.service.SearchItems(r.Context(), criteria, page)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := SearchResponse{
		Items:      make([]*ItemResponse, 0, len(result.Items)),
		Total:      result.Total,
		Page:       result.Page,
		Size:       result.Size,
		TotalPages: result.TotalPages(),
	}
	for _, item := range result.Items {
		resp.Items = append(resp.Items, itemModelToResponse(item))
	}
	pkghttp.WriteJSON(w, http.StatusOK, resp)
}

func parseSearchQuery(q url.Values, limits PageLimits) (search.Criteria, search.PageRequest, error) {
	var (
		c    search.Criteria
		page = search.PageRequest{Size: limits.DefaultSize}
		err  error
	)

	for _, raw := range q["categories"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Categories = append(c.Categories, name)
			}
		}
	}
	c.SearchTerm = nonBlank(q.Get("searchTerm"))
	c.Username = nonBlank(q.Get("username"))

	if c.Active, err = search.ParseFilterMode(q.Get("active")); err != nil {
		return c, page, fmt.Errorf("active: %w", err)
	}
	if c.IsEnded, err = search.ParseFilterMode(q.Get("isEnded")); err != nil {
		return c, page, fmt.Errorf("isEnded: %w", err)
	}

	if v := q.Get("page"); v != "" {
		if page.Page, err = strconv.Atoi(v); err != nil || page.Page < 0 {
			return c, page, fmt.Errorf("page must be a non-negative integer")
		}
	}
	if v := q.Get("size"); v != "" {
		if page.Size, err = strconv.Atoi(v); err != nil || page.Size <= 0 {
			return c, page, fmt.Errorf("size must be a positive integer")
		}
	}
	if limits.MaxSize > 0 && page.Size > limits.MaxSize {
		page.Size = limits.MaxSize
	}

	for _, raw := range q["sort"] {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		order, err := search.ParseSortOrder(raw)
		if err != nil {
			return c, page, err
		}
		page.Sort = append(page.Sort, order)
	}

	return c, page, nil
}

// nonBlank returns s unchanged, or "" when s holds only whitespace.
func nonBlank(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// GetItem returns one item by id.
//
// @Router /items/{id} [get]
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.service.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, itemModelToResponse(item))
}

// CreateItem lists a new item owned by the caller.
//
// @Router /items [post]
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUserFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	var req CreateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}
	if req.BuyPrice != nil && *req.BuyPrice < req.StartingPrice {
		pkghttp.WriteBadRequest(w, "validation failed: BuyPrice: must be greater than or equal to StartingPrice")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	item, err := h.service.CreateItem(r.Context(), claims.Username, &models.Item{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		StartingPrice: req.StartingPrice,
		BuyPrice:      req.BuyPrice,
		Active:        active,
		DateEnds:      req.DateEnds.UTC(),
	}, req.Categories)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusCreated, itemModelToResponse(item))
}

// ListCategories returns every known category.
//
// @Router /categories [get]
func (h *ItemHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, CategoryResponse{ID: c.ID, Name: c.Name})
	}
	pkghttp.WriteJSON(w, http.StatusOK, resp)
}
