package handlers

import (
	"strconv"

	"lendinghub/internal/core/domain"
	"lendinghub/internal/core/services"
	"lendinghub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ItemHandler handles catalog and lending endpoints
type ItemHandler struct {
	lendingService *services.LendingService
}

// NewItemHandler creates a new item handler
func NewItemHandler(lendingService *services.LendingService) *ItemHandler {
	return &ItemHandler{
		lendingService: lendingService,
	}
}

// ItemRequest represents create/update item request.
// Lending fields in the body are ignored.
type ItemRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// BorrowRequest represents borrow request body, used when user_id is not in the query
type BorrowRequest struct {
	UserID string `json:"user_id"`
}

// Create adds a new item
// @Summary Add item
// @Description Add a new item to the catalog. New items are always available.
// @Tags Items
// @Accept json
// @Produce json
// @Param body body ItemRequest true "Item data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	item, err := h.lendingService.AddItem(c.Context(), &domain.Item{
		Title:  req.Title,
		Author: req.Author,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to add item")
	}

	return response.Created(c, "Item added successfully", fiber.Map{
		"item": item,
	})
}

// List lists all items
// @Summary List items
// @Tags Items
// @Produce json
// @Success 200 {object} response.Response
// @Router /items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	items, err := h.lendingService.ListItems(c.Context())
	if err != nil {
		return handleServiceError(c, err, "Failed to list items")
	}

	return response.Success(c, "Items retrieved successfully", fiber.Map{
		"items": items,
		"total": len(items),
	})
}

// Search searches items
// @Summary Search items
// @Description Case-insensitive substring match on title and author; all supplied criteria must match
// @Tags Items
// @Produce json
// @Param title query string false "Title contains"
// @Param author query string false "Author contains"
// @Param available query bool false "Availability"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /items/search [get]
func (h *ItemHandler) Search(c *fiber.Ctx) error {
	var filter domain.ItemFilter

	if title := c.Query("title"); title != "" {
		filter.Title = &title
	}
	if author := c.Query("author"); author != "" {
		filter.Author = &author
	}
	if raw := c.Query("available"); raw != "" {
		available, err := strconv.ParseBool(raw)
		if err != nil {
			return handleServiceError(c, &domain.InvalidInputError{Field: "available", Reason: "must be true or false"}, "")
		}
		filter.Available = &available
	}

	items, err := h.lendingService.SearchItems(c.Context(), filter)
	if err != nil {
		return handleServiceError(c, err, "Failed to search items")
	}

	return response.Success(c, "Items retrieved successfully", fiber.Map{
		"items": items,
		"total": len(items),
	})
}

// GetByID gets an item by ID
// @Summary Get item by ID
// @Tags Items
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return handleServiceError(c, err, "")
	}

	item, err := h.lendingService.GetItem(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err, "Failed to get item")
	}

	return response.Success(c, "Item retrieved successfully", fiber.Map{
		"item": item,
	})
}

// Update replaces title and author of an item
// @Summary Update item
// @Description Replace title and author. Lending state is not changed.
// @Tags Items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param body body ItemRequest true "Item data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return handleServiceError(c, err, "")
	}

	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	item, err := h.lendingService.UpdateItem(c.Context(), id, services.ItemDetails{
		Title:  req.Title,
		Author: req.Author,
	})
	if err != nil {
		return handleServiceError(c, err, "Failed to update item")
	}

	return response.Success(c, "Item updated successfully", fiber.Map{
		"item": item,
	})
}

// Delete deletes an item
// @Summary Delete item
// @Tags Items
// @Param id path string true "Item ID"
// @Success 204
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return handleServiceError(c, err, "")
	}

	if err := h.lendingService.DeleteItem(c.Context(), id); err != nil {
		return handleServiceError(c, err, "Failed to delete item")
	}

	return response.NoContent(c)
}

// Borrow lends an item to a user
// @Summary Borrow item
// @Tags Lending
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param user_id query string true "Borrowing user ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /items/{id}/borrow [post]
func (h *ItemHandler) Borrow(c *fiber.Ctx) error {
	itemID, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return handleServiceError(c, err, "")
	}

	rawUserID := c.Query("user_id")
	if rawUserID == "" && len(c.Body()) > 0 {
		var req BorrowRequest
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
		rawUserID = req.UserID
	}
	userID, err := parseUUID(rawUserID, "user_id")
	if err != nil {
		return handleServiceError(c, err, "")
	}

	item, err := h.lendingService.BorrowItem(c.Context(), itemID, userID)
	if err != nil {
		return handleServiceError(c, err, "Failed to borrow item")
	}

	return response.Success(c, "Item borrowed successfully", fiber.Map{
		"item": item,
	})
}

// Return returns a borrowed item
// @Summary Return item
// @Tags Lending
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /items/{id}/return [post]
func (h *ItemHandler) Return(c *fiber.Ctx) error {
	itemID, err := parseUUID(c.Params("id"), "id")
	if err != nil {
		return handleServiceError(c, err, "")
	}

	item, err := h.lendingService.ReturnItem(c.Context(), itemID)
	if err != nil {
		return handleServiceError(c, err, "Failed to return item")
	}

	return response.Success(c, "Item returned successfully", fiber.Map{
		"item": item,
	})
}
