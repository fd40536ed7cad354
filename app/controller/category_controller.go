package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"radha-kanna-retail/models"
	"radha-kanna-retail/service"
)

// maxUploadBytes bounds one multipart add-items request.
const maxUploadBytes = 64 << 20

// CategoryController handles HTTP requests for the admin catalog
// editing surface.
type CategoryController struct {
	store    service.CatalogStoreInterface
	previews service.PreviewServiceInterface
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(store service.CatalogStoreInterface, previews service.PreviewServiceInterface) *CategoryController {
	return &CategoryController{
		store:    store,
		previews: previews,
	}
}

// writeStoreError maps the store's error taxonomy onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrIndexOutOfRange):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrPersistence):
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// adminItem is the admin projection of an item, including sync state.
type adminItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Description string `json:"description"`
	RemoteID    string `json:"remoteId,omitempty"`
	RemoteURL   string `json:"remoteUrl,omitempty"`
	Synced      bool   `json:"synced"`
	HasPreview  bool   `json:"hasPreview"`
}

// CreateCategory handles POST /admin/categories
func (c *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := c.store.CreateCategory(r.Context(), req.Name); err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         "success",
		"activeCategory": c.store.ActiveCategory(),
	})
}

// ListCatalog handles GET /admin/categories
// Returns the full catalog in category insertion order.
func (c *CategoryController) ListCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	order := c.store.Categories()
	catalog := make(map[string][]adminItem, len(order))
	for _, category := range order {
		items, err := c.store.Items(category)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		projected := make([]adminItem, 0, len(items))
		for _, item := range items {
			projected = append(projected, adminItem{
				ID:          item.ID,
				Name:        item.Name,
				Price:       item.Price,
				Description: item.Description,
				RemoteID:    item.RemoteID,
				RemoteURL:   item.RemoteURL,
				Synced:      item.Synced(),
				HasPreview:  item.PreviewPath != "",
			})
		}
		catalog[category] = projected
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"activeCategory": c.store.ActiveCategory(),
		"categoryOrder":  order,
		"categories":     catalog,
	})
}

// AddItems handles POST /admin/categories/{category}/items
// Accepts multipart form data; every file becomes one unsynced item.
func (c *CategoryController) AddItems(w http.ResponseWriter, r *http.Request, category string) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, fmt.Sprintf("Invalid multipart form: %v", err), http.StatusBadRequest)
		return
	}

	var files []models.FileUpload
	for _, headers := range r.MultipartForm.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to read file %s: %v", header.Filename, err), http.StatusBadRequest)
				return
			}
			content, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				http.Error(w, fmt.Sprintf("Failed to read file %s: %v", header.Filename, err), http.StatusBadRequest)
				return
			}
			files = append(files, models.FileUpload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Content:     content,
			})
		}
	}

	if err := c.store.AddItems(r.Context(), category, files); err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "success",
		"added":  len(files),
	})
}

// EditItem handles PUT /admin/categories/{category}/items/{index}
func (c *CategoryController) EditItem(w http.ResponseWriter, r *http.Request, category string, index int) {
	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := c.store.EditField(r.Context(), category, index, req.Field, req.Value); err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"status": "success"})
}

// DeleteItem handles DELETE /admin/categories/{category}/items/{index}
func (c *CategoryController) DeleteItem(w http.ResponseWriter, r *http.Request, category string, index int) {
	if err := c.store.DeleteItem(r.Context(), category, index); err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"status": "success"})
}

// MoveItem handles POST /admin/categories/{category}/items/{index}/move
func (c *CategoryController) MoveItem(w http.ResponseWriter, r *http.Request, category string, index int) {
	var req struct {
		To string `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if err := c.store.MoveItem(r.Context(), category, index, req.To); err != nil {
		writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"status": "success"})
}

// GetPreview handles GET /admin/categories/{category}/items/{index}/preview
// Serves the process-local preview of a not-yet-synced item.
func (c *CategoryController) GetPreview(w http.ResponseWriter, r *http.Request, category string, index int) {
	item, err := c.store.Item(category, index)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if item.PreviewPath == "" {
		http.Error(w, "Item has no local preview", http.StatusNotFound)
		return
	}

	data, err := c.previews.Read(item.PreviewPath)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read preview: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(data)
}

// HandleItemPath dispatches /admin/categories/{category}/items... paths.
func (c *CategoryController) HandleItemPath(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/admin/categories/")
	parts := strings.Split(path, "/")

	// {category}/items
	if len(parts) == 2 && parts[1] == "items" {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		c.AddItems(w, r, parts[0])
		return
	}

	// {category}/items/{index}[/move|/preview]
	if len(parts) >= 3 && parts[1] == "items" {
		category := parts[0]
		index, err := strconv.Atoi(parts[2])
		if err != nil {
			http.Error(w, "Invalid item index", http.StatusBadRequest)
			return
		}

		if len(parts) == 3 {
			switch r.Method {
			case http.MethodPut, http.MethodPatch:
				c.EditItem(w, r, category, index)
			case http.MethodDelete:
				c.DeleteItem(w, r, category, index)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		if len(parts) == 4 && parts[3] == "move" && r.Method == http.MethodPost {
			c.MoveItem(w, r, category, index)
			return
		}

		if len(parts) == 4 && parts[3] == "preview" && r.Method == http.MethodGet {
			c.GetPreview(w, r, category, index)
			return
		}
	}

	http.Error(w, "Not found", http.StatusNotFound)
}
