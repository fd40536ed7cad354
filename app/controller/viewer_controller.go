package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"radha-kanna-retail/service"
)

// ViewerController handles the read-only catalog listing endpoints
// consumed by the end-user viewer and the admin dashboard.
type ViewerController struct {
	viewer service.ViewerServiceInterface
}

// NewViewerController creates a new ViewerController
func NewViewerController(viewer service.ViewerServiceInterface) *ViewerController {
	return &ViewerController{viewer: viewer}
}

// GetImages handles GET /api/getImages
// Returns the mapping of category to viewer items, assembled from the
// remote store's folder listings.
func (c *ViewerController) GetImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	_, listing, err := c.viewer.Listing(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to fetch images: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(listing); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListCategoryImages handles GET /images/{category}
// Returns the raw folder listing of one category.
func (c *ViewerController) ListCategoryImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	category := strings.TrimPrefix(r.URL.Path, "/images/")
	if category == "" || strings.Contains(category, "/") {
		http.Error(w, "category parameter is required", http.StatusBadRequest)
		return
	}

	objects, err := c.viewer.CategoryObjects(r.Context(), category)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to list images: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(objects); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
