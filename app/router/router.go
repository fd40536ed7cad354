package router

import (
	"net/http"

	"radha-kanna-retail/app/controller"
)

type Controllers struct {
	Category *controller.CategoryController
	Sync     *controller.SyncController
	Viewer   *controller.ViewerController
	Cart     *controller.CartController
	Export   *controller.CatalogExportController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Admin catalog routes - handles both GET (list) and POST (create)
	http.HandleFunc("/admin/categories", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			controllers.Category.ListCatalog(w, r)
		} else if r.Method == http.MethodPost {
			controllers.Category.CreateCategory(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Item routes under a category (add, edit, delete, move, preview)
	http.HandleFunc("/admin/categories/", controllers.Category.HandleItemPath)

	// Upload all not-yet-synced items
	http.HandleFunc("/admin/upload", controllers.Sync.UploadAll)

	// Printable catalog
	http.HandleFunc("/admin/catalog/render", controllers.Export.Render)
	http.HandleFunc("/admin/catalog/pdf", controllers.Export.PDF)
	http.HandleFunc("/admin/catalog/png", controllers.Export.PNG)

	// Viewer routes
	http.HandleFunc("/api/getImages", controllers.Viewer.GetImages)
	http.HandleFunc("/images/", controllers.Viewer.ListCategoryImages)

	// Cart routes
	http.HandleFunc("/api/cart", controllers.Cart.GetCart)
	http.HandleFunc("/api/cart/items", controllers.Cart.AddToCart)
	http.HandleFunc("/api/cart/items/", controllers.Cart.RemoveFromCart)
}
