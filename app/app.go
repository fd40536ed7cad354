package app

import (
	"context"
	"fmt"
	"os"

	"radha-kanna-retail/app/controller"
	"radha-kanna-retail/app/router"
	"radha-kanna-retail/db"
	"radha-kanna-retail/repository"
	"radha-kanna-retail/service"
)

// newObjectStorage selects the remote image store implementation from
// STORAGE_PROVIDER: "cloudinary" (default) or "drive".
func newObjectStorage() (service.ObjectStorageInterface, error) {
	switch os.Getenv("STORAGE_PROVIDER") {
	case "", "cloudinary":
		return service.NewCloudinaryService(
			os.Getenv("CLOUDINARY_CLOUD_NAME"),
			os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
			os.Getenv("CLOUDINARY_API_KEY"),
			os.Getenv("CLOUDINARY_API_SECRET"),
		)
	case "drive":
		credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
		if credentialsPath == "" {
			return nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS environment variable is not set")
		}
		return service.NewDriveService(credentialsPath, os.Getenv("DRIVE_ROOT_FOLDER_ID"))
	default:
		return nil, fmt.Errorf("unknown STORAGE_PROVIDER: %s", os.Getenv("STORAGE_PROVIDER"))
	}
}

// Initialize initializes the application
func Initialize() error {
	// Initialize database connection
	if err := db.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize remote image store
	storage, err := newObjectStorage()
	if err != nil {
		return err
	}

	// Initialize preview cache
	previews, err := service.NewPreviewService()
	if err != nil {
		return err
	}

	// Initialize catalog store and rehydrate the last session's snapshot
	snapshotRepo := repository.NewSnapshotRepository()
	store := service.NewCatalogStore(snapshotRepo, previews)
	if err := store.Rehydrate(context.Background()); err != nil {
		return err
	}

	// Initialize sync engine and viewer services
	syncEngine := service.NewSyncEngine(store, storage)
	viewer := service.NewViewerService(store, storage)
	carts := service.NewCartService(viewer)

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	export := service.NewCatalogExportService(viewer, baseURL)

	// Create controllers
	controllers := &router.Controllers{
		Category: controller.NewCategoryController(store, previews),
		Sync:     controller.NewSyncController(syncEngine),
		Viewer:   controller.NewViewerController(viewer),
		Cart:     controller.NewCartController(carts),
		Export:   controller.NewCatalogExportController(export),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return nil
}
