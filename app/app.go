package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"fightcards/app/controller"
	"fightcards/app/router"
	"fightcards/compositor"
	"fightcards/db"
	"fightcards/models"
	"fightcards/pricing"
	"fightcards/preview"
	"fightcards/repository"
	"fightcards/service"
)

// sweepInterval is how often idle editing sessions are evicted
const sweepInterval = 10 * time.Minute

// Initialize initializes the application and registers its routes on mux
func Initialize(ctx context.Context, cfg *Config, mux *http.ServeMux) error {
	// Initialize database connection when configured; orders need it
	hasDB := HasDatabase()
	if hasDB {
		if err := db.InitDB(ctx); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	} else {
		log.Printf("⚠️ No database configured: order routes are disabled")
	}

	// Template catalog
	var source service.TemplateSource = service.CodeTemplateSource{}
	if cfg.TemplateSource == TemplateSourceDatabase {
		source = service.NewDatabaseTemplateSource(repository.NewTemplateRepository())
	}
	catalog := service.NewTemplateCatalog(source)
	if err := catalog.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	// Image hosting
	var (
		host  service.ImageHost
		drive service.DriveServiceInterface
	)
	local, err := service.NewLocalImageHost(cfg.ImageDir, cfg.PublicBaseURL)
	if err != nil {
		return err
	}
	switch cfg.ImageHost {
	case ImageHostDrive:
		driveService, err := service.NewDriveService(ctx, cfg.CredentialsPath, cfg.DriveFolderID)
		if err != nil {
			return err
		}
		host = driveService
		drive = driveService
	default:
		host = local
	}
	models.SetPhotoOrigins(cfg.PublicBaseURL + service.LocalImagePrefix)
	// Earlier local exports stay reachable even when new ones go to Drive
	images := http.FileServer(http.Dir(local.Dir()))

	assets := service.NewImageLoader(
		&http.Client{Timeout: 30 * time.Second},
		cfg.PublicBaseURL,
		drive,
		service.LocalRoot{Prefix: service.LocalImagePrefix, Dir: cfg.ImageDir},
		service.LocalRoot{Prefix: "/", Dir: cfg.AssetDir},
	)

	// Rendering
	fonts, err := compositor.LoadFonts()
	if err != nil {
		return err
	}
	cards := compositor.New(fonts, compositor.Options{Scale: cfg.ExportScale, StatStyle: cfg.StatStyle})
	renderer, err := preview.NewRenderer(assets, cfg.StatStyle)
	if err != nil {
		return err
	}
	snapshotter := service.NewPreviewSnapshotter(cfg.ChromePath, 2)

	// Sessions
	var remover service.BackgroundRemover
	if cfg.PixianAPIID != "" && cfg.PixianAPISecret != "" {
		remover = service.NewPixianClient(nil, cfg.PixianAPIURL, cfg.PixianAPIID, cfg.PixianAPISecret)
	} else {
		log.Printf("⚠️ PIXIAN_API_ID/PIXIAN_API_SECRET not set: background removal is disabled")
	}
	sessions := service.NewSessionService(catalog, remover)
	go sweepSessions(ctx, sessions)

	// Orders
	var (
		attacher        service.OrderAttacher
		orderController *controller.OrderController
	)
	if hasDB {
		engine, err := pricing.NewEngine(cfg.PricingConfig)
		if err != nil {
			return err
		}
		orderRepo := repository.NewOrderRepository()
		attacher = orderRepo

		orders := service.NewOrderService(orderRepo, sessions, engine, assets, cfg.IsDevelopment())
		cache, err := service.NewThumbnailCache(cfg.CacheDir)
		if err != nil {
			return err
		}
		labels := service.NewLabelService(orders, assets, fonts, cache, cfg.PublicBaseURL)
		orderController = controller.NewOrderController(orders, labels)
	}

	exports := service.NewExportService(catalog, assets, cards, host, attacher, sessions, cfg.ExportFormat, cfg.ExportJPEGQuality)

	// Create controllers
	controllers := &router.Controllers{
		Template: controller.NewTemplateController(catalog),
		Session:  controller.NewSessionController(sessions, exports, catalog, renderer, snapshotter),
		Order:    orderController,
		Images:   images,
	}

	// Setup routes using standard http router
	router.SetupRoutes(mux, controllers)

	templates, _ := catalog.List(ctx)
	log.Printf("🎨 Fight cards ready: %d templates, export %s at scale %.1f, images on %s",
		len(templates), cfg.ExportFormat, cfg.ExportScale, cfg.ImageHost)
	return nil
}

// sweepSessions evicts idle sessions until ctx is done
func sweepSessions(ctx context.Context, sessions *service.SessionService) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				log.Printf("🔄 Swept %d idle sessions", n)
			}
		}
	}
}
