package router

import (
	"net/http"
	"strings"

	"fightcards/app/controller"
)

type Controllers struct {
	Template *controller.TemplateController
	Session  *controller.SessionController
	// Order is nil when no database is configured
	Order *controller.OrderController
	// Images serves locally hosted exports; nil when images live on Drive
	Images http.Handler
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

// ordersUnavailable answers order routes when no database is configured
func ordersUnavailable(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Orders are not available: no database configured", http.StatusServiceUnavailable)
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Templates routes
	mux.HandleFunc("/api/templates", controllers.Template.ListTemplates)
	mux.HandleFunc("/api/templates/", controllers.Template.GetTemplate)
	mux.HandleFunc("/api/flags/validate", controllers.Template.ValidateFlag)

	// Sessions routes
	mux.HandleFunc("/api/sessions", controllers.Session.CreateSession)

	// Session actions (must be matched before the generic /:id route)
	mux.HandleFunc("/api/sessions/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/sessions/"), "/")

		switch {
		case strings.HasSuffix(path, "/photo"):
			controllers.Session.UploadPhoto(w, r)
		case strings.HasSuffix(path, "/remove-background"):
			controllers.Session.RemoveBackground(w, r)
		case strings.HasSuffix(path, "/preview.png"):
			controllers.Session.PreviewPNG(w, r)
		case strings.HasSuffix(path, "/preview"):
			controllers.Session.Preview(w, r)
		case strings.HasSuffix(path, "/export"):
			controllers.Session.Export(w, r)
		case path == "" || strings.Contains(path, "/"):
			http.Error(w, "Not found", http.StatusNotFound)
		case r.Method == http.MethodPatch:
			controllers.Session.UpdateSession(w, r)
		default:
			controllers.Session.GetSession(w, r)
		}
	})

	// Orders routes
	if controllers.Order == nil {
		mux.HandleFunc("/api/orders", ordersUnavailable)
		mux.HandleFunc("/api/orders/", ordersUnavailable)
		mux.HandleFunc("/admin/orders", ordersUnavailable)
		mux.HandleFunc("/admin/orders/", ordersUnavailable)
	} else {
		mux.HandleFunc("/api/orders", controllers.Order.CreateOrder)

		mux.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
			path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/orders/"), "/")

			switch {
			case strings.HasSuffix(path, "/payment"):
				controllers.Order.RecordPayment(w, r)
			case strings.HasSuffix(path, "/download"):
				controllers.Order.Download(w, r)
			default:
				http.Error(w, "Not found", http.StatusNotFound)
			}
		})

		// Admin orders routes
		mux.HandleFunc("/admin/orders", controllers.Order.ListOrders)

		mux.HandleFunc("/admin/orders/", func(w http.ResponseWriter, r *http.Request) {
			path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/orders/"), "/")

			switch {
			case strings.HasSuffix(path, "/label"):
				controllers.Order.GetLabel(w, r)
			case strings.HasSuffix(path, "/thumbnail"):
				controllers.Order.GetThumbnail(w, r)
			case path == "" || strings.Contains(path, "/"):
				http.Error(w, "Not found", http.StatusNotFound)
			case r.Method == http.MethodPatch:
				controllers.Order.UpdateOrderStatus(w, r)
			default:
				controllers.Order.GetOrder(w, r)
			}
		})
	}

	// Hosted card images
	if controllers.Images != nil {
		mux.Handle("/images/", http.StripPrefix("/images/", controllers.Images))
	}
}
