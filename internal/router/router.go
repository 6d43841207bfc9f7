// Package router wires the handler methods onto the Echo instance and
// applies the middleware chain each route group needs.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/bronla/gateway/internal/config"
	"github.com/bronla/gateway/internal/handler"
	"github.com/bronla/gateway/internal/middleware"
	"github.com/bronla/gateway/internal/model"
)

// RegisterRoutes registers the health check and the service worker. The
// worker script sits at the site root so its scope covers every page.
func RegisterRoutes(e *echo.Echo, p *handler.PushHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/sw.js", p.ServiceWorker)
}

// RegisterAuth registers login, registration and profile routes. Session
// loading is global; only /me mutation requires an authenticated session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.GET("/me", a.Me)
	g.PATCH("/me", a.UpdateMe, middleware.RequireAuth())
}

// RegisterBrowse registers the public discovery surface. The collection,
// feature list and map pins go through the shared response cache;
// per-restaurant pages are cheap upstream calls and stay uncached.
func RegisterBrowse(e *echo.Echo, b *handler.BrowseHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cached := middleware.ResponseCache(cacheCfg, rdb)

	e.GET("/v1/restaurants", b.List, cached)
	e.GET("/v1/restaurants/:slug", b.Detail)
	e.GET("/v1/restaurants/:slug/places", b.Places)
	e.GET("/v1/restaurants/:slug/menu", b.Menu)
	e.GET("/v1/features", b.Features, cached)
	e.GET("/v1/map", b.MapPins, cached)
}

// RegisterBooking registers the booking flow. The routes are session
// aware but not session gated: anonymous browsers pick dates and slots
// freely, only the final submit demands a login.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler) {
	g := e.Group("/v1/booking/:slug")
	g.POST("/query", b.Query)
	g.POST("/select", b.Select)
	g.POST("/submit", b.Submit)
}

// RegisterReservations registers the diner's reservation list behind the
// auth gate.
func RegisterReservations(e *echo.Echo, r *handler.ReservationHandler) {
	g := e.Group("/v1/reservations", middleware.RequireAuth())
	g.GET("", r.List)
	g.GET("/:id", r.Get)
	g.DELETE("/:id", r.Cancel)
}

// RegisterOwner registers the owner console. A role mismatch redirects
// to the home page instead of rendering a forbidden error.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, n *handler.NotifyHandler) {
	g := e.Group("/v1/owner", middleware.RequireRole(model.RoleOwner))

	g.GET("/restaurant", o.Restaurant)
	g.PATCH("/restaurant", o.UpdateRestaurant)

	g.GET("/places", o.Places)
	g.POST("/places", o.CreatePlace)
	g.PATCH("/places/:id", o.UpdatePlace)
	g.DELETE("/places/:id", o.DeletePlace)

	g.GET("/working-hours", o.WorkingHours)
	g.PUT("/working-hours", o.UpdateWorkingHours)

	g.POST("/images", o.UploadImage)
	g.DELETE("/images/:id", o.DeleteImage)
	g.POST("/images/:id/set-main", o.SetMainImage)

	g.GET("/menu/categories", o.MenuCategories)
	g.POST("/menu/categories", o.CreateMenuCategory)
	g.PATCH("/menu/categories/:id", o.UpdateMenuCategory)
	g.DELETE("/menu/categories/:id", o.DeleteMenuCategory)
	g.GET("/menu/items", o.MenuItems)
	g.POST("/menu/items", o.CreateMenuItem)
	g.PATCH("/menu/items/:id", o.UpdateMenuItem)
	g.DELETE("/menu/items/:id", o.DeleteMenuItem)
	g.POST("/menu/items/:id/image", o.UploadMenuItemImage)

	g.GET("/reservations", o.Reservations)
	g.PATCH("/reservations/:id/status", o.UpdateReservationStatus)
	g.GET("/stats", o.Stats)

	g.GET("/notifications/ws", n.Stream)
}

// RegisterAdmin registers the administration console.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler) {
	g := e.Group("/v1/admin", middleware.RequireRole(model.RoleAdmin))

	g.GET("/stats", a.Stats)

	g.GET("/users", a.Users)
	g.POST("/users", a.CreateUser)
	g.GET("/users/:id", a.User)
	g.PATCH("/users/:id", a.UpdateUser)
	g.DELETE("/users/:id", a.DeleteUser)

	g.GET("/restaurants", a.Restaurants)
	g.POST("/restaurants", a.CreateRestaurant)
	g.GET("/restaurants/:id", a.Restaurant)
	g.PATCH("/restaurants/:id", a.UpdateRestaurant)
	g.DELETE("/restaurants/:id", a.DeleteRestaurant)

	g.GET("/reservations", a.Reservations)
}

// RegisterPush registers the Web Push relay endpoints; the key is public,
// subscription management requires a session.
func RegisterPush(e *echo.Echo, p *handler.PushHandler) {
	e.GET("/v1/push/vapid-public-key", p.VapidPublicKey)
	e.POST("/v1/push/subscribe", p.Subscribe, middleware.RequireAuth())
	e.POST("/v1/push/unsubscribe", p.Unsubscribe, middleware.RequireAuth())
}
