package http

import (
	"net/http"

	"novacare-booking/internal/delivery/http/handler"
	"novacare-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	clinicHandler       *handler.ClinicHandler
	authHandler         *handler.AuthHandler
	doctorHandler       *handler.DoctorHandler
	availabilityHandler *handler.AvailabilityHandler
	bookingHandler      *handler.BookingHandler
	auditLogHandler     *handler.AuditLogHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	clinicHandler *handler.ClinicHandler,
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	availabilityHandler *handler.AvailabilityHandler,
	bookingHandler *handler.BookingHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		clinicHandler:       clinicHandler,
		authHandler:         authHandler,
		doctorHandler:       doctorHandler,
		availabilityHandler: availabilityHandler,
		bookingHandler:      bookingHandler,
		auditLogHandler:     auditLogHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() http.Handler {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public site
	api.HandleFunc("/clinic", r.clinicHandler.GetClinic).Methods(http.MethodGet)
	api.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/slots", r.availabilityHandler.GetAvailableSlots).Methods(http.MethodGet)
	api.HandleFunc("/bookings", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings/lookup", r.bookingHandler.LookupBookings).Methods(http.MethodGet)

	// Auth routes (public)
	api.HandleFunc("/auth/login", r.authHandler.Login).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// Booking desk (any staff role)
	staff := api.PathPrefix("/bookings").Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)
	staff.HandleFunc("", r.bookingHandler.ListBookings).Methods(http.MethodGet)
	staff.HandleFunc("/today", r.bookingHandler.GetTodayBookings).Methods(http.MethodGet)
	staff.HandleFunc("/{id}", r.bookingHandler.GetBooking).Methods(http.MethodGet)
	staff.HandleFunc("/{id}/status", r.bookingHandler.UpdateBookingStatus).Methods(http.MethodPatch)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Staff accounts
	admin.HandleFunc("/staff", r.authHandler.CreateStaff).Methods(http.MethodPost)

	// Doctor directory
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}/working-hours", r.doctorHandler.AddWorkingHours).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}/working-hours", r.doctorHandler.ListWorkingHours).Methods(http.MethodGet)
	admin.HandleFunc("/working-hours/{id}", r.doctorHandler.DeleteWorkingHours).Methods(http.MethodDelete)
	admin.HandleFunc("/doctors/{id}/fees", r.doctorHandler.SetFees).Methods(http.MethodPut)

	// Audit trail
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// CORS wraps the router so preflight requests never reach route matching
	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
