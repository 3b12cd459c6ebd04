package routes

import (
	"net/http"

	"fitpass/attendance"
	"fitpass/auth"
	"fitpass/gyms"
	"fitpass/middleware"
	"fitpass/pay"
	"fitpass/ratelim"
	"fitpass/trials"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/gymlogos/*filepath", http.Dir("static/gymlogos"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/refresh", rl.Limit(auth.RefreshToken))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
}

func AddGymRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/gyms", rl.Limit(middleware.Authenticate(gyms.Register)))
	router.GET("/api/gyms", gyms.List)
	router.GET("/api/gyms/:gymid", gyms.Get)
	router.PATCH("/api/gyms/:gymid/status", middleware.RequireRole("admin", gyms.SetStatus))
	router.POST("/api/gyms/:gymid/logo", middleware.Authenticate(gyms.UploadLogo))

	router.POST("/api/gyms/:gymid/members", middleware.Authenticate(gyms.CreateMember))
	router.GET("/api/gyms/:gymid/members", middleware.Authenticate(gyms.ListMembers))
	router.GET("/api/gyms/:gymid/members/:id", middleware.Authenticate(gyms.GetMember))
	router.PATCH("/api/gyms/:gymid/members/:id", middleware.Authenticate(gyms.UpdateMember))
	router.DELETE("/api/gyms/:gymid/members/:id", middleware.Authenticate(gyms.DeleteMember))
	router.GET("/api/gyms/:gymid/members/:id/badge", middleware.Authenticate(gyms.MemberBadge))

	router.POST("/api/gyms/:gymid/trainers", middleware.Authenticate(gyms.CreateTrainer))
	router.GET("/api/gyms/:gymid/trainers", middleware.Authenticate(gyms.ListTrainers))
	router.DELETE("/api/gyms/:gymid/trainers/:id", middleware.Authenticate(gyms.DeleteTrainer))
}

func AddTrialRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/trials/bookings", rl.Limit(middleware.OptionalAuth(trials.CreateTrialBooking)))
	router.GET("/api/trials/bookings", middleware.Authenticate(trials.ListTrialBookings))
	router.PATCH("/api/trials/bookings/:id/status", middleware.Authenticate(trials.UpdateBookingStatus))
	router.DELETE("/api/trials/bookings/:id", middleware.RequireRole("admin", trials.DeleteTrialBooking))
	router.POST("/api/trials/bookings/:id/cancel", middleware.Authenticate(trials.CancelTrialBooking))
	router.GET("/api/trials/availability", middleware.Authenticate(trials.CheckTrialAvailability))
	router.GET("/api/trials/history", middleware.Authenticate(trials.GetTrialHistory))
}

func AddAttendanceRoutes(router *httprouter.Router) {
	router.POST("/api/attendance/mark", middleware.Authenticate(attendance.Mark))
	router.GET("/api/attendance/calendar", middleware.Authenticate(attendance.Calendar))
	router.GET("/api/attendance/ws/:gymid", attendance.HandleWS)
}

func AddPaymentRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/gyms/:gymid/payments", rl.Limit(middleware.Authenticate(pay.CreatePayment)))
	router.GET("/api/gyms/:gymid/payments", middleware.Authenticate(pay.ListPayments))
	router.POST("/api/payments/cash/verify", rl.Limit(middleware.Authenticate(pay.VerifyCashCode)))
	router.GET("/api/payments/:id/receipt", middleware.Authenticate(pay.Receipt))
}
