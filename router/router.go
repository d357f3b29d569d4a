package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ita-disc-inventory/backend/controllers"
	"github.com/ita-disc-inventory/backend/middlewares"
	"github.com/ita-disc-inventory/backend/services"
)

// SetupRouter wires the HTTP surface. The mailer is injected so tests
// can substitute a recording double for outbound email.
func SetupRouter(db *gorm.DB, mailer services.Mailer) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	notifier := services.NewNotifier(mailer)
	budgetSvc := services.NewBudgetService(db)
	itemSvc := services.NewItemService(db)
	orderSvc := services.NewOrderService(db, budgetSvc, itemSvc, notifier)

	userCtrl := controllers.NewUserController(db)
	adminCtrl := controllers.NewAdminController(db, orderSvc, budgetSvc)
	therapistCtrl := controllers.NewTherapistController(db, orderSvc)
	generalCtrl := controllers.NewGeneralController(orderSvc, budgetSvc)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/login", userCtrl.Login)
	}

	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireAdmin())
	{
		admin.PUT("/approve/:order_id", adminCtrl.ApproveOrder)
		admin.PUT("/deny/:order_id", adminCtrl.DenyOrder)
		admin.PUT("/revert/:order_id", adminCtrl.RevertOrder)
		admin.PUT("/tracking/:order_id", adminCtrl.AddTrackingNumber)
		admin.PUT("/arrived/:order_id", adminCtrl.OrderArrived)
		admin.PUT("/ready/:order_id", adminCtrl.OrderReady)
		admin.PUT("/budget/:program_id", adminCtrl.UpdateBudget)
		admin.GET("/weekly", adminCtrl.GetWeeklyOrders)
		admin.GET("/users", adminCtrl.GetAllUsers)
		admin.PUT("/users/:user_id", adminCtrl.UpdateUser)
	}

	therapist := r.Group("/therapist")
	therapist.Use(middlewares.AuthMiddleware(), middlewares.RequireTherapist())
	{
		therapist.POST("/order", therapistCtrl.CreateOrder)
		therapist.DELETE("/order/:order_id", therapistCtrl.CancelOrder)
		therapist.PUT("/:user_id/specialization", therapistCtrl.UpdateSpecialization)
	}

	general := r.Group("/general")
	general.Use(middlewares.AuthMiddleware())
	{
		general.GET("/orders", generalCtrl.GetOrders)
		general.GET("/budget", generalCtrl.GetBudget)
		general.GET("/profile", userCtrl.GetProfile)
	}

	return r
}
