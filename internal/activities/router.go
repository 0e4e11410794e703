package activities

import (
	"github.com/gin-gonic/gin"
)

func SetupActivityRoutes(router gin.IRoutes, controller *Controller) {
	router.GET("/activities", controller.ListActivities)                 // GET /activities - Browse the catalog
	router.GET("/activities/:name", controller.GetActivity)              // GET /activities/:name - One activity
	router.POST("/activities/:name/signup", controller.Signup)           // POST /activities/:name/signup?email= - Join
	router.DELETE("/activities/:name/unregister", controller.Unregister) // DELETE /activities/:name/unregister?email= - Leave
}

