package routes

import (
    "github.com/quangtienngo661/noumeal-be/controllers"
    "github.com/quangtienngo661/noumeal-be/middlewares"

    "github.com/gin-gonic/gin"
)

type Controllers struct {
    Users           *controllers.UserController
    Foods           *controllers.FoodController
    Logs            *controllers.FoodLogController
    Recommendations *controllers.RecommendationController
}

func SetupRouter(ct Controllers) *gin.Engine {
    r := gin.Default()

    // Public auth routes
    auth := r.Group("/auth")
    {
        auth.POST("/register", controllers.Register)
        auth.POST("/login", controllers.Login)
    }

    // Protected user routes
    user := r.Group("/user")
    user.Use(middlewares.AuthMiddleware())
    {
        user.GET("/profile", ct.Users.GetProfile)
        user.PUT("/profile", ct.Users.UpdateProfile)
    }

    // Food catalog; mutations flush the plan cache
    foods := r.Group("/foods")
    foods.Use(middlewares.AuthMiddleware())
    {
        foods.GET("", ct.Foods.ListFoods)
        foods.GET("/:id", ct.Foods.GetFood)
        foods.POST("", ct.Foods.CreateFood)
        foods.PUT("/:id", ct.Foods.UpdateFood)
        foods.DELETE("/:id", ct.Foods.DeleteFood)
    }

    // Food logging
    logs := r.Group("/logs")
    logs.Use(middlewares.AuthMiddleware())
    {
        logs.POST("", ct.Logs.LogFood)
        logs.GET("/today", ct.Logs.ListTodayLogs)
        logs.GET("/progress", ct.Logs.GetDailyProgress)
    }

    // Meal recommendations
    recs := r.Group("/recommendations")
    recs.Use(middlewares.AuthMiddleware())
    {
        recs.GET("/weekly", ct.Recommendations.GetWeeklyPlan)
        recs.GET("/today", ct.Recommendations.GetTodayPlan)
        recs.GET("/remaining", ct.Recommendations.GetRemainingMeals)
        recs.POST("/reset", ct.Recommendations.ResetToday)
    }

    return r
}
