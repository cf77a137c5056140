package main

import (
    "github.com/quangtienngo661/noumeal-be/config"
    "github.com/quangtienngo661/noumeal-be/controllers"
    "github.com/quangtienngo661/noumeal-be/routes"
    "github.com/quangtienngo661/noumeal-be/services"
)

func main() {
    config.InitDB()

    cache := services.NewPlanCache()
    userSvc := services.NewUserService()
    foodSvc := services.NewFoodService(cache)
    logSvc := services.NewFoodLogService()
    recSvc := services.NewRecommendationService(foodSvc, userSvc, logSvc, cache)

    r := routes.SetupRouter(routes.Controllers{
        Users:           controllers.NewUserController(userSvc),
        Foods:           controllers.NewFoodController(foodSvc),
        Logs:            controllers.NewFoodLogController(logSvc, userSvc, recSvc),
        Recommendations: controllers.NewRecommendationController(recSvc),
    })
    r.Run(":8080")
}
