package main

import (
	"groupmeet-api/core/logger"
	"groupmeet-api/core/server"
)

// @title GroupMeet API
// @version 1.0
// @description API backend for GroupMeet - recurring group meetings with RSVPs

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:7070
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
