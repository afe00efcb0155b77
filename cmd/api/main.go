// @title                       Eventhub Admin API
// @version                     1.0
// @description                 Events, partnerships, contacts and cross-department tasks.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"log"

	"eventhub/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("[app][fatal] %v", err)
	}
}
