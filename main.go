package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/DubuqueMainStreet/DFM-V2-sub000/cmd/app"
)

// @title        Dubuque Farmers' Market API
// @description  Vendor map, stall assignments and signups for the Saturday market.
// @BasePath     /api/v1
//
// @externalDocs.description  OpenAPI
// @externalDocs.url          https://swagger.io/resources/open-api/
func main() {
	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}
