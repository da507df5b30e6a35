package main

// General API documentation for swaggo. Regenerate with
// `swag init -g cmd/schedd/docs.go`.
//
// @title           schedd API
// @version         1.0
// @description     HTTP API for context-aware backend scheduling.
//
// @contact.name   schedd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
