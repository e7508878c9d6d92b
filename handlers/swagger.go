package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the gateway.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>auth-gateway API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document describing the auth and profile endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "auth-gateway", "version": "v0.1.0" },
  "paths": {
    "/auth/signup": {
      "post": {
        "summary": "Register a new account",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"},"firstName":{"type":"string"},"lastName":{"type":"string"},"profession":{"type":"string"},"customProfession":{"type":"string"}}}}}},
        "responses": { "200": { "description": "account created, confirmation email sent" }, "400": { "description": "validation or signup rejected" } }
      }
    },
    "/auth/login": {
      "post": { "summary": "Sign in with email and password", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "session cookie set" }, "400": { "description": "invalid credentials or unconfirmed email" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Sign out and revoke the session", "responses": { "200": { "description": "logged out" } } }
    },
    "/auth/recover": {
      "post": { "summary": "Send a password reset email", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"email":{"type":"string"}}}}}}, "responses": { "200": { "description": "reset email sent" } } }
    },
    "/auth/password": {
      "post": { "summary": "Update the password on the active session", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "password updated" }, "401": { "description": "no active session" } } }
    },
    "/auth/session": {
      "get": { "summary": "Report the caller's session state", "responses": { "200": { "description": "session state" } } }
    },
    "/profile": {
      "get": { "summary": "Get the caller's profile", "responses": { "200": { "description": "profile" }, "404": { "description": "no profile yet" } } },
      "patch": { "summary": "Update the caller's profile", "responses": { "200": { "description": "updated profile" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
