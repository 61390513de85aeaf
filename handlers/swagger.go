package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the question bank API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>IB Economics Question Bank API</title>
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

// Write routes expect the admin password in the x-admin-password header.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "IB Economics Question Bank", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "adminPassword": { "type": "apiKey", "in": "header", "name": "x-admin-password" } },
    "schemas": {
      "Question": { "type": "object", "properties": { "id": {"type":"integer"}, "paper_type": {"type":"string"}, "content": {"type":"string"}, "created_at": {"type":"string","format":"date-time"} } },
      "Flashcard": { "type": "object", "properties": { "id": {"type":"integer"}, "type": {"type":"string"}, "front": {"type":"string"}, "back": {"type":"string"}, "created_at": {"type":"string","format":"date-time"} } },
      "Error": { "type": "object", "properties": { "error": {"type":"string"} } }
    }
  },
  "paths": {
    "/api/questions": {
      "get": { "summary": "List questions, optionally for one paper", "parameters": [{"name":"paperType","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "array of questions" } } },
      "post": { "summary": "Add a question", "security": [{"adminPassword": []}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"paperType":{"type":"string"},"content":{"type":"string"}}}}}}, "responses": { "201": { "description": "created" }, "400": { "description": "missing fields" }, "401": { "description": "wrong password" }, "403": { "description": "writes disabled" } } }
    },
    "/api/questions/random": {
      "get": { "summary": "One random question of a paper, or null", "parameters": [{"name":"paperType","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "question or null" }, "400": { "description": "paperType missing" } } }
    },
    "/api/questions/bulk": {
      "post": { "summary": "Add one question per line", "security": [{"adminPassword": []}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"paperType":{"type":"string"},"lines":{"type":"string"}}}}}}, "responses": { "201": { "description": "created and skipped counts" } } }
    },
    "/api/questions/{id}": {
      "put": { "summary": "Update a question", "security": [{"adminPassword": []}], "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"integer"}}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"paperType":{"type":"string"},"content":{"type":"string"}}}}}}, "responses": { "200": { "description": "updated" }, "404": { "description": "unknown id" } } },
      "delete": { "summary": "Delete a question", "security": [{"adminPassword": []}], "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"integer"}}], "responses": { "200": { "description": "deleted" }, "404": { "description": "unknown id" } } }
    },
    "/api/flashcards": {
      "get": { "summary": "List flashcards, optionally for one level", "parameters": [{"name":"type","in":"query","schema":{"type":"string"}}], "responses": { "200": { "description": "array of flashcards" } } },
      "post": { "summary": "Add a flashcard", "security": [{"adminPassword": []}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"type":{"type":"string"},"front":{"type":"string"},"back":{"type":"string"}}}}}}, "responses": { "201": { "description": "created" }, "401": { "description": "wrong password" } } }
    },
    "/api/flashcards/random": {
      "get": { "summary": "One random flashcard of a level, or null", "parameters": [{"name":"type","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "flashcard or null" } } }
    },
    "/api/flashcards/bulk": {
      "post": { "summary": "Add flashcards from front<TAB>back or front | back lines", "security": [{"adminPassword": []}], "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"type":{"type":"string"},"lines":{"type":"string"}}}}}}, "responses": { "201": { "description": "created and skipped counts" } } }
    },
    "/api/flashcards/{id}": {
      "put": { "summary": "Update a flashcard", "security": [{"adminPassword": []}], "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"integer"}}], "responses": { "200": { "description": "updated" }, "404": { "description": "unknown id" } } },
      "delete": { "summary": "Delete a flashcard", "security": [{"adminPassword": []}], "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"integer"}}], "responses": { "200": { "description": "deleted" }, "404": { "description": "unknown id" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
