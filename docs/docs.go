// Package docs registers the OpenAPI description served at /api/swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@promptvault.dev"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["health"], "summary": "API health", "responses": {"200": {"description": "OK"}}}},
        "/catalog": {"get": {"tags": ["prompts"], "summary": "Categories and known models", "responses": {"200": {"description": "OK"}}}},
        "/register": {"post": {"tags": ["auth"], "summary": "Register", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}},
        "/login": {"post": {"tags": ["auth"], "summary": "Login", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/users": {"get": {"tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}}}},
        "/users/profile": {"put": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Update profile", "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/users/{username}": {
            "get": {"tags": ["users"], "summary": "Get profile", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["users"], "summary": "Delete user", "parameters": [{"type": "string", "name": "username", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/prompts": {
            "get": {"tags": ["prompts"], "summary": "List prompts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["prompts"], "summary": "Create prompt", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/prompts/{id}": {
            "get": {"tags": ["prompts"], "summary": "Get prompt", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["prompts"], "summary": "Update prompt", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["prompts"], "summary": "Delete prompt", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/prompts/{id}/view": {"post": {"tags": ["interactions"], "summary": "Count a view", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/prompts/{id}/copy": {"post": {"tags": ["interactions"], "summary": "Count a copy", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/prompts/{id}/rate": {"post": {"security": [{"BearerAuth": []}], "tags": ["interactions"], "summary": "Rate prompt", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}},
        "/prompts/{id}/favorite": {"post": {"security": [{"BearerAuth": []}], "tags": ["interactions"], "summary": "Toggle favorite", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/feedback": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["feedback"], "summary": "List feedback", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["feedback"], "summary": "Send feedback", "responses": {"201": {"description": "Created"}}}
        },
        "/feedback/{id}": {"delete": {"security": [{"BearerAuth": []}], "tags": ["feedback"], "summary": "Delete feedback", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/feedback/{id}/read": {"put": {"security": [{"BearerAuth": []}], "tags": ["feedback"], "summary": "Set the read flag", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}},
        "/settings": {"get": {"tags": ["settings"], "summary": "All settings", "responses": {"200": {"description": "OK"}}}},
        "/settings/{key}": {
            "get": {"tags": ["settings"], "summary": "Read a setting", "parameters": [{"type": "string", "name": "key", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["settings"], "summary": "Write a setting", "parameters": [{"type": "string", "name": "key", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/assist/optimize": {"post": {"security": [{"BearerAuth": []}], "tags": ["assist"], "summary": "Improve a prompt", "responses": {"200": {"description": "OK"}}}},
        "/assist/describe": {"post": {"security": [{"BearerAuth": []}], "tags": ["assist"], "summary": "Summarize a prompt", "responses": {"200": {"description": "OK"}}}},
        "/admin/feature-flags": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Feature flags", "responses": {"200": {"description": "OK"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8375",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "PromptVault API",
	Description:      "Share, rate and favorite AI prompts",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
