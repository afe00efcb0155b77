// Package docs holds the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {"name": "login", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/healthz": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness and database check",
                "responses": {
                    "200": {"description": "OK"},
                    "503": {"description": "Service Unavailable"}
                }
            }
        },
        "/api/tasks/pending-range": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Tasks"],
                "summary": "Pending tasks by department and event",
                "parameters": [
                    {"enum": ["day", "week"], "type": "string", "default": "day", "name": "range", "in": "query"},
                    {"type": "string", "description": "YYYY-MM-DD, defaults to today", "name": "referenceDate", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PendingTasksResult"}},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/api/tasks/pending-range/pdf": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "tags": ["Tasks"],
                "summary": "Pending tasks report (PDF)",
                "parameters": [
                    {"enum": ["day", "week"], "type": "string", "name": "range", "in": "query"},
                    {"type": "string", "name": "referenceDate", "in": "query"},
                    {"enum": ["en", "ar"], "type": "string", "name": "locale", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/partnerships/{id}/inactivity": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Partnerships"],
                "summary": "Inactivity status of a partnership",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.InactivityStatus"}},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        }
    },
    "definitions": {
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "models.InactivityStatus": {
            "type": "object",
            "properties": {
                "partnershipId": {"type": "integer"},
                "lastActivityDate": {"type": "string"},
                "daysSinceLastActivity": {"type": "integer"},
                "inactivityThresholdMonths": {"type": "integer"},
                "thresholdDays": {"type": "integer"},
                "isInactive": {"type": "boolean"},
                "isNearStale": {"type": "boolean"},
                "notifyOnInactivity": {"type": "boolean"},
                "lastInactivityNotificationSent": {"type": "string"}
            }
        },
        "models.PendingTasksResult": {
            "type": "object",
            "properties": {
                "range": {"type": "string"},
                "referenceDate": {"type": "string"},
                "rangeStart": {"type": "string"},
                "rangeEnd": {"type": "string"},
                "departments": {"type": "array", "items": {"type": "object"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Eventhub Admin API",
	Description:      "Events, partnerships, contacts and cross-department tasks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
