// Package swagger holds the OpenAPI document served at /swagger. It follows
// the layout swag init emits; keep it in step with the handler annotations
// when routes change.
package swagger

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
    "paths": {
        "/api/audit-logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Lists request submissions, approval decisions and deletions",
                "produces": ["application/json"],
                "tags": ["audit"],
                "summary": "Get audit logs",
                "parameters": [
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Number of items per page (default 20)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "CREATE_VEHICLE_REQUEST, APPROVE_LEVEL, REJECT_LEVEL or DELETE_VEHICLE_REQUEST", "name": "action", "in": "query"},
                    {"type": "integer", "description": "Only entries for this vehicle request", "name": "request_id", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "description": "Accepts a username or an email address and returns a bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Credentials", "name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.LoginUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/departments": {
            "get": {
                "produces": ["application/json"],
                "tags": ["departments"],
                "summary": "List departments",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/departments/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["departments"],
                "summary": "Get a department",
                "parameters": [{"type": "integer", "description": "Department ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/roles": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List roles",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/api/statistics/vehicle-requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Counts by status, pending backlog per approval level, location split and top departments",
                "produces": ["application/json"],
                "tags": ["statistics"],
                "summary": "Vehicle request statistics",
                "parameters": [
                    {"type": "string", "description": "Start Date (RFC3339), default first day of the month", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "End Date (RFC3339), default now", "name": "end_date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/telegram/set-webhook": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["telegram"],
                "summary": "Set the bot webhook",
                "parameters": [{"type": "string", "description": "Public base URL of this API", "name": "url", "in": "query", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/telegram/webhook": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["telegram"],
                "summary": "Telegram webhook",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}}}
            }
        },
        "/api/telegram/webhook-info": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["telegram"],
                "summary": "Webhook info",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "List users",
                "parameters": [
                    {"type": "string", "description": "Role name", "name": "role", "in": "query"},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default 20)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Create a user",
                "parameters": [
                    {"description": "Account", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.CreateUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/users/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Update a user",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "user", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["accounts"],
                "summary": "Delete a user",
                "parameters": [{"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/users/{id}/reset-password": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Reset a password",
                "parameters": [
                    {"type": "integer", "description": "User ID", "name": "id", "in": "path", "required": true},
                    {"description": "New password", "name": "password", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.ResetPasswordRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/vehicle-requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["vehicle-requests"],
                "summary": "List vehicle requests",
                "parameters": [
                    {"type": "string", "description": "pending, approved or rejected", "name": "status", "in": "query"},
                    {"type": "integer", "description": "Page number (default 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default 20)", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "post": {
                "description": "Stores the request, issues a ticket number and notifies the level 1 approvers",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vehicle-requests"],
                "summary": "Submit a vehicle request",
                "parameters": [
                    {"description": "Vehicle request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.CreateVehicleRequestDTO"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/vehicle-requests/search/{ticketNumber}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["vehicle-requests"],
                "summary": "Search by ticket number",
                "parameters": [{"type": "string", "description": "Ticket number, case insensitive", "name": "ticketNumber", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/vehicle-requests/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["vehicle-requests"],
                "summary": "Get a vehicle request",
                "parameters": [{"type": "integer", "description": "Request ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["vehicle-requests"],
                "summary": "Delete a vehicle request",
                "parameters": [{"type": "integer", "description": "Request ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/vehicle-requests/{id}/approval": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Level L can only be decided once level L-1 is approved. Rejection ends the chain.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["vehicle-requests"],
                "summary": "Decide an approval level",
                "parameters": [
                    {"type": "integer", "description": "Request ID", "name": "id", "in": "path", "required": true},
                    {"description": "Decision", "name": "decision", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.DecideApprovalDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "response.Meta": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "page": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "meta": {"$ref": "#/definitions/response.Meta"},
                "status": {"type": "string"},
                "status_code": {"type": "integer"}
            }
        },
        "service.CreateUserRequest": {
            "type": "object",
            "required": ["full_name", "password", "role", "username"],
            "properties": {
                "department_id": {"type": "integer"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "phone": {"type": "string"},
                "role": {"type": "string"},
                "telegram_chat_id": {"type": "string"},
                "username": {"type": "string", "maxLength": 50, "minLength": 3}
            }
        },
        "service.ResetPasswordRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "password": {"type": "string", "minLength": 8}
            }
        },
        "service.UpdateUserRequest": {
            "type": "object",
            "properties": {
                "department_id": {"type": "integer"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "is_active": {"type": "boolean"},
                "phone": {"type": "string"},
                "role": {"type": "string"},
                "telegram_chat_id": {"type": "string"}
            }
        },
        "service.CreateVehicleRequestDTO": {
            "type": "object",
            "required": ["department_id", "email", "end_date", "location_type", "name", "nik", "purpose_reason", "service_type", "start_date", "vehicle_purpose"],
            "properties": {
                "agreement": {"type": "boolean"},
                "department_id": {"type": "integer"},
                "email": {"type": "string"},
                "end_date": {"type": "string"},
                "location_type": {"type": "string", "enum": ["desa_binaan", "non_desa_binaan"]},
                "name": {"type": "string"},
                "nik": {"type": "string"},
                "purpose_reason": {"type": "string"},
                "service_type": {"type": "string"},
                "start_date": {"type": "string"},
                "vehicle_purpose": {"type": "string"}
            }
        },
        "service.DecideApprovalDTO": {
            "type": "object",
            "required": ["level", "status"],
            "properties": {
                "level": {"type": "integer"},
                "notes": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "service.LoginUserRequest": {
            "type": "object",
            "required": ["login", "password"],
            "properties": {
                "login": {"type": "string"},
                "password": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Vehicle Request API",
	Description:      "Vehicle request submission with a multi-level approval chain.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
