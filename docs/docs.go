// Package docs holds the swagger specification served at /api-docs.
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
    "paths": {
        "/v1/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "description": "Check the shared password and start a session",
                "parameters": [
                    {
                        "description": "Login password",
                        "name": "credentials",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Session started", "schema": {"$ref": "#/definitions/model.LoginResponse"}},
                    "401": {"description": "Wrong password", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/v1/auth/logout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {"200": {"description": "Logged out"}}
            }
        },
        "/v1/invoices": {
            "get": {
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "List processed invoices",
                "responses": {
                    "200": {"description": "Processed invoices", "schema": {"$ref": "#/definitions/model.InvoiceListResponse"}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Upload invoices",
                "parameters": [
                    {"type": "file", "description": "Invoice files", "name": "files", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Per-file processing results", "schema": {"$ref": "#/definitions/model.BatchUploadResponse"}}
                }
            }
        },
        "/v1/invoices/{filename}": {
            "patch": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Edit invoice fields",
                "parameters": [
                    {"type": "string", "description": "Stored document filename", "name": "filename", "in": "path", "required": true},
                    {
                        "description": "New field values",
                        "name": "fields",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/model.EditInvoiceRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "New filename", "schema": {"$ref": "#/definitions/model.EditInvoiceResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["invoices"],
                "summary": "Delete an invoice",
                "parameters": [
                    {"type": "string", "description": "Stored document filename", "name": "filename", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "Invoice deleted"}}
            }
        },
        "/previews/{filename}": {
            "get": {
                "produces": ["image/jpeg"],
                "tags": ["invoices"],
                "summary": "Fetch a preview image",
                "parameters": [
                    {"type": "string", "description": "Preview filename", "name": "filename", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "Preview image"}, "404": {"description": "Preview not found"}}
            }
        }
    },
    "definitions": {
        "model.BatchUploadResponse": {
            "type": "object",
            "properties": {
                "processed": {"type": "integer"},
                "failed": {"type": "integer"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/model.UploadFileResult"}}
            }
        },
        "model.DashboardEntry": {
            "type": "object",
            "properties": {
                "filename": {"type": "string"},
                "preview_image": {"type": "string"},
                "date": {"type": "string"},
                "supplier": {"type": "string"},
                "description": {"type": "string"},
                "detailed_description": {"type": "string"}
            }
        },
        "model.EditInvoiceRequest": {
            "type": "object",
            "required": ["supplier", "date", "description"],
            "properties": {
                "supplier": {"type": "string"},
                "date": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "model.EditInvoiceResponse": {
            "type": "object",
            "properties": {"filename": {"type": "string"}}
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "model.InvoiceListResponse": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.DashboardEntry"}}
            }
        },
        "model.LoginRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {"password": {"type": "string"}}
        },
        "model.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expiresIn": {"type": "integer"}
            }
        },
        "model.UploadFileResult": {
            "type": "object",
            "properties": {
                "original_name": {"type": "string"},
                "filename": {"type": "string"},
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "error_code": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "2.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Faktury API",
	Description:      "Self-hosted invoice intake: upload invoice images/PDFs, extract fields with a vision model, store and manage the renamed documents.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
