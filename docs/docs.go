// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/documents": {
            "get": {
                "summary": "List documents",
                "parameters": [
                    {"type": "string", "description": "all, mine or others", "name": "scope", "in": "query"},
                    {"type": "integer", "description": "page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "rows to skip", "name": "offset", "in": "query"},
                    {"type": "integer", "description": "owner id", "name": "X-User-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.DocumentListResult"}}
                }
            },
            "post": {
                "consumes": ["multipart/form-data"],
                "summary": "Upload a document",
                "parameters": [
                    {"type": "string", "name": "title", "in": "formData", "required": true},
                    {"type": "string", "name": "author", "in": "formData"},
                    {"type": "string", "name": "isbn", "in": "formData"},
                    {"type": "file", "name": "file", "in": "formData", "required": true},
                    {"type": "integer", "description": "owner id", "name": "X-User-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Document"}},
                    "422": {"description": "Validation failed"},
                    "503": {"description": "Storage unavailable"}
                }
            }
        },
        "/documents/{id}": {
            "get": {
                "summary": "Get document metadata",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Document"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/documents/{id}/content": {
            "get": {
                "summary": "Get the extracted text of a document",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Content"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/documents/{id}/file": {
            "get": {
                "summary": "Download the original file",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "302": {"description": "Found"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/search": {
            "get": {
                "summary": "Search title, author and extracted text",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.DocumentListResult"}}
                }
            }
        },
        "/dashboard": {
            "get": {
                "summary": "Overview of the caller's uploads",
                "parameters": [
                    {"type": "integer", "name": "X-User-ID", "in": "header", "required": true},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Owner required"}
                }
            }
        }
    },
    "definitions": {
        "model.Document": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "guid": {"type": "string"},
                "title": {"type": "string"},
                "author": {"type": "string"},
                "isbn": {"type": "string"},
                "file_path": {"type": "string"},
                "file_type": {"type": "string", "enum": ["txt", "rtf", "pdf", "docx", "epub", "html"]},
                "size_kb": {"type": "integer"},
                "original_filename": {"type": "string"},
                "uploaded_at": {"type": "string", "format": "date-time"},
                "uploaded_by": {"type": "integer"},
                "updated_at": {"type": "string", "format": "date-time"},
                "updated_by": {"type": "integer"}
            }
        },
        "model.Content": {
            "type": "object",
            "properties": {
                "document_id": {"type": "integer"},
                "text": {"type": "string"}
            }
        },
        "service.DocumentListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}},
                "total": {"type": "integer"}
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
	Title:            "Document Search API",
	Description:      "Upload documents, extract their text and search it.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
