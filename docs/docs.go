// Package docs registers the OpenAPI description of the dashboard API with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "paths": {
        "/health": {
            "get": {
                "summary": "Liveness check",
                "responses": {"200": {"description": "service is up"}}
            }
        },
        "/options": {
            "get": {
                "summary": "City list and the initial selection",
                "responses": {"200": {"description": "selector options", "schema": {"$ref": "#/definitions/Options"}}}
            }
        },
        "/apply": {
            "post": {
                "summary": "Apply a filter selection",
                "description": "Returns the histogram, weekday box plot and the first table page. Invalid dates come back as an empty state with a hint.",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": false},
                    {"name": "selection", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Selection"}}
                ],
                "responses": {
                    "200": {"description": "rendered or empty bundle", "schema": {"$ref": "#/definitions/Bundle"}},
                    "400": {"description": "malformed body"},
                    "409": {"description": "superseded by a newer apply of the same session"}
                }
            }
        },
        "/table": {
            "get": {
                "summary": "Page of the last applied table",
                "parameters": [
                    {"name": "X-Session-ID", "in": "header", "type": "string", "required": true},
                    {"name": "page", "in": "query", "type": "integer", "minimum": 0, "default": 0}
                ],
                "responses": {
                    "200": {"description": "table page", "schema": {"$ref": "#/definitions/TablePage"}},
                    "400": {"description": "missing session or invalid page"},
                    "404": {"description": "no table for this session"}
                }
            }
        },
        "/state": {
            "get": {
                "summary": "Apply state of the session",
                "parameters": [{"name": "X-Session-ID", "in": "header", "type": "string"}],
                "responses": {"200": {"description": "idle, filtering, rendered or empty"}}
            }
        }
    },
    "definitions": {
        "Selection": {
            "type": "object",
            "properties": {
                "departure_cities": {"type": "array", "items": {"type": "string"}},
                "arrival_cities": {"type": "array", "items": {"type": "string"}},
                "start_date": {"type": "string", "format": "date"},
                "end_date": {"type": "string", "format": "date"}
            }
        },
        "Options": {
            "type": "object",
            "properties": {
                "cities": {"type": "array", "items": {"type": "string"}},
                "defaults": {"$ref": "#/definitions/Selection"}
            }
        },
        "Bundle": {
            "type": "object",
            "properties": {
                "state": {"type": "string", "enum": ["rendered", "empty"]},
                "message": {"type": "string"},
                "hint": {"type": "string"},
                "rows": {"type": "integer"},
                "histogram": {"type": "object"},
                "boxplot": {"type": "object"},
                "table": {"type": "object"}
            }
        },
        "TablePage": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_count": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_rows": {"type": "integer"},
                "columns": {"type": "array", "items": {"type": "object"}},
                "records": {"type": "array", "items": {"type": "object"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Flight load dashboard API",
	Description:      "Seat load of scheduled flights filtered by route and date range.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
