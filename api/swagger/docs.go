// Package swagger holds the OpenAPI description served at /swagger/*any.
// Regenerate with: swag init -g cmd/api/main.go -o api/swagger
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
        "/api/detect-pricing": {
            "post": {
                "description": "Resolves the client, picks contract / quotation / general pricing and returns the price with its audit trail",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pricing"],
                "summary": "Detect pricing pathway",
                "parameters": [
                    {"description": "Shipment", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.DetectPricingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pricing.Result"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.Response"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/tariffs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tariffs"],
                "summary": "List tariffs",
                "parameters": [
                    {"type": "integer", "description": "Page number (default: 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default: 50)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Origin contains", "name": "origin", "in": "query"},
                    {"type": "string", "description": "Destination contains", "name": "destination", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tariffs"],
                "summary": "Create tariff",
                "parameters": [
                    {"description": "Tariff payload", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.CreateTariffRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/tariffs/import": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["tariffs"],
                "summary": "Import tariff sheet",
                "parameters": [
                    {"type": "file", "description": "Tariff workbook (.xlsx)", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Sheet name (default: first sheet)", "name": "sheet", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/quotations": {
            "get": {
                "produces": ["application/json"],
                "tags": ["quotations"],
                "summary": "List quotations",
                "parameters": [
                    {"type": "integer", "description": "Page number (default: 1)", "name": "page", "in": "query"},
                    {"type": "integer", "description": "Items per page (default: 20)", "name": "limit", "in": "query"},
                    {"type": "string", "description": "Filter by status: pending, confirmed, expired", "name": "status", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["quotations"],
                "summary": "Create quotation",
                "parameters": [
                    {"description": "Quotation payload", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.CreateQuotationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/quotations/{id}/confirm": {
            "put": {
                "produces": ["application/json"],
                "tags": ["quotations"],
                "summary": "Confirm quotation",
                "parameters": [
                    {"type": "integer", "description": "Quotation ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/entities": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["entities"],
                "summary": "Create entity",
                "parameters": [
                    {"description": "Entity payload", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.CreateEntityRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/entities/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["entities"],
                "summary": "Search entities",
                "parameters": [
                    {"type": "string", "description": "CUIT, with or without dashes", "name": "cuit", "in": "query"},
                    {"type": "string", "description": "Legal name contains", "name": "name", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/api/entities/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["entities"],
                "summary": "Get entity",
                "parameters": [
                    {"type": "integer", "description": "Entity ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/response.Response"}}
                }
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "status_code": {"type": "integer"},
                "data": {},
                "pagination": {"$ref": "#/definitions/response.Pagination"},
                "error": {"type": "string"}
            }
        },
        "response.Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "service.CargoPayload": {
            "type": "object",
            "properties": {
                "packageQuantity": {"type": "number"},
                "weightKg": {"type": "number"},
                "volumeM3": {"type": "number"},
                "declaredValue": {"type": "number"}
            }
        },
        "service.DetectPricingRequest": {
            "type": "object",
            "properties": {
                "clientId": {"type": "number"},
                "recipientCuit": {"type": "string"},
                "recipientName": {"type": "string"},
                "origin": {"type": "string"},
                "destination": {"type": "string"},
                "packageQuantity": {"type": "number"},
                "weightKg": {"type": "number"},
                "volumeM3": {"type": "number"},
                "declaredValue": {"type": "number"},
                "cargo": {"$ref": "#/definitions/service.CargoPayload"}
            }
        },
        "service.CreateTariffRequest": {
            "type": "object",
            "required": ["origin", "destination", "weight_to_kg", "price"],
            "properties": {
                "origin": {"type": "string"},
                "destination": {"type": "string"},
                "tariff_type": {"type": "string"},
                "weight_from_kg": {"type": "string"},
                "weight_to_kg": {"type": "string"},
                "price": {"type": "string"}
            }
        },
        "service.CreateQuotationRequest": {
            "type": "object",
            "required": ["customer_name", "total_price"],
            "properties": {
                "customer_name": {"type": "string"},
                "customer_cuit": {"type": "string"},
                "destination": {"type": "string"},
                "weight_kg": {"type": "string"},
                "package_quantity": {"type": "integer"},
                "weight_tolerance_percent": {"type": "string"},
                "total_price": {"type": "string"},
                "valid_until": {"type": "string", "format": "date-time"}
            }
        },
        "service.CommercialTermsPayload": {
            "type": "object",
            "properties": {
                "tariff_type": {"type": "string"},
                "tariff_modifier": {"type": "string"},
                "insurance_rate": {"type": "string"},
                "credit_days": {"type": "integer"},
                "origin": {"type": "string"},
                "destination": {"type": "string"}
            }
        },
        "service.CreateEntityRequest": {
            "type": "object",
            "required": ["legal_name"],
            "properties": {
                "legal_name": {"type": "string"},
                "tax_id": {"type": "string"},
                "client_type": {"type": "string"},
                "payment_terms": {"type": "string"},
                "assigned_tariff_id": {"type": "integer"},
                "commercial_terms": {"$ref": "#/definitions/service.CommercialTermsPayload"}
            }
        },
        "pricing.Result": {
            "type": "object",
            "properties": {
                "path": {"type": "string", "enum": ["A", "B", "C"]},
                "pathName": {"type": "string"},
                "tag": {
                    "type": "object",
                    "properties": {
                        "color": {"type": "string"},
                        "label": {"type": "string"},
                        "description": {"type": "string"}
                    }
                },
                "client": {
                    "type": "object",
                    "properties": {
                        "id": {"type": "integer"},
                        "name": {"type": "string"},
                        "cuit": {"type": "string"},
                        "isNew": {"type": "boolean"},
                        "type": {"type": "string"}
                    }
                },
                "pricing": {
                    "type": "object",
                    "properties": {
                        "source": {"type": "string"},
                        "price": {"type": "number"},
                        "breakdown": {"type": "object"},
                        "quotationId": {"type": "integer"},
                        "tariffId": {"type": "integer"},
                        "validUntil": {"type": "string", "format": "date-time"}
                    }
                },
                "quotation": {"type": "object"},
                "validation": {
                    "type": "object",
                    "properties": {
                        "needsReview": {"type": "boolean"},
                        "reason": {"type": "string"}
                    }
                },
                "commercialTerms": {"type": "object"},
                "debug": {"type": "object"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Freight Pricing API",
	Description:      "Decides whether a shipment is billed on account, by a prior quotation or at the general tariff, and prices it.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
