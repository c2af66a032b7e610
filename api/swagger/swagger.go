package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Bookings API",
        "description": "Slot availability and conflict-safe booking over Google Calendar",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Availability", "description": "Daily slot availability"},
        {"name": "Bookings", "description": "Slot booking"},
        {"name": "OAuth", "description": "One-time operator consent flow"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/availability": {
            "get": {
                "tags": ["Availability"],
                "summary": "List slots for a calendar day",
                "parameters": [
                    {"name": "date", "in": "query", "required": true, "type": "string", "description": "Day in YYYY-MM-DD"},
                    {"name": "duration", "in": "query", "type": "integer", "description": "Slot duration in minutes, 30 or 60 (default 30)"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Calendar unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/bookings": {
            "post": {
                "tags": ["Bookings"],
                "summary": "Book a slot",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Slot already taken", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Calendar unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/oauth/initiate": {
            "get": {
                "tags": ["OAuth"],
                "summary": "Redirect operator to the Google consent screen",
                "responses": {
                    "302": {"description": "Found"}
                }
            }
        },
        "/oauth/callback": {
            "get": {
                "tags": ["OAuth"],
                "summary": "Exchange the consent code and display the refresh token",
                "parameters": [
                    {"name": "code", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "502": {"description": "Exchange failed", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "Slot": {
            "type": "object",
            "properties": {
                "time": {"type": "string", "example": "09:30"},
                "available": {"type": "boolean"}
            }
        },
        "DayAvailability": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2025-09-17"},
                "duration": {"type": "integer", "example": 30},
                "slots": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Slot"}
                }
            }
        },
        "CreateBookingRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2025-09-17"},
                "time": {"type": "string", "example": "10:00"},
                "duration": {"type": "integer", "example": 30},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "procedure": {"type": "string"},
                "symptoms": {"type": "string"}
            },
            "required": ["date", "time", "duration", "firstName", "lastName", "email", "phone", "procedure"]
        },
        "BookingConfirmation": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "date": {"type": "string", "example": "2025-09-17"},
                "time": {"type": "string", "example": "10:00"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "SLOT_TAKEN"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
