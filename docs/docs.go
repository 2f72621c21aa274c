// Package docs holds the OpenAPI document served under /docs.
// Regenerate with: swag init -g cmd/server/main.go
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
        "/": {
            "get": {
                "description": "Single page face detection tool",
                "produces": ["text/html"],
                "tags": ["ui"],
                "summary": "Web UI",
                "responses": {
                    "200": {"description": "HTML page", "schema": {"type": "string"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Liveness plus detector state. Status is degraded while the face model is not loaded.",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthResponse"}}
                }
            }
        },
        "/ready": {
            "get": {
                "description": "200 once the face detector is loaded, 503 otherwise",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.DetectorStatus"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.DetectorStatus"}}
                }
            }
        },
        "/api/instance": {
            "get": {
                "description": "Basic instance information and capabilities",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Service information",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.InfoResponse"}}
                }
            }
        },
        "/api/defaults": {
            "get": {
                "description": "Parameter ranges, defaults and accepted upload formats",
                "produces": ["application/json"],
                "tags": ["detection"],
                "summary": "Detection defaults",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.DefaultsResponse"}}
                }
            }
        },
        "/api/detect": {
            "post": {
                "description": "Upload an image and get the detection result without creating a session. With format=png the annotated PNG is returned as a download.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json", "image/png"],
                "tags": ["detection"],
                "summary": "One-shot detection",
                "parameters": [
                    {"type": "file", "description": "JPG, JPEG or PNG image", "name": "file", "in": "formData", "required": true},
                    {"type": "number", "default": 1.3, "description": "Scale factor, 1.1 to 2.0", "name": "scale_factor", "in": "formData"},
                    {"type": "integer", "default": 5, "description": "Min neighbors, 1 to 10", "name": "min_neighbors", "in": "formData"},
                    {"type": "string", "default": "#00FF00", "description": "Rectangle color #RRGGBB", "name": "color", "in": "formData"},
                    {"type": "boolean", "description": "Draw face numbers above boxes", "name": "labels", "in": "formData"},
                    {"type": "string", "description": "json (default) or png", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.DetectionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/sessions": {
            "post": {
                "description": "Start a session with an uploaded image and run detection with the given parameters",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Upload an image",
                "parameters": [
                    {"type": "file", "description": "JPG, JPEG or PNG image", "name": "file", "in": "formData", "required": true},
                    {"type": "number", "default": 1.3, "description": "Scale factor, 1.1 to 2.0", "name": "scale_factor", "in": "formData"},
                    {"type": "integer", "default": 5, "description": "Min neighbors, 1 to 10", "name": "min_neighbors", "in": "formData"},
                    {"type": "string", "default": "#00FF00", "description": "Rectangle color #RRGGBB", "name": "color", "in": "formData"},
                    {"type": "boolean", "description": "Draw face numbers above boxes", "name": "labels", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.DetectionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}": {
            "get": {
                "description": "Current parameters and image information of a session",
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Get session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.SessionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Drop the uploaded image and parameters",
                "tags": ["sessions"],
                "summary": "End session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/params": {
            "put": {
                "description": "Update the session's sliders or color and re-run detection",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Change parameters",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true},
                    {"description": "New parameter values", "name": "params", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ParamsRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.DetectionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/api/sessions/{id}/download": {
            "get": {
                "description": "Re-run detection with the session's current parameters and return the annotated PNG",
                "produces": ["image/png"],
                "tags": ["sessions"],
                "summary": "Download annotated image",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/system/stats": {
            "get": {
                "description": "Get system statistics and performance metrics",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Get system stats",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/system/debug": {
            "get": {
                "description": "Get debug information for troubleshooting",
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Get debug info",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "handlers.DefaultsResponse": {
            "type": "object",
            "properties": {
                "accepted_formats": {"type": "array", "items": {"type": "string"}},
                "color": {"type": "string", "example": "#00FF00"},
                "detector_backend": {"type": "string", "example": "pigo"},
                "max_upload_bytes": {"type": "integer"},
                "max_image_pixels": {"type": "integer", "example": 40000000},
                "min_face_size": {"type": "integer", "example": 30},
                "min_neighbors": {"$ref": "#/definitions/handlers.RangeInt"},
                "outline_thickness": {"type": "integer", "example": 2},
                "scale_factor": {"$ref": "#/definitions/handlers.RangeFloat"}
            }
        },
        "handlers.DetectionResponse": {
            "type": "object",
            "properties": {
                "annotated_preview": {"type": "string"},
                "backend": {"type": "string"},
                "caption": {"type": "string", "example": "Detected 1 face(s)"},
                "color": {"type": "string", "example": "#00FF00"},
                "color_bgr": {"$ref": "#/definitions/models.BGR"},
                "count": {"type": "integer", "example": 1},
                "download_url": {"type": "string"},
                "duration_ms": {"type": "integer"},
                "face_lines": {"type": "array", "items": {"type": "string"}},
                "height": {"type": "integer"},
                "message": {"type": "string"},
                "original_preview": {"type": "string"},
                "params": {"$ref": "#/definitions/models.DetectionParameters"},
                "regions": {"type": "array", "items": {"$ref": "#/definitions/models.Region"}},
                "session_id": {"type": "string"},
                "success": {"type": "boolean"},
                "width": {"type": "integer"}
            }
        },
        "handlers.DetectorStatus": {
            "type": "object",
            "properties": {
                "backend": {"type": "string", "example": "pigo"},
                "error": {"type": "string"},
                "ready": {"type": "boolean", "example": true}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid color: \"#00FF0\" must look like #RRGGBB"},
                "hint": {"type": "string"},
                "success": {"type": "boolean", "example": false}
            }
        },
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {
                "detector": {"$ref": "#/definitions/handlers.DetectorStatus"},
                "instance_id": {"type": "string", "example": "facelens-1"},
                "status": {"type": "string", "example": "healthy"},
                "version": {"type": "string", "example": "1.0.0"}
            }
        },
        "handlers.InfoResponse": {
            "type": "object",
            "properties": {
                "capabilities": {"type": "array", "items": {"type": "string"}},
                "instance_id": {"type": "string", "example": "facelens-1"},
                "status": {"type": "string", "example": "running"},
                "version": {"type": "string", "example": "1.0.0"}
            }
        },
        "handlers.ParamsRequest": {
            "type": "object",
            "properties": {
                "color": {"type": "string", "example": "#00FF00"},
                "labels": {"type": "boolean"},
                "min_neighbors": {"type": "integer", "maximum": 10, "minimum": 1, "example": 5},
                "scale_factor": {"type": "number", "maximum": 2, "minimum": 1.1, "example": 1.3}
            }
        },
        "handlers.RangeFloat": {
            "type": "object",
            "properties": {
                "default": {"type": "number"},
                "max": {"type": "number"},
                "min": {"type": "number"},
                "step": {"type": "number"}
            }
        },
        "handlers.RangeInt": {
            "type": "object",
            "properties": {
                "default": {"type": "integer"},
                "max": {"type": "integer"},
                "min": {"type": "integer"},
                "step": {"type": "integer"}
            }
        },
        "handlers.SessionResponse": {
            "type": "object",
            "properties": {
                "color": {"type": "string"},
                "created_at": {"type": "string"},
                "download_url": {"type": "string"},
                "filename": {"type": "string"},
                "height": {"type": "integer"},
                "labels": {"type": "boolean"},
                "last_access": {"type": "string"},
                "params": {"$ref": "#/definitions/models.DetectionParameters"},
                "session_id": {"type": "string"},
                "width": {"type": "integer"}
            }
        },
        "models.BGR": {
            "type": "object",
            "properties": {
                "b": {"type": "integer"},
                "g": {"type": "integer"},
                "r": {"type": "integer"}
            }
        },
        "models.DetectionParameters": {
            "type": "object",
            "properties": {
                "min_neighbors": {"type": "integer", "example": 5},
                "scale_factor": {"type": "number", "example": 1.3}
            }
        },
        "models.Region": {
            "type": "object",
            "properties": {
                "height": {"type": "integer", "example": 96},
                "width": {"type": "integer", "example": 96},
                "x": {"type": "integer", "example": 112},
                "y": {"type": "integer", "example": 87}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Face Detection API",
	Description:      "Upload a JPG or PNG image, tune scale factor, min neighbors and rectangle color, and download the annotated result.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
