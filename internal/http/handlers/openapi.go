package handlers

import (
	"bytes"
	_ "embed"
	"net/http"
	"time"
)

//go:embed openapi.json
var openAPISpec []byte

// startedAt stamps the embedded documents for conditional requests.
var startedAt = time.Now()

const redocHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Workshop API</title>
<style>body{margin:0}redoc{display:block;height:100vh}</style>
</head>
<body>
<redoc spec-url="/v1/openapi.json"></redoc>
<script src="https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"></script>
</body>
</html>`

// OpenAPIJSON serves the embedded OpenAPI document.
func (a *App) OpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	serveDocument(w, r, "openapi.json", "application/json; charset=utf-8", openAPISpec)
}

// OpenAPIDocs serves a Redoc page rendering OpenAPIJSON.
func (a *App) OpenAPIDocs(w http.ResponseWriter, r *http.Request) {
	serveDocument(w, r, "docs.html", "text/html; charset=utf-8", []byte(redocHTML))
}

// serveDocument handles HEAD, Range and If-Modified-Since for static bodies.
func serveDocument(w http.ResponseWriter, r *http.Request, name, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=300")
	http.ServeContent(w, r, name, startedAt, bytes.NewReader(body))
}
