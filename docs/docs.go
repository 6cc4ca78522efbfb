// Package docs serves the OpenAPI document for the estimator API. The
// document is generated from the gin route table at request time.
package docs

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/swaggo/swag"
)

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = struct {
	Title       string
	Description string
	Version     string
	BasePath    string
}{
	Title:       "Project Estimator API",
	Description: "Project cost calculator: step filtering, pricing and quote submissions.",
	Version:     "1.0",
	BasePath:    "/",
}

var ginPathParamRe = regexp.MustCompile(`:([^/]+)`)

func ginPathToSwaggerPath(path string) string {
	return ginPathParamRe.ReplaceAllString(path, "{$1}")
}

// Route describes one endpoint for the generated document.
type Route struct {
	Summary string
	Tag     string
	Admin   bool
}

type routeDoc struct {
	engine *gin.Engine
	meta   map[string]Route
}

var errorSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"error":   map[string]any{"type": "string"},
		"details": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
}

var (
	registerOnce sync.Once
	mu           sync.RWMutex
	current      = &routeDoc{}
)

// ReadDoc implements swag.Swagger.
func (d *routeDoc) ReadDoc() string {
	mu.RLock()
	defer mu.RUnlock()

	paths := make(map[string]map[string]any)
	var routes gin.RoutesInfo
	if d.engine != nil {
		routes = d.engine.Routes()
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })

	for _, route := range routes {
		if strings.HasPrefix(route.Path, "/swagger") {
			continue
		}
		path := ginPathToSwaggerPath(route.Path)
		if paths[path] == nil {
			paths[path] = make(map[string]any)
		}
		method := strings.ToLower(route.Method)
		meta := d.meta[route.Method+" "+route.Path]
		if meta.Summary == "" {
			meta.Summary = route.Method + " " + route.Path
		}
		if meta.Tag == "" {
			meta.Tag = "API"
		}

		op := map[string]any{
			"summary":  meta.Summary,
			"tags":     []string{meta.Tag},
			"produces": []string{"application/json"},
			"responses": map[string]any{
				"200": map[string]any{"description": "Success"},
				"400": map[string]any{"description": "Bad Request", "schema": errorSchema},
				"500": map[string]any{"description": "Internal Server Error", "schema": errorSchema},
			},
		}
		var params []map[string]any
		for _, m := range ginPathParamRe.FindAllStringSubmatch(route.Path, -1) {
			params = append(params, map[string]any{"in": "path", "name": m[1], "required": true, "type": "string"})
		}
		if method == "post" || method == "put" || method == "patch" {
			op["consumes"] = []string{"application/json"}
			params = append(params, map[string]any{
				"in": "body", "name": "body", "required": true,
				"schema": map[string]any{"type": "object"},
			})
		}
		if len(params) > 0 {
			op["parameters"] = params
		}
		if meta.Admin {
			op["security"] = []map[string][]string{{"BearerAuth": {}}}
		}
		paths[path][method] = op
	}

	doc := map[string]any{
		"swagger": "2.0",
		"info": map[string]any{
			"title":       SwaggerInfo.Title,
			"description": SwaggerInfo.Description,
			"version":     SwaggerInfo.Version,
		},
		"basePath": SwaggerInfo.BasePath,
		"schemes":  []string{"http", "https"},
		"securityDefinitions": map[string]any{
			"BearerAuth": map[string]any{"type": "apiKey", "in": "header", "name": "Authorization"},
		},
		"paths": paths,
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// Register publishes the route-derived document under swag's default name,
// where gin-swagger reads it from. Later calls replace the engine.
func Register(engine *gin.Engine, meta map[string]Route) {
	mu.Lock()
	current.engine = engine
	current.meta = meta
	mu.Unlock()
	registerOnce.Do(func() { swag.Register(swag.Name, current) })
}
