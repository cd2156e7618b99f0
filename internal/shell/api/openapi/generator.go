// Package openapi provides reflective OpenAPI 3.0 specification generation.
package openapi

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

// =============================================================================
// Generator
// =============================================================================

// Generator produces OpenAPI 3.0 specifications by reflecting on registered
// resources and operations.
type Generator struct {
	title       string
	version     string
	description string
	servers     []string
	resources   []ResourceInfo
	operations  []OperationInfo
	mu          sync.RWMutex
	cachedSpec  *openapi3.T
}

// ResourceInfo describes a CRUD collection mounted at /api/v1/{Name}.
type ResourceInfo struct {
	Name           string // Collection name (e.g., "rosters")
	Model          any    // Item returned by the collection
	Input          any    // Request body for create and update; defaults to Model
	List           any    // Body of the list response; defaults to an array of Model
	SupportsList   bool   // GET /{name}
	SupportsGet    bool   // GET /{name}/{id}
	SupportsCreate bool   // POST /{name}
	SupportsUpdate bool   // PUT /{name}/{id}
	SupportsDelete bool   // DELETE /{name}/{id}
}

// OperationInfo describes a single non-CRUD endpoint.
type OperationInfo struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
	Tag         string
	Request     any // nil when the operation has no body
	Response    any
	Parameters  []ParamInfo
}

// ParamInfo describes a string path or query parameter.
type ParamInfo struct {
	Name     string
	In       string // "path" or "query"
	Required bool
}

// Option configures the generator.
type Option func(*Generator)

// WithTitle sets the API title.
func WithTitle(title string) Option {
	return func(g *Generator) {
		g.title = title
	}
}

// WithVersion sets the API version.
func WithVersion(version string) Option {
	return func(g *Generator) {
		g.version = version
	}
}

// WithDescription sets the API description.
func WithDescription(description string) Option {
	return func(g *Generator) {
		g.description = description
	}
}

// WithServer adds a server URL.
func WithServer(url string) Option {
	return func(g *Generator) {
		g.servers = append(g.servers, url)
	}
}

// NewGenerator creates a new OpenAPI generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		title:       "Retinue API",
		version:     "1.0.0",
		description: "Roster resolution and storage API",
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// RegisterResource adds a CRUD collection.
func (g *Generator) RegisterResource(info ResourceInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resources = append(g.resources, info)
	g.cachedSpec = nil
}

// RegisterOperation adds a single endpoint.
func (g *Generator) RegisterOperation(info OperationInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.operations = append(g.operations, info)
	g.cachedSpec = nil
}

// Generate produces the complete OpenAPI 3.0 specification.
func (g *Generator) Generate() *openapi3.T {
	g.mu.RLock()
	if g.cachedSpec != nil {
		spec := g.cachedSpec
		g.mu.RUnlock()
		return spec
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()

	// Double-check after acquiring write lock
	if g.cachedSpec != nil {
		return g.cachedSpec
	}

	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       g.title,
			Version:     g.version,
			Description: g.description,
		},
		Servers: make(openapi3.Servers, 0, len(g.servers)),
		Paths:   &openapi3.Paths{},
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas),
		},
	}

	for _, url := range g.servers {
		spec.Servers = append(spec.Servers, &openapi3.Server{URL: url})
	}

	b := &builder{spec: spec}
	b.addErrorSchema()
	for _, res := range g.resources {
		b.addResource(res)
	}
	for _, op := range g.operations {
		b.addOperation(op)
	}

	g.cachedSpec = spec
	return spec
}

// Handler returns an HTTP handler that serves the OpenAPI specification.
func (g *Generator) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec := g.Generate()

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		if err := json.NewEncoder(w).Encode(spec); err != nil {
			http.Error(w, "Failed to encode OpenAPI spec", http.StatusInternalServerError)
		}
	}
}

// =============================================================================
// Paths
// =============================================================================

type builder struct {
	spec *openapi3.T
}

func (b *builder) addErrorSchema() {
	b.spec.Components.Schemas["Error"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
				"code":  &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
			},
			Required: []string{"error", "code"},
		},
	}
}

func (b *builder) addResource(res ResourceInfo) {
	basePath := "/api/v1/" + res.Name
	tag := capitalize(res.Name)
	name := capitalize(singularize(res.Name))
	item := b.schemaFor(reflect.TypeOf(res.Model))
	input := item
	if res.Input != nil {
		input = b.schemaFor(reflect.TypeOf(res.Input))
	}

	list := arrayOf(item)
	if res.List != nil {
		list = b.schemaFor(reflect.TypeOf(res.List))
	}

	collection := b.pathItem(basePath)
	if res.SupportsList {
		collection.Get = &openapi3.Operation{
			OperationID: "list" + capitalize(res.Name),
			Summary:     "List " + res.Name,
			Tags:        []string{tag},
			Parameters: openapi3.Parameters{
				queryParam("limit", "integer"),
				queryParam("offset", "integer"),
			},
			Responses: responses(http.StatusOK, list),
		}
	}
	if res.SupportsCreate {
		collection.Post = &openapi3.Operation{
			OperationID: "create" + name,
			Summary:     "Create a " + singularize(res.Name),
			Tags:        []string{tag},
			RequestBody: requestBody(input),
			Responses:   responses(http.StatusCreated, item),
		}
	}

	itemPath := b.pathItem(basePath + "/{id}")
	itemPath.Parameters = openapi3.Parameters{pathParam("id")}
	if res.SupportsGet {
		itemPath.Get = &openapi3.Operation{
			OperationID: "get" + name,
			Summary:     "Get a " + singularize(res.Name),
			Tags:        []string{tag},
			Responses:   responses(http.StatusOK, item),
		}
	}
	if res.SupportsUpdate {
		itemPath.Put = &openapi3.Operation{
			OperationID: "update" + name,
			Summary:     "Replace a " + singularize(res.Name),
			Tags:        []string{tag},
			RequestBody: requestBody(input),
			Responses:   responses(http.StatusOK, item),
		}
	}
	if res.SupportsDelete {
		itemPath.Delete = &openapi3.Operation{
			OperationID: "delete" + name,
			Summary:     "Delete a " + singularize(res.Name),
			Tags:        []string{tag},
			Responses:   responses(http.StatusNoContent, nil),
		}
	}
}

func (b *builder) addOperation(op OperationInfo) {
	operation := &openapi3.Operation{
		OperationID: op.OperationID,
		Summary:     op.Summary,
		Responses:   responses(http.StatusOK, b.schemaFor(reflect.TypeOf(op.Response))),
	}
	if op.Tag != "" {
		operation.Tags = []string{op.Tag}
	}
	if op.Request != nil {
		operation.RequestBody = requestBody(b.schemaFor(reflect.TypeOf(op.Request)))
	}
	for _, p := range op.Parameters {
		if p.In == "path" {
			operation.Parameters = append(operation.Parameters, pathParam(p.Name))
			continue
		}
		param := queryParam(p.Name, "string")
		param.Value.Required = p.Required
		operation.Parameters = append(operation.Parameters, param)
	}

	b.pathItem(op.Path).SetOperation(op.Method, operation)
}

func (b *builder) pathItem(path string) *openapi3.PathItem {
	if item := b.spec.Paths.Value(path); item != nil {
		return item
	}
	item := &openapi3.PathItem{}
	b.spec.Paths.Set(path, item)
	return item
}

// =============================================================================
// Schema Generation
// =============================================================================

// schemaFor returns a schema for t. Named struct types become shared
// components referenced by name.
func (b *builder) schemaFor(t reflect.Type) *openapi3.SchemaRef {
	if t == nil {
		return nil
	}
	switch t.Kind() {
	case reflect.String:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}}

	case reflect.Int64:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}}}

	case reflect.Float32:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"number"}, Format: "float"}}

	case reflect.Float64:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"number"}, Format: "double"}}

	case reflect.Bool:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"boolean"}}}

	case reflect.Slice, reflect.Array:
		return arrayOf(b.schemaFor(t.Elem()))

	case reflect.Map:
		return &openapi3.SchemaRef{
			Value: &openapi3.Schema{
				Type:                 &openapi3.Types{"object"},
				AdditionalProperties: openapi3.AdditionalProperties{Schema: b.schemaFor(t.Elem())},
			},
		}

	case reflect.Ptr:
		return b.schemaFor(t.Elem())

	case reflect.Struct:
		if t == reflect.TypeOf(time.Time{}) {
			return &openapi3.SchemaRef{
				Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "date-time"},
			}
		}
		if t.Name() == "" {
			return &openapi3.SchemaRef{Value: b.structSchema(t)}
		}
		name := componentName(t)
		ref := "#/components/schemas/" + name
		if _, ok := b.spec.Components.Schemas[name]; !ok {
			// Reserve the name first so self-referencing types terminate.
			b.spec.Components.Schemas[name] = &openapi3.SchemaRef{Value: &openapi3.Schema{}}
			b.spec.Components.Schemas[name].Value = b.structSchema(t)
		}
		return &openapi3.SchemaRef{Ref: ref}

	default:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}}
	}
}

// structSchema extracts an object schema from a struct's exported fields,
// using JSON tag names. Fields with omitempty in their json or yaml tag are
// optional.
func (b *builder) structSchema(t reflect.Type) *openapi3.Schema {
	schema := &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Properties: make(openapi3.Schemas),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name := field.Name
		parts := strings.Split(jsonTag, ",")
		if parts[0] != "" {
			name = parts[0]
		}

		omitEmpty := hasOption(parts[1:], "omitempty")
		if propSchema := b.schemaFor(field.Type); propSchema != nil {
			if !omitEmpty && field.Type.Kind() == reflect.Slice && propSchema.Value != nil {
				// nil slices encode as null
				propSchema.Value.Nullable = true
			}
			schema.Properties[name] = propSchema
		}
		yamlParts := strings.Split(field.Tag.Get("yaml"), ",")
		if !omitEmpty && !hasOption(yamlParts[1:], "omitempty") {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}

// =============================================================================
// Helpers
// =============================================================================

func responses(status int, schema *openapi3.SchemaRef) *openapi3.Responses {
	resp := openapi3.NewResponse().WithDescription(http.StatusText(status))
	if schema != nil {
		resp.WithJSONSchemaRef(schema)
	}
	errResp := openapi3.NewResponse().
		WithDescription("Error").
		WithJSONSchemaRef(&openapi3.SchemaRef{Ref: "#/components/schemas/Error"})

	return openapi3.NewResponses(
		openapi3.WithStatus(status, &openapi3.ResponseRef{Value: resp}),
		openapi3.WithName("default", errResp),
	)
}

func requestBody(schema *openapi3.SchemaRef) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(schema),
	}
}

func arrayOf(items *openapi3.SchemaRef) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:  &openapi3.Types{"array"},
			Items: items,
		},
	}
}

func pathParam(name string) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name:     name,
			In:       "path",
			Required: true,
			Schema:   &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
		},
	}
}

func queryParam(name, typ string) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name:   name,
			In:     "query",
			Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{typ}}},
		},
	}
}

// componentName qualifies a type name with its package ("roster.Unit" -> "RosterUnit")
// so identically named types from different packages do not collide.
func componentName(t reflect.Type) string {
	pkg := t.PkgPath()
	if i := strings.LastIndex(pkg, "/"); i >= 0 {
		pkg = pkg[i+1:]
	}
	if pkg == "" || pkg == "api" || strings.HasPrefix(t.Name(), capitalize(pkg)) {
		return t.Name()
	}
	return capitalize(pkg) + t.Name()
}

func hasOption(opts []string, want string) bool {
	for _, o := range opts {
		if o == want {
			return true
		}
	}
	return false
}

// capitalize returns the string with the first letter capitalized.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// singularize performs basic singularization (removes trailing 's').
func singularize(s string) string {
	if strings.HasSuffix(s, "ies") {
		return s[:len(s)-3] + "y"
	}
	if strings.HasSuffix(s, "s") {
		return s[:len(s)-1]
	}
	return s
}
