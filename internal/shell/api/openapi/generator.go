// Package openapi builds the OpenAPI 3.0 description of the academic API by
// reflecting on the registered record types.
package openapi

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Generator
// =============================================================================

// Generator produces an OpenAPI 3.0 document from registered resources.
type Generator struct {
	title       string
	version     string
	description string
	servers     []string
	resources   []ResourceInfo
	mu          sync.RWMutex
	cachedSpec  *openapi3.T
}

// ResourceInfo describes one REST collection.
type ResourceInfo struct {
	Name       string   // collection path segment, e.g. "alumnos"
	SchemaName string   // component name, e.g. "Alumno"
	Model      any      // record struct for schema extraction
	Required   []string // fields a create body must carry
	Parent     string   // when set, also served as GET /{Parent}/{id}/{Name}

	// Refine adjusts the extracted property schemas, e.g. to add bounds.
	Refine func(props openapi3.Schemas)
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
		if url != "" {
			g.servers = append(g.servers, url)
		}
	}
}

// NewGenerator creates a new OpenAPI generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		title:       "Academic API",
		version:     "1.0.0",
		description: "Students, subjects and graded tasks",
		resources:   make([]ResourceInfo, 0),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// RegisterResource adds a resource to the generator.
func (g *Generator) RegisterResource(info ResourceInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resources = append(g.resources, info)
	g.cachedSpec = nil
}

// Generate produces the complete OpenAPI document.
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

	g.addCommonSchemas(spec)

	for _, res := range g.resources {
		g.addResourceToSpec(spec, res)
	}

	g.cachedSpec = spec
	return spec
}

// YAML renders the document as YAML, keeping the JSON key order.
func (g *Generator) YAML() ([]byte, error) {
	data, err := json.Marshal(g.Generate())
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	blockStyle(&doc)
	return yaml.Marshal(&doc)
}

// blockStyle clears the flow style yaml.v3 keeps for nodes parsed from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Handler serves the document as JSON.
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

// YAMLHandler serves the document as YAML.
func (g *Generator) YAMLHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := g.YAML()
		if err != nil {
			http.Error(w, "Failed to encode OpenAPI spec", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/yaml")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Write(data)
	}
}

// =============================================================================
// Schema Generation
// =============================================================================

func (g *Generator) addCommonSchemas(spec *openapi3.T) {
	spec.Components.Schemas["Error"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": &openapi3.SchemaRef{
					Value: &openapi3.Schema{Type: &openapi3.Types{"string"}},
				},
				"code": &openapi3.SchemaRef{
					Value: &openapi3.Schema{Type: &openapi3.Types{"string"}},
				},
				"details": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}},
					},
				},
			},
			Required: []string{"error"},
		},
	}

	spec.Components.Schemas["Message"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"message": &openapi3.SchemaRef{
					Value: &openapi3.Schema{Type: &openapi3.Types{"string"}},
				},
			},
			Required: []string{"message"},
		},
	}
}

// addResourceToSpec adds the record schemas and the collection and item
// paths of one resource.
func (g *Generator) addResourceToSpec(spec *openapi3.T, res ResourceInfo) {
	basePath := "/" + res.Name
	schemaName := res.SchemaName
	if schemaName == "" {
		schemaName = capitalize(singularize(res.Name))
	}

	record := g.extractSchema(res.Model)
	record.Value.Required = []string{"id"}
	if res.Refine != nil {
		res.Refine(record.Value.Properties)
	}
	spec.Components.Schemas[schemaName] = record

	// The write body is the record without its id, every field optional.
	input := &openapi3.Schema{
		Type:       &openapi3.Types{"object"},
		Properties: make(openapi3.Schemas, len(record.Value.Properties)),
	}
	for name, prop := range record.Value.Properties {
		if name != "id" {
			input.Properties[name] = prop
		}
	}
	spec.Components.Schemas[schemaName+"Input"] = &openapi3.SchemaRef{Value: input}

	spec.Paths.Set(basePath, &openapi3.PathItem{
		Get:  g.createListOperation(res.Name, schemaName),
		Post: g.createCreateOperation(res, schemaName),
	})

	spec.Paths.Set(basePath+"/{id}", &openapi3.PathItem{
		Parameters: openapi3.Parameters{idParameter()},
		Get:        g.createGetOperation(schemaName),
		Put:        g.createUpdateOperation(schemaName),
		Delete:     g.createDeleteOperation(schemaName, hasChildren(g.resources, res.Name)),
	})

	if res.Parent != "" {
		nested := g.createListOperation(res.Name, schemaName)
		nested.OperationID = "list" + capitalize(res.Name) + "By" + capitalize(singularize(res.Parent))
		nested.Summary = "List the " + res.Name + " of one " + singularize(res.Parent)
		nested.Responses.Set("404", errorResponse("Parent not found"))
		nested.Responses.Set("400", errorResponse("Invalid ID"))
		spec.Paths.Set("/"+res.Parent+"/{id}/"+res.Name, &openapi3.PathItem{
			Parameters: openapi3.Parameters{idParameter()},
			Get:        nested,
		})
	}
}

// extractSchema extracts an OpenAPI schema from a Go struct.
func (g *Generator) extractSchema(model any) *openapi3.SchemaRef {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

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
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
		}

		if propSchema := g.goTypeToSchema(field.Type); propSchema != nil {
			schema.Properties[name] = propSchema
		}
	}

	return &openapi3.SchemaRef{Value: schema}
}

// goTypeToSchema converts a Go type to an OpenAPI schema.
func (g *Generator) goTypeToSchema(t reflect.Type) *openapi3.SchemaRef {
	switch t.Kind() {
	case reflect.String:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}}

	case reflect.Int64:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}}

	case reflect.Float32, reflect.Float64:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"number"}}}

	case reflect.Bool:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"boolean"}}}

	case reflect.Slice, reflect.Array:
		return &openapi3.SchemaRef{
			Value: &openapi3.Schema{
				Type:  &openapi3.Types{"array"},
				Items: g.goTypeToSchema(t.Elem()),
			},
		}

	case reflect.Ptr:
		schema := g.goTypeToSchema(t.Elem())
		if schema != nil && schema.Value != nil {
			schema.Value.Nullable = true
		}
		return schema

	case reflect.Struct:
		return g.extractSchema(reflect.New(t).Interface())

	default:
		return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}}
	}
}

// =============================================================================
// Operation Generation
// =============================================================================

func (g *Generator) createListOperation(name, schemaName string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "list" + capitalize(name),
		Summary:     "List " + name,
		Tags:        []string{schemaName},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{
				Value: jsonResponse("All "+name+" ordered by id", &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: schemaRef(schemaName),
					},
				}),
			}),
		),
	}
}

func (g *Generator) createGetOperation(schemaName string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "get" + schemaName,
		Summary:     "Get a " + strings.ToLower(schemaName),
		Tags:        []string{schemaName},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{Value: jsonResponse("The record", schemaRef(schemaName))}),
			openapi3.WithStatus(400, errorResponse("Invalid ID")),
			openapi3.WithStatus(404, errorResponse(schemaName+" not found")),
		),
	}
}

func (g *Generator) createCreateOperation(res ResourceInfo, schemaName string) *openapi3.Operation {
	body := &openapi3.Schema{
		AllOf:    openapi3.SchemaRefs{schemaRef(schemaName + "Input")},
		Required: res.Required,
	}

	op := &openapi3.Operation{
		OperationID: "create" + schemaName,
		Summary:     "Create a " + strings.ToLower(schemaName),
		Tags:        []string{schemaName},
		RequestBody: requestBody(&openapi3.SchemaRef{Value: body}),
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(201, &openapi3.ResponseRef{
				Value: jsonResponse("A one-element array holding the created record", &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:     &openapi3.Types{"array"},
						Items:    schemaRef(schemaName),
						MinItems: 1,
						MaxItems: openapi3.Uint64Ptr(1),
					},
				}),
			}),
			openapi3.WithStatus(400, errorResponse("Invalid JSON or failed validation")),
			openapi3.WithStatus(409, errorResponse("A unique value is already taken")),
		),
	}
	if res.Parent != "" {
		op.Responses.Set("404", errorResponse("Referenced "+singularize(res.Parent)+" not found"))
	}
	return op
}

func (g *Generator) createUpdateOperation(schemaName string) *openapi3.Operation {
	return &openapi3.Operation{
		OperationID: "update" + schemaName,
		Summary:     "Update the supplied fields of a " + strings.ToLower(schemaName),
		Tags:        []string{schemaName},
		RequestBody: requestBody(schemaRef(schemaName + "Input")),
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{Value: jsonResponse("The merged record", schemaRef(schemaName))}),
			openapi3.WithStatus(400, errorResponse("Invalid ID, invalid JSON or failed validation")),
			openapi3.WithStatus(404, errorResponse(schemaName+" not found")),
			openapi3.WithStatus(409, errorResponse("A unique value is already taken")),
		),
	}
}

func (g *Generator) createDeleteOperation(schemaName string, guarded bool) *openapi3.Operation {
	op := &openapi3.Operation{
		OperationID: "delete" + schemaName,
		Summary:     "Delete a " + strings.ToLower(schemaName),
		Tags:        []string{schemaName},
		Responses: openapi3.NewResponses(
			openapi3.WithStatus(200, &openapi3.ResponseRef{Value: jsonResponse("Deleted", schemaRef("Message"))}),
			openapi3.WithStatus(400, errorResponse("Invalid ID")),
			openapi3.WithStatus(404, errorResponse(schemaName+" not found")),
		),
	}
	if guarded {
		op.Responses.Set("409", errorResponse("Dependent records still exist"))
	}
	return op
}

// =============================================================================
// Helpers
// =============================================================================

func schemaRef(name string) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name}
}

func idParameter() *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name:     "id",
			In:       "path",
			Required: true,
			Schema: &openapi3.SchemaRef{
				Value: &openapi3.Schema{
					Type:   &openapi3.Types{"integer"},
					Format: "int64",
					Min:    openapi3.Float64Ptr(1),
				},
			},
		},
	}
}

func requestBody(schema *openapi3.SchemaRef) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithJSONSchemaRef(schema)),
	}
}

func jsonResponse(description string, schema *openapi3.SchemaRef) *openapi3.Response {
	return openapi3.NewResponse().
		WithDescription(description).
		WithContent(openapi3.NewContentWithJSONSchemaRef(schema))
}

func errorResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: jsonResponse(description, schemaRef("Error"))}
}

// hasChildren reports whether any resource is nested under name.
func hasChildren(resources []ResourceInfo, name string) bool {
	for _, r := range resources {
		if r.Parent == name {
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

// singularize strips the plural "s" of a collection name.
func singularize(s string) string {
	if strings.HasSuffix(s, "s") {
		return s[:len(s)-1]
	}
	return s
}
