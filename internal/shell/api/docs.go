package api

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/gonchi028/academic/internal/core/domain"
	"github.com/gonchi028/academic/internal/core/validation"
	"github.com/gonchi028/academic/internal/shell/api/openapi"
)

// newDocs registers the three collections with an OpenAPI generator. The
// schema bounds mirror the field validators.
func newDocs(cfg Config) *openapi.Generator {
	opts := []openapi.Option{openapi.WithServer(cfg.ServerURL)}
	if cfg.Title != "" {
		opts = append(opts, openapi.WithTitle(cfg.Title))
	}
	if cfg.Version != "" {
		opts = append(opts, openapi.WithVersion(cfg.Version))
	}
	gen := openapi.NewGenerator(opts...)

	gen.RegisterResource(openapi.ResourceInfo{
		Name:       "alumnos",
		SchemaName: "Alumno",
		Model:      domain.Student{},
		Required:   []string{validation.FieldNombre, validation.FieldApellido, validation.FieldCorreo},
		Refine: func(props openapi3.Schemas) {
			nonEmpty(props, validation.FieldNombre, validation.FieldApellido)
			props[validation.FieldCorreo].Value.Format = "email"
		},
	})

	gen.RegisterResource(openapi.ResourceInfo{
		Name:       "materias",
		SchemaName: "Materia",
		Model:      domain.Subject{},
		Required:   []string{validation.FieldTitulo, validation.FieldSigla},
		Refine: func(props openapi3.Schemas) {
			nonEmpty(props, validation.FieldTitulo)
			sigla := props[validation.FieldSigla].Value
			sigla.MinLength = validation.MinSiglaLength
			sigla.MaxLength = openapi3.Uint64Ptr(validation.MaxSiglaLength)
		},
	})

	gen.RegisterResource(openapi.ResourceInfo{
		Name:       "tareas",
		SchemaName: "Tarea",
		Model:      domain.Task{},
		Required:   []string{validation.FieldDescripcion, validation.FieldCalificacion, validation.FieldMateriaID},
		Parent:     "materias",
		Refine: func(props openapi3.Schemas) {
			nonEmpty(props, validation.FieldDescripcion)
			score := props[validation.FieldCalificacion].Value
			score.Min = openapi3.Float64Ptr(validation.MinCalificacion)
			score.Max = openapi3.Float64Ptr(validation.MaxCalificacion)
			props[validation.FieldMateriaID].Value.Min = openapi3.Float64Ptr(1)
		},
	})

	return gen
}

func nonEmpty(props openapi3.Schemas, fields ...string) {
	for _, f := range fields {
		props[f].Value.MinLength = 1
	}
}
