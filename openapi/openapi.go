// Copyright (c) 2026 ApiWeave and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package openapi renders the routing tree under an [api.Interface] into
// an OpenAPI 3.0 document.
package openapi

import (
	"sort"
	"strings"

	"github.com/apiweave/apiweave/api"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

// SpecOf walks every operation registered below the interface and
// produces an OpenAPI document: one path item per collated path, one
// operation per method, typed path parameters and the default error
// response schema reflected from [api.Error].
func SpecOf(iface *api.Interface, title, version string) (*openapi3.Spec, error) {
	spec := &openapi3.Spec{
		Openapi: "3.0.3",
		Info: openapi3.Info{
			Title:   title,
			Version: version,
		},
	}

	errResponse, err := defaultErrorResponse()
	if err != nil {
		return nil, err
	}

	for _, po := range iface.CollatedOperations() {
		endpoint := po.Path.Format(paramNameFormatter)

		for _, method := range sortedMethods(po.Methods) {
			op := po.Methods[method]

			oaOp := openapi3.Operation{
				Tags:       op.Tags(),
				Parameters: operationParameters(po.Path, op),
				Responses: openapi3.Responses{
					Default: &errResponse,
				},
			}
			if s := op.Summary(); s != "" {
				oaOp.Summary = ptr.Ref(s)
			}

			err := spec.AddOperation(strings.ToUpper(string(method)), endpoint, oaOp)
			if err != nil {
				return nil, err
			}
		}
	}
	return spec, nil
}

// paramNameFormatter renders parameters in the bare "{name}" form used
// by OpenAPI path templates.
func paramNameFormatter(p api.PathParam) string {
	return "{" + p.Name + "}"
}

func sortedMethods(methods map[api.Method]*api.Operation) []api.Method {
	ms := make([]api.Method, 0, len(methods))
	for m := range methods {
		ms = append(ms, m)
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })
	return ms
}

func operationParameters(path api.UrlPath, op *api.Operation) []openapi3.ParameterOrRef {
	var params []openapi3.ParameterOrRef
	for _, p := range path.PathParams() {
		schemaType := openapi3.SchemaType(p.Type)
		params = append(params, openapi3.ParameterOrRef{
			Parameter: &openapi3.Parameter{
				Name:     p.Name,
				In:       openapi3.ParameterInPath,
				Required: ptr.Ref(true),
				Schema: &openapi3.SchemaOrRef{
					Schema: &openapi3.Schema{Type: &schemaType},
				},
			},
		})
	}

	for _, d := range op.ParamDocs() {
		schemaType := openapi3.SchemaType(d.Type)
		param := &openapi3.Parameter{
			Name: d.Name,
			In:   openapi3.ParameterIn(d.In),
			Schema: &openapi3.SchemaOrRef{
				Schema: &openapi3.Schema{Type: &schemaType},
			},
		}
		if d.Description != "" {
			param.Description = ptr.Ref(d.Description)
		}
		params = append(params, openapi3.ParameterOrRef{Parameter: param})
	}
	return params
}

func defaultErrorResponse() (openapi3.ResponseOrRef, error) {
	var reflector jsonschema.Reflector
	schema, err := reflector.Reflect(api.Error{}, jsonschema.InlineRefs)
	if err != nil {
		return openapi3.ResponseOrRef{}, err
	}

	var schemaOrRef openapi3.SchemaOrRef
	schemaOrRef.FromJSONSchema(schema.ToSchemaOrBool())

	return openapi3.ResponseOrRef{
		Response: &openapi3.Response{
			Description: "Unhandled error",
			Content: map[string]openapi3.MediaType{
				api.JSONContentType: {
					Schema: &schemaOrRef,
				},
			},
		},
	}, nil
}
