package models

import "github.com/iancoleman/strcase"

// InterfaceMetadata represents an annotated interface declaration
type InterfaceMetadata struct {
	Name     string           // interface name
	Doc      []string         // doc comment lines that are not annotations
	Methods  []MethodMetadata // methods in declaration order
	Embeds   []string         // embedded interfaces, rendered as source
	FileName string
	Line     int
	Column   int
}

// ClientName returns the name of the generated client struct
func (i InterfaceMetadata) ClientName() string {
	return i.Name + "Client"
}

// DescriptorVar names the descriptor table of the client, e.g. usersMethods
func (i InterfaceMetadata) DescriptorVar() string {
	return strcase.ToLowerCamel(i.Name) + "Methods"
}

// GeneratedNames lists the package level identifiers the generated client declares
func (i InterfaceMetadata) GeneratedNames() []string {
	return []string{i.ClientName(), "New" + i.ClientName(), i.DescriptorVar()}
}

// HasEmbeds reports whether the interface embeds other interfaces. The
// generated client cannot satisfy those, so no compile-time assertion is emitted.
func (i InterfaceMetadata) HasEmbeds() bool {
	return len(i.Embeds) > 0
}

// MethodMetadata represents one remote call
type MethodMetadata struct {
	Name        string              // method name
	Verb        string              // HTTP method, upper case
	Path        string              // path template
	HasContext  bool                // first parameter is a context.Context
	ContextName string              // identifier of the context parameter
	Parameters  []ParameterMetadata // classified parameters, context excluded
	ResultType  string              // T of the (T, error) result
	FileName    string
	Line        int
	Column      int
}

// ParametersByKind returns the parameters of the given kind in declaration order
func (m MethodMetadata) ParametersByKind(kind ParameterKind) []ParameterMetadata {
	var result []ParameterMetadata
	for _, p := range m.Parameters {
		if p.Kind == kind {
			result = append(result, p)
		}
	}
	return result
}

// ParameterMetadata represents a method parameter
type ParameterMetadata struct {
	Name      string        // identifier in the signature
	Type      string        // type rendered as source
	Kind      ParameterKind // how the value reaches the request
	QueryName string        // query string key for query parameters
}

// QueryKey returns the query string key, defaulting to the parameter name
func (p ParameterMetadata) QueryKey() string {
	if p.QueryName != "" {
		return p.QueryName
	}
	return p.Name
}
