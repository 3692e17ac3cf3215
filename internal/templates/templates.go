package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/jakeswenson/retroqwest/internal/models"
)

const (
	// FileTemplate is the name of the template rendering a whole generated file
	FileTemplate = "client-file"

	// GeneratedHeader marks files produced by the generator
	GeneratedHeader = "// Code generated by retroqwest. DO NOT EDIT."

	// RuntimeImportPath is the package generated clients call into
	RuntimeImportPath = "github.com/jakeswenson/retroqwest/pkg/retroqwest"
)

// FileData is the input of the client-file template
type FileData struct {
	Header      string
	PackageName string
	Imports     string
	Clients     []ClientData
}

// ClientData describes one generated client
type ClientData struct {
	Interface     string
	StructName    string
	DescriptorVar string
	Receiver      string
	Assert        bool
	Stringer      bool
	Methods       []MethodData
}

// MethodData describes one generated method
type MethodData struct {
	Name       string
	Verb       string
	Path       string
	Signature  string
	Context    string
	ResultType string
	Receiver   string
	StructName string
	Params     []ParamData
}

// ParamData describes one descriptor parameter
type ParamData struct {
	Name string
	Type string
	Kind string
	Key  string
}

// BuildFileData converts package metadata into template input
func BuildFileData(metadata *models.PackageMetadata) (*FileData, error) {
	imports := NewImportManager()
	if metadata.HasClients() {
		imports.AddImport("", RuntimeImportPath)
	}
	for _, iface := range metadata.Interfaces {
		if len(iface.Methods) > 0 {
			imports.AddImport("", "context")
			break
		}
	}
	for _, imp := range metadata.Imports {
		imports.AddImport(imp.Name, imp.Path)
	}
	if err := imports.Validate(); err != nil {
		return nil, err
	}

	utils := NewTemplateUtils()
	data := &FileData{
		Header:      GeneratedHeader,
		PackageName: metadata.PackageName,
		Imports:     imports.GenerateImports(),
	}

	for _, iface := range metadata.Interfaces {
		data.Clients = append(data.Clients, buildClientData(iface, utils, imports.Names()))
	}

	return data, nil
}

func buildClientData(iface models.InterfaceMetadata, utils *TemplateUtils, importNames []string) ClientData {
	client := ClientData{
		Interface:     iface.Name,
		StructName:    iface.ClientName(),
		DescriptorVar: utils.DescriptorVar(iface.Name),
		Receiver:      utils.ReceiverName(iface, importNames),
		Assert:        !iface.HasEmbeds(),
		Stringer:      true,
	}

	for _, method := range iface.Methods {
		if method.Name == "String" {
			client.Stringer = false
		}
		client.Methods = append(client.Methods, buildMethodData(method, client, utils))
	}

	return client
}

func buildMethodData(method models.MethodMetadata, client ClientData, utils *TemplateUtils) MethodData {
	data := MethodData{
		Name:       method.Name,
		Verb:       method.Verb,
		Path:       method.Path,
		ResultType: method.ResultType,
		Receiver:   client.Receiver,
		StructName: client.StructName,
		Context:    "context.Background()",
	}

	var signature []string
	if method.HasContext {
		name := utils.ContextName(method)
		data.Context = name
		signature = append(signature, name+" context.Context")
	}

	for _, param := range method.Parameters {
		signature = append(signature, param.Name+" "+param.Type)
		p := ParamData{
			Name: param.Name,
			Type: param.Type,
			Kind: param.Kind.RuntimeKind(),
		}
		if param.Kind == models.QueryParameter && param.QueryName != "" && param.QueryName != param.Name {
			p.Key = param.QueryName
		}
		data.Params = append(data.Params, p)
	}
	data.Signature = strings.Join(signature, ", ")

	return data
}

// RenderFile executes the client-file template for metadata
func RenderFile(metadata *models.PackageMetadata) ([]byte, error) {
	data, err := BuildFileData(metadata)
	if err != nil {
		return nil, err
	}
	return NewTemplateRegistry().Execute(FileTemplate, data)
}

// Execute parses every registered template into one set and runs name with data
func (tr *TemplateRegistry) Execute(name string, data interface{}) ([]byte, error) {
	funcMap := template.FuncMap{
		"quote": NewTemplateUtils().QuoteString,
	}

	root := template.New(name).Funcs(funcMap)
	for _, templateName := range tr.order {
		if _, err := root.New(templateName).Parse(tr.templates[templateName]); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
		}
	}

	var buf bytes.Buffer
	if err := root.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.Bytes(), nil
}
