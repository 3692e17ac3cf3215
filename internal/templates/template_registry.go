package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
	order     []string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerFileTemplates()
	registry.registerClientTemplates()
	registry.registerMethodTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// Names returns the registered template names in registration order
func (tr *TemplateRegistry) Names() []string {
	return append([]string(nil), tr.order...)
}

func (tr *TemplateRegistry) register(name, body string) {
	if _, exists := tr.templates[name]; !exists {
		tr.order = append(tr.order, name)
	}
	tr.templates[name] = body
}

// registerFileTemplates registers the generated file skeleton
func (tr *TemplateRegistry) registerFileTemplates() {
	tr.register(FileTemplate, `{{.Header}}

package {{.PackageName}}

{{.Imports}}
{{range .Clients}}{{template "client" .}}{{end}}`)
}

// registerClientTemplates registers the per-interface templates
func (tr *TemplateRegistry) registerClientTemplates() {
	// Descriptor table resolved once by retroqwest.NewClient
	tr.register("descriptors", `var {{.DescriptorVar}} = []retroqwest.Method{
{{- range .Methods}}
	{
		Name: {{quote .Name}},
		Verb: {{quote .Verb}},
		Path: {{quote .Path}},
{{- if .Params}}
		Params: []retroqwest.Param{
{{- range .Params}}
			{Name: {{quote .Name}}, Kind: {{.Kind}}{{if .Key}}, Key: {{quote .Key}}{{end}}},
{{- end}}
		},
{{- end}}
	},
{{- end}}
}
`)

	tr.register("client", `
{{template "descriptors" .}}
// {{.StructName}} is the HTTP client generated for {{.Interface}}
type {{.StructName}} struct {
	client *retroqwest.Client
}
{{if .Assert}}
var _ {{.Interface}} = (*{{.StructName}})(nil)
{{end}}
// New{{.StructName}} creates a {{.StructName}} calling baseURL. A nil builder uses the defaults.
func New{{.StructName}}(baseURL string, builder *retroqwest.ClientBuilder) (*{{.StructName}}, error) {
	client, err := retroqwest.NewClient({{quote .Interface}}, baseURL, builder, {{.DescriptorVar}}...)
	if err != nil {
		return nil, err
	}
	return &{{.StructName}}{client: client}, nil
}
{{if .Stringer}}
func ({{.Receiver}} *{{.StructName}}) String() string {
	return {{.Receiver}}.client.String()
}
{{end}}{{range .Methods}}{{template "method" .}}{{end}}`)
}

// registerMethodTemplates registers the remote call body
func (tr *TemplateRegistry) registerMethodTemplates() {
	tr.register("method", `
// {{.Name}} sends {{.Verb}} {{.Path}}
func ({{.Receiver}} *{{.StructName}}) {{.Name}}({{.Signature}}) ({{.ResultType}}, error) {
	return retroqwest.Call[{{.ResultType}}]({{.Context}}, {{.Receiver}}.client, {{quote .Name}}{{range .Params}}, {{.Name}}{{end}})
}
`)
}
