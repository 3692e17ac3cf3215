package templates

import (
	"strconv"

	"github.com/jakeswenson/retroqwest/internal/models"
)

// receiverCandidates are tried in order until one is free
var receiverCandidates = []string{"c", "rq", "client_"}

// TemplateUtils provides naming helpers shared by the templates
type TemplateUtils struct{}

// NewTemplateUtils creates a new TemplateUtils instance
func NewTemplateUtils() *TemplateUtils {
	return &TemplateUtils{}
}

// DescriptorVar names the descriptor table of an interface, e.g. usersMethods
func (tu *TemplateUtils) DescriptorVar(interfaceName string) string {
	return models.InterfaceMetadata{Name: interfaceName}.DescriptorVar()
}

// ReceiverName picks a receiver identifier that no method parameter or
// imported package name shadows
func (tu *TemplateUtils) ReceiverName(iface models.InterfaceMetadata, importNames []string) string {
	used := make(map[string]bool)
	for _, name := range importNames {
		used[name] = true
	}
	for _, method := range iface.Methods {
		if method.HasContext {
			used[tu.ContextName(method)] = true
		}
		for _, param := range method.Parameters {
			used[param.Name] = true
		}
	}

	for _, candidate := range receiverCandidates {
		if !used[candidate] {
			return candidate
		}
	}
	for i := 2; ; i++ {
		candidate := "c" + strconv.Itoa(i)
		if !used[candidate] {
			return candidate
		}
	}
}

// ContextName returns the identifier for the context parameter. Unnamed and
// blank contexts are given a name since the call forwards them.
func (tu *TemplateUtils) ContextName(method models.MethodMetadata) string {
	if method.ContextName != "" && method.ContextName != "_" {
		return method.ContextName
	}

	name := "ctx"
	for taken := true; taken; {
		taken = false
		for _, param := range method.Parameters {
			if param.Name == name {
				name += "_"
				taken = true
				break
			}
		}
	}
	return name
}

// QuoteString renders s as a Go string literal
func (tu *TemplateUtils) QuoteString(s string) string {
	return strconv.Quote(s)
}
