package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jakeswenson/retroqwest/internal/annotations"
	rqerrors "github.com/jakeswenson/retroqwest/internal/errors"
	"github.com/jakeswenson/retroqwest/internal/models"
	"github.com/jakeswenson/retroqwest/pkg/retroqwest"
)

// Parser implements the InterfaceParser interface
type Parser struct {
	fileSet          *token.FileSet
	annotationParser *annotations.ParticipleParser
	reporter         *ErrorReporter
}

var _ InterfaceParser = (*Parser)(nil)

// NewParser creates a new interface parser with its own file set
func NewParser() *Parser {
	return NewParserWithFileSet(token.NewFileSet())
}

// NewParserWithFileSet creates a parser for files already parsed into fileSet
func NewParserWithFileSet(fileSet *token.FileSet) *Parser {
	return &Parser{
		fileSet:          fileSet,
		annotationParser: annotations.NewParticipleParser(annotations.DefaultRegistry()),
		reporter:         NewErrorReporter(fileSet),
	}
}

// FileSet returns the file set positions are resolved against
func (p *Parser) FileSet() *token.FileSet {
	return p.fileSet
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, rqerrors.WrapParseError(filename, err)
	}
	return p.ParseFiles(filepath.Dir(filename), []*ast.File{file})
}

// ParseDirectory parses the non-test Go files of a single package directory
func (p *Parser) ParseDirectory(dir string) (*models.PackageMetadata, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, rqerrors.WrapFileSystemError("read", dir, err)
	}

	var files []*ast.File
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		fileName := filepath.Join(dir, name)
		file, err := parser.ParseFile(p.fileSet, fileName, nil, parser.ParseComments)
		if err != nil {
			return nil, rqerrors.WrapParseError(fileName, err)
		}
		files = append(files, file)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no Go files found in directory %s", dir)
	}
	return p.ParseFiles(dir, files)
}

// ParseFiles extracts client interfaces from files of one package. Files
// carrying a "Code generated ... DO NOT EDIT." header are ignored.
func (p *Parser) ParseFiles(dir string, files []*ast.File) (*models.PackageMetadata, error) {
	var sources []*ast.File
	for _, file := range files {
		if !ast.IsGenerated(file) {
			sources = append(sources, file)
		}
	}
	sort.Slice(sources, func(i, j int) bool {
		return p.fileName(sources[i]) < p.fileName(sources[j])
	})

	metadata := &models.PackageMetadata{PackagePath: dir}
	for _, file := range sources {
		if metadata.PackageName == "" {
			metadata.PackageName = file.Name.Name
		} else if metadata.PackageName != file.Name.Name {
			return nil, p.reporter.Validation(file.Name.Pos(),
				"multiple packages in %s: %s and %s", dir, metadata.PackageName, file.Name.Name)
		}
	}
	if metadata.PackageName == "" && len(files) > 0 {
		metadata.PackageName = files[0].Name.Name
	}

	imports := newImportSet()
	for _, file := range sources {
		if err := p.extractInterfaces(file, metadata, imports); err != nil {
			return nil, err
		}
	}

	if err := p.checkDefaultBodies(sources, metadata); err != nil {
		return nil, err
	}

	metadata.Imports = imports.list()
	return metadata, nil
}

func (p *Parser) fileName(file *ast.File) string {
	return p.fileSet.Position(file.Package).Filename
}

// extractInterfaces walks the top-level type declarations of a file
func (p *Parser) extractInterfaces(file *ast.File, metadata *models.PackageMetadata, imports *importSet) error {
	fileImports := collectFileImports(file)

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec := spec.(*ast.TypeSpec)

			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}

			clientAnnotation, docLines, err := p.findClientAnnotation(doc)
			if err != nil {
				return err
			}
			if clientAnnotation == nil {
				continue
			}

			ifaceType, ok := typeSpec.Type.(*ast.InterfaceType)
			if !ok {
				return p.reporter.Validation(typeSpec.Name.Pos(),
					"client annotation must be on an interface type, %s is not an interface", typeSpec.Name.Name)
			}
			if typeSpec.TypeParams != nil && len(typeSpec.TypeParams.List) > 0 {
				return p.reporter.Validation(typeSpec.Name.Pos(), "generic interfaces are not supported")
			}

			iface, err := p.processInterface(typeSpec.Name, ifaceType, fileImports, imports, metadata)
			if err != nil {
				return err
			}
			iface.Doc = docLines
			metadata.Interfaces = append(metadata.Interfaces, iface)
		}
	}

	return nil
}

// findClientAnnotation returns the client annotation of a type doc comment
// and the doc lines that are not annotations
func (p *Parser) findClientAnnotation(doc *ast.CommentGroup) (*annotations.ParsedAnnotation, []string, error) {
	if doc == nil {
		return nil, nil, nil
	}

	var found *annotations.ParsedAnnotation
	var lines []string
	for _, comment := range doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			lines = append(lines, comment.Text)
			continue
		}
		parsed, err := p.annotationParser.ParseAnnotation(comment.Text, p.reporter.AnnotationLocation(comment.Slash))
		if err != nil {
			return nil, nil, p.reporter.Annotation(err, comment.Slash)
		}
		if parsed.Type != annotations.ClientAnnotation {
			return nil, nil, p.reporter.Validation(comment.Slash,
				"%s annotation is only valid on interface methods", parsed.Type)
		}
		if found != nil {
			return nil, nil, p.reporter.Validation(comment.Slash, "duplicate client annotation")
		}
		found = parsed
	}
	return found, lines, nil
}

// processInterface validates and extracts every method of a client interface
func (p *Parser) processInterface(name *ast.Ident, ifaceType *ast.InterfaceType, fileImports map[string]string, imports *importSet, metadata *models.PackageMetadata) (models.InterfaceMetadata, error) {
	pos := p.fileSet.Position(name.Pos())
	iface := models.InterfaceMetadata{
		Name:     name.Name,
		FileName: pos.Filename,
		Line:     pos.Line,
		Column:   pos.Column,
	}

	seen := make(map[string]bool)
	for _, field := range ifaceType.Methods.List {
		funcType, isMethod := field.Type.(*ast.FuncType)
		if !isMethod || len(field.Names) == 0 {
			embedded := exprString(field.Type)
			iface.Embeds = append(iface.Embeds, embedded)
			fieldPos := p.fileSet.Position(field.Pos())
			metadata.Warnings = append(metadata.Warnings, models.Warning{
				Message:  fmt.Sprintf("%s embeds %s; embedded methods are not generated and %s will not implement %s", name.Name, embedded, iface.ClientName(), name.Name),
				FileName: fieldPos.Filename,
				Line:     fieldPos.Line,
				Column:   fieldPos.Column,
			})
			continue
		}

		methodName := field.Names[0]
		if seen[methodName.Name] {
			return iface, p.reporter.Validation(methodName.Pos(), "duplicate method %s", methodName.Name)
		}
		seen[methodName.Name] = true

		method, err := p.processMethod(methodName, funcType, field.Doc, fileImports, imports)
		if err != nil {
			return iface, err
		}
		iface.Methods = append(iface.Methods, method)
	}

	return iface, nil
}

// reservedNames are identifiers the generated method bodies refer to
var reservedNames = map[string]bool{
	"retroqwest": true,
	"context":    true,
}

type marker struct {
	annotation *annotations.ParsedAnnotation
	pos        token.Pos
}

// processMethod runs the per-method validation and classification
func (p *Parser) processMethod(name *ast.Ident, funcType *ast.FuncType, doc *ast.CommentGroup, fileImports map[string]string, imports *importSet) (models.MethodMetadata, error) {
	pos := p.fileSet.Position(name.Pos())
	method := models.MethodMetadata{
		Name:     name.Name,
		FileName: pos.Filename,
		Line:     pos.Line,
		Column:   pos.Column,
	}

	// 1. verb annotation and parameter markers
	var verb *marker
	var verbNames []string
	markers := make(map[string]marker)
	var markerOrder []string
	if doc != nil {
		for _, comment := range doc.List {
			if !annotations.IsAnnotation(comment.Text) {
				continue
			}
			parsed, err := p.annotationParser.ParseAnnotation(comment.Text, p.reporter.AnnotationLocation(comment.Slash))
			if err != nil {
				return method, p.reporter.Annotation(err, comment.Slash)
			}

			switch {
			case parsed.Type.IsVerb():
				verbNames = append(verbNames, parsed.Type.String())
				if verb != nil {
					return method, p.reporter.MultipleVerbs(comment.Slash, name.Name, verbNames)
				}
				verb = &marker{annotation: parsed, pos: comment.Slash}
			case parsed.Type == annotations.QueryAnnotation || parsed.Type == annotations.JSONAnnotation:
				target := parsed.Arg(0)
				if _, dup := markers[target]; dup {
					return method, p.reporter.Validation(comment.Slash, "parameter %s is marked more than once", target)
				}
				markers[target] = marker{annotation: parsed, pos: comment.Slash}
				markerOrder = append(markerOrder, target)
			default:
				return method, p.reporter.Validation(comment.Slash, "%s annotation is only valid on interfaces", parsed.Type)
			}
		}
	}
	if verb == nil {
		return method, p.reporter.MissingVerb(name.Pos(), name.Name)
	}

	// 2. verb and path
	method.Verb = verb.annotation.Type.Verb()
	method.Path = verb.annotation.Arg(0)

	// 3. result must be (T, error)
	results := flattenFields(funcType.Results)
	if len(results) != 2 || !isErrorType(results[1].typ) {
		return method, p.reporter.ResultShape(funcType.Pos(), name.Name, resultString(funcType.Results))
	}
	method.ResultType = exprString(results[0].typ)
	collectTypeImports(results[0].typ, fileImports, imports)
	// the result type is repeated inside the generated body
	resultPackages := packageNames(results[0].typ, fileImports)

	// 4. classify parameters
	params := flattenFields(funcType.Params)
	pathParams := make(map[string]bool)
	bodies := 0
	for i, param := range params {
		if _, ok := param.typ.(*ast.Ellipsis); ok {
			return method, p.reporter.Validation(param.pos, MsgVariadicParameter)
		}
		if isContextType(param.typ, fileImports) {
			if i != 0 {
				return method, p.reporter.Validation(param.pos, MsgContextPosition)
			}
			method.HasContext = true
			method.ContextName = param.name
			if m, marked := markers[param.name]; marked && param.name != "" {
				return method, p.reporter.Validation(m.pos, "the context parameter %s cannot be marked", param.name)
			}
			continue
		}
		if param.name == "" || param.name == "_" {
			return method, p.reporter.Validation(param.pos, MsgUnnamedParameter)
		}
		if reservedNames[param.name] || resultPackages[param.name] {
			return method, p.reporter.Validation(param.pos, "parameter name %s shadows a package used by the generated client", param.name)
		}

		meta := models.ParameterMetadata{
			Name: param.name,
			Type: exprString(param.typ),
			Kind: models.PathParameter,
		}
		if m, marked := markers[param.name]; marked {
			switch m.annotation.Type {
			case annotations.QueryAnnotation:
				meta.Kind = models.QueryParameter
				meta.QueryName = m.annotation.GetString("Name")
			case annotations.JSONAnnotation:
				if !retroqwest.AllowsBody(method.Verb) {
					return method, p.reporter.Validation(m.pos, "%s methods cannot have a json body", method.Verb)
				}
				meta.Kind = models.JSONParameter
				bodies++
				if bodies > 1 {
					return method, p.reporter.Validation(m.pos, MsgMultipleBodies)
				}
			}
			delete(markers, param.name)
		} else {
			pathParams[param.name] = true
		}

		collectTypeImports(param.typ, fileImports, imports)
		method.Parameters = append(method.Parameters, meta)
	}

	for _, target := range markerOrder {
		if m, unused := markers[target]; unused {
			return method, p.reporter.Validation(m.pos,
				"%s annotation names unknown parameter '%s'", m.annotation.Type, target)
		}
	}

	// 5. placeholders and path parameters must match
	tmpl, err := retroqwest.ParsePathTemplate(method.Path)
	if err != nil {
		return method, p.reporter.PlaceholderMismatch(verb.pos, name.Name, err)
	}
	if err := retroqwest.MatchPlaceholders(tmpl, pathParams); err != nil {
		return method, p.reporter.PlaceholderMismatch(verb.pos, name.Name, err)
	}

	return method, nil
}

// checkDefaultBodies rejects hand-written methods on a generated client type
// that implement one of its interface methods
func (p *Parser) checkDefaultBodies(files []*ast.File, metadata *models.PackageMetadata) error {
	clients := make(map[string]models.InterfaceMetadata, len(metadata.Interfaces))
	generated := make(map[string]bool)
	for _, iface := range metadata.Interfaces {
		clients[iface.ClientName()] = iface
		for _, name := range iface.GeneratedNames() {
			generated[name] = true
		}
	}
	if len(clients) == 0 {
		return nil
	}

	for _, file := range files {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.FuncDecl:
				if d.Recv == nil || len(d.Recv.List) == 0 {
					if generated[d.Name.Name] {
						return p.reporter.Validation(d.Name.Pos(), MsgGeneratedName, d.Name.Name)
					}
					continue
				}
				receiver := receiverTypeName(d.Recv.List[0].Type)
				iface, ok := clients[receiver]
				if !ok || !hasMethod(iface, d.Name.Name) {
					continue
				}
				pos := d.Name.Pos()
				if d.Body != nil {
					pos = d.Body.Lbrace
				}
				return p.reporter.DefaultBody(pos, receiver, d.Name.Name)
			case *ast.GenDecl:
				for _, name := range declaredNames(d) {
					if generated[name.Name] {
						return p.reporter.Validation(name.Pos(), MsgGeneratedName, name.Name)
					}
				}
			}
		}
	}
	return nil
}

// declaredNames returns the identifiers a type, var or const declaration introduces
func declaredNames(d *ast.GenDecl) []*ast.Ident {
	var names []*ast.Ident
	for _, spec := range d.Specs {
		switch s := spec.(type) {
		case *ast.TypeSpec:
			names = append(names, s.Name)
		case *ast.ValueSpec:
			names = append(names, s.Names...)
		}
	}
	return names
}

func hasMethod(iface models.InterfaceMetadata, name string) bool {
	for _, m := range iface.Methods {
		if m.Name == name {
			return true
		}
	}
	return false
}

// receiverTypeName returns Foo for receivers Foo, *Foo, Foo[T] and *Foo[T]
func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return ""
	}
}

type fieldEntry struct {
	name string
	typ  ast.Expr
	pos  token.Pos
}

// flattenFields expands grouped fields like (a, b string) into one entry per name
func flattenFields(list *ast.FieldList) []fieldEntry {
	if list == nil {
		return nil
	}
	var entries []fieldEntry
	for _, field := range list.List {
		if len(field.Names) == 0 {
			entries = append(entries, fieldEntry{typ: field.Type, pos: field.Pos()})
			continue
		}
		for _, name := range field.Names {
			entries = append(entries, fieldEntry{name: name.Name, typ: field.Type, pos: name.Pos()})
		}
	}
	return entries
}

func resultString(list *ast.FieldList) string {
	entries := flattenFields(list)
	if len(entries) == 0 {
		return "nothing"
	}
	parts := make([]string, len(entries))
	for i, entry := range entries {
		parts[i] = exprString(entry.typ)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func isErrorType(expr ast.Expr) bool {
	ident, ok := expr.(*ast.Ident)
	return ok && ident.Name == "error"
}

func isContextType(expr ast.Expr, fileImports map[string]string) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Context" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && fileImports[pkg.Name] == ContextImportPath
}

func exprString(expr ast.Expr) string {
	return types.ExprString(expr)
}

// collectFileImports maps the names a file uses for its imports to import paths
func collectFileImports(file *ast.File) map[string]string {
	result := make(map[string]string)
	for _, spec := range file.Imports {
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := models.DefaultImportName(importPath)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		result[name] = importPath
	}
	return result
}

// collectTypeImports records the imports referenced by a type expression
func collectTypeImports(expr ast.Expr, fileImports map[string]string, imports *importSet) {
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		pkg, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		if importPath, known := fileImports[pkg.Name]; known {
			imports.add(pkg.Name, importPath)
		}
		return false
	})
}

// packageNames returns the local names of imported packages referenced by expr
func packageNames(expr ast.Expr, fileImports map[string]string) map[string]bool {
	names := make(map[string]bool)
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if pkg, ok := sel.X.(*ast.Ident); ok {
			if _, known := fileImports[pkg.Name]; known {
				names[pkg.Name] = true
			}
		}
		return false
	})
	return names
}

type importSet struct {
	byPath map[string]models.Import
}

func newImportSet() *importSet {
	return &importSet{byPath: make(map[string]models.Import)}
}

func (s *importSet) add(name, importPath string) {
	if _, exists := s.byPath[importPath]; exists {
		return
	}
	imp := models.Import{Path: importPath}
	if name != models.DefaultImportName(importPath) {
		imp.Name = name
	}
	s.byPath[importPath] = imp
}

func (s *importSet) list() []models.Import {
	result := make([]models.Import, 0, len(s.byPath))
	for _, imp := range s.byPath {
		result = append(result, imp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}
