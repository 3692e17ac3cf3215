package models

// ParameterKind represents where a parameter value is sent
type ParameterKind int

const (
	PathParameter ParameterKind = iota
	QueryParameter
	JSONParameter
)

// String returns the string representation of the parameter kind
func (k ParameterKind) String() string {
	switch k {
	case PathParameter:
		return "path"
	case QueryParameter:
		return "query"
	case JSONParameter:
		return "json"
	default:
		return "unknown"
	}
}

// RuntimeKind returns the retroqwest.ParamKind constant used in generated code
func (k ParameterKind) RuntimeKind() string {
	switch k {
	case QueryParameter:
		return "retroqwest.QueryParam"
	case JSONParameter:
		return "retroqwest.JSONParam"
	default:
		return "retroqwest.PathParam"
	}
}
