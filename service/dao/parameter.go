package dao

// Parameter names understood by run stores.
const (
	ParamState  = "State"
	ParamPlan   = "Plan"
	ParamPolicy = "Policy"
)

// Parameter narrows a List call. Value is either a string or a []string
// matched as alternatives.
type Parameter struct {
	Name  string
	Value interface{}
}

func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
