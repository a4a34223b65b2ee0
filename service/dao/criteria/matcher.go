package criteria

import (
	"github.com/viant/fluxplan/model"
	"github.com/viant/fluxplan/service/dao"
)

// MatchRun reports whether run satisfies every parameter. Unknown parameter
// names are ignored.
func MatchRun(run *model.Run, parameters []*dao.Parameter) bool {
	if run == nil {
		return false
	}
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		var actual string
		switch parameter.Name {
		case dao.ParamState:
			actual = string(run.State)
		case dao.ParamPlan:
			actual = run.Plan
		case dao.ParamPolicy:
			actual = string(run.Policy)
		default:
			continue
		}
		if !matches(actual, parameter.Value) {
			return false
		}
	}
	return true
}

func matches(actual string, expected interface{}) bool {
	switch candidate := expected.(type) {
	case string:
		return actual == candidate
	case []string:
		for _, s := range candidate {
			if actual == s {
				return true
			}
		}
		return false
	}
	return true
}
