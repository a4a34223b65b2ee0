// Package filter selects records from a slice of objects by key/value conditions.
package filter

import (
	"reflect"

	"github.com/viant/structology/conv"
	"github.com/viant/structology/visitor"
)

// Conditions maps a record key to the expected value.
type Conditions map[string]interface{}

// Service matches records with loose equality: values of different types are
// compared after converting one side to the type of the other, so 1 matches "1".
type Service struct {
	converter *conv.Converter
}

// Normalize returns conditions without the keys whose value is an empty string.
// The receiver is left untouched.
func (c Conditions) Normalize() Conditions {
	ret := make(Conditions, len(c))
	for key, value := range c {
		if text, ok := value.(string); ok && text == "" {
			continue
		}
		ret[key] = value
	}
	return ret
}

// Filter returns the records matching every non-empty condition, preserving
// order. With no effective conditions every record matches.
func (s *Service) Filter(records []map[string]interface{}, conditions Conditions) ([]map[string]interface{}, error) {
	effective := conditions.Normalize()
	ret := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		ok, err := s.Matches(record, effective)
		if err != nil {
			return nil, err
		}
		if ok {
			ret = append(ret, record)
		}
	}
	return ret, nil
}

// Matches reports whether record holds every condition key with a loosely
// equal value. A missing key never matches.
func (s *Service) Matches(record map[string]interface{}, conditions Conditions) (bool, error) {
	matched := true
	visit := visitor.MapVisitorOf[string, interface{}](conditions)
	err := visit(func(key string, expected interface{}) (bool, error) {
		actual, ok := record[key]
		if !ok || !s.equal(actual, expected) {
			matched = false
			return false, nil
		}
		return true, nil
	})
	return matched, err
}

func (s *Service) equal(actual, expected interface{}) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	if reflect.TypeOf(actual) == reflect.TypeOf(expected) {
		return reflect.DeepEqual(actual, expected)
	}
	return s.convertedEqual(expected, actual) || s.convertedEqual(actual, expected)
}

// convertedEqual converts value to the type of target and compares.
func (s *Service) convertedEqual(value, target interface{}) bool {
	converted := reflect.New(reflect.TypeOf(target))
	if err := s.converter.Convert(value, converted.Interface()); err != nil {
		return false
	}
	return reflect.DeepEqual(converted.Elem().Interface(), target)
}

func New() *Service {
	return &Service{converter: conv.NewConverter(conv.DefaultOptions())}
}
