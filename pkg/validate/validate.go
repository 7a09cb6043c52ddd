// Package validate provides struct-tag validation for zaika input structs.
//
// Validation here is deliberately shallow: it mirrors presence/format checks
// only. Stock, pricing and tax are validated by the backend, and its
// rejections are surfaced verbatim.
//
// Supported rules (comma-separated in the `validate` tag):
//
//	required            field must not be zero/empty
//	nullable            if empty, skip all remaining rules for this field
//	email               valid email address
//	alpha               letters only
//	alpha_num           letters and digits only
//	numeric             any number
//	digits=N            exactly N decimal digits
//	min=N               string: min char length | number: min value
//	max=N               string: max char length | number: max value
//	in=a|b|c            value must be one of the listed items
//	regex=pattern       value must match the regex (avoid commas in pattern)
//
// Example:
//
//	type Billing struct {
//	    FirstName string `json:"firstName" validate:"required,min=2,max=100"`
//	    Email     string `json:"email"     validate:"required,email"`
//	    Zip       string `json:"zip"       validate:"required,digits=6"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of fieldName → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)

		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonFieldName(field)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = msg
				break // first failing rule per field
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func applyRule(rule, field string, v reflect.Value) string {
	raw := fmt.Sprintf("%v", v.Interface())
	key, param, _ := strings.Cut(rule, "=")

	switch key {
	case "required":
		if isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}

	case "email":
		if !emailRE.MatchString(raw) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}

	case "alpha":
		for _, r := range raw {
			if !unicode.IsLetter(r) {
				return fmt.Sprintf("The %s may only contain letters.", field)
			}
		}

	case "alpha_num":
		for _, r := range raw {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return fmt.Sprintf("The %s may only contain letters and numbers.", field)
			}
		}

	case "numeric":
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Sprintf("The %s must be a number.", field)
		}

	case "digits":
		n, _ := strconv.Atoi(param)
		if len(raw) != n || !allDigits(raw) {
			return fmt.Sprintf("The %s must be %s digits.", field, param)
		}

	case "min":
		if !meetsBound(v, raw, param, false) {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}

	case "max":
		if !meetsBound(v, raw, param, true) {
			return fmt.Sprintf("The %s may not be greater than %s.", field, param)
		}

	case "in":
		for _, option := range strings.Split(param, "|") {
			if raw == option {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)

	case "regex":
		re, err := regexp.Compile(param)
		if err != nil || !re.MatchString(raw) {
			return fmt.Sprintf("The %s format is invalid.", field)
		}
	}

	return ""
}

// meetsBound compares strings by length and numbers by value.
func meetsBound(v reflect.Value, raw, param string, isMax bool) bool {
	bound, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return true
	}

	var actual float64
	switch v.Kind() {
	case reflect.String:
		actual = float64(len([]rune(raw)))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		actual = float64(v.Int())
	case reflect.Float32, reflect.Float64:
		actual = v.Float()
	default:
		return true
	}

	if isMax {
		return actual <= bound
	}
	return actual >= bound
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func hasRule(rules []string, name string) bool {
	for _, r := range rules {
		if r == name {
			return true
		}
	}
	return false
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return v.IsZero()
	}
}

func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return f.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}
