package config

import (
	"os"
	"reflect"
	"regexp"
	"strings"
)

// Captura placeholders ${env.NOME} nos valores do arquivo YAML.
// Ex: password: "${env.PGPASSWORD}"
var placeholder = regexp.MustCompile(`\$\{env\.([^}]+)\}`)

// Interpolate substitui placeholders ${env.NOME} em todos os campos string de
// target. Variáveis inexistentes viram string vazia.
func Interpolate(target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return &InvalidConfigError{Value: reflect.TypeOf(target)}
	}
	interpolateValue(v.Elem())
	return nil
}

func interpolateValue(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if field := v.Field(i); field.CanSet() {
				interpolateValue(field)
			}
		}
	case reflect.Ptr:
		if !v.IsNil() {
			interpolateValue(v.Elem())
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(expand(v.String()))
		}
	}
}

func expand(input string) string {
	if !strings.Contains(input, "${") {
		return input
	}
	return placeholder.ReplaceAllStringFunc(input, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}
