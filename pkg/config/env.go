// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"
)

// tagSource decide qual valor bruto usar para um campo com tag `env`.
// ok=false quando o campo deve permanecer como está.
type tagSource func(field reflect.StructField) (envVar, raw string, ok bool)

// fromDefaults lê a tag `envDefault`.
func fromDefaults(field reflect.StructField) (string, string, bool) {
	raw := field.Tag.Get("envDefault")
	return field.Tag.Get("env"), raw, raw != ""
}

// fromEnvironment lê a variável de ambiente apontada pela tag `env`.
// Uma variável definida com valor vazio também conta como definida.
func fromEnvironment(field reflect.StructField) (string, string, bool) {
	name := field.Tag.Get("env")
	if name == "" {
		return "", "", false
	}
	raw, ok := os.LookupEnv(name)
	return name, raw, ok
}

// ApplyDefaults preenche a struct apontada por target com os valores de `envDefault`.
func ApplyDefaults(target interface{}) error {
	return walk(target, fromDefaults)
}

// ApplyEnv sobrescreve os campos com tag `env` cuja variável de ambiente está definida.
// Vazio sobrescreve campos string; nos demais tipos é tratado como ausente.
func ApplyEnv(target interface{}) error {
	return walk(target, fromEnvironment)
}

func walk(target interface{}, source tagSource) error {
	val := reflect.ValueOf(target)
	if !val.IsValid() {
		return &InvalidConfigError{}
	}
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return &InvalidConfigError{Value: val.Type()}
	}
	return walkStruct(val.Elem(), source)
}

func walkStruct(val reflect.Value, source tagSource) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		// Structs aninhadas são processadas recursivamente
		if field.Kind() == reflect.Struct {
			if err := walkStruct(field, source); err != nil {
				return err
			}
			continue
		}

		if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := walkStruct(field.Elem(), source); err != nil {
				return err
			}
			continue
		}

		envVar, raw, ok := source(fieldType)
		if envVar == "" || !ok {
			continue
		}
		if raw == "" && field.Kind() != reflect.String {
			continue
		}

		if err := setFieldValue(field, raw); err != nil {
			return &FieldError{
				FieldName: fieldType.Name,
				EnvVar:    envVar,
				Value:     raw,
				Err:       err,
			}
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(intValue)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintValue, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(uintValue)

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		field.SetBool(boolValue)

	default:
		return &UnsupportedTypeError{Type: field.Type()}
	}

	return nil
}
