// internal/config/validator.go
//
// go-playground/validator instance for the config tree.
//
// Context
// -------
// `Load` calls `validateStruct` right after it unmarshals the merged Koanf
// tree.  Any validation error aborts startup, so the binary never runs with
// partial or malformed configuration.
//
// Custom rules
// ------------
//   • mysql_dsn – the value parses with go-sql-driver/mysql.ParseDSN.
//
// The built-in `timezone` rule checks App.Timezone against the tz database.

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("mysql_dsn", func(fl validator.FieldLevel) bool {
		_, err := mysql.ParseDSN(fl.Field().String())
		return err == nil
	})
	return val
}

// validateStruct returns the validation errors, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
