package validator

import (
	"log"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterGinValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		err := v.RegisterValidation("fsa", fsaValidator)
		if err != nil {
			log.Fatal("register fsa validator failed")
		}
	}
}

// FSAPattern matches a Forward Sortation Area: letter, digit, letter.
var FSAPattern = regexp.MustCompile(`^[A-Z]\d[A-Z]$`)

var fsaValidator validator.Func = func(fl validator.FieldLevel) bool {
	return FSAPattern.MatchString(fl.Field().String())
}
