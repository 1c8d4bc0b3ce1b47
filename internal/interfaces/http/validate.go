package http

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/dto"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator devuelve el validador compartido; los errores usan el nombre JSON del campo.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// bindJSON parsea el body en dst y aplica las reglas validate. Un body vacío deja dst
// en su valor cero cuando optional es true. Si falla escribe la respuesta 400 y devuelve ok=false.
func bindJSON(c *fiber.Ctx, dst any, optional bool) (ok bool, err error) {
	if len(c.Body()) > 0 || !optional {
		if err := c.BodyParser(dst); err != nil {
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if err := getValidator().Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return false, err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = ruleMessage(fe)
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Fields:  fields,
		})
	}
	return true, nil
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "debe ser al menos " + fe.Param()
	case "max":
		return "debe ser a lo sumo " + fe.Param()
	case "required":
		return "requerido"
	}
	return "no cumple " + fe.Tag()
}
