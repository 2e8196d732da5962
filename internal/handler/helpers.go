package handler

import (
	"net/http"
	"reflect"

	"commet/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a domain error to its HTTP status by Kind. Errors without
// a Kind are treated as internal and handed to the error middleware.
func respondError(c *gin.Context, err error) {
	var status int
	switch apierror.KindOf(err) {
	case apierror.KindValidation:
		status = http.StatusUnprocessableEntity
	case apierror.KindNotFound:
		status = http.StatusNotFound
	case apierror.KindDuplicateKey,
		apierror.KindInvalidTransition,
		apierror.KindContratoCerrado,
		apierror.KindContratoNoPagado,
		apierror.KindComisionYaPagada,
		apierror.KindYaAnulada,
		apierror.KindReferenciadoLiquidado:
		status = http.StatusConflict
	case apierror.KindNadaPorLiquidar, apierror.KindMotivoRequerido:
		status = http.StatusBadRequest
	case apierror.KindUnauthorized:
		status = http.StatusUnauthorized
	case apierror.KindForbidden:
		status = http.StatusForbidden
	default:
		_ = c.Error(err)
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}

// pathID parses a UUID path parameter. A false return means the 400 response
// was already written.
func pathID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}
