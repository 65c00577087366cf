package validation

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// BindAndValidate decodes the JSON body into out and validates it. On failure it
// writes a 422 listing every offending field, decode and rule failures together, and
// returns the error so the handler can stop.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	raw, err := c.GetRawData()
	if err != nil {
		errs := Errors{{Field: "body", Message: err.Error()}}
		writeErrors(c, errs)
		return errs
	}

	errs := Decode(raw, out)
	if len(errs) > 0 && errs[0].Field == "body" {
		writeErrors(c, errs)
		return errs
	}
	if err := Validate(v, out); err != nil {
		errs = merge(errs, asErrors(err))
	}
	if len(errs) > 0 {
		writeErrors(c, errs)
		return errs
	}
	return nil
}

func writeErrors(c *gin.Context, errs Errors) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "validation_failed",
		"fields": errs,
	})
}

// merge appends rule failures, skipping those under a field that already failed to
// decode: a field left zero by a type error would otherwise also read as missing.
func merge(decodeErrs, ruleErrs Errors) Errors {
	out := append(Errors{}, decodeErrs...)
	for _, re := range ruleErrs {
		if !underAny(re.Field, decodeErrs) {
			out = append(out, re)
		}
	}
	return out
}

func underAny(field string, errs Errors) bool {
	for _, e := range errs {
		if field == e.Field || strings.HasPrefix(field, e.Field+".") || strings.HasPrefix(field, e.Field+"[") {
			return true
		}
	}
	return false
}
