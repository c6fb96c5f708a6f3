package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func CreateError(status int, code, message string, ctx iris.Context) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Internal Server Error", "something went wrong, try again later", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "resource not found", ctx)
}

func CreateForbidden(ctx iris.Context) {
	CreateError(iris.StatusForbidden, "Forbidden", "you don't have permission to do that", ctx)
}

func CreateUsernameOrEmailTaken(ctx iris.Context) {
	CreateError(iris.StatusConflict, "Conflict", "username or email already registered", ctx)
}

type validationErrorField struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value,omitempty"`
}

// HandleValidationErrors turns validator failures into a 400 with per-field
// details; anything else that broke JSON reading gets a plain 400.
func HandleValidationErrors(err error, ctx iris.Context) {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		fields := make([]validationErrorField, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, validationErrorField{
				Field: e.Field(),
				Tag:   e.Tag(),
				Value: e.Param(),
			})
		}
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "Validation Error", "fields": fields})
		return
	}

	CreateError(iris.StatusBadRequest, "Bad Request", err.Error(), ctx)
}
