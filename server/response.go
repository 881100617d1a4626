package server

import (
	"net/http"
	"time"

	"github.com/Digital-Creators-Team/stakes-engine/errors"
	"github.com/Digital-Creators-Team/stakes-engine/middleware"
	"github.com/Digital-Creators-Team/stakes-engine/types"
	"github.com/gin-gonic/gin"
)

const ErrUndefinedErrorCode = -99

// ErrorResponse is an alias for types.ErrorResponse
type ErrorResponse = types.ErrorResponse

// SuccessResponse is a type alias for types.SuccessResponse[T]
type SuccessResponse[T any] = types.SuccessResponse[T]

// Success sends a success response
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, types.SuccessResponse[interface{}]{
		StatusCode: statusCode,
		IsSuccess:  true,
		Data:       data,
	})
}

// OK sends a 200 OK response
func OK(c *gin.Context, data interface{}) {
	Success(c, http.StatusOK, data)
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}) {
	Success(c, http.StatusCreated, data)
}

// Error sends an error response
func Error(c *gin.Context, statusCode int, err error) {
	errorMsg := err.Error()
	errCode := ErrUndefinedErrorCode
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		errorMsg = appErr.Message
		errCode = appErr.Code
	}

	c.JSON(statusCode, types.ErrorResponse{
		StatusCode: statusCode,
		IsSuccess:  false,
		Error: types.ErrorDetail{
			Timestamp:    time.Now().Format(time.RFC3339),
			Path:         c.Request.URL.Path,
			ErrorMessage: errorMsg,
			ErrorCode:    errCode,
			TraceID:      middleware.GetTraceID(c),
		},
	})
}

// ErrorWithMessage sends an error response with a custom message
func ErrorWithMessage(c *gin.Context, statusCode int, message string) {
	Error(c, statusCode, errors.New(ErrUndefinedErrorCode, message))
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, err)
}

// InternalError sends a 500 Internal Server Error response
func InternalError(c *gin.Context, err error) {
	Error(c, http.StatusInternalServerError, err)
}

// HandleAppError maps the error code to a status and sends the error response
func HandleAppError(c *gin.Context, err error) {
	if !errors.IsAppError(err) {
		InternalError(c, err)
		return
	}
	Error(c, errors.HTTPStatusFromCode(errors.GetCode(err)), err)
}
