package http

import "github.com/go-playground/validator/v10"

// validate is the shared request validator for all handlers.
var validate = validator.New()
