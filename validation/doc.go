// Package validation checks configuration structs with validator/v10 tags
// and offers a small fluent Validator for ad hoc input checks. Both report
// failures as *errors.AppError with code INVALID_INPUT.
package validation
