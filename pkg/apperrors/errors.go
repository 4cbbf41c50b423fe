package apperrors

import "errors"

var (
	ErrSampleNotFound      = errors.New("demo sample not found")
	ErrNoSamplesConfigured = errors.New("no demo samples configured")
	ErrMissingCSVHeaders   = errors.New("CSV must have headers: table_name, column_name")
	ErrEmptyCSV            = errors.New("CSV has no data rows")
	ErrInvalidReviewAction = errors.New("invalid review action")
)
