package services

import "errors"

// Dashboard service errors
var (
	// ErrNoDataLoaded means there is neither an upload nor a readable
	// default file. The caller has to provide data before anything else
	// can be answered.
	ErrNoDataLoaded = errors.New("no test results are loaded")

	// ErrLoadFailed wraps loader and preprocessor failures.
	ErrLoadFailed = errors.New("failed to load test results")

	// ErrEmptyUpload rejects zero-byte uploads before they reach the parser.
	ErrEmptyUpload = errors.New("uploaded file is empty")
)
