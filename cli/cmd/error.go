package cmd

import "github.com/ardnew/defconf/lang"

// Command errors share the structured error type of the language package,
// so errors.Is matches them against these sentinels and loggers render
// their attributes.
var (
	ErrOpenSource  = lang.NewError("open source file")
	ErrWriteOutput = lang.NewError("write output")
	ErrWriteConfig = lang.NewError("write configuration file")
	ErrFileExists  = lang.NewError("file exists (use --force to overwrite)")
)
