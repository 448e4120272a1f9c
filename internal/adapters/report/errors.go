package report

import "errors"

// ErrWriteReport is wrapped by every failure to publish the output directory.
var ErrWriteReport = errors.New("write report")
