package utils

import "errors"

const DefaultBlockSize = 1024
const ToolName = "diskdestroyer"

var ErrInvalidBlockSize = errors.New("block size must be at least 1 byte")
var ErrNoTargets = errors.New("no targets provided")
