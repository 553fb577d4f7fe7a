package commands

import "errors"

var errCommandRejected = errors.New("command rejected")
