package client

import "errors"

var (
	ErrClientClosed = errors.New("client is closed")
	ErrRejected     = errors.New("server rejected the request")
	ErrServer       = errors.New("server reported an error")
)
