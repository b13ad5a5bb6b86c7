// Package apiconnect holds the Connect handlers and clients for the bubbl.v1
// services. It plays the role of protoc-gen-connect-go output for the plain
// Go messages in package api.
package apiconnect

import (
	"connectrpc.com/connect"
	"github.com/goccy/go-json"
)

// codecName replaces Connect's default protojson codec for application/json.
const codecName = "json"

// Codec encodes api messages as JSON.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return codecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	// An empty body is an empty message.
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}
